package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/ConnectApp/internal/auth"
	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/logger"
	"github.com/GoArmGo/ConnectApp/internal/testsupport"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *testsupport.Store
	files     *testsupport.Files
	publisher *testsupport.Publisher
	tokens    *auth.TokenManager

	users       UserUseCase
	connections ConnectionUseCase
	posts       PostUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := auth.NewTokenManager("test-secret", 0)
	require.NoError(t, err)

	f := &fixture{
		store:     testsupport.NewStore(),
		files:     testsupport.NewFiles(),
		publisher: &testsupport.Publisher{},
		tokens:    tokens,
	}
	log := logger.Discard()
	f.users = NewUserUseCase(f.store, f.store, f.files, tokens, log)
	f.connections = NewConnectionUseCase(f.store, f.store, f.publisher, log)
	f.posts = NewPostUseCase(f.store, f.files, log)
	return f
}

// signup регистрирует пользователя с паролем "password"
func (f *fixture) signup(t *testing.T, username string) *domain.User {
	t.Helper()
	res, err := f.users.Signup(context.Background(), SignupInput{
		Name:     "User " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "password",
	})
	require.NoError(t, err)
	return res.User
}
