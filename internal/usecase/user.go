package usecase

import (
	"context"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
)

// TokenIssuer выпускает сессионный токен для аутентифицированного пользователя
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// SignupInput — данные регистрации
type SignupInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// SigninInput — учётные данные для входа, достаточно username ИЛИ email
type SigninInput struct {
	Username string
	Email    string
	Password string
}

// UserWithProfile — пользователь вместе с профилем
type UserWithProfile struct {
	User    *domain.User    `json:"user"`
	Profile *domain.Profile `json:"profile"`
}

// UserUseCase определяет бизнес-логику учётных записей и профилей
type UserUseCase interface {
	// Signup создаёт пользователя и пустой профиль
	Signup(ctx context.Context, in SignupInput) (*UserWithProfile, error)

	// Signin проверяет пароль и возвращает подписанный токен.
	// Неизвестный пользователь и неверный пароль неразличимы для вызывающего.
	Signin(ctx context.Context, in SigninInput) (string, error)

	GetUserAndProfile(ctx context.Context, userID uuid.UUID) (*UserWithProfile, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error)

	// UpdateProfile заменяет поля профиля и все записи об образовании и работе
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd domain.ProfileUpdate) (*domain.Profile, error)

	UploadProfilePicture(ctx context.Context, userID uuid.UUID, file domain.Upload) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}
