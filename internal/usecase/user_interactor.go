package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/GoArmGo/ConnectApp/internal/auth"
	"github.com/GoArmGo/ConnectApp/internal/core/ports"
	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
)

const (
	minNameLen     = 3
	maxNameLen     = 50
	minPasswordLen = 6
)

type userUseCase struct {
	users    ports.UserStorage
	profiles ports.ProfileStorage
	files    ports.FileStorage
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(
	users ports.UserStorage,
	profiles ports.ProfileStorage,
	files ports.FileStorage,
	tokens TokenIssuer,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		users:    users,
		profiles: profiles,
		files:    files,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *userUseCase) Signup(ctx context.Context, in SignupInput) (*UserWithProfile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validateName("name", in.Name); err != nil {
		return nil, err
	}
	if err := validateName("username", in.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	existing, err := uc.users.GetUserByLogin(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка проверки существующего пользователя: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username or email already taken", domain.ErrConflict)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	profile := &domain.Profile{ID: uuid.New(), UserID: user.ID}

	// гонка двух регистраций закрывается уникальными индексами users
	if err := uc.users.CreateUserWithProfile(ctx, user, profile); err != nil {
		return nil, fmt.Errorf("usecase: ошибка создания пользователя: %w", err)
	}

	uc.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	return &UserWithProfile{User: user, Profile: profile}, nil
}

func (uc *userUseCase) Signin(ctx context.Context, in SigninInput) (string, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" && email == "" {
		return "", fmt.Errorf("%w: username or email is required", domain.ErrValidation)
	}
	if in.Password == "" {
		return "", fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	user, err := uc.users.GetUserByLogin(ctx, username, email)
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка поиска пользователя: %w", err)
	}
	if user == nil {
		uc.logger.Info("signin rejected: unknown user", "username", username, "email", email)
		return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, in.Password)
	if err != nil {
		return "", fmt.Errorf("usecase: %w", err)
	}
	if !ok {
		uc.logger.Info("signin rejected: wrong password", "user_id", user.ID)
		return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка выпуска токена: %w", err)
	}
	uc.logger.Info("user signed in", "user_id", user.ID)
	return token, nil
}

func (uc *userUseCase) GetUserAndProfile(ctx context.Context, userID uuid.UUID) (*UserWithProfile, error) {
	user, err := uc.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения пользователя %s: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}

	profile, err := uc.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения профиля %s: %w", userID, err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile of user %s", domain.ErrNotFound, userID)
	}
	return &UserWithProfile{User: user, Profile: profile}, nil
}

func (uc *userUseCase) UpdateUser(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if upd.Name != nil {
		*upd.Name = strings.TrimSpace(*upd.Name)
		if err := validateName("name", *upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.Username != nil {
		*upd.Username = strings.TrimSpace(*upd.Username)
		if err := validateName("username", *upd.Username); err != nil {
			return nil, err
		}
	}
	if upd.Email != nil {
		*upd.Email = strings.TrimSpace(*upd.Email)
		if err := validateEmail(*upd.Email); err != nil {
			return nil, err
		}
	}

	user, err := uc.users.UpdateUser(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка обновления пользователя %s: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	return user, nil
}

func (uc *userUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, upd domain.ProfileUpdate) (*domain.Profile, error) {
	for i, e := range upd.Education {
		if strings.TrimSpace(e.School) == "" {
			return nil, fmt.Errorf("%w: education[%d].school is required", domain.ErrValidation, i)
		}
	}
	for i, w := range upd.PastWork {
		if strings.TrimSpace(w.Company) == "" {
			return nil, fmt.Errorf("%w: past_work[%d].company is required", domain.ErrValidation, i)
		}
	}

	profile, err := uc.profiles.ReplaceProfile(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка обновления профиля %s: %w", userID, err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile of user %s", domain.ErrNotFound, userID)
	}
	return profile, nil
}

func (uc *userUseCase) UploadProfilePicture(ctx context.Context, userID uuid.UUID, file domain.Upload) (*domain.User, error) {
	if !strings.HasPrefix(file.ContentType, "image/") {
		return nil, fmt.Errorf("%w: profile picture must be an image", domain.ErrValidation)
	}

	key := fmt.Sprintf("profile-pictures/%s/%s%s", userID, uuid.New(), path.Ext(file.Filename))
	url, err := uc.files.UploadFile(ctx, key, file.Body, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка загрузки аватара: %w", err)
	}

	user, err := uc.users.UpdateProfilePicture(ctx, userID, url)
	if err != nil || user == nil {
		// файл без владельца не нужен
		if delErr := uc.files.DeleteFile(ctx, key); delErr != nil {
			uc.logger.Warn("failed to remove orphaned profile picture", "key", key, "error", delErr)
		}
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка сохранения аватара: %w", err)
		}
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	uc.logger.Info("profile picture updated", "user_id", userID, "key", key)
	return user, nil
}

func (uc *userUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := uc.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения списка пользователей: %w", err)
	}
	return users, nil
}

func validateName(field, value string) error {
	n := utf8.RuneCountInString(value)
	if n < minNameLen || n > maxNameLen {
		return fmt.Errorf("%w: %s must be %d..%d characters", domain.ErrValidation, field, minNameLen, maxNameLen)
	}
	return nil
}

func validateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email is invalid", domain.ErrValidation)
	}
	return nil
}
