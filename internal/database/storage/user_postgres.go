package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, username, email, password_hash, profile_picture, created_at, updated_at`

// UserStorage реализует интерфейс ports.UserStorage поверх sqlx
type UserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// CreateUserWithProfile создаёт пользователя и его пустой профиль в одной транзакции.
// Занятый username или email даёт domain.ErrConflict.
func (s *UserStorage) CreateUserWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	start := time.Now()

	now := time.Now().UTC()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.UserID = user.ID
	profile.CreatedAt, profile.UpdatedAt = now, now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, username, email, password_hash, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Name, user.Username, user.Email, user.PasswordHash, user.ProfilePicture, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("username or email already taken", "username", user.Username)
			return fmt.Errorf("insert user: %w", domain.ErrConflict)
		}
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, bio, current_post, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		profile.ID, profile.UserID, profile.Bio, profile.CurrentPost, profile.Location, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to insert profile", "user_id", user.ID, "error", err)
		return fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user: %w", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByID получает пользователя по ID
func (s *UserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get user by id", "id", id, "error", err)
		return nil, fmt.Errorf("select user by id: %w", err)
	}
	return &user, nil
}

// GetUserByLogin ищет пользователя по username или email; пустые значения не участвуют в поиске
func (s *UserStorage) GetUserByLogin(ctx context.Context, username, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `
		SELECT `+userColumns+` FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		LIMIT 1`,
		username, email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get user by login", "username", username, "error", err)
		return nil, fmt.Errorf("select user by login: %w", err)
	}
	return &user, nil
}

// UpdateUser обновляет только переданные поля
func (s *UserStorage) UpdateUser(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	start := time.Now()

	var (
		sets []string
		args []any
	)
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("name", upd.Name)
	add("username", upd.Username)
	add("email", upd.Email)
	if len(sets) == 0 {
		return s.GetUserByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	var user domain.User
	if err := s.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update user: %w", domain.ErrConflict)
		}
		s.logger.Error("failed to update user", "id", id, "error", err)
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user updated",
		"user_id", id,
		"fields", len(sets)-1,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}

// UpdateProfilePicture сохраняет ссылку на новый аватар
func (s *UserStorage) UpdateProfilePicture(ctx context.Context, id uuid.UUID, pictureURL string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `
		UPDATE users SET profile_picture = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns,
		pictureURL, id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to update profile picture", "id", id, "error", err)
		return nil, fmt.Errorf("update profile picture: %w", err)
	}
	return &user, nil
}

// ListUsers возвращает всех пользователей в порядке регистрации
func (s *UserStorage) ListUsers(ctx context.Context) ([]domain.User, error) {
	start := time.Now()

	users := []domain.User{}
	if err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at`); err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("select users: %w", err)
	}

	s.logger.Debug("listed users",
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}
