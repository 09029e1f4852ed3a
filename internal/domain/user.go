package domain

import (
	"time"

	"github.com/google/uuid"
)

// User представляет модель пользователя в системе.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	ProfilePicture string    `json:"profile_picture" db:"profile_picture"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// UserUpdate — частичное обновление учётных данных, nil-поля не меняются.
type UserUpdate struct {
	Name     *string
	Username *string
	Email    *string
}

// Empty сообщает, что обновлять нечего.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Username == nil && u.Email == nil
}
