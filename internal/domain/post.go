package domain

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// Post — публикация пользователя в ленте
type Post struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	MediaURL  string    `json:"media" db:"media_url"`
	FileType  string    `json:"file_type" db:"file_type"`
	Likes     int       `json:"likes" db:"likes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// заполняются при выборке ленты
	AuthorName     string `json:"author_name,omitempty" db:"author_name"`
	AuthorUsername string `json:"author_username,omitempty" db:"author_username"`
	AuthorPicture  string `json:"author_picture,omitempty" db:"author_picture"`
}

// Comment — комментарий к публикации
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	AuthorName     string `json:"author_name,omitempty" db:"author_name"`
	AuthorUsername string `json:"author_username,omitempty" db:"author_username"`
}

// Upload — файл из multipart-запроса (медиа поста или аватар)
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
