package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Методы Get* возвращают (nil, nil), если пользователь не найден.
type UserStorage interface {
	// CreateUserWithProfile атомарно создаёт пользователя и его пустой профиль
	CreateUserWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetUserByLogin ищет пользователя по username ИЛИ email
	GetUserByLogin(ctx context.Context, username, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error)
	UpdateProfilePicture(ctx context.Context, id uuid.UUID, pictureURL string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// ProfileStorage определяет методы для работы с профилями
type ProfileStorage interface {
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	// ReplaceProfile обновляет поля профиля и в одной транзакции заменяет
	// все записи об образовании и работе на переданные
	ReplaceProfile(ctx context.Context, userID uuid.UUID, upd domain.ProfileUpdate) (*domain.Profile, error)
}

// ConnectionStorage определяет методы для работы с заявками в друзья.
// CreateRequest возвращает domain.ErrConflict, если для пары уже есть активная заявка.
type ConnectionStorage interface {
	CreateRequest(ctx context.Context, req *domain.ConnectionRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.ConnectionRequest, error)
	FindActiveRequestBetween(ctx context.Context, a, b uuid.UUID) (*domain.ConnectionRequest, error)
	// UpdateRequestStatus меняет статус только если текущий равен from,
	// иначе возвращает (nil, nil)
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, from, to domain.ConnectionStatus) (*domain.ConnectionRequest, error)
	ListSentRequests(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error)
	ListReceivedRequests(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error)
}

// PostStorage определяет методы для работы с публикациями и комментариями
type PostStorage interface {
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	IncrementLikes(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetCommentByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (MinIO / S3)
type FileStorage interface {
	// UploadFile загружает файл и возвращает его публичный URL
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}
