package usecase

import (
	"context"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
)

// PostUseCase определяет бизнес-логику ленты: публикации, комментарии, лайки
type PostUseCase interface {
	// CreatePost создаёт публикацию; media необязательно и сохраняется в файловое хранилище
	CreatePost(ctx context.Context, userID uuid.UUID, body string, media *domain.Upload) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	// DeletePost удаляет публикацию вместе с комментариями, доступно только автору
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
	LikePost(ctx context.Context, postID uuid.UUID) (*domain.Post, error)

	AddComment(ctx context.Context, userID, postID uuid.UUID, body string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
	// DeleteComment доступно только автору комментария
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
}
