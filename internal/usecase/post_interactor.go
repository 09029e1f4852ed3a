package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/GoArmGo/ConnectApp/internal/core/ports"
	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
)

type postUseCase struct {
	posts  ports.PostStorage
	files  ports.FileStorage
	logger *slog.Logger
}

// NewPostUseCase создает новый экземпляр PostUseCase
func NewPostUseCase(posts ports.PostStorage, files ports.FileStorage, logger *slog.Logger) PostUseCase {
	return &postUseCase{posts: posts, files: files, logger: logger}
}

func (uc *postUseCase) CreatePost(ctx context.Context, userID uuid.UUID, body string, media *domain.Upload) (*domain.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" && media == nil {
		return nil, fmt.Errorf("%w: post must have a body or media", domain.ErrValidation)
	}

	post := &domain.Post{
		ID:     uuid.New(),
		UserID: userID,
		Body:   body,
	}

	var mediaKey string
	if media != nil {
		contentType := media.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		mediaKey = fmt.Sprintf("posts/%s/%s%s", userID, post.ID, path.Ext(media.Filename))

		url, err := uc.files.UploadFile(ctx, mediaKey, media.Body, contentType)
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка загрузки медиа поста: %w", err)
		}
		post.MediaURL = url
		post.FileType = fileType(contentType)
	}

	if err := uc.posts.CreatePost(ctx, post); err != nil {
		if mediaKey != "" {
			if delErr := uc.files.DeleteFile(ctx, mediaKey); delErr != nil {
				uc.logger.Warn("failed to remove orphaned post media", "key", mediaKey, "error", delErr)
			}
		}
		return nil, fmt.Errorf("usecase: ошибка сохранения поста: %w", err)
	}

	uc.logger.Info("post created", "post_id", post.ID, "user_id", userID, "has_media", mediaKey != "")
	return post, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := uc.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения ленты: %w", err)
	}
	return posts, nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := uc.posts.GetPostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("usecase: ошибка получения поста %s: %w", postID, err)
	}
	if post == nil {
		return fmt.Errorf("%w: post %s", domain.ErrNotFound, postID)
	}
	if post.UserID != userID {
		return fmt.Errorf("%w: only the author can delete post %s", domain.ErrForbidden, postID)
	}

	if err := uc.posts.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("usecase: ошибка удаления поста %s: %w", postID, err)
	}
	uc.logger.Info("post deleted", "post_id", postID, "user_id", userID)
	return nil
}

func (uc *postUseCase) LikePost(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	post, err := uc.posts.IncrementLikes(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка обновления лайков поста %s: %w", postID, err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post %s", domain.ErrNotFound, postID)
	}
	return post, nil
}

func (uc *postUseCase) AddComment(ctx context.Context, userID, postID uuid.UUID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", domain.ErrValidation)
	}

	post, err := uc.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения поста %s: %w", postID, err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post %s", domain.ErrNotFound, postID)
	}

	comment := &domain.Comment{
		ID:     uuid.New(),
		PostID: postID,
		UserID: userID,
		Body:   body,
	}
	if err := uc.posts.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("usecase: ошибка сохранения комментария: %w", err)
	}
	return comment, nil
}

func (uc *postUseCase) ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	post, err := uc.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения поста %s: %w", postID, err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post %s", domain.ErrNotFound, postID)
	}

	comments, err := uc.posts.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения комментариев: %w", err)
	}
	return comments, nil
}

func (uc *postUseCase) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := uc.posts.GetCommentByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("usecase: ошибка получения комментария %s: %w", commentID, err)
	}
	if comment == nil {
		return fmt.Errorf("%w: comment %s", domain.ErrNotFound, commentID)
	}
	if comment.UserID != userID {
		return fmt.Errorf("%w: only the author can delete comment %s", domain.ErrForbidden, commentID)
	}

	if err := uc.posts.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("usecase: ошибка удаления комментария %s: %w", commentID, err)
	}
	return nil
}

// fileType возвращает подтип MIME: "image/png" -> "png"
func fileType(contentType string) string {
	contentType, _, _ = strings.Cut(contentType, ";")
	_, sub, ok := strings.Cut(contentType, "/")
	if !ok {
		return strings.TrimSpace(contentType)
	}
	return strings.TrimSpace(sub)
}
