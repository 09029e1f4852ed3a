package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const postSelect = `
	SELECT p.id, p.user_id, p.body, p.media_url, p.file_type, p.likes, p.created_at, p.updated_at,
	       u.name AS author_name, u.username AS author_username, u.profile_picture AS author_picture
	FROM posts p
	JOIN users u ON u.id = p.user_id`

const commentSelect = `
	SELECT c.id, c.post_id, c.user_id, c.body, c.created_at,
	       u.name AS author_name, u.username AS author_username
	FROM comments c
	JOIN users u ON u.id = c.user_id`

// PostStorage хранит публикации и комментарии
type PostStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostStorage(db *sqlx.DB, logger *slog.Logger) *PostStorage {
	return &PostStorage{db: db, logger: logger}
}

// CreatePost сохраняет публикацию
func (s *PostStorage) CreatePost(ctx context.Context, post *domain.Post) error {
	start := time.Now()

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, body, media_url, file_type, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		post.ID, post.UserID, post.Body, post.MediaURL, post.FileType, post.Likes, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to insert post", "user_id", post.UserID, "error", err)
		return fmt.Errorf("insert post: %w", err)
	}

	s.logger.Info("post saved",
		"id", post.ID,
		"user_id", post.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetPostByID получает публикацию вместе с данными автора
func (s *PostStorage) GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	if err := s.db.GetContext(ctx, &post, postSelect+` WHERE p.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get post", "id", id, "error", err)
		return nil, fmt.Errorf("select post: %w", err)
	}
	return &post, nil
}

// ListPosts возвращает ленту, новые публикации первыми
func (s *PostStorage) ListPosts(ctx context.Context) ([]domain.Post, error) {
	start := time.Now()

	posts := []domain.Post{}
	if err := s.db.SelectContext(ctx, &posts, postSelect+` ORDER BY p.created_at DESC`); err != nil {
		s.logger.Error("failed to list posts", "error", err)
		return nil, fmt.Errorf("select posts: %w", err)
	}

	s.logger.Debug("listed posts", "count", len(posts), "duration_ms", time.Since(start).Milliseconds())
	return posts, nil
}

// DeletePost удаляет публикацию; комментарии удаляются каскадно
func (s *PostStorage) DeletePost(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete post", "id", id, "error", err)
		return fmt.Errorf("delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete post %s: %w", id, domain.ErrNotFound)
	}
	s.logger.Info("post deleted", "id", id)
	return nil
}

// IncrementLikes атомарно увеличивает счётчик лайков
func (s *PostStorage) IncrementLikes(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET likes = likes + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to increment likes", "id", id, "error", err)
		return nil, fmt.Errorf("increment likes: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetPostByID(ctx, id)
}

// CreateComment сохраняет комментарий
func (s *PostStorage) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, user_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.PostID, comment.UserID, comment.Body, comment.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to insert comment", "post_id", comment.PostID, "error", err)
		return fmt.Errorf("insert comment: %w", err)
	}
	s.logger.Info("comment saved", "id", comment.ID, "post_id", comment.PostID)
	return nil
}

// GetCommentByID получает комментарий по ID
func (s *PostStorage) GetCommentByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := s.db.GetContext(ctx, &comment, commentSelect+` WHERE c.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get comment", "id", id, "error", err)
		return nil, fmt.Errorf("select comment: %w", err)
	}
	return &comment, nil
}

// ListComments возвращает комментарии к публикации в хронологическом порядке
func (s *PostStorage) ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	comments := []domain.Comment{}
	if err := s.db.SelectContext(ctx, &comments, commentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at`, postID); err != nil {
		s.logger.Error("failed to list comments", "post_id", postID, "error", err)
		return nil, fmt.Errorf("select comments: %w", err)
	}
	return comments, nil
}

// DeleteComment удаляет комментарий
func (s *PostStorage) DeleteComment(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		s.logger.Error("failed to delete comment", "id", id, "error", err)
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete comment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
