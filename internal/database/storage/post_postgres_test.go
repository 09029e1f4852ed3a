package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postCols = []string{"id", "user_id", "body", "media_url", "file_type", "likes", "created_at", "updated_at",
	"author_name", "author_username", "author_picture"}

func TestIncrementLikes(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStorage(db, logger.Discard())
	id, author := uuid.New(), uuid.New()
	now := time.Now()

	t.Run("existing post", func(t *testing.T) {
		mock.ExpectExec(`UPDATE posts SET likes = likes \+ 1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`FROM posts p\s+JOIN users u ON u.id = p.user_id WHERE p.id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(postCols).
				AddRow(id.String(), author.String(), "hello", "", "", 3, now, now, "Alice", "alice", ""))

		post, err := s.IncrementLikes(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, 3, post.Likes)
		assert.Equal(t, "alice", post.AuthorUsername)
	})

	t.Run("missing post", func(t *testing.T) {
		mock.ExpectExec(`UPDATE posts SET likes = likes \+ 1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		post, err := s.IncrementLikes(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, post)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePost_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStorage(db, logger.Discard())
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeletePost(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListComments(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStorage(db, logger.Discard())
	postID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM comments c\s+JOIN users u ON u.id = c.user_id WHERE c.post_id = \$1 ORDER BY c.created_at`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "body", "created_at", "author_name", "author_username"}).
			AddRow(uuid.NewString(), postID.String(), uuid.NewString(), "first", now, "Bob", "bob"))

	comments, err := s.ListComments(context.Background(), postID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, postID, comments[0].PostID)
	require.NoError(t, mock.ExpectationsWereMet())
}
