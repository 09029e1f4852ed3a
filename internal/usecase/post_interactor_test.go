package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("with media", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "alice")

		post, err := f.posts.CreatePost(ctx, alice.ID, " hello ", &domain.Upload{
			Filename: "cat.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpeg"),
		})
		require.NoError(t, err)
		assert.Equal(t, "hello", post.Body)
		assert.Equal(t, "jpeg", post.FileType)
		assert.Contains(t, post.MediaURL, "posts/"+alice.ID.String())
		assert.Len(t, f.files.Objects, 1)
	})

	t.Run("text only", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "alice")

		post, err := f.posts.CreatePost(ctx, alice.ID, "just text", nil)
		require.NoError(t, err)
		assert.Empty(t, post.MediaURL)
		assert.Empty(t, f.files.Objects)
	})

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.posts.CreatePost(ctx, uuid.New(), "   ", nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("media removed when post is not saved", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "alice")
		f.store.Err = errors.New("db down")

		_, err := f.posts.CreatePost(ctx, alice.ID, "x", &domain.Upload{
			Filename: "a.png", ContentType: "image/png", Body: strings.NewReader("png"),
		})
		require.Error(t, err)
		assert.Empty(t, f.files.Objects)
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	post, err := f.posts.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)
	_, err = f.posts.AddComment(ctx, bob.ID, post.ID, "nice")
	require.NoError(t, err)

	err = f.posts.DeletePost(ctx, bob.ID, post.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.posts.DeletePost(ctx, alice.ID, post.ID))

	err = f.posts.DeletePost(ctx, alice.ID, post.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.posts.ListComments(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPosts_NewestFirstWithAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signup(t, "alice")

	_, err := f.posts.CreatePost(ctx, alice.ID, "first", nil)
	require.NoError(t, err)
	_, err = f.posts.CreatePost(ctx, alice.ID, "second", nil)
	require.NoError(t, err)

	posts, err := f.posts.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Body)
	assert.Equal(t, "alice", posts[0].AuthorUsername)
}

func TestComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.signup(t, "alice"), f.signup(t, "bob")

	post, err := f.posts.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)

	_, err = f.posts.AddComment(ctx, bob.ID, post.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.posts.AddComment(ctx, bob.ID, uuid.New(), "hi")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := f.posts.AddComment(ctx, bob.ID, post.ID, "first!")
	require.NoError(t, err)
	_, err = f.posts.AddComment(ctx, alice.ID, post.ID, "thanks")
	require.NoError(t, err)

	comments, err := f.posts.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first!", comments[0].Body)
	assert.Equal(t, "bob", comments[0].AuthorUsername)

	assert.ErrorIs(t, f.posts.DeleteComment(ctx, alice.ID, first.ID), domain.ErrForbidden)
	require.NoError(t, f.posts.DeleteComment(ctx, bob.ID, first.ID))
	assert.ErrorIs(t, f.posts.DeleteComment(ctx, bob.ID, first.ID), domain.ErrNotFound)
}

func TestLikePost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signup(t, "alice")

	post, err := f.posts.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)

	_, err = f.posts.LikePost(ctx, post.ID)
	require.NoError(t, err)
	liked, err := f.posts.LikePost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)

	_, err = f.posts.LikePost(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "png", fileType("image/png"))
	assert.Equal(t, "mp4", fileType("video/mp4; codecs=avc1"))
	assert.Equal(t, "octet", fileType("octet"))
}
