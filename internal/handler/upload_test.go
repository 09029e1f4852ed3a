package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/logger"
	"github.com/GoArmGo/ConnectApp/internal/testsupport"
	"github.com/GoArmGo/ConnectApp/internal/usecase"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, fields map[string]string, fileField, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newPostHandler(t *testing.T, limiter chan struct{}, maxBytes int64) (*PostHandler, *testsupport.Files) {
	t.Helper()
	files := testsupport.NewFiles()
	uc := usecase.NewPostUseCase(testsupport.NewStore(), files, logger.Discard())
	return NewPostHandler(uc, NewUploads(limiter, maxBytes), logger.Discard()), files
}

func TestCreatePost_WithMedia(t *testing.T) {
	h, files := newPostHandler(t, make(chan struct{}, 1), 1<<20)
	userID := uuid.New()

	body, ct := multipartBody(t, map[string]string{"body": "hello"}, "media", "cat.png", "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/create/post", body)
	req.Header.Set("Content-Type", ct)
	req = req.WithContext(WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()

	h.CreatePost(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post domain.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "hello", post.Body)
	assert.Equal(t, "png", post.FileType)
	assert.Equal(t, userID, post.UserID)
	assert.Len(t, files.Objects, 1)
}

func TestCreatePost_TooLarge(t *testing.T) {
	h, files := newPostHandler(t, make(chan struct{}, 1), 512)

	body, ct := multipartBody(t, map[string]string{"body": "big"}, "media", "big.bin", "application/octet-stream", bytes.Repeat([]byte("x"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/create/post", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.CreatePost(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, files.Objects)
}

func TestCreatePost_UploadSlotsBusy(t *testing.T) {
	limiter := make(chan struct{}, 1)
	limiter <- struct{}{}
	h, _ := newPostHandler(t, limiter, 1<<20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	body, ct := multipartBody(t, map[string]string{"body": "hello"}, "", "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/create/post", body).WithContext(ctx)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.CreatePost(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Len(t, limiter, 1)
}

func TestCreatePost_SlotReleased(t *testing.T) {
	limiter := make(chan struct{}, 1)
	h, _ := newPostHandler(t, limiter, 1<<20)

	for i := 0; i < 2; i++ {
		body, ct := multipartBody(t, map[string]string{"body": "text only"}, "", "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/create/post", body)
		req.Header.Set("Content-Type", ct)
		req = req.WithContext(WithUserID(req.Context(), uuid.New()))
		rec := httptest.NewRecorder()

		h.CreatePost(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	assert.Empty(t, limiter)
}
