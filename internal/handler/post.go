package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/ConnectApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PostHandler — обработчик HTTP-запросов ленты.
type PostHandler struct {
	posts   usecase.PostUseCase
	uploads *Uploads
	logger  *slog.Logger
}

func NewPostHandler(uc usecase.PostUseCase, uploads *Uploads, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: uc, uploads: uploads, logger: logger}
}

type postIDRequest struct {
	PostID string `json:"post_id"`
}

type commentRequest struct {
	PostID string `json:"post_id"`
	Body   string `json:"body"`
}

type commentIDRequest struct {
	CommentID string `json:"comment_id"`
}

// CreatePost принимает multipart: поле body и необязательный файл media
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	release, err := h.uploads.acquire(r)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, err.Error(), h.logger)
		return
	}
	defer release()

	if err := h.uploads.parse(w, r); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	defer h.uploads.cleanup(r)

	media, closeMedia, err := h.uploads.file(r, "media")
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	defer closeMedia()

	post, err := h.posts.CreatePost(r.Context(), userID, r.FormValue("body"), media)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, post, h.logger)
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPosts(r.Context())
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, posts, h.logger)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req postIDRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "post_id must be a valid UUID", h.logger)
		return
	}

	if err := h.posts.DeletePost(r.Context(), userID, postID); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "post deleted"}, h.logger)
}

func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	var req postIDRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "post_id must be a valid UUID", h.logger)
		return
	}

	post, err := h.posts.LikePost(r.Context(), postID)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, post, h.logger)
}

func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "post_id must be a valid UUID", h.logger)
		return
	}

	comment, err := h.posts.AddComment(r.Context(), userID, postID, req.Body)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, comment, h.logger)
}

func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "postId must be a valid UUID", h.logger)
		return
	}

	comments, err := h.posts.ListComments(r.Context(), postID)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, comments, h.logger)
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req commentIDRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	commentID, err := uuid.Parse(req.CommentID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "comment_id must be a valid UUID", h.logger)
		return
	}

	if err := h.posts.DeleteComment(r.Context(), userID, commentID); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"}, h.logger)
}
