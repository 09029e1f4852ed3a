package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/usecase"
)

// UserHandler — обработчик HTTP-запросов учётных записей и профилей.
type UserHandler struct {
	users   usecase.UserUseCase
	uploads *Uploads
	logger  *slog.Logger
}

func NewUserHandler(uc usecase.UserUseCase, uploads *Uploads, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: uc, uploads: uploads, logger: logger}
}

type signupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type updateProfileRequest struct {
	Bio         string               `json:"bio"`
	CurrentPost string               `json:"current_post"`
	Location    string               `json:"location"`
	Education   []domain.Education   `json:"education"`
	PastWork    []domain.WorkHistory `json:"past_work"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}

	res, err := h.users.Signup(r.Context(), usecase.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, res, h.logger)
}

// Signin — вход по username или email, в ответе подписанный токен
func (h *UserHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}

	token, err := h.users.Signin(r.Context(), usecase.SigninInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "signed in successfully",
		"token":   token,
	}, h.logger)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), userID, domain.UserUpdate{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

func (h *UserHandler) GetUserAndProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	res, err := h.users.GetUserAndProfile(r.Context(), userID)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, res, h.logger)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}

	profile, err := h.users.UpdateProfile(r.Context(), userID, domain.ProfileUpdate{
		Bio:         req.Bio,
		CurrentPost: req.CurrentPost,
		Location:    req.Location,
		Education:   req.Education,
		PastWork:    req.PastWork,
	})
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, profile, h.logger)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, users, h.logger)
}

// UploadProfilePicture принимает multipart-поле profile_picture
func (h *UserHandler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
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

	file, closeFile, err := h.uploads.file(r, "profile_picture")
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	defer closeFile()
	if file == nil {
		respondWithError(w, http.StatusBadRequest, "no file uploaded", h.logger)
		return
	}

	user, err := h.users.UploadProfilePicture(r.Context(), userID, *file)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}
