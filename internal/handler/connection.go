package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/usecase"
	"github.com/google/uuid"
)

// ConnectionHandler — обработчик HTTP-запросов заявок в друзья.
// Все маршруты требуют аутентификации.
type ConnectionHandler struct {
	connections usecase.ConnectionUseCase
	logger      *slog.Logger
}

func NewConnectionHandler(uc usecase.ConnectionUseCase, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: uc, logger: logger}
}

type sendConnectionRequest struct {
	ReceiverID string `json:"receiver_id"`
}

type connectionStatusRequest struct {
	RequestID string `json:"request_id"`
	Decision  string `json:"decision"`
}

func (h *ConnectionHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req sendConnectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "receiver_id must be a valid UUID", h.logger)
		return
	}

	created, err := h.connections.Send(r.Context(), userID, receiverID)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, created, h.logger)
}

func (h *ConnectionHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	reqs, err := h.connections.ListSent(r.Context(), userID)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, reqs, h.logger)
}

func (h *ConnectionHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	reqs, err := h.connections.ListReceived(r.Context(), userID)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, reqs, h.logger)
}

// Resolve — принять или отклонить входящую заявку
func (h *ConnectionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req connectionStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "request_id must be a valid UUID", h.logger)
		return
	}
	decision, ok := domain.ParseDecision(req.Decision)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "decision must be accept or reject", h.logger)
		return
	}

	updated, err := h.connections.Resolve(r.Context(), requestID, decision, userID)
	if err != nil {
		writeUsecaseError(w, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, updated, h.logger)
}
