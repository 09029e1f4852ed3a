package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/ConnectApp/internal/domain"
)

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// writeUsecaseError переводит вид ошибки usecase-слоя в HTTP-статус.
// Детали непредвиденных ошибок клиенту не отдаются.
func writeUsecaseError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var code int
	switch {
	case errors.Is(err, domain.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidState):
		code = http.StatusConflict
	default:
		logger.Error("internal error", "error", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error", logger)
		return
	}

	logger.Info("request rejected", "status", code, "reason", err.Error())
	respondWithError(w, code, err.Error(), logger)
}

// decodeJSON читает тело запроса в dst. Неизвестные поля игнорируются.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrValidation)
		}
		return fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	}
	return nil
}
