package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUsecaseError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: name too short", domain.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("%w: not yours", domain.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: user", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("usecase: %w", fmt.Errorf("insert: %w", domain.ErrConflict)), http.StatusConflict},
		{fmt.Errorf("%w: already accepted", domain.ErrInvalidState), http.StatusConflict},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeUsecaseError(rec, tc.err, logger.Discard())
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestWriteUsecaseError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeUsecaseError(rec, errors.New("pq: password authentication failed for user app"), logger.Discard())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		A string `json:"a"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"x","extra":1}`))
	require.NoError(t, decodeJSON(req, &dst))
	assert.Equal(t, "x", dst.A)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, decodeJSON(req, &dst), domain.ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	assert.ErrorIs(t, decodeJSON(req, &dst), domain.ErrValidation)
}
