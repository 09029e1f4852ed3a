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

const connectionColumns = `id, sender_id, receiver_id, status, created_at, updated_at`

// ConnectionStorage хранит заявки в друзья в таблице connection_requests.
// Единственность активной заявки на пару обеспечивает частичный уникальный индекс
// uq_connection_requests_active_pair, а не код приложения.
type ConnectionStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewConnectionStorage(db *sqlx.DB, logger *slog.Logger) *ConnectionStorage {
	return &ConnectionStorage{db: db, logger: logger}
}

// CreateRequest сохраняет новую заявку
func (s *ConnectionStorage) CreateRequest(ctx context.Context, req *domain.ConnectionRequest) error {
	start := time.Now()

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	now := time.Now().UTC()
	req.CreatedAt, req.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO connection_requests (id, sender_id, receiver_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ID, req.SenderID, req.ReceiverID, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("active connection request already exists",
				"sender_id", req.SenderID,
				"receiver_id", req.ReceiverID,
			)
			return fmt.Errorf("insert connection request: %w", domain.ErrConflict)
		}
		s.logger.Error("failed to insert connection request", "sender_id", req.SenderID, "error", err)
		return fmt.Errorf("insert connection request: %w", err)
	}

	s.logger.Info("connection request saved",
		"id", req.ID,
		"sender_id", req.SenderID,
		"receiver_id", req.ReceiverID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetRequestByID получает заявку по ID
func (s *ConnectionStorage) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.ConnectionRequest, error) {
	var req domain.ConnectionRequest
	err := s.db.GetContext(ctx, &req, `SELECT `+connectionColumns+` FROM connection_requests WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get connection request", "id", id, "error", err)
		return nil, fmt.Errorf("select connection request: %w", err)
	}
	return &req, nil
}

// FindActiveRequestBetween ищет неотклонённую заявку между a и b в любом направлении
func (s *ConnectionStorage) FindActiveRequestBetween(ctx context.Context, a, b uuid.UUID) (*domain.ConnectionRequest, error) {
	var req domain.ConnectionRequest
	err := s.db.GetContext(ctx, &req, `
		SELECT `+connectionColumns+` FROM connection_requests
		WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		  AND status <> $3
		LIMIT 1`,
		a, b, domain.ConnectionRejected,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to find active connection request", "a", a, "b", b, "error", err)
		return nil, fmt.Errorf("select active connection request: %w", err)
	}
	return &req, nil
}

// UpdateRequestStatus выполняет условный переход from -> to.
// Если заявка уже не в состоянии from (например, её разрешили параллельно), возвращает (nil, nil).
func (s *ConnectionStorage) UpdateRequestStatus(ctx context.Context, id uuid.UUID, from, to domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	start := time.Now()

	var req domain.ConnectionRequest
	err := s.db.GetContext(ctx, &req, `
		UPDATE connection_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+connectionColumns,
		to, id, from,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to update connection request status", "id", id, "to", to, "error", err)
		return nil, fmt.Errorf("update connection request status: %w", err)
	}

	s.logger.Info("connection request status updated",
		"id", id,
		"from", from,
		"to", to,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &req, nil
}

// ListSentRequests возвращает заявки, отправленные пользователем, новые первыми
func (s *ConnectionStorage) ListSentRequests(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error) {
	return s.list(ctx, "sender_id", userID)
}

// ListReceivedRequests возвращает заявки, полученные пользователем, новые первыми
func (s *ConnectionStorage) ListReceivedRequests(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error) {
	return s.list(ctx, "receiver_id", userID)
}

func (s *ConnectionStorage) list(ctx context.Context, column string, userID uuid.UUID) ([]domain.ConnectionRequest, error) {
	start := time.Now()

	reqs := []domain.ConnectionRequest{}
	q := `SELECT ` + connectionColumns + ` FROM connection_requests WHERE ` + column + ` = $1 ORDER BY created_at DESC, id`
	if err := s.db.SelectContext(ctx, &reqs, q, userID); err != nil {
		s.logger.Error("failed to list connection requests", "by", column, "user_id", userID, "error", err)
		return nil, fmt.Errorf("select connection requests: %w", err)
	}

	s.logger.Debug("listed connection requests",
		"by", column,
		"user_id", userID,
		"count", len(reqs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return reqs, nil
}
