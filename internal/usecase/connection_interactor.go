package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ConnectApp/internal/core/ports"
	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

type connectionUseCase struct {
	requests  ports.ConnectionStorage
	users     ports.UserStorage
	publisher ports.ConnectionEventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewConnectionUseCase создает новый экземпляр ConnectionUseCase.
// publisher может быть nil, тогда события не публикуются.
func NewConnectionUseCase(
	requests ports.ConnectionStorage,
	users ports.UserStorage,
	publisher ports.ConnectionEventPublisher,
	logger *slog.Logger,
) ConnectionUseCase {
	return &connectionUseCase{
		requests:  requests,
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *connectionUseCase) Send(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.ConnectionRequest, error) {
	if receiverID == uuid.Nil {
		return nil, fmt.Errorf("%w: receiver id is required", domain.ErrValidation)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot send a connection request to yourself", domain.ErrValidation)
	}

	receiver, err := uc.users.GetUserByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения получателя %s: %w", receiverID, err)
	}
	if receiver == nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, receiverID)
	}

	// быстрый отказ; окончательно дубликаты отсекает уникальный индекс
	active, err := uc.requests.FindActiveRequestBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка поиска активной заявки: %w", err)
	}
	if active != nil {
		return nil, fmt.Errorf("%w: connection request %s is already %s", domain.ErrConflict, active.ID, active.Status)
	}

	req := &domain.ConnectionRequest{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     domain.ConnectionPending,
	}
	if err := uc.requests.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("usecase: ошибка создания заявки: %w", err)
	}

	uc.logger.Info("connection request sent",
		"request_id", req.ID,
		"sender_id", senderID,
		"receiver_id", receiverID,
	)
	uc.publish(ctx, payloads.EventConnectionRequested, req)
	return req, nil
}

func (uc *connectionUseCase) Resolve(ctx context.Context, requestID uuid.UUID, decision domain.Decision, actingUserID uuid.UUID) (*domain.ConnectionRequest, error) {
	if decision != domain.DecisionAccept && decision != domain.DecisionReject {
		return nil, fmt.Errorf("%w: decision must be accept or reject", domain.ErrValidation)
	}

	req, err := uc.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения заявки %s: %w", requestID, err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: connection request %s", domain.ErrNotFound, requestID)
	}
	if req.ReceiverID != actingUserID {
		return nil, fmt.Errorf("%w: only the receiver can resolve connection request %s", domain.ErrForbidden, requestID)
	}
	if req.Status != domain.ConnectionPending {
		return nil, fmt.Errorf("%w: connection request %s is already %s", domain.ErrInvalidState, requestID, req.Status)
	}

	updated, err := uc.requests.UpdateRequestStatus(ctx, requestID, domain.ConnectionPending, decision.Status())
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка обновления заявки %s: %w", requestID, err)
	}
	if updated == nil {
		// параллельный запрос успел перевести заявку раньше
		return nil, fmt.Errorf("%w: connection request %s is no longer pending", domain.ErrInvalidState, requestID)
	}

	uc.logger.Info("connection request resolved",
		"request_id", updated.ID,
		"status", updated.Status,
		"receiver_id", actingUserID,
	)
	eventType := payloads.EventConnectionRejected
	if updated.Status == domain.ConnectionAccepted {
		eventType = payloads.EventConnectionAccepted
	}
	uc.publish(ctx, eventType, updated)
	return updated, nil
}

func (uc *connectionUseCase) ListSent(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error) {
	reqs, err := uc.requests.ListSentRequests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения отправленных заявок: %w", err)
	}
	return reqs, nil
}

func (uc *connectionUseCase) ListReceived(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error) {
	reqs, err := uc.requests.ListReceivedRequests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка получения входящих заявок: %w", err)
	}
	return reqs, nil
}

// publish отправляет событие в очередь. Ошибка публикации не влияет на результат операции.
func (uc *connectionUseCase) publish(ctx context.Context, eventType string, req *domain.ConnectionRequest) {
	if uc.publisher == nil {
		return
	}
	event := payloads.ConnectionEvent{
		Type:       eventType,
		RequestID:  req.ID,
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Status:     string(req.Status),
		OccurredAt: uc.now().UTC(),
	}
	if err := uc.publisher.PublishConnectionEvent(ctx, event); err != nil {
		uc.logger.Warn("failed to publish connection event",
			"type", eventType,
			"request_id", req.ID,
			"error", err,
		)
	}
}
