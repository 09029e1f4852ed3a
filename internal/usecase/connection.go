package usecase

import (
	"context"

	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/google/uuid"
)

// ConnectionUseCase управляет жизненным циклом заявок в друзья:
// pending -> accepted | rejected. Принятая и отклонённая заявки больше не меняются.
type ConnectionUseCase interface {
	// Send создаёт заявку в состоянии pending. Для одной пары пользователей
	// может существовать не более одной неотклонённой заявки.
	Send(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.ConnectionRequest, error)

	// Resolve переводит заявку в итоговое состояние. Разрешено только получателю.
	Resolve(ctx context.Context, requestID uuid.UUID, decision domain.Decision, actingUserID uuid.UUID) (*domain.ConnectionRequest, error)

	// ListSent и ListReceived возвращают все заявки пользователя, новые первыми
	ListSent(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]domain.ConnectionRequest, error)
}
