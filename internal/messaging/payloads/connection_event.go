package payloads

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий заявок
const (
	EventConnectionRequested = "connection.requested"
	EventConnectionAccepted  = "connection.accepted"
	EventConnectionRejected  = "connection.rejected"
)

// ConnectionEvent передаётся через RabbitMQ от сервера к воркеру уведомлений.
type ConnectionEvent struct {
	Type       string    `json:"type"`
	RequestID  uuid.UUID `json:"request_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Recipient возвращает пользователя, которого нужно уведомить:
// получателя для новой заявки и отправителя для принятой/отклонённой.
func (e ConnectionEvent) Recipient() uuid.UUID {
	if e.Type == EventConnectionRequested {
		return e.ReceiverID
	}
	return e.SenderID
}
