package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConnectionStatus — состояние заявки в друзья
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// Terminal сообщает, что из этого состояния переходов нет.
func (s ConnectionStatus) Terminal() bool {
	return s == ConnectionAccepted || s == ConnectionRejected
}

// Decision — решение получателя по заявке
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ParseDecision принимает как "accept"/"reject", так и итоговые статусы.
func ParseDecision(s string) (Decision, bool) {
	switch s {
	case "accept", "accepted":
		return DecisionAccept, true
	case "reject", "rejected":
		return DecisionReject, true
	}
	return "", false
}

// Status возвращает терминальный статус, к которому ведёт решение.
func (d Decision) Status() ConnectionStatus {
	if d == DecisionAccept {
		return ConnectionAccepted
	}
	return ConnectionRejected
}

// ConnectionRequest представляет заявку на установление связи между пользователями.
// Соответствует таблице connection_requests.
type ConnectionRequest struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	SenderID   uuid.UUID        `json:"sender_id" db:"sender_id"`
	ReceiverID uuid.UUID        `json:"receiver_id" db:"receiver_id"`
	Status     ConnectionStatus `json:"status" db:"status"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}
