package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/ConnectApp/internal/core/ports"
	"github.com/GoArmGo/ConnectApp/internal/domain"
	"github.com/GoArmGo/ConnectApp/internal/messaging/payloads"
	"github.com/GoArmGo/ConnectApp/internal/usecase"
)

// runWorker потребляет события заявок и блокируется до отмены ctx
func runWorker(
	ctx context.Context,
	users usecase.UserUseCase,
	consumer ports.ConnectionEventConsumer,
	logger *slog.Logger,
) error {
	if err := consumer.StartConsumingConnectionEvents(ctx, notifyConnectionEvent(users, logger)); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}
	logger.Info("worker started, waiting for connection events")

	<-ctx.Done()
	logger.Info("worker stopped")
	return nil
}

// notifyConnectionEvent возвращает обработчик, уведомляющий адресата события.
// Событие для удалённого пользователя подтверждается без уведомления.
func notifyConnectionEvent(users usecase.UserUseCase, logger *slog.Logger) func(context.Context, payloads.ConnectionEvent) error {
	return func(ctx context.Context, event payloads.ConnectionEvent) error {
		recipientID := event.Recipient()

		recipient, err := users.GetUserAndProfile(ctx, recipientID)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("notification recipient not found", "user_id", recipientID, "request_id", event.RequestID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("получение адресата %s: %w", recipientID, err)
		}

		logger.Info("connection notification",
			"type", event.Type,
			"request_id", event.RequestID,
			"recipient_id", recipientID,
			"recipient_email", recipient.User.Email,
			"message", notificationText(event),
		)
		return nil
	}
}

func notificationText(event payloads.ConnectionEvent) string {
	switch event.Type {
	case payloads.EventConnectionRequested:
		return "you have a new connection request"
	case payloads.EventConnectionAccepted:
		return "your connection request was accepted"
	case payloads.EventConnectionRejected:
		return "your connection request was declined"
	default:
		return "connection request updated"
	}
}
