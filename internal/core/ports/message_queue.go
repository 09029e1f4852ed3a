package ports

import (
	"context"

	"github.com/GoArmGo/ConnectApp/internal/messaging/payloads"
)

// ConnectionEventPublisher публикует события жизненного цикла заявок.
// Используется usecase-слоем после успешной смены состояния.
type ConnectionEventPublisher interface {
	PublishConnectionEvent(ctx context.Context, event payloads.ConnectionEvent) error
}

// ConnectionEventConsumer используется воркером для получения событий из очереди
type ConnectionEventConsumer interface {
	// StartConsumingConnectionEvents начинает прослушивание очереди;
	// handler вызывается для каждого сообщения
	StartConsumingConnectionEvents(ctx context.Context, handler func(context.Context, payloads.ConnectionEvent) error) error
}
