package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ConnectApp/internal/config"
	"github.com/GoArmGo/ConnectApp/internal/messaging/payloads"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventHandler обрабатывает одно событие заявки
type EventHandler func(context.Context, payloads.ConnectionEvent) error

// Client — клиент RabbitMQ: публикует и потребляет события заявок в друзья
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет durable-очередь событий
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("RabbitMQ connected", "queue", q.Name, "messages", q.Messages)
	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ connection", "error", err)
		}
	}
	c.logger.Info("RabbitMQ connection closed")
}

// PublishConnectionEvent реализует ports.ConnectionEventPublisher
func (c *Client) PublishConnectionEvent(ctx context.Context, event payloads.ConnectionEvent) error {
	msg, err := newPublishing(event)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.channel.PublishWithContext(publishCtx, "", c.queue.Name, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}
	c.logger.Debug("connection event published", "type", event.Type, "request_id", event.RequestID)
	return nil
}

// StartConsumingConnectionEvents реализует ports.ConnectionEventConsumer.
// Сообщения подтверждаются вручную; обработка идёт в отдельной горутине до отмены ctx.
func (c *Client) StartConsumingConnectionEvents(ctx context.Context, handler func(context.Context, payloads.ConnectionEvent) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}
	c.logger.Info("consumer registered", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("RabbitMQ delivery channel closed, stopping consumer")
					return
				}
				handleDelivery(ctx, msg, handler, c.logger)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()
	return nil
}

func newPublishing(event payloads.ConnectionEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event to JSON: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.RequestID.String(),
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}, nil
}

// handleDelivery декодирует сообщение и вызывает handler.
// Битое сообщение отбрасывается, ошибка обработки возвращает его в очередь.
func handleDelivery(ctx context.Context, msg amqp.Delivery, handler EventHandler, logger *slog.Logger) {
	var event payloads.ConnectionEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Error("malformed connection event", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			logger.Error("error NACKing message", "error", err)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		logger.Error("error processing connection event", "error", err, "request_id", event.RequestID)
		if err := msg.Nack(false, true); err != nil {
			logger.Error("error NACKing message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("error ACKing message", "error", err)
	}
}
