package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/messaging/payloads"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// ErrConsumerClosed означает, что брокер закрыл канал доставки
var ErrConsumerClosed = errors.New("RabbitMQ delivery channel closed")

// EventHandler обрабатывает одно событие о рецепте
type EventHandler func(context.Context, payloads.RecipeEvent) error

// Client представляет собой клиент RabbitMQ.
// Реализует ports.RecipeEventPublisher и ports.RecipeEventConsumer.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь событий
func NewClient(url, queueName string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Объявление очереди идемпотентно
	q, err := ch.QueueDeclare(
		queueName,
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

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() error {
	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ channel", "error", err)
			firstErr = err
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ connection", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	c.logger.Info("RabbitMQ connection closed")
	return firstErr
}

// PublishRecipeEvent публикует событие в очередь
func (c *Client) PublishRecipeEvent(ctx context.Context, event payloads.RecipeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Debug("event published", "queue", c.queue.Name, "type", event.Type, "recipe_id", event.RecipeID)
	return nil
}

// ConsumeRecipeEvents регистрирует потребителя и обрабатывает сообщения
// до отмены ctx или закрытия канала доставки
func (c *Client) ConsumeRecipeEvents(ctx context.Context, handler func(context.Context, payloads.RecipeEvent) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name,
		"",    // consumer
		false, // auto-ack (подтверждаем вручную)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)
	return consumeDeliveries(ctx, msgs, handler, c.logger)
}

// consumeDeliveries читает msgs до отмены ctx (nil) или закрытия канала (ErrConsumerClosed)
func consumeDeliveries(ctx context.Context, msgs <-chan amqp.Delivery, handler EventHandler, logger *slog.Logger) error {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				logger.Error("RabbitMQ delivery channel closed, stopping consumer")
				return ErrConsumerClosed
			}
			handleDelivery(ctx, msg, handler, logger)
		case <-ctx.Done():
			logger.Info("context cancelled, stopping RabbitMQ consumer")
			return nil
		}
	}
}

// handleDelivery разбирает сообщение и подтверждает его.
// Битое сообщение отклоняется без возврата в очередь, ошибка обработки возвращает его в очередь
// (но только при первой доставке, чтобы не зациклиться).
func handleDelivery(ctx context.Context, msg amqp.Delivery, handler EventHandler, logger *slog.Logger) {
	var event payloads.RecipeEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Error("error unmarshalling message", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			logger.Error("error NACKing message after unmarshal failure", "error", err)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		requeue := !msg.Redelivered
		logger.Error("error processing message",
			"type", event.Type,
			"recipe_id", event.RecipeID,
			"requeue", requeue,
			"error", err,
		)
		if err := msg.Nack(false, requeue); err != nil {
			logger.Error("error NACKing message after processing failure", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("error ACKing message", "error", err)
		return
	}
	logger.Debug("message processed and ACKed", "type", event.Type, "recipe_id", event.RecipeID)
}
