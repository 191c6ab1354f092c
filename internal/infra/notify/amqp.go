package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// reservationEvent формат сообщения в очереди
type reservationEvent struct {
	Type        string `json:"type"`
	ReferenceID string `json:"reference_id"`
	Message     string `json:"message"`
	EmittedAt   string `json:"emitted_at"`
}

// AMQPSink публикует события о бронях в очередь RabbitMQ
// Дополнительный best-effort канал поверх StoreSink: внешние потребители
// (чат-бот салона, аналитика) читают очередь, не трогая базу сервиса
type AMQPSink struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  Logger
}

// NewAMQPSink подключается к брокеру и объявляет durable очередь
func NewAMQPSink(url, queue string, logger Logger) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notify: amqp dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("notify: amqp channel: %w", err)
	}

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("notify: amqp queue declare: %w", err)
	}

	return &AMQPSink{
		conn:    conn,
		channel: channel,
		queue:   queue,
		logger:  logger,
	}, nil
}

// Emit публикует событие в очередь
func (s *AMQPSink) Emit(ctx context.Context, event Event) error {
	body, err := json.Marshal(reservationEvent{
		Type:        string(event.Type),
		ReferenceID: event.ReferenceID,
		Message:     event.Message,
		EmittedAt:   time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("notify: amqp marshal event: %w", err)
	}

	err = s.channel.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("notify: amqp publish: %w", err)
	}

	return nil
}

// Close закрывает канал и соединение с брокером
func (s *AMQPSink) Close() {
	if err := s.channel.Close(); err != nil {
		s.logger.Warn("AMQPSink: close channel: %v", err)
	}
	if err := s.conn.Close(); err != nil {
		s.logger.Warn("AMQPSink: close connection: %v", err)
	}
}
