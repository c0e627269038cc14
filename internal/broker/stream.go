package broker

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/fedflow/internal/domain"
)

// Handler — обработчик одной записи потокового датасета.
// Возвращает error, если обработка не удалась (запись будет nack).
type Handler func(ctx context.Context, rec *Record) error

// Record — запись потокового датасета с методами ack/nack.
type Record struct {
	// Topic — топик-источник записи.
	Topic string

	// Body — сырое тело записи. Формат определяет продюсер,
	// пакет его не интерпретирует.
	Body []byte

	raw amqp.Delivery
}

// Ack подтверждает успешную обработку записи.
func (r *Record) Ack() error {
	return r.raw.Ack(false)
}

// Nack отклоняет запись.
// requeue=true — вернуть в очередь, false — отправить в DLQ.
func (r *Record) Nack(requeue bool) error {
	return r.raw.Nack(false, requeue)
}

// Stream читает записи потокового датасета из топика брокера.
type Stream struct {
	conn     *Connection
	logger   *slog.Logger
	detail   domain.TopicDetail
	handler  Handler
	prefetch int
}

// StreamConfig — конфигурация Stream.
type StreamConfig struct {
	// Detail — описание брокера и топика из реестра.
	Detail domain.TopicDetail

	// Handler — обработчик записей.
	Handler Handler

	// Prefetch — количество записей для предварительной загрузки.
	Prefetch int
}

// NewStream создаёт Stream.
func NewStream(conn *Connection, logger *slog.Logger, cfg StreamConfig) *Stream {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}

	return &Stream{
		conn:     conn,
		logger:   logger,
		detail:   cfg.Detail,
		handler:  cfg.Handler,
		prefetch: prefetch,
	}
}

// queueName — очередь датасета, переживающая реконнекты консьюмера.
func (s *Stream) queueName() string {
	return "fedflow.dataset." + s.detail.DatasetID.String()
}

// Start запускает чтение потока. Блокируется до отмены контекста.
func (s *Stream) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		deliveries, err := s.setupConsume()
		if err != nil {
			s.logger.Error("failed to setup stream", "topic", s.detail.TopicName, "error", err)
			// Ждём переподключения
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.conn.ReconnectNotify():
				s.logger.Info("reconnected, restarting stream", "topic", s.detail.TopicName)
				continue
			}
		}

		s.logger.Info("stream started",
			"dataset_id", s.detail.DatasetID,
			"broker", s.detail.BrokerName,
			"topic", s.detail.TopicName,
		)

		if err := s.processDeliveries(ctx, deliveries); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("deliveries channel closed, reconnecting", "topic", s.detail.TopicName)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.conn.ReconnectNotify():
				continue
			}
		}
	}
}

// setupConsume объявляет топологию и начинает потребление.
func (s *Stream) setupConsume() (<-chan amqp.Delivery, error) {
	ch := s.conn.Channel()
	if ch == nil {
		return nil, fmt.Errorf("no channel available")
	}

	// Topic-exchange брокера, durable
	exchange := s.detail.BrokerName
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	queue := s.queueName()
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, s.detail.TopicName, exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	if err := ch.Qos(s.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(
		queue, // queue
		"",    // consumer tag (auto-generated)
		false, // auto-ack (ack вручную)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	return deliveries, nil
}

// processDeliveries обрабатывает записи из канала.
func (s *Stream) processDeliveries(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("deliveries channel closed")
			}
			s.handleDelivery(ctx, raw)
		}
	}
}

// handleDelivery обрабатывает одну запись.
func (s *Stream) handleDelivery(ctx context.Context, raw amqp.Delivery) {
	rec := &Record{
		Topic: s.detail.TopicName,
		Body:  raw.Body,
		raw:   raw,
	}

	s.logger.Debug("record received",
		"topic", s.detail.TopicName,
		"size", len(raw.Body),
	)

	if err := s.handler(ctx, rec); err != nil {
		s.logger.Error("handler failed",
			"topic", s.detail.TopicName,
			"error", err,
		)
		// Ошибка обработчика — запись возвращается в очередь
		if nackErr := rec.Nack(true); nackErr != nil {
			s.logger.Error("nack failed", "error", nackErr)
		}
	}
}
