package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
)

// Event событие для Notification Sink
// Ровно та тройка полей, которую эмитит lifecycle при создании брони
type Event struct {
	Type        domain.NotificationType
	ReferenceID string
	Message     string
}

// NotificationStore контракт хранилища уведомлений
type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// StoreSink сохраняет уведомления в таблицу notifications,
// откуда их читает дашборд персонала
type StoreSink struct {
	store NotificationStore
}

// NewStoreSink создает sink поверх хранилища уведомлений
func NewStoreSink(store NotificationStore) *StoreSink {
	return &StoreSink{store: store}
}

// Emit сохраняет уведомление. Уведомление создается непрочитанным
func (s *StoreSink) Emit(ctx context.Context, event Event) error {
	n := &domain.Notification{
		ID:          uuid.NewString(),
		Type:        event.Type,
		ReferenceID: event.ReferenceID,
		Message:     event.Message,
		Read:        false,
	}

	if _, err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("notify: store sink emit: %w", err)
	}
	return nil
}

// MultiSink рассылает событие во все вложенные sink'и
// Ошибки отдельных sink'ов логируются и не прерывают рассылку:
// уведомления - best-effort, их сбой никогда не влияет на бронь
type MultiSink struct {
	sinks  []Sink
	logger Logger
}

// Sink контракт отдельного приемника уведомлений
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// NewMultiSink создает fan-out sink
func NewMultiSink(logger Logger, sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks, logger: logger}
}

// Emit отправляет событие во все sink'и, возвращает nil всегда,
// кроме случая, когда ни один sink не принял событие
func (m *MultiSink) Emit(ctx context.Context, event Event) error {
	delivered := 0
	for _, sink := range m.sinks {
		if err := sink.Emit(ctx, event); err != nil {
			m.logger.Error("MultiSink: sink emit failed: %v", err)
			continue
		}
		delivered++
	}

	if len(m.sinks) > 0 && delivered == 0 {
		return fmt.Errorf("notify: all %d sinks failed", len(m.sinks))
	}
	return nil
}
