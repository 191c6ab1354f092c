package notifications

import (
	"context"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
