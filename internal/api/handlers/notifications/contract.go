package notifications

import (
	"context"

	"github.com/peluqueriacool/PC-ReservationService/internal/service/notifications/models"
)

type NotificationService interface {
	ListRecent(ctx context.Context, limit int) (*models.NotificationListResponse, error)
	MarkRead(ctx context.Context, id string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
