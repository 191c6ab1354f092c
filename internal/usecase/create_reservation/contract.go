package create_reservation

import (
	"context"
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/availability"
	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/internal/infra/notify"
	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// AvailabilityResolver интерфейс резолвера доступности
type AvailabilityResolver interface {
	ValidateProposal(date time.Time, slot types.TimeString, serviceCode string) (*availability.Candidate, error)
}

// NotificationSink интерфейс приемника уведомлений (best-effort)
type NotificationSink interface {
	Emit(ctx context.Context, event notify.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
