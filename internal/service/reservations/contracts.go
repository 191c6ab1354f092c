package reservations

import (
	"context"
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	reservationRepo "github.com/peluqueriacool/PC-ReservationService/internal/infra/storage/reservation"
)

// ReservationRepository интерфейс репозитория резерваций
type ReservationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	Count(ctx context.Context, filter domain.ReservationsFilter) (int, error)
	Update(ctx context.Context, id string, fields reservationRepo.UpdateFields, expectedUpdatedAt time.Time) (*domain.Reservation, error)
}

// StatsCache интерфейс кеша счетчиков дашборда
// Реализация опциональна: при отсутствии Redis сервис работает без кеша
type StatsCache interface {
	Get(ctx context.Context) (*domain.Stats, error)
	Set(ctx context.Context, stats *domain.Stats) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
