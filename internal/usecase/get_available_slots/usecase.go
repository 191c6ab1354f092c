package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/availability"
	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

// UseCase получение доступных слотов на дату
type UseCase struct {
	reservationRepo ReservationRepository
	resolver        AvailabilityResolver
	calendar        *domain.CalendarConfig
	logger          Logger
}

// New создает новый UseCase
func New(
	reservationRepo ReservationRepository,
	resolver AvailabilityResolver,
	calendar *domain.CalendarConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		resolver:        resolver,
		calendar:        calendar,
		logger:          logger,
	}
}

// Execute выполняет получение слотов на дату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("get_available_slots: Execute - started for date %s", req.Date.Format(domain.DateFormat))

	// 1. Валидация запроса
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Получение слотов из расписания
	slots, err := uc.resolver.SlotsForDate(req.Date)
	if err != nil {
		if errors.Is(err, availability.ErrClosed) {
			uc.logger.Info("get_available_slots: Execute - closed on %s", req.Date.Format(domain.DateFormat))
			return &Response{Date: req.Date, Closed: true, Slots: []types.TimeString{}}, nil
		}
		uc.logger.Error("get_available_slots: Execute - failed to resolve slots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Фильтрация занятых слотов (только при запрете пересечений)
	if !uc.calendar.AllowOverlap {
		slots, err = uc.filterTakenSlots(ctx, req.Date, slots)
		if err != nil {
			uc.logger.Error("get_available_slots: Execute - failed to filter taken slots: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("get_available_slots: Execute - completed, %d slots for %s", len(slots), req.Date.Format(domain.DateFormat))

	return &Response{Date: req.Date, Closed: false, Slots: slots}, nil
}

// filterTakenSlots убирает слоты, занятые активными резервациями
func (uc *UseCase) filterTakenSlots(ctx context.Context, date time.Time, slots []types.TimeString) ([]types.TimeString, error) {
	reservations, err := uc.reservationRepo.List(ctx, domain.ReservationsFilter{Date: &date})
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %v", err)
	}

	taken := make(map[types.TimeString]struct{}, len(reservations))
	for _, r := range reservations {
		if r.IsActive() {
			taken[r.Time] = struct{}{}
		}
	}

	free := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}

	return free, nil
}
