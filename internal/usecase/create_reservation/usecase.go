package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/peluqueriacool/PC-ReservationService/internal/availability"
	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/internal/infra/notify"
)

// UseCase use case создания брони клиентом
// Единственная точка входа, которая порождает бронь; статус всегда pending
type UseCase struct {
	reservationRepo ReservationRepository
	resolver        AvailabilityResolver
	sink            NotificationSink
	txManager       TransactionManager
	calendar        *domain.CalendarConfig
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	resolver AvailabilityResolver,
	sink NotificationSink,
	txManager TransactionManager,
	calendar *domain.CalendarConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		resolver:        resolver,
		sink:            sink,
		txManager:       txManager,
		calendar:        calendar,
		logger:          logger,
	}
}

// Execute выполняет use case создания брони
//
// Порядок side-эффектов фиксирован: сохранение строго раньше эмиссии
// уведомления; сбой эмиссии логируется и проглатывается - он никогда
// не откатывает и не фейлит создание брони
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: customer=%q, service=%s, date=%s, time=%s",
		req.CustomerName, req.ServiceCode, req.Date.Format(domain.DateFormat), req.Time)

	// 1. Валидация контактных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверка предложения по календарю (услуга, окно записи, день, слот)
	candidate, err := uc.resolver.ValidateProposal(req.Date, req.Time, req.ServiceCode)
	if err != nil {
		uc.logger.Warn("CreateReservation: proposal rejected: %v", err)
		return nil, mapResolverError(err)
	}

	reservation := &domain.Reservation{
		ID:            uuid.NewString(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		ServiceCode:   candidate.ServiceCode,
		ServiceName:   candidate.ServiceName,
		Date:          candidate.Date,
		Time:          candidate.Time,
		Status:        domain.InitialStatus(),
		Notes:         "",
	}

	var created *domain.Reservation

	if uc.calendar.AllowOverlap {
		// Исторический режим салона: занятость слота не проверяется,
		// двойные брони разруливает персонал вручную
		created, err = uc.reservationRepo.Create(ctx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return nil, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}
	} else {
		// Строгий режим: проверка занятости и вставка в одной
		// сериализуемой транзакции, чтобы два клиента не заняли один слот
		err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			taken, err := uc.isSlotTaken(txCtx, candidate)
			if err != nil {
				return err
			}
			if taken {
				uc.logger.Warn("CreateReservation: slot %s %s already taken",
					candidate.Date.Format(domain.DateFormat), candidate.Time)
				return ErrSlotTaken
			}

			created, err = uc.reservationRepo.Create(txCtx, reservation)
			if err != nil {
				uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
				return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	uc.logger.Info("CreateReservation: reservation created id=%s, status=%s", created.ID, created.Status)

	// 3. Best-effort уведомление после коммита
	uc.emitCreated(ctx, created)

	return fromDomain(created), nil
}

// isSlotTaken проверяет, занят ли слот активной бронью
func (uc *UseCase) isSlotTaken(ctx context.Context, candidate *availability.Candidate) (bool, error) {
	existing, err := uc.reservationRepo.List(ctx, domain.ReservationsFilter{
		Date: &candidate.Date,
	})
	if err != nil {
		uc.logger.Error("CreateReservation: failed to list reservations: %v", err)
		return false, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}

	for _, r := range existing {
		if r.IsActive() && r.Time == candidate.Time {
			return true, nil
		}
	}
	return false, nil
}

// emitCreated эмитит уведомление о новой брони
// Сбой логируется и проглатывается
func (uc *UseCase) emitCreated(ctx context.Context, created *domain.Reservation) {
	event := notify.Event{
		Type:        domain.NotificationReservation,
		ReferenceID: created.ID,
		Message:     fmt.Sprintf("Nueva reserva de %s", created.CustomerName),
	}

	if err := uc.sink.Emit(ctx, event); err != nil {
		uc.logger.Error("CreateReservation: notification emit failed for id=%s: %v", created.ID, err)
		return
	}
	uc.logger.Info("CreateReservation: notification emitted for id=%s", created.ID)
}

// mapResolverError переводит типизированные ошибки резолвера
// в ошибки usecase
func mapResolverError(err error) error {
	switch {
	case errors.Is(err, availability.ErrUnknownService):
		return ErrUnknownService
	case errors.Is(err, availability.ErrOutOfAdvanceWindow):
		return ErrOutOfAdvanceWindow
	case errors.Is(err, availability.ErrClosed):
		return ErrClosed
	case errors.Is(err, availability.ErrInvalidSlot):
		return ErrInvalidSlot
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
