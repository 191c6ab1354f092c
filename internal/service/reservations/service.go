package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/internal/infra/cache"
	reservationRepo "github.com/peluqueriacool/PC-ReservationService/internal/infra/storage/reservation"
	"github.com/peluqueriacool/PC-ReservationService/internal/service/reservations/models"
	"github.com/peluqueriacool/PC-ReservationService/pkg/ptr"
)

// Service сервис управления жизненным циклом резерваций
type Service struct {
	reservationRepo ReservationRepository
	statsCache      StatsCache
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса резерваций
// statsCache может быть nil - тогда статистика считается без кеширования
func NewService(
	reservationRepo ReservationRepository,
	statsCache StatsCache,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		statsCache:      statsCache,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByID получает резервацию по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%s", id)

	reservation, err := s.fetch(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%s", id)
	return models.FromDomainReservation(reservation), nil
}

// List получает резервации с гибкой фильтрацией
// Поддерживает фильтрацию по статусу, конкретной дате и периоду
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	logMsg := "List: fetching reservations"
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", req.Date.Format(domain.DateFormat))
	}
	if req.DateFrom != nil && req.DateTo != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	reservations, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// ListToday получает резервации на сегодня
func (s *Service) ListToday(ctx context.Context) (*models.ReservationListResponse, error) {
	return s.List(ctx, &models.ListReservationsRequest{Date: ptr.Ptr(s.today())})
}

// ListPending получает резервации, ожидающие решения
func (s *Service) ListPending(ctx context.Context) (*models.ReservationListResponse, error) {
	return s.List(ctx, &models.ListReservationsRequest{Status: ptr.Ptr(string(domain.StatusPending))})
}

// ListThisWeek получает резервации текущей недели (понедельник - воскресенье)
func (s *Service) ListThisWeek(ctx context.Context) (*models.ReservationListResponse, error) {
	from, to := s.weekBounds()
	return s.List(ctx, &models.ListReservationsRequest{DateFrom: ptr.Ptr(from), DateTo: ptr.Ptr(to)})
}

// Confirm подтверждает резервацию
// Допустимо только из статуса pending
func (s *Service) Confirm(ctx context.Context, id string) (*models.ReservationResponse, error) {
	return s.transition(ctx, "Confirm", id, domain.StatusConfirmed, "")
}

// Reject отклоняет резервацию
// Допустимо только из статуса pending; причина добавляется в заметки
func (s *Service) Reject(ctx context.Context, id string, req *models.RejectReservationRequest) (*models.ReservationResponse, error) {
	if len(req.Reason) > domain.MaxRejectReasonLength {
		s.logger.Warn("Reject: reason too long for reservation id=%s", id)
		return nil, fmt.Errorf("%w: reason too long", ErrInvalidInput)
	}

	note := ""
	if req.Reason != "" {
		note = fmt.Sprintf("Rechazada: %s", req.Reason)
	}

	return s.transition(ctx, "Reject", id, domain.StatusRejected, note)
}

// Complete завершает резервацию
// Допустимо только из статуса confirmed
func (s *Service) Complete(ctx context.Context, id string) (*models.ReservationResponse, error) {
	return s.transition(ctx, "Complete", id, domain.StatusCompleted, "")
}

// Cancel отменяет резервацию
// Допустимо из статусов pending и confirmed
func (s *Service) Cancel(ctx context.Context, id string) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%s", id)

	reservation, err := s.fetch(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	if !reservation.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%s cannot be cancelled, status=%s", id, reservation.Status)
		return nil, ErrCannotCancel
	}

	updated, err := s.applyStatus(ctx, "Cancel", reservation, domain.StatusCancelled, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%s", id)
	return models.FromDomainReservation(updated), nil
}

// AddNote добавляет заметку к резервации
// Заметки только дописываются, существующие строки не изменяются
func (s *Service) AddNote(ctx context.Context, id string, req *models.AddNoteRequest) (*models.ReservationResponse, error) {
	s.logger.Info("AddNote: adding note to reservation id=%s", id)

	if req.Text == "" {
		s.logger.Warn("AddNote: empty note for reservation id=%s", id)
		return nil, fmt.Errorf("%w: note text is required", ErrInvalidInput)
	}
	if len(req.Text) > domain.MaxNoteLength {
		s.logger.Warn("AddNote: note too long for reservation id=%s", id)
		return nil, fmt.Errorf("%w: note too long", ErrInvalidInput)
	}

	reservation, err := s.fetch(ctx, "AddNote", id)
	if err != nil {
		return nil, err
	}

	notes := reservation.AppendNote(s.timeProvider.Now(), req.Text)
	updated, err := s.update(ctx, "AddNote", reservation, reservationRepo.UpdateFields{Notes: &notes})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AddNote: successfully added note to reservation id=%s", id)
	return models.FromDomainReservation(updated), nil
}

// Stats возвращает счетчики дашборда
// Считается четырьмя независимыми запросами; результат кешируется на короткий TTL
func (s *Service) Stats(ctx context.Context) (*models.StatsResponse, error) {
	s.logger.Info("Stats: computing dashboard counters")

	if s.statsCache != nil {
		cached, err := s.statsCache.Get(ctx)
		if err == nil {
			s.logger.Info("Stats: served from cache")
			return models.FromDomainStats(cached), nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// Кеш недоступен - считаем из базы
			s.logger.Warn("Stats: cache unavailable: %v", err)
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil {
		if err := s.statsCache.Set(ctx, stats); err != nil {
			s.logger.Warn("Stats: failed to cache counters: %v", err)
		}
	}

	s.logger.Info("Stats: today=%d pending=%d week=%d month=%d", stats.Today, stats.Pending, stats.Week, stats.Month)
	return models.FromDomainStats(stats), nil
}

// Вспомогательные методы

// transition выполняет переход статуса с проверкой допустимости
func (s *Service) transition(ctx context.Context, op string, id string, target domain.ReservationStatus, note string) (*models.ReservationResponse, error) {
	s.logger.Info("%s: updating reservation id=%s to status=%s", op, id, target)

	reservation, err := s.fetch(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if !reservation.Status.CanTransitionTo(target) {
		s.logger.Warn("%s: illegal transition %s -> %s for reservation id=%s", op, reservation.Status, target, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, target)
	}

	updated, err := s.applyStatus(ctx, op, reservation, target, note)
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: successfully updated reservation id=%s to status=%s", op, id, target)
	return models.FromDomainReservation(updated), nil
}

// applyStatus сохраняет новый статус (и заметку, если задана) через CAS по updated_at
func (s *Service) applyStatus(ctx context.Context, op string, reservation *domain.Reservation, target domain.ReservationStatus, note string) (*domain.Reservation, error) {
	fields := reservationRepo.UpdateFields{Status: &target}
	if note != "" {
		notes := reservation.AppendNote(s.timeProvider.Now(), note)
		fields.Notes = &notes
	}

	return s.update(ctx, op, reservation, fields)
}

// update применяет изменения с проверкой версии и маппит ошибки репозитория
func (s *Service) update(ctx context.Context, op string, reservation *domain.Reservation, fields reservationRepo.UpdateFields) (*domain.Reservation, error) {
	updated, err := s.reservationRepo.Update(ctx, reservation.ID, fields, reservation.UpdatedAt)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%s not found during update", op, reservation.ID)
			return nil, ErrReservationNotFound
		}
		if errors.Is(err, reservationRepo.ErrVersionConflict) {
			s.logger.Warn("%s: reservation id=%s was modified concurrently", op, reservation.ID)
			return nil, ErrVersionConflict
		}
		s.logger.Error("%s: repository error for reservation id=%s: %v", op, reservation.ID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return updated, nil
}

// fetch загружает резервацию и маппит ошибку отсутствия
func (s *Service) fetch(ctx context.Context, op string, id string) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%s not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return reservation, nil
}

// computeStats считает счетчики четырьмя независимыми запросами
// Между запросами нет транзакции: счетчики могут разойтись на параллельной записи,
// для дашборда это допустимо
func (s *Service) computeStats(ctx context.Context) (*domain.Stats, error) {
	today := s.today()
	weekFrom, weekTo := s.weekBounds()
	monthFrom, monthTo := s.monthBounds()
	pending := domain.StatusPending

	queries := []struct {
		name   string
		filter domain.ReservationsFilter
		dest   *int
	}{
		{"today", domain.ReservationsFilter{Date: &today}, nil},
		{"pending", domain.ReservationsFilter{Status: &pending}, nil},
		{"week", domain.ReservationsFilter{DateFrom: &weekFrom, DateTo: &weekTo}, nil},
		{"month", domain.ReservationsFilter{DateFrom: &monthFrom, DateTo: &monthTo}, nil},
	}

	var stats domain.Stats
	queries[0].dest = &stats.Today
	queries[1].dest = &stats.Pending
	queries[2].dest = &stats.Week
	queries[3].dest = &stats.Month

	for _, q := range queries {
		count, err := s.reservationRepo.Count(ctx, q.filter)
		if err != nil {
			s.logger.Error("Stats: failed to count %s reservations: %v", q.name, err)
			return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
		}
		*q.dest = count
	}

	return &stats, nil
}

// today возвращает текущую дату без времени
func (s *Service) today() time.Time {
	now := s.timeProvider.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// weekBounds возвращает границы текущей недели, понедельник - воскресенье
func (s *Service) weekBounds() (time.Time, time.Time) {
	today := s.today()
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// monthBounds возвращает границы текущего месяца
func (s *Service) monthBounds() (time.Time, time.Time) {
	today := s.today()
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return first, first.AddDate(0, 1, -1)
}
