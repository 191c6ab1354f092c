package availability

import (
	"time"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Candidate нормализованное, проверенное предложение брони,
// готовое к сохранению. ServiceName - снимок названия услуги на момент проверки
type Candidate struct {
	Date        time.Time
	Time        types.TimeString
	ServiceCode string
	ServiceName string
}

// Resolver вычисляет доступные слоты и проверяет предложенные брони
// по бизнес-календарю салона. Решения детерминированы относительно "сегодня",
// которое берется из timeProvider один раз на каждый вызов Validate
type Resolver struct {
	calendar     *domain.CalendarConfig
	timeProvider TimeProvider
}

// NewResolver создает новый resolver
func NewResolver(calendar *domain.CalendarConfig, timeProvider TimeProvider) *Resolver {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Resolver{
		calendar:     calendar,
		timeProvider: timeProvider,
	}
}

// SlotsForDate возвращает настроенные слоты на дату
// Возвращает ErrClosed, если день закрыт (выходной или праздник)
//
// Список НЕ фильтруется по существующим броням: при allow_overlap=true
// занятые слоты остаются в выдаче, и двойные брони разруливает персонал
// вручную. Фильтрацию по занятости выполняет usecase get_available_slots,
// когда политика пересечений выключена
func (r *Resolver) SlotsForDate(date time.Time) ([]types.TimeString, error) {
	day := r.calendar.ScheduleForDay(date)
	if day == nil || r.calendar.IsHoliday(date) {
		return nil, ErrClosed
	}

	slots := make([]types.TimeString, len(day.Slots))
	copy(slots, day.Slots)
	return slots, nil
}

// ValidateProposal проверяет предложенную бронь (дата, время, услуга)
// Проверки выполняются по порядку с остановкой на первой ошибке:
//  1. услуга существует                -> ErrUnknownService
//  2. дата внутри окна записи          -> ErrOutOfAdvanceWindow
//  3. день открыт                      -> ErrClosed
//  4. время входит в слоты дня         -> ErrInvalidSlot
//
// Успех возвращает нормализованный Candidate со снимком названия услуги
func (r *Resolver) ValidateProposal(date time.Time, slot types.TimeString, serviceCode string) (*Candidate, error) {
	service, ok := r.calendar.Service(serviceCode)
	if !ok {
		return nil, ErrUnknownService
	}

	// "Сегодня" вычисляется на каждый вызов: долгоживущие клиенты обязаны
	// перепроверять предложение перед отправкой около полуночи
	now := r.timeProvider.Now()
	if err := r.validateAdvanceWindow(date, now); err != nil {
		return nil, err
	}

	day := r.calendar.ScheduleForDay(date)
	if day == nil || r.calendar.IsHoliday(date) {
		return nil, ErrClosed
	}

	if !day.HasSlot(slot) {
		return nil, ErrInvalidSlot
	}

	return &Candidate{
		Date:        truncateToDay(date),
		Time:        slot,
		ServiceCode: serviceCode,
		ServiceName: service.Name,
	}, nil
}

// validateAdvanceWindow проверяет, что дата попадает в
// [today+minAdvanceDays, today+maxAdvanceDays]
// Сравнение с точностью до дня в локальном календаре салона
func (r *Resolver) validateAdvanceWindow(date time.Time, now time.Time) error {
	today := truncateToDay(now)
	dateOnly := truncateToDay(date)

	minDate := today.AddDate(0, 0, r.calendar.MinAdvanceDays)
	maxDate := today.AddDate(0, 0, r.calendar.MaxAdvanceDays)

	if dateOnly.Before(minDate) || dateOnly.After(maxDate) {
		return ErrOutOfAdvanceWindow
	}
	return nil
}

// truncateToDay обнуляет время, чтобы сравнивать только даты
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
