package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

var (
	// ErrInvalidSchedule возвращается, когда календарь нарушает инварианты
	ErrInvalidSchedule = errors.New("schedule: invalid calendar configuration")
)

// fileConfig TOML-представление schedule.toml
type fileConfig struct {
	MinAdvanceDays *int     `toml:"min_advance_days"`
	MaxAdvanceDays *int     `toml:"max_advance_days"`
	AllowOverlap   *bool    `toml:"allow_overlap"`
	Holidays       []string `toml:"holidays"`

	Week     map[string]dayConfig     `toml:"week"`
	Services map[string]serviceConfig `toml:"services"`
}

type dayConfig struct {
	Open  string   `toml:"open"`
	Close string   `toml:"close"`
	Slots []string `toml:"slots"`
}

type serviceConfig struct {
	Name            string `toml:"name"`
	DurationMinutes int    `toml:"duration_minutes"`
}

// weekdayNames соответствие ключей TOML дням недели
var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load читает бизнес-календарь из TOML файла и валидирует его
// Календарь загружается один раз при старте процесса; при нарушении
// инвариантов сервис не запускается
func Load(path string) (*domain.CalendarConfig, error) {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("schedule: decode %s: %w", path, err)
	}
	return build(&fc)
}

func build(fc *fileConfig) (*domain.CalendarConfig, error) {
	cfg := &domain.CalendarConfig{
		WeeklySchedule: make(map[time.Weekday]*domain.DaySchedule, 7),
		Holidays:       make(map[string]struct{}, len(fc.Holidays)),
		Services:       make(map[string]domain.ServiceConfig, len(fc.Services)),
		MinAdvanceDays: domain.DefaultMinAdvanceDays,
		MaxAdvanceDays: domain.DefaultMaxAdvanceDays,
		AllowOverlap:   true,
	}

	if fc.MinAdvanceDays != nil {
		cfg.MinAdvanceDays = *fc.MinAdvanceDays
	}
	if fc.MaxAdvanceDays != nil {
		cfg.MaxAdvanceDays = *fc.MaxAdvanceDays
	}
	if fc.AllowOverlap != nil {
		cfg.AllowOverlap = *fc.AllowOverlap
	}

	if cfg.MinAdvanceDays < 0 || cfg.MinAdvanceDays > cfg.MaxAdvanceDays {
		return nil, fmt.Errorf("%w: advance window must satisfy 0 <= min (%d) <= max (%d)",
			ErrInvalidSchedule, cfg.MinAdvanceDays, cfg.MaxAdvanceDays)
	}
	if cfg.MaxAdvanceDays > domain.MaxAdvanceDaysLimit {
		return nil, fmt.Errorf("%w: max_advance_days %d exceeds limit %d",
			ErrInvalidSchedule, cfg.MaxAdvanceDays, domain.MaxAdvanceDaysLimit)
	}

	// День недели без секции в TOML считается закрытым
	for name, dc := range fc.Week {
		weekday, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, name)
		}
		day, err := buildDay(name, dc)
		if err != nil {
			return nil, err
		}
		cfg.WeeklySchedule[weekday] = day
	}

	for _, h := range fc.Holidays {
		if _, err := time.Parse(domain.DateFormat, h); err != nil {
			return nil, fmt.Errorf("%w: holiday %q is not a valid date: %v", ErrInvalidSchedule, h, err)
		}
		cfg.Holidays[h] = struct{}{}
	}

	if len(fc.Services) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidSchedule)
	}
	for code, sc := range fc.Services {
		if sc.Name == "" {
			return nil, fmt.Errorf("%w: service %q has no name", ErrInvalidSchedule, code)
		}
		if sc.DurationMinutes < domain.MinServiceDurationMinutes || sc.DurationMinutes > domain.MaxServiceDurationMinutes {
			return nil, fmt.Errorf("%w: service %q duration %d outside [%d, %d] minutes",
				ErrInvalidSchedule, code, sc.DurationMinutes,
				domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
		}
		cfg.Services[code] = domain.ServiceConfig{
			Name:            sc.Name,
			DurationMinutes: sc.DurationMinutes,
		}
	}

	return cfg, nil
}

func buildDay(name string, dc dayConfig) (*domain.DaySchedule, error) {
	open, err := types.NewTimeStringFromString(dc.Open)
	if err != nil {
		return nil, fmt.Errorf("%w: %s open: %v", ErrInvalidSchedule, name, err)
	}
	close, err := types.NewTimeStringFromString(dc.Close)
	if err != nil {
		return nil, fmt.Errorf("%w: %s close: %v", ErrInvalidSchedule, name, err)
	}
	if !open.IsBefore(close) {
		return nil, fmt.Errorf("%w: %s open %s must be before close %s", ErrInvalidSchedule, name, open, close)
	}
	if len(dc.Slots) == 0 {
		return nil, fmt.Errorf("%w: %s has no slots", ErrInvalidSchedule, name)
	}

	day := &domain.DaySchedule{
		Open:  open,
		Close: close,
		Slots: make([]types.TimeString, 0, len(dc.Slots)),
	}

	var prev types.TimeString
	for i, raw := range dc.Slots {
		slot, err := types.NewTimeStringFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s slot %q: %v", ErrInvalidSchedule, name, raw, err)
		}
		// Каждый слот лежит в [open, close), последовательность строго возрастает
		if slot.IsBefore(open) || !slot.IsBefore(close) {
			return nil, fmt.Errorf("%w: %s slot %s outside working hours [%s, %s)",
				ErrInvalidSchedule, name, slot, open, close)
		}
		if i > 0 && !prev.IsBefore(slot) {
			return nil, fmt.Errorf("%w: %s slots must be strictly increasing (%s before %s)",
				ErrInvalidSchedule, name, prev, slot)
		}
		day.Slots = append(day.Slots, slot)
		prev = slot
	}

	return day, nil
}
