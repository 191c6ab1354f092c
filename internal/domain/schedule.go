package domain

import (
	"time"

	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

// DaySchedule is the bookable schedule of a single weekday.
// Slots are the pre-enumerated start times offered to customers; every slot
// lies within [Open, Close) and the sequence is strictly increasing.
type DaySchedule struct {
	Open  types.TimeString
	Close types.TimeString
	Slots []types.TimeString
}

// HasSlot returns true if t is one of the configured slots
func (d *DaySchedule) HasSlot(t types.TimeString) bool {
	for _, slot := range d.Slots {
		if slot == t {
			return true
		}
	}
	return false
}

// ServiceConfig describes a bookable service
type ServiceConfig struct {
	Name            string
	DurationMinutes int
}

// CalendarConfig is the business calendar: weekly opening hours, holidays,
// services and the advance-booking window. Loaded once at process start and
// read-only for the process lifetime; always passed explicitly, never global.
type CalendarConfig struct {
	// WeeklySchedule maps weekday (Sunday..Saturday) to its schedule;
	// a nil entry means the salon is closed on that weekday
	WeeklySchedule map[time.Weekday]*DaySchedule

	// Holidays is a set of "2006-01-02" dates; a holiday is closed
	// regardless of the weekly schedule
	Holidays map[string]struct{}

	// Services maps service code to its display name and duration
	Services map[string]ServiceConfig

	MinAdvanceDays int
	MaxAdvanceDays int

	// AllowOverlap keeps already-booked slots in the offered list and skips
	// the double-booking check at creation. True reproduces the manual
	// double-booking oversight the salon staff worked with historically.
	AllowOverlap bool
}

// ScheduleForDay returns the weekday schedule for the given date,
// or nil if the salon is closed on that weekday
func (c *CalendarConfig) ScheduleForDay(date time.Time) *DaySchedule {
	return c.WeeklySchedule[date.Weekday()]
}

// IsHoliday returns true if the date is in the holiday set
func (c *CalendarConfig) IsHoliday(date time.Time) bool {
	_, ok := c.Holidays[date.Format(DateFormat)]
	return ok
}

// IsOpen returns true if the date is neither weekly-closed nor a holiday
func (c *CalendarConfig) IsOpen(date time.Time) bool {
	return c.ScheduleForDay(date) != nil && !c.IsHoliday(date)
}

// Service returns the service config for a code
func (c *CalendarConfig) Service(code string) (ServiceConfig, bool) {
	svc, ok := c.Services[code]
	return svc, ok
}
