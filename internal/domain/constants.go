package domain

// Time format constants
const (
	TimeFormat          = "15:04"               // HH:MM
	DateFormat          = "2006-01-02"          // YYYY-MM-DD
	NoteTimestampFormat = "2006-01-02 15:04:05" // timestamp prefix of note lines
)

// Default advance-booking window, applied when schedule.toml omits the values
const (
	DefaultMinAdvanceDays = 1
	DefaultMaxAdvanceDays = 30
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxAdvanceDaysLimit       = 365 // 1 year
	MaxNoteLength             = 500
	MaxRejectReasonLength     = 500
)

// TerminalStatuses lists the statuses no transition leaves
var TerminalStatuses = []ReservationStatus{
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
}

// ActiveStatuses lists the statuses that occupy a slot.
// Used when counting bookings against availability.
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}
