package domain

import (
	"fmt"
	"time"

	"github.com/peluqueriacool/PC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusRejected  ReservationStatus = "rejected"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// legalTransitions is the full transition table of the reservation lifecycle.
// Any (status, next) pair absent from this table is an illegal transition.
// rejected, completed and cancelled are terminal: no entry, no way out.
var legalTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid returns true if the status is one of the five known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transition is permitted from the status
func (s ReservationStatus) IsTerminal() bool {
	return len(legalTransitions[s]) == 0
}

// CanTransitionTo returns true if the transition s -> next is legal
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InitialStatus returns the only status a reservation may be created with
func InitialStatus() ReservationStatus {
	return StatusPending
}

// Reservation represents a customer's appointment request at the salon.
// Contact fields, date, time and service are immutable after creation;
// only Status and Notes change during the lifecycle.
type Reservation struct {
	ID            string
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	ServiceCode string
	// ServiceName is a snapshot of the service display name taken at booking
	// time. It is never re-derived from current service config, so renaming a
	// service does not rewrite history.
	ServiceName string

	Date time.Time
	Time types.TimeString

	Status ReservationStatus

	// Notes is an append-only log of timestamped staff entries
	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation still occupies its slot
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status.CanTransitionTo(StatusCancelled)
}

// AppendNote returns Notes with a timestamped line appended
func (r *Reservation) AppendNote(at time.Time, text string) string {
	line := fmt.Sprintf("[%s] %s", at.Format(NoteTimestampFormat), text)
	if r.Notes == "" {
		return line
	}
	return r.Notes + "\n" + line
}

// ReservationsFilter is the query filter of the reservation store.
// Date matches one exact day; DateFrom/DateTo bound an inclusive range.
type ReservationsFilter struct {
	Status   *ReservationStatus
	Date     *time.Time
	DateFrom *time.Time
	DateTo   *time.Time
}

// Stats holds the dashboard counters, recomputed on demand from four
// independent store queries rather than kept as incremental counters
type Stats struct {
	Today   int
	Pending int
	Week    int
	Month   int
}
