package domain

import "time"

// NotificationType categorizes notifications shown on the staff dashboard
type NotificationType string

const (
	NotificationReservation NotificationType = "reservation"
)

// Notification is an immutable, append-only record created as a side effect
// of reservation creation. Read is the only mutable field; it is toggled by
// the staff dashboard.
type Notification struct {
	ID          string
	Type        NotificationType
	ReferenceID string
	Message     string
	Read        bool
	CreatedAt   time.Time
}
