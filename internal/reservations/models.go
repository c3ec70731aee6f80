package reservations

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Reservation is a table booking. Date is the calendar day ("2006-01-02")
// and Time the wall-clock slot ("15:04") in the restaurant's timezone.
type Reservation struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	PartySize       int        `json:"party_size"`
	Status          Status     `json:"status"`
	SpecialRequests string     `json:"special_requests,omitempty"`
	ReminderSentAt  *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// StartsAt resolves the reservation's absolute start time in loc.
func (r *Reservation) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, loc)
}

// CreateReservationRequest books a table.
type CreateReservationRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Date            string `json:"date" binding:"required,datetime=2006-01-02"`
	Time            string `json:"time" binding:"required,datetime=15:04"`
	PartySize       int    `json:"party_size" binding:"required,min=1,max=20"`
	SpecialRequests string `json:"special_requests"`
}

// UpdateStatusRequest moves a reservation to a new state.
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}
