package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a reservation attempt.
type BookingStatus string

const (
	// BookingStatusPending is the provisional state a booking is created in.
	// Creation resolves it to CONFIRMED or FAILED inside the same transaction,
	// so PENDING is normally never observable; the reaper finalizes any row
	// that was abandoned mid-flight.
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusFailed    BookingStatus = "FAILED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Terminal reports whether no further transition is permitted.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusFailed || s == BookingStatusCancelled
}

// Booking represents one reservation attempt against a slot. The sum of
// num_seats over CONFIRMED bookings for a slot never exceeds that slot's
// total capacity.
type Booking struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	SlotID    uuid.UUID     `db:"slot_id" json:"slot_id"`
	UserID    string        `db:"user_id" json:"user_id"`
	NumSeats  int           `db:"num_seats" json:"num_seats"`
	Status    BookingStatus `db:"status" json:"status"`
	ExpiresAt time.Time     `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
