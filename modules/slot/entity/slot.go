package entity

import (
	"time"

	"github.com/google/uuid"
)

// Slot represents one bookable appointment window with bounded capacity.
// remaining_capacity is only ever mutated through the repository's conditional
// updates, so 0 <= remaining <= total holds under concurrent access.
type Slot struct {
	ID                uuid.UUID `db:"id" json:"id"`
	DoctorName        string    `db:"doctor_name" json:"doctor_name"`
	Specialization    *string   `db:"specialization" json:"specialization,omitempty"`
	StartTime         time.Time `db:"start_time" json:"start_time"`
	DurationMinutes   *int      `db:"duration_minutes" json:"duration_minutes,omitempty"`
	TotalCapacity     int       `db:"total_capacity" json:"total_capacity"`
	RemainingCapacity int       `db:"remaining_capacity" json:"remaining_capacity"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
