package dto

import (
	"go-booking-api/modules/booking/entity"
	slotentity "go-booking-api/modules/slot/entity"
)

// CreateBookingRequest is the payload for reserving seats against a slot.
type CreateBookingRequest struct {
	SlotID   string `json:"slot_id" validate:"required,uuid4"`
	UserID   string `json:"user_id" validate:"required"`
	NumSeats int    `json:"num_seats" validate:"required,gt=0"`
}

// ListBookingsQuery filters a requester's booking history.
type ListBookingsQuery struct {
	UserID string `query:"user_id" validate:"required"`
	Status string `query:"status" validate:"omitempty,oneof=PENDING CONFIRMED FAILED CANCELLED"`
}

// CancelBookingResponse returns the cancelled booking together with the slot
// whose capacity was released.
type CancelBookingResponse struct {
	Booking *entity.Booking  `json:"booking"`
	Slot    *slotentity.Slot `json:"slot,omitempty"`
}

// SweepExpiredResponse reports the bookings the reaper just failed.
type SweepExpiredResponse struct {
	ExpiredCount int              `json:"expired_count"`
	Expired      []entity.Booking `json:"expired"`
}
