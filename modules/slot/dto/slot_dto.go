package dto

// CreateSlotRequest is the admin payload for provisioning a slot.
type CreateSlotRequest struct {
	DoctorName      string  `json:"doctor_name" validate:"required"`
	Specialization  *string `json:"specialization,omitempty"`
	StartTime       string  `json:"start_time" validate:"required"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
	TotalCapacity   int     `json:"total_capacity" validate:"required,gt=0"`
}

// ListSlotsQuery carries the optional admin listing filters.
type ListSlotsQuery struct {
	DoctorName     string `query:"doctor_name"`
	Specialization string `query:"specialization"`
	From           string `query:"from"`
	To             string `query:"to"`
}

// AvailableSlotsQuery carries the public availability filters. Date narrows
// results to a single day; absent, only future slots are returned.
type AvailableSlotsQuery struct {
	DoctorName     string `query:"doctor_name"`
	Specialization string `query:"specialization"`
	Date           string `query:"date"`
}
