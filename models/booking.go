package models

import "time"

// Booking statuses. The provider treats a reschedule as "cancel old,
// create new", so these are state transitions rather than field edits.
const (
	BookingStatusScheduled   = "scheduled"
	BookingStatusCancelled   = "cancelled"
	BookingStatusRescheduled = "rescheduled"
)

// CheckupDurationMinutes is the fixed length of every checkup slot.
const CheckupDurationMinutes = 30

// Booking represents a confirmed appointment. The scheduling provider is
// the system of record; this is an ephemeral echo of its state.
type Booking struct {
	Reference string `json:"reference"`  // Opaque identifier issued by the provider
	Name      string `json:"name"`       // Patient full name
	Email     string `json:"email"`      // Patient email
	Date      string `json:"date"`       // Appointment date in "YYYY-MM-DD" format
	Time      string `json:"time"`       // Appointment time like "2:00 PM"
	Duration  int    `json:"duration"`   // Duration in minutes, always 30
	Status    string `json:"status"`     // scheduled | cancelled | rescheduled
}

// AvailableSlot is a bookable time window returned by the provider.
// Produced per query, never persisted.
type AvailableSlot struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"` // Start + 30 minutes
	SchedulingURL string    `json:"scheduling_url,omitempty"`
}

// Appointment is a scheduled event found for a patient, as shown in
// conversation (find / cancel flows).
type Appointment struct {
	URI  string `json:"uri"`
	Date string `json:"date"`
	Time string `json:"time"`
	Name string `json:"name"`
}

// ValidationResult is the outcome of an input validator.
type ValidationResult struct {
	Valid  bool
	Reason string
}
