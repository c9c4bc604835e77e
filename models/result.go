package models

// ErrorKind is a closed set of domain error tags. The Calendly client maps
// every transport failure to one of these; validation failures are tagged
// before any network call is made.
type ErrorKind string

const (
	ErrKindAuthentication ErrorKind = "authentication"
	ErrKindNotFound       ErrorKind = "not_found"
	ErrKindRateLimit      ErrorKind = "rate_limit"
	ErrKindConflict       ErrorKind = "conflict"
	ErrKindTimeout        ErrorKind = "timeout"
	ErrKindConnection     ErrorKind = "connection"
	ErrKindValidation     ErrorKind = "validation"
	ErrKindAPI            ErrorKind = "api"
)

// ResultError carries the error tag and message inside a BookingResult.
type ResultError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// BookingResult is the uniform shape every orchestrator operation returns.
// Callers never need to distinguish raised errors from business failures:
// failures arrive as Success=false with Err populated, and degraded-provider
// paths additionally carry a fallback payload (times and/or booking URL).
type BookingResult struct {
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	Date           string        `json:"date,omitempty"`
	Times          []string      `json:"times,omitempty"`
	Booking        *Booking      `json:"booking,omitempty"`
	Appointments   []Appointment `json:"appointments,omitempty"`
	BookingURL     string        `json:"booking_url,omitempty"`
	Fallback       bool          `json:"fallback,omitempty"`        // Times are static suggestions, not live availability
	OldCancelled   bool          `json:"old_cancelled,omitempty"`   // Reschedule: the original booking is gone
	PartialFailure bool          `json:"partial_failure,omitempty"` // Reschedule: cancelled but no replacement confirmed
	Err            *ResultError  `json:"error,omitempty"`
}

// ValidationFailure builds the uniform result for caller-input errors.
func ValidationFailure(reason string) BookingResult {
	return BookingResult{
		Success: false,
		Message: reason,
		Err:     &ResultError{Kind: ErrKindValidation, Message: reason},
	}
}
