package calendly

import "time"

// User is the authenticated Calendly account.
type User struct {
	URI           string `json:"uri"`
	Name          string `json:"name"`
	SchedulingURL string `json:"scheduling_url"`
}

// EventType is the provider's identifier for a bookable service
// (here: the dental check-up).
type EventType struct {
	URI           string `json:"uri"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
	Duration      int    `json:"duration"`
	SchedulingURL string `json:"scheduling_url"`
}

// AvailableTime is one open slot for an event type.
type AvailableTime struct {
	Status        string    `json:"status"`
	StartTime     time.Time `json:"start_time"`
	SchedulingURL string    `json:"scheduling_url"`
}

// Invitee is a booked participant on a scheduled event.
type Invitee struct {
	URI    string `json:"uri"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ScheduledEvent is a booked appointment on the provider's calendar.
type ScheduledEvent struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
