package calendly

import (
	"context"
	"time"
)

// API is the capability the booking orchestrator needs from the scheduling
// provider. The concrete Client implements it; tests substitute a stub.
type API interface {
	EventTypeURI(ctx context.Context) (string, error)
	AvailableTimes(ctx context.Context, eventTypeURI string, start, end time.Time) ([]AvailableTime, error)
	CreateInvitee(ctx context.Context, eventTypeURI string, startTime time.Time, email, name string) (*Invitee, error)
	ScheduledEvents(ctx context.Context, minStart time.Time) ([]ScheduledEvent, error)
	EventInvitees(ctx context.Context, eventUUID string) ([]Invitee, error)
	CancelEvent(ctx context.Context, eventUUID, reason string) error
}
