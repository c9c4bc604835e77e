package booking

import (
	"context"

	"acmedental/calendly"
	"acmedental/models"

	"go.uber.org/zap"
)

// BookingService defines the orchestration operations behind the
// conversational tools. Every operation returns the uniform
// models.BookingResult; none of them ever returns a raised error.
type BookingService interface {
	GetAvailableTimes(ctx context.Context, date string) models.BookingResult
	CreateBooking(ctx context.Context, name, email, date, timeStr string) models.BookingResult
	FindUserBookings(ctx context.Context, email string) models.BookingResult
	CancelAppointment(ctx context.Context, email string) models.BookingResult
	RescheduleAppointment(ctx context.Context, email, newDate string) models.BookingResult
}

// DefaultBookingService implements BookingService on top of the Calendly
// client. The API is injected as a capability interface so tests can
// substitute a stub without any global registry.
type DefaultBookingService struct {
	API        calendly.API
	BookingURL string // public scheduling link used for out-of-band fallback
	Logger     *zap.Logger
}
