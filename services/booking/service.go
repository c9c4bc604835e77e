package booking

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"acmedental/calendly"
	"acmedental/models"
	"acmedental/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// timeOfDayLayout is how appointment times appear in conversation.
const timeOfDayLayout = "3:04 PM"

// fallbackTimes are the statically-configured suggestions returned when the
// provider cannot be reached. They are suggestions only, not live
// availability, and results carrying them are flagged Fallback.
var fallbackTimes = []string{"9:00 AM", "10:00 AM", "11:00 AM", "2:00 PM", "3:00 PM", "4:00 PM"}

// GetAvailableTimes returns open slots for the given date. The date is
// validated before any network call; a degraded provider yields the static
// fallback times instead of an error.
func (s *DefaultBookingService) GetAvailableTimes(ctx context.Context, date string) models.BookingResult {
	if v := utils.ValidateDate(date); !v.Valid {
		res := models.ValidationFailure(v.Reason)
		res.Date = date
		return res
	}

	eventTypeURI, err := s.API.EventTypeURI(ctx)
	if err != nil {
		return s.availabilityFallback(date, err)
	}

	dayStart, _ := time.ParseInLocation(utils.DateLayout, date, time.Local)
	times, err := s.API.AvailableTimes(ctx, eventTypeURI, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return s.availabilityFallback(date, err)
	}

	if len(times) == 0 {
		return models.BookingResult{
			Success: true,
			Date:    date,
			Message: fmt.Sprintf("No available slots for %s", date),
		}
	}

	if len(times) > 10 {
		times = times[:10]
	}
	formatted := make([]string, len(times))
	for i, slot := range times {
		formatted[i] = slot.StartTime.Local().Format(timeOfDayLayout)
	}

	return models.BookingResult{
		Success: true,
		Date:    date,
		Times:   formatted,
		Message: fmt.Sprintf("Found %d available slots", len(formatted)),
	}
}

func (s *DefaultBookingService) availabilityFallback(date string, err error) models.BookingResult {
	apiErr := calendly.AsAPIError(err)
	s.Logger.Warn("availability lookup degraded, using fallback times",
		zap.String("date", date), zap.Error(apiErr))
	return models.BookingResult{
		Success:  false,
		Date:     date,
		Times:    fallbackTimes,
		Fallback: true,
		Message:  "Live availability unavailable - using fallback times",
		Err:      &models.ResultError{Kind: apiErr.Kind, Message: apiErr.Message},
	}
}

// CreateBooking books a checkup slot for the patient. Name, email and date
// are validated first so unusable input never costs a provider call. When
// the provider is unavailable the result carries the direct scheduling link
// so the patient can complete the booking out-of-band.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, name, email, date, timeStr string) models.BookingResult {
	if v := utils.ValidateEmail(email); !v.Valid {
		return models.ValidationFailure(v.Reason)
	}
	if v := utils.ValidateDate(date); !v.Valid {
		return models.ValidationFailure(v.Reason)
	}
	if strings.TrimSpace(name) == "" {
		return models.ValidationFailure("Name is required")
	}

	bookingURL := s.directBookingURL(name, email, date)

	start, err := parseStartTime(date, timeStr)
	if err != nil {
		return models.ValidationFailure("Invalid time format. Please use a time like 2:00 PM")
	}

	eventTypeURI, apiErr := s.API.EventTypeURI(ctx)
	if apiErr != nil {
		return s.bookingFallback(bookingURL, apiErr)
	}

	invitee, apiErr := s.API.CreateInvitee(ctx, eventTypeURI, start, email, name)
	if apiErr != nil {
		return s.bookingFallback(bookingURL, apiErr)
	}

	reference := invitee.URI
	if reference == "" {
		// Provider acknowledged the booking without a URI; issue a local
		// reference so the confirmation still carries one.
		reference = uuid.NewString()
	}

	s.Logger.Info("booking confirmed",
		zap.String("reference", reference), zap.String("date", date), zap.String("time", timeStr))

	return models.BookingResult{
		Success: true,
		Date:    date,
		Message: "Booking confirmed successfully",
		Booking: &models.Booking{
			Reference: reference,
			Name:      name,
			Email:     email,
			Date:      date,
			Time:      timeStr,
			Duration:  models.CheckupDurationMinutes,
			Status:    models.BookingStatusScheduled,
		},
	}
}

func (s *DefaultBookingService) bookingFallback(bookingURL string, err error) models.BookingResult {
	apiErr := calendly.AsAPIError(err)
	s.Logger.Warn("booking via API failed, offering direct link", zap.Error(apiErr))

	msg := "Booking failed - please use booking URL"
	switch apiErr.Kind {
	case models.ErrKindAuthentication:
		msg = "Authentication failed - please use booking URL"
	case models.ErrKindRateLimit:
		msg = "Service busy - please try again or use booking URL"
	case models.ErrKindConflict:
		msg = "That slot is no longer available - please pick another time or use booking URL"
	}

	return models.BookingResult{
		Success:    false,
		BookingURL: bookingURL,
		Times:      fallbackTimes,
		Fallback:   true,
		Message:    msg,
		Err:        &models.ResultError{Kind: apiErr.Kind, Message: apiErr.Message},
	}
}

func (s *DefaultBookingService) directBookingURL(name, email, date string) string {
	if s.BookingURL == "" {
		return ""
	}
	params := url.Values{}
	params.Set("name", name)
	params.Set("email", email)
	params.Set("date", date)
	return s.BookingURL + "?" + params.Encode()
}

// parseStartTime combines a YYYY-MM-DD date with a clock time like "2:00 PM"
// or "14:00" into a single local timestamp.
func parseStartTime(date, timeStr string) (time.Time, error) {
	trimmed := strings.TrimSpace(timeStr)
	t, err := time.Parse(timeOfDayLayout, trimmed)
	if err != nil {
		t, err = time.Parse("15:04", trimmed)
	}
	if err != nil {
		return time.Time{}, err
	}
	day, err := time.ParseInLocation(utils.DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// FindUserBookings lists upcoming appointments for a patient, matched by
// invitee email. The provider has no per-patient index, so this scans
// upcoming events and their invitees.
func (s *DefaultBookingService) FindUserBookings(ctx context.Context, email string) models.BookingResult {
	if v := utils.ValidateEmail(email); !v.Valid {
		return models.ValidationFailure(v.Reason)
	}

	events, err := s.API.ScheduledEvents(ctx, time.Now())
	if err != nil {
		apiErr := calendly.AsAPIError(err)
		s.Logger.Warn("scheduled events lookup failed", zap.Error(apiErr))
		return models.BookingResult{
			Success: false,
			Message: "Unable to retrieve bookings",
			Err:     &models.ResultError{Kind: apiErr.Kind, Message: apiErr.Message},
		}
	}

	var appointments []models.Appointment
	for _, event := range events {
		invitees, err := s.API.EventInvitees(ctx, eventUUID(event.URI))
		if err != nil {
			// Skip events whose invitees cannot be read rather than
			// failing the whole listing.
			continue
		}
		for _, invitee := range invitees {
			if strings.EqualFold(invitee.Email, email) {
				name := event.Name
				if name == "" {
					name = "Dental Checkup"
				}
				appointments = append(appointments, models.Appointment{
					URI:  event.URI,
					Date: event.StartTime.Local().Format(utils.DateLayout),
					Time: event.StartTime.Local().Format(timeOfDayLayout),
					Name: name,
				})
				break
			}
		}
	}

	return models.BookingResult{
		Success:      true,
		Appointments: appointments,
		Message:      fmt.Sprintf("Found %d appointment(s)", len(appointments)),
	}
}

// CancelAppointment cancels the patient's next upcoming appointment.
func (s *DefaultBookingService) CancelAppointment(ctx context.Context, email string) models.BookingResult {
	if v := utils.ValidateEmail(email); !v.Valid {
		return models.ValidationFailure(v.Reason)
	}

	event, err := s.findEventForEmail(ctx, email)
	if err != nil {
		apiErr := calendly.AsAPIError(err)
		s.Logger.Warn("cancel lookup failed", zap.Error(apiErr))
		return models.BookingResult{
			Success: false,
			Message: "Unable to cancel via API",
			Err:     &models.ResultError{Kind: apiErr.Kind, Message: apiErr.Message},
		}
	}
	if event == nil {
		return models.BookingResult{
			Success: false,
			Message: "No upcoming appointments found",
			Err:     &models.ResultError{Kind: models.ErrKindNotFound, Message: "no upcoming appointments for " + email},
		}
	}

	if err := s.API.CancelEvent(ctx, eventUUID(event.URI), "Cancelled by patient"); err != nil {
		apiErr := calendly.AsAPIError(err)
		s.Logger.Warn("cancellation failed", zap.String("event", event.URI), zap.Error(apiErr))
		return models.BookingResult{
			Success: false,
			Message: "Unable to cancel via API",
			Err:     &models.ResultError{Kind: apiErr.Kind, Message: apiErr.Message},
		}
	}

	start := event.StartTime.Local()
	s.Logger.Info("appointment cancelled", zap.String("event", event.URI))

	return models.BookingResult{
		Success: true,
		Date:    start.Format("January 02, 2006"),
		Message: "Appointment cancelled successfully",
		Booking: &models.Booking{
			Reference: event.URI,
			Email:     email,
			Date:      start.Format(utils.DateLayout),
			Time:      start.Format(timeOfDayLayout),
			Duration:  models.CheckupDurationMinutes,
			Status:    models.BookingStatusCancelled,
		},
	}
}

// RescheduleAppointment cancels the patient's current appointment and
// fetches availability for the new date. The provider has no atomic
// reschedule, so this is cancel-then-rebook; the new booking is completed
// by a follow-up CreateBooking once the patient picks a time.
//
// If the cancellation succeeds but availability for the new date cannot be
// fetched, the result is flagged PartialFailure: the old booking is gone
// and no replacement exists, which is distinct from plain success or plain
// failure. No compensating re-book is attempted - re-creating the old slot
// behind the patient's back could double-book.
func (s *DefaultBookingService) RescheduleAppointment(ctx context.Context, email, newDate string) models.BookingResult {
	if v := utils.ValidateEmail(email); !v.Valid {
		return models.ValidationFailure(v.Reason)
	}
	if v := utils.ValidateDate(newDate); !v.Valid {
		return models.ValidationFailure(v.Reason)
	}

	cancelResult := s.CancelAppointment(ctx, email)
	if !cancelResult.Success {
		return cancelResult
	}

	availability := s.GetAvailableTimes(ctx, newDate)
	if !availability.Success {
		s.Logger.Warn("reschedule left in partial state: old booking cancelled, availability unavailable",
			zap.String("email", email), zap.String("new_date", newDate))
		return models.BookingResult{
			Success:        false,
			Date:           newDate,
			OldCancelled:   true,
			PartialFailure: true,
			Times:          availability.Times,
			Fallback:       availability.Fallback,
			BookingURL:     s.directBookingURL("", email, newDate),
			Message:        "Old appointment cancelled, but the new booking could not be started. Please rebook manually.",
			Err:            availability.Err,
		}
	}

	return models.BookingResult{
		Success:      true,
		Date:         newDate,
		OldCancelled: true,
		Times:        availability.Times,
		Message:      "Old appointment cancelled. Select new time.",
	}
}

// findEventForEmail returns the patient's next upcoming event, or nil if
// none exists.
func (s *DefaultBookingService) findEventForEmail(ctx context.Context, email string) (*calendly.ScheduledEvent, error) {
	events, err := s.API.ScheduledEvents(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	for i := range events {
		invitees, err := s.API.EventInvitees(ctx, eventUUID(events[i].URI))
		if err != nil {
			continue
		}
		for _, invitee := range invitees {
			if strings.EqualFold(invitee.Email, email) {
				return &events[i], nil
			}
		}
	}
	return nil, nil
}

// eventUUID extracts the event UUID from its URI (last path segment).
func eventUUID(uri string) string {
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}
