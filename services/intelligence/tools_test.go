package intelligence

import (
	"context"
	"strings"
	"testing"

	"acmedental/models"
	"acmedental/services/knowledge"
)

// stubBooking returns a preset result for every operation.
type stubBooking struct {
	result models.BookingResult
}

func (s *stubBooking) GetAvailableTimes(context.Context, string) models.BookingResult {
	return s.result
}
func (s *stubBooking) CreateBooking(context.Context, string, string, string, string) models.BookingResult {
	return s.result
}
func (s *stubBooking) FindUserBookings(context.Context, string) models.BookingResult {
	return s.result
}
func (s *stubBooking) CancelAppointment(context.Context, string) models.BookingResult {
	return s.result
}
func (s *stubBooking) RescheduleAppointment(context.Context, string, string) models.BookingResult {
	return s.result
}

type stubKnowledge struct{}

func (stubKnowledge) Search(string) knowledge.Answer {
	return knowledge.Answer{Category: "pricing", Answer: "€60 standard checkup."}
}
func (stubKnowledge) ClinicInfo() string { return "Acme Dental Clinic Information" }
func (stubKnowledge) ContactInfo() models.ClinicInfo {
	return models.ClinicInfo{ContactEmail: "info@acmedental.ie", ContactPhone: "+353 1 234 5678"}
}

func surfaceWith(result models.BookingResult) *ToolSurface {
	return &ToolSurface{
		Booking:   &stubBooking{result: result},
		Knowledge: stubKnowledge{},
	}
}

func TestCreateBookingToolConfirmation(t *testing.T) {
	surface := surfaceWith(models.BookingResult{
		Success: true,
		Booking: &models.Booking{
			Reference: "inv-1",
			Name:      "Jane Doe",
			Email:     "jane@example.com",
			Date:      "2030-06-01",
			Time:      "10:00 AM",
			Duration:  30,
			Status:    models.BookingStatusScheduled,
		},
	})

	out := surface.CreateBooking(context.Background(), "Jane Doe", "jane@example.com", "2030-06-01", "10:00 AM")

	for _, want := range []string{"Booking Confirmed", "Jane Doe", "2030-06-01", "10:00 AM", "30 minutes"} {
		if !strings.Contains(out, want) {
			t.Errorf("confirmation missing %q:\n%s", want, out)
		}
	}
}

func TestCreateBookingToolFallbackLink(t *testing.T) {
	surface := surfaceWith(models.BookingResult{
		Success:    false,
		Fallback:   true,
		BookingURL: "https://calendly.com/acme-dental/checkup?email=jane%40example.com",
		Message:    "Booking failed - please use booking URL",
		Err:        &models.ResultError{Kind: models.ErrKindConnection, Message: "connection failed"},
	})

	out := surface.CreateBooking(context.Background(), "Jane Doe", "jane@example.com", "2030-06-01", "10:00 AM")

	if !strings.Contains(out, "https://calendly.com/acme-dental/checkup") {
		t.Errorf("fallback output missing booking URL:\n%s", out)
	}
}

func TestCreateBookingToolValidationMessagePassthrough(t *testing.T) {
	surface := surfaceWith(models.ValidationFailure("Date cannot be in the past"))

	out := surface.CreateBooking(context.Background(), "Jane Doe", "jane@example.com", "2020-01-01", "10:00 AM")

	if out != "Date cannot be in the past" {
		t.Errorf("validation message not passed through: %q", out)
	}
}

func TestReschedulePartialFailureMessage(t *testing.T) {
	surface := surfaceWith(models.BookingResult{
		Success:        false,
		Date:           "2030-06-01",
		OldCancelled:   true,
		PartialFailure: true,
		BookingURL:     "https://calendly.com/acme-dental/checkup",
		Err:            &models.ResultError{Kind: models.ErrKindConnection, Message: "connection failed"},
	})

	out := surface.RescheduleAppointment(context.Background(), "jane@example.com", "2030-06-01")

	if !strings.Contains(out, "cancelled") || !strings.Contains(out, "couldn't start the new booking") {
		t.Errorf("partial failure not surfaced distinctly:\n%s", out)
	}
	if !strings.Contains(out, "https://calendly.com/acme-dental/checkup") {
		t.Errorf("partial failure missing rebook link:\n%s", out)
	}
}

func TestGetAvailableTimesToolListsSlots(t *testing.T) {
	surface := surfaceWith(models.BookingResult{
		Success: true,
		Date:    "2030-06-01",
		Times:   []string{"9:00 AM", "2:00 PM"},
	})

	out := surface.GetAvailableTimes(context.Background(), "2030-06-01")

	if !strings.Contains(out, "- 9:00 AM") || !strings.Contains(out, "- 2:00 PM") {
		t.Errorf("slot listing malformed:\n%s", out)
	}
}

func TestDispatchKnownAndUnknownTools(t *testing.T) {
	surface := surfaceWith(models.BookingResult{Success: true, Date: "2030-06-01"})

	out, err := surface.Dispatch(context.Background(), "search_knowledge_base", map[string]any{"question": "how much?"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(out, "€60") {
		t.Errorf("knowledge answer missing: %q", out)
	}

	if _, err := surface.Dispatch(context.Background(), "nonexistent_tool", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestCancelToolNotFoundMentionsContact(t *testing.T) {
	surface := surfaceWith(models.BookingResult{
		Success: false,
		Message: "No upcoming appointments found",
		Err:     &models.ResultError{Kind: models.ErrKindNotFound, Message: "no upcoming appointments"},
	})

	out := surface.CancelAppointment(context.Background(), "jane@example.com")

	if !strings.Contains(out, "No upcoming appointments found") {
		t.Errorf("not-found outcome missing:\n%s", out)
	}
	if !strings.Contains(out, "+353 1 234 5678") {
		t.Errorf("contact phone missing:\n%s", out)
	}
}
