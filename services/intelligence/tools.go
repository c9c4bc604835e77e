package intelligence

import (
	"context"
	"fmt"
	"strings"

	"acmedental/models"
	"acmedental/services/booking"
	"acmedental/services/knowledge"
)

// ToolSurface formats orchestrator and knowledge-base results into
// natural-language strings for the agent. It only ever sees the uniform
// result shape - no error from the services reaches this layer.
type ToolSurface struct {
	Booking   booking.BookingService
	Knowledge knowledge.KnowledgeService
}

// Dispatch executes a tool by name with the model-supplied arguments.
// An unknown tool name is the only possible error.
func (t *ToolSurface) Dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "get_available_times":
		return t.GetAvailableTimes(ctx, strArg(args, "date")), nil
	case "create_booking":
		return t.CreateBooking(ctx, strArg(args, "name"), strArg(args, "email"), strArg(args, "date"), strArg(args, "time")), nil
	case "find_user_bookings":
		return t.FindUserBookings(ctx, strArg(args, "email")), nil
	case "cancel_appointment":
		return t.CancelAppointment(ctx, strArg(args, "email")), nil
	case "reschedule_appointment":
		return t.RescheduleAppointment(ctx, strArg(args, "email"), strArg(args, "new_date")), nil
	case "get_clinic_info":
		return t.Knowledge.ClinicInfo(), nil
	case "search_knowledge_base":
		return t.Knowledge.Search(strArg(args, "question")).Answer, nil
	}
	return "", fmt.Errorf("unknown tool: %s", name)
}

func strArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// GetAvailableTimes formats the availability listing for a date.
func (t *ToolSurface) GetAvailableTimes(ctx context.Context, date string) string {
	result := t.Booking.GetAvailableTimes(ctx, date)

	if len(result.Times) > 0 {
		lines := make([]string, len(result.Times))
		for i, tm := range result.Times {
			lines[i] = "- " + tm
		}
		listing := fmt.Sprintf("Available times on %s:\n%s", result.Date, strings.Join(lines, "\n"))
		if result.Fallback {
			listing += "\n\n(Live availability is temporarily unavailable; these are our usual slots.)"
		}
		return listing
	}
	if !result.Success && result.Err != nil {
		return result.Message
	}
	return fmt.Sprintf("No available slots for %s. Please try another date.", result.Date)
}

// CreateBooking formats the booking confirmation, or the direct-link
// fallback when the provider could not complete the booking.
func (t *ToolSurface) CreateBooking(ctx context.Context, name, email, date, timeStr string) string {
	result := t.Booking.CreateBooking(ctx, name, email, date, timeStr)

	if result.Success && result.Booking != nil {
		b := result.Booking
		return fmt.Sprintf(`✅ **Booking Confirmed!**

**Patient:** %s
**Email:** %s
**Date:** %s
**Time:** %s
**Duration:** %d minutes
**Cost:** €60

Your appointment has been successfully booked! You'll receive a confirmation email shortly with all the details.

**What to bring:**
- Valid photo ID
- Medical information (if applicable)
- Insurance details

**Arrival:** Please arrive 5-10 minutes early.

See you soon!`, b.Name, b.Email, b.Date, b.Time, b.Duration)
	}

	if result.Err != nil && result.Err.Kind == models.ErrKindValidation {
		return result.Message
	}

	msg := "Booking confirmation pending."
	if result.BookingURL != "" {
		msg += fmt.Sprintf("\n\nPlease complete your booking by clicking: %s", result.BookingURL)
	} else {
		contact := t.Knowledge.ContactInfo()
		msg += fmt.Sprintf("\n\nPlease contact us at %s or %s to complete your booking.", contact.ContactPhone, contact.ContactEmail)
	}
	msg += fmt.Sprintf("\n\n**Appointment Details:**\n- Date: %s\n- Time: %s\n- Duration: 30 minutes\n- Cost: €60", date, timeStr)
	return msg
}

// FindUserBookings formats the patient's upcoming appointments.
func (t *ToolSurface) FindUserBookings(ctx context.Context, email string) string {
	result := t.Booking.FindUserBookings(ctx, email)

	if result.Success && len(result.Appointments) > 0 {
		var sb strings.Builder
		fmt.Fprintf(&sb, "Found %d appointment(s) for %s:\n\n", len(result.Appointments), email)
		for i, apt := range result.Appointments {
			fmt.Fprintf(&sb, "%d. %s on %s at %s\n", i+1, apt.Name, apt.Date, apt.Time)
		}
		return sb.String()
	}
	if result.Success {
		return fmt.Sprintf("No upcoming appointments found for %s.", email)
	}
	return fmt.Sprintf("Unable to retrieve bookings: %s", result.Message)
}

// CancelAppointment formats the cancellation confirmation.
func (t *ToolSurface) CancelAppointment(ctx context.Context, email string) string {
	result := t.Booking.CancelAppointment(ctx, email)

	if result.Success && result.Booking != nil {
		return fmt.Sprintf(`✅ **Appointment Cancelled**

Your appointment on %s at %s has been cancelled.

⚠️ Cancellation within 24 hours may incur a €20 fee.

You'll receive a confirmation email shortly.`, result.Date, result.Booking.Time)
	}

	contact := t.Knowledge.ContactInfo()
	if strings.Contains(strings.ToLower(result.Message), "no upcoming") {
		return fmt.Sprintf("No upcoming appointments found for %s. If you have an appointment, please contact us at %s.", email, contact.ContactPhone)
	}
	if result.Err != nil && result.Err.Kind == models.ErrKindValidation {
		return result.Message
	}
	return fmt.Sprintf("Unable to cancel via API. Please contact us at %s or %s", contact.ContactPhone, contact.ContactEmail)
}

// RescheduleAppointment formats the cancel-then-rebook outcome, including
// the partial-failure state where the old booking is gone but no
// replacement could be started.
func (t *ToolSurface) RescheduleAppointment(ctx context.Context, email, newDate string) string {
	result := t.Booking.RescheduleAppointment(ctx, email, newDate)

	if result.Success && result.OldCancelled {
		if len(result.Times) > 0 {
			lines := make([]string, len(result.Times))
			for i, tm := range result.Times {
				lines[i] = "- " + tm
			}
			return fmt.Sprintf(`✅ **Old Appointment Cancelled**

Available times on %s:
%s

Please tell me which time you'd like for %s, and I'll create your new booking.

Example: "I'd like 2:00 PM"`, result.Date, strings.Join(lines, "\n"), result.Date)
		}
		return fmt.Sprintf("✅ **Old Appointment Cancelled**\n\nNo available slots for %s. Please try another date.", result.Date)
	}

	if result.PartialFailure {
		msg := fmt.Sprintf("⚠️ Your old appointment was cancelled, but I couldn't start the new booking for %s.", result.Date)
		if result.BookingURL != "" {
			msg += fmt.Sprintf(" Please rebook directly: %s", result.BookingURL)
		} else {
			contact := t.Knowledge.ContactInfo()
			msg += fmt.Sprintf(" Please contact us at %s to rebook.", contact.ContactPhone)
		}
		return msg
	}

	if result.Err != nil && result.Err.Kind == models.ErrKindValidation {
		return result.Message
	}
	if strings.Contains(strings.ToLower(result.Message), "no upcoming") {
		return fmt.Sprintf("No upcoming appointments found for %s, so there is nothing to reschedule.", email)
	}

	contact := t.Knowledge.ContactInfo()
	return fmt.Sprintf("To reschedule, contact: %s or %s", contact.ContactPhone, contact.ContactEmail)
}
