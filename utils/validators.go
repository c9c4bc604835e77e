package utils

import (
	"regexp"
	"strings"
	"time"

	"acmedental/models"
)

// RFC 5322 compliant email pattern, simplified for practical use.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// DateLayout is the only accepted date format for appointment dates.
const DateLayout = "2006-01-02"

// ValidateEmail checks the email address format. It never returns an error;
// a bad address comes back as an invalid result with a human-readable reason.
func ValidateEmail(email string) models.ValidationResult {
	if email == "" {
		return models.ValidationResult{Valid: false, Reason: "Email is required"}
	}

	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return models.ValidationResult{
			Valid:  false,
			Reason: "Invalid email format. Please provide a valid email address (e.g., john@example.com)",
		}
	}

	return models.ValidationResult{Valid: true, Reason: "Valid email"}
}

// ValidateDate checks that the date is in YYYY-MM-DD format and not in the
// past. Appointments cannot be booked for dates before today.
func ValidateDate(dateStr string) models.ValidationResult {
	if dateStr == "" {
		return models.ValidationResult{Valid: false, Reason: "Date is required"}
	}

	parsed, err := time.ParseInLocation(DateLayout, dateStr, time.Local)
	if err != nil {
		return models.ValidationResult{
			Valid:  false,
			Reason: "Invalid date format. Please use YYYY-MM-DD format (e.g., 2026-02-20)",
		}
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if parsed.Before(today) {
		return models.ValidationResult{Valid: false, Reason: "Date cannot be in the past"}
	}

	return models.ValidationResult{Valid: true, Reason: "Valid date"}
}
