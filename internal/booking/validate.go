package booking

import (
	"regexp"
	"strings"
)

var (
	// RFC-simplified: local@domain with a dot in the domain part.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Digits, spaces, +, -, parentheses.
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// ValidatePassengerDetails checks the details required before submission.
// The returned error is a *AppError with code VALIDATION describing the
// first failing field; nil means the details are submittable.
func ValidatePassengerDetails(d PassengerDetails) error {
	name := strings.TrimSpace(d.PassengerName)
	if name == "" {
		return NewValidationError("passenger name is required")
	}
	if len(name) < 2 {
		return NewValidationError("passenger name must be at least 2 characters")
	}

	email := strings.TrimSpace(d.PassengerEmail)
	if email == "" {
		return NewValidationError("passenger email is required")
	}
	if !emailPattern.MatchString(email) {
		return NewValidationError("passenger email is not a valid address")
	}

	phone := strings.TrimSpace(d.PassengerPhone)
	if phone == "" {
		return NewValidationError("passenger phone is required")
	}
	if !phonePattern.MatchString(phone) {
		return NewValidationError("passenger phone contains invalid characters")
	}

	if !d.PaymentMethod.Valid() {
		return NewValidationError("payment method must be one of CREDIT_CARD, DEBIT_CARD, UPI, BANK_TRANSFER")
	}

	return nil
}

// ValidateSearchCriteria checks the fields required to run a search.
func ValidateSearchCriteria(origin, destination, departureDate string, passengers int) error {
	if strings.TrimSpace(origin) == "" {
		return NewValidationError("origin is required")
	}
	if strings.TrimSpace(destination) == "" {
		return NewValidationError("destination is required")
	}
	if strings.TrimSpace(departureDate) == "" {
		return NewValidationError("departure date is required")
	}
	if passengers < 1 {
		return NewValidationError("passenger count must be at least 1")
	}
	return nil
}
