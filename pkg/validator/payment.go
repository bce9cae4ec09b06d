package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyUPIID indicates the UPI id is empty
	ErrEmptyUPIID = errors.New("upi id cannot be empty")

	// ErrInvalidUPIID indicates the UPI id is not in local-part@provider form
	ErrInvalidUPIID = errors.New("upi id must be in the form yourname@provider")

	// ErrEmptyEmail indicates the email address is empty
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail indicates the email address is malformed
	ErrInvalidEmail = errors.New("invalid email address")
)

// upiRegex matches a 2-256 character local part (alphanumerics, dot,
// dash, underscore) followed by a 2-64 character alphabetic provider.
var upiRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)

// emailRegex is a syntactic check only; deliverability is not our problem.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// PaymentValidator handles syntactic validation of payment identifiers.
// It never contacts a payment provider.
type PaymentValidator struct{}

// NewPaymentValidator creates a new payment validator instance
func NewPaymentValidator() *PaymentValidator {
	return &PaymentValidator{}
}

// ValidateUPIID validates a UPI id such as "alice@upi" or "bob.smith@paytm".
// Returns the trimmed id and an error if invalid.
func (v *PaymentValidator) ValidateUPIID(upiID string) (string, error) {
	trimmed := strings.TrimSpace(upiID)
	if trimmed == "" {
		return "", ErrEmptyUPIID
	}

	if !upiRegex.MatchString(trimmed) {
		return "", ErrInvalidUPIID
	}

	return trimmed, nil
}

// ValidateEmail validates an email address syntactically.
// Returns the trimmed address and an error if invalid.
func (v *PaymentValidator) ValidateEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrEmptyEmail
	}

	if !emailRegex.MatchString(trimmed) {
		return "", ErrInvalidEmail
	}

	return trimmed, nil
}
