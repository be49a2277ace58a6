// Package validate implements the client-side form validation rules. The
// checks are pure functions of the current form state plus the layout hint;
// every field is checked independently and all errors are surfaced together.
package validate

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\d{10,15}$`)
	nonDigits  = regexp.MustCompile(`\D`)
)

// Form is the in-progress form state
type Form struct {
	FullName      string
	Email         string
	Phone         string
	Message       string
	AcceptedTerms bool
}

// Options control which rules apply for a given form variant
type Options struct {
	// RequireMessage enforces the minimum message length (general contact
	// form). Consultation requests leave the message optional.
	RequireMessage bool
	// CompactLayout signals the narrow-viewport presentation, where the
	// terms checkbox is shown and must be accepted.
	CompactLayout bool
}

// StripPhone removes every non-digit character from a phone input
func StripPhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ValidEmail reports whether the address matches the basic local@domain.tld pattern
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Check validates the form and returns a field name to error message map.
// An empty map means the form is valid.
func Check(f Form, opts Options) map[string]string {
	errs := make(map[string]string)

	// Full name: at least two non-empty space-separated tokens
	if strings.TrimSpace(f.FullName) == "" {
		errs["fullName"] = "Full name is required"
	} else if len(strings.Fields(f.FullName)) < 2 {
		errs["fullName"] = "Please enter both first and last name"
	}

	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if !ValidEmail(f.Email) {
		errs["email"] = "Please enter a valid email address"
	}

	if strings.TrimSpace(f.Phone) == "" {
		errs["phone"] = "Phone number is required"
	} else if !phoneRegex.MatchString(StripPhone(f.Phone)) {
		errs["phone"] = "Please enter a valid phone number"
	}

	if opts.RequireMessage && len(strings.TrimSpace(f.Message)) < 10 {
		errs["message"] = "Please provide a detailed message (at least 10 characters)"
	}

	if opts.CompactLayout && !f.AcceptedTerms {
		errs["acceptTerms"] = "You must accept the terms and conditions"
	}

	return errs
}
