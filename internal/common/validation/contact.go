// internal/common/validation/contact.go
package validation

import (
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	whatsappPattern = regexp.MustCompile(`^(\+55\s?)?(\(?\d{2}\)?\s?)?(\d{4,5}-?\d{4})$`)
	nonDigits       = regexp.MustCompile(`\D`)
)

// ValidateEmail validates email format.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidateWhatsApp accepts Brazilian mobile formats such as (11) 99999-9999,
// 11999999999 and +55 11 99999-9999.
func ValidateWhatsApp(phone string) bool {
	return whatsappPattern.MatchString(strings.TrimSpace(phone))
}

// CleanWhatsApp strips formatting and the 55 country code, returning DDD plus number.
func CleanWhatsApp(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, "55") {
		digits = digits[2:]
	}
	return digits
}

// FormatWhatsApp renders a number as (DD) NNNNN-NNNN or (DD) NNNN-NNNN.
// Inputs that are not 10 or 11 digits after cleaning are returned unchanged.
func FormatWhatsApp(phone string) string {
	digits := CleanWhatsApp(phone)
	switch len(digits) {
	case 11:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
	case 10:
		return "(" + digits[:2] + ") " + digits[2:6] + "-" + digits[6:]
	default:
		return phone
	}
}

// E164BR returns +55DDNNNNNNNNN for SMS delivery, or "" if the number is incomplete.
func E164BR(phone string) string {
	digits := CleanWhatsApp(phone)
	if len(digits) != 10 && len(digits) != 11 {
		return ""
	}
	return "+55" + digits
}
