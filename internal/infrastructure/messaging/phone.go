package messaging

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidPhone is returned when a phone number cannot be normalized
var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone normalizes a phone number to the format the WhatsApp
// Cloud API accepts: digits only, international, no leading plus.
// Numbers with 10 or 11 digits are assumed Brazilian and get the 55
// country code prefixed.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	phone := strings.TrimLeft(b.String(), "0")

	// DDD+numero without country code
	if len(phone) == 10 || len(phone) == 11 {
		phone = "55" + phone
	}

	if len(phone) < 12 || len(phone) > 15 {
		return "", ErrInvalidPhone
	}
	return phone, nil
}
