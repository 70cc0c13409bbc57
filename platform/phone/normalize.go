// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// Normalize prepares a phone number for the WhatsApp provider: whitespace is
// stripped and the number is formatted to E.164 when it parses as a valid
// number. Otherwise the cleaned input is returned with a leading "+" ensured,
// so provider-side validation still gets a deliverable-looking value.
func Normalize(input string) string {
	cleaned := strings.Join(strings.Fields(input), "")
	if cleaned == "" {
		return cleaned
	}

	if number, err := phonenumbers.Parse(cleaned, defaultRegion); err == nil {
		if phonenumbers.IsValidNumber(number) {
			return phonenumbers.Format(number, phonenumbers.E164)
		}
	}

	if !strings.HasPrefix(cleaned, "+") {
		cleaned = "+" + cleaned
	}
	return cleaned
}
