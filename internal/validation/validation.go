package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kjstillabower/programmer-almanac/internal/almanac"
)

// ErrLocationEmpty is returned when location is empty or whitespace-only after trim.
var ErrLocationEmpty = errors.New("location is required")

// ErrLocationTooShort is returned when location length is below the minimum.
var ErrLocationTooShort = errors.New("location too short")

// ErrLocationTooLong is returned when location length exceeds the maximum.
var ErrLocationTooLong = errors.New("location too long")

// ErrLocationInvalidChars is returned when location contains disallowed characters.
var ErrLocationInvalidChars = errors.New("location contains invalid characters")

// ErrDateInvalid is returned when a date query parameter is not YYYY-MM-DD.
var ErrDateInvalid = errors.New("date must be YYYY-MM-DD")

// ValidateLocation trims the input, enforces length bounds (minLen, maxLen in runes),
// and restricts to allowed characters: letters (Unicode), digits, space, comma,
// hyphen, apostrophe and period.
// Returns the trimmed string or an error suitable for 400 INVALID_LOCATION responses.
func ValidateLocation(input string, minLen, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	r := []rune(s)
	n := len(r)
	if n == 0 {
		return "", ErrLocationEmpty
	}
	if minLen > 0 && n < minLen {
		return "", ErrLocationTooShort
	}
	if maxLen > 0 && n > maxLen {
		return "", ErrLocationTooLong
	}
	for _, c := range r {
		if !isAllowedLocationRune(c) {
			return "", ErrLocationInvalidChars
		}
	}
	return s, nil
}

// isAllowedLocationRune returns true for letters (Unicode), digits and the
// punctuation place names use.
func isAllowedLocationRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', ',', '-', '\'', '.':
		return true
	}
	return false
}

// ParseDateParam reads an optional ?date= value. Empty means today and returns
// the zero Date; anything else must be a real calendar date.
func ParseDateParam(raw string) (almanac.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return almanac.Date{}, nil
	}
	d, err := almanac.ParseDate(raw)
	if err != nil {
		return almanac.Date{}, fmt.Errorf("%w: %q", ErrDateInvalid, raw)
	}
	return d, nil
}
