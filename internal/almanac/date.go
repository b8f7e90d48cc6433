package almanac

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day with no time-of-day or zone component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day in loc. A nil loc means local time.
func Today(loc *time.Location) Date {
	now := time.Now()
	if loc != nil {
		now = now.In(loc)
	}
	return DateOf(now)
}

// ParseDate parses a YYYY-MM-DD string. Non-existent days such as 2023-02-29 are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the unset date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight of d in loc (UTC when loc is nil).
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText encodes d in its YYYY-MM-DD form.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses the YYYY-MM-DD form.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// hashKey is the unpadded "YYYY-M-D" form the date hash runs over.
func (d Date) hashKey() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(d.Year))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(int(d.Month)))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(d.Day))
	return b.String()
}

// orToday substitutes today's date for the zero value.
func (d Date) orToday() Date {
	if d.IsZero() {
		return Today(nil)
	}
	return d
}
