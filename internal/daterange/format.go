package daterange

import (
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
)

// FormatForTransport renders the calendar date of t as seen in t's own
// location. It never converts to UTC first.
func FormatForTransport(t time.Time) string {
	return t.Format(Layout)
}

// ParseForDisplay reads a canonical date as local midnight in loc. A nil
// loc means time.Local.
func ParseForDisplay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "parse %q", s)
	}
	return t, nil
}

// LoadLocation resolves an IANA zone name. Empty and "Local" map to time.Local.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown timezone %q", name)
	}
	return loc, nil
}

// ParseMonth reads "2006-01" and returns the first of that month at local
// midnight in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "month %q must be in yyyy-MM format", s)
	}
	return t, nil
}
