package daterange

import (
	"time"

	"github.com/Laisky/errors/v2"
)

// Layout is the canonical calendar date format used on the wire and in storage.
const Layout = "2006-01-02"

var (
	ErrUnknownPreset       = errors.New("unknown date range preset")
	ErrIncompleteSelection = errors.New("both dates of a custom range must be set")
	ErrInvalidDate         = errors.New("date must be in yyyy-MM-dd format")
)

// DateRange is an inclusive pair of calendar dates. StartDate <= EndDate
// always holds for values produced by this package.
type DateRange struct {
	StartDate string `json:"start_date" binding:"required,calendardate" example:"2025-01-01"`
	EndDate   string `json:"end_date" binding:"required,calendardate" example:"2025-01-31"`
}

// Validate reports whether both dates parse and are ordered.
func (r DateRange) Validate() error {
	start, err := time.Parse(Layout, r.StartDate)
	if err != nil {
		return errors.Wrapf(ErrInvalidDate, "start_date %q", r.StartDate)
	}
	end, err := time.Parse(Layout, r.EndDate)
	if err != nil {
		return errors.Wrapf(ErrInvalidDate, "end_date %q", r.EndDate)
	}
	if end.Before(start) {
		return errors.Errorf("start_date %s is after end_date %s", r.StartDate, r.EndDate)
	}
	return nil
}

// Days is the number of calendar days covered, both ends included.
// Zero for an invalid range.
func (r DateRange) Days() int {
	if r.Validate() != nil {
		return 0
	}
	start, _ := time.Parse(Layout, r.StartDate)
	end, _ := time.Parse(Layout, r.EndDate)
	return int(end.Sub(start).Hours()/24) + 1
}

func (r DateRange) String() string {
	return r.StartDate + " to " + r.EndDate
}

// civil strips t to its calendar date as seen in t's own location. The
// result lives in UTC so AddDate never crosses a DST transition.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newRange orders a and b and formats them as a DateRange.
func newRange(a, b time.Time) DateRange {
	a, b = civil(a), civil(b)
	if b.Before(a) {
		a, b = b, a
	}
	return DateRange{StartDate: a.Format(Layout), EndDate: b.Format(Layout)}
}
