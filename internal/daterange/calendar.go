package daterange

import "time"

// GridDay is one cell of a month grid. The three flags are independent.
type GridDay struct {
	Date     string `json:"date"`
	Day      int    `json:"day"`
	InMonth  bool   `json:"in_month"`
	Selected bool   `json:"selected"`
	InRange  bool   `json:"in_range"`
	Today    bool   `json:"today"`
}

type MonthGrid struct {
	Month string      `json:"month"`
	Label string      `json:"label"`
	Weeks [][]GridDay `json:"weeks"`
}

// DaysForMonth returns every day from the Monday on or before the 1st of
// month's month through the Sunday on or after its last day, as local
// midnights in month's location.
func DaysForMonth(month time.Time) []time.Time {
	loc := month.Location()
	first := weekStart(monthStart(month))
	last := weekEnd(monthEnd(month))

	days := make([]time.Time, 0, 42)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc))
	}
	return days
}

// DayFlags reports the render states of day for a selection and the viewer's today.
func DayFlags(day time.Time, sel Selection, today time.Time) (selected, inRange, isToday bool) {
	selected = sameDay(day, sel.Anchor) || sameDay(day, sel.Terminus)
	if sel.CanApply() {
		c := civil(day)
		lo, hi := civil(sel.Anchor), civil(sel.Terminus)
		if hi.Before(lo) {
			lo, hi = hi, lo
		}
		inRange = c.After(lo) && c.Before(hi)
	}
	isToday = sameDay(day, today)
	return
}

// BuildMonthGrid lays DaysForMonth out in Monday-first weeks.
func BuildMonthGrid(month time.Time, sel Selection, today time.Time) MonthGrid {
	days := DaysForMonth(month)
	grid := MonthGrid{
		Month: month.Format("2006-01"),
		Label: month.Format("January 2006"),
		Weeks: make([][]GridDay, 0, len(days)/7),
	}
	for i := 0; i < len(days); i += 7 {
		week := make([]GridDay, 0, 7)
		for _, d := range days[i : i+7] {
			selected, inRange, isToday := DayFlags(d, sel, today)
			week = append(week, GridDay{
				Date:     FormatForTransport(d),
				Day:      d.Day(),
				InMonth:  d.Month() == month.Month(),
				Selected: selected,
				InRange:  inRange,
				Today:    isToday,
			})
		}
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

// DualMonthGrid returns month and the month after it, side by side.
func DualMonthGrid(month time.Time, sel Selection, today time.Time) []MonthGrid {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	return []MonthGrid{
		BuildMonthGrid(first, sel, today),
		BuildMonthGrid(first.AddDate(0, 1, 0), sel, today),
	}
}
