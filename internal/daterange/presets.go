package daterange

import (
	"strings"
	"time"
)

const (
	PresetToday      = "Today"
	PresetYesterday  = "Yesterday"
	PresetLast7Days  = "Last 7 days"
	PresetLast14Days = "Last 14 days"
	PresetLast28Days = "Last 28 days"
	PresetLast30Days = "Last 30 days"
	PresetThisWeek   = "This week"
	PresetLastWeek   = "Last week"
	PresetThisMonth  = "This month"
	PresetLastMonth  = "Last month"
	PresetThisYear   = "This year"
	PresetMaximum    = "Maximum"

	// DefaultPreset applies when a request carries neither preset nor dates.
	DefaultPreset = PresetLast7Days
)

// DefaultEpoch is the first day "Maximum" covers when none is configured.
var DefaultEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// legacy keys from the older reports filter
var aliases = map[string]string{
	"daily":   PresetToday,
	"weekly":  PresetLast7Days,
	"monthly": PresetThisMonth,
	"yearly":  PresetThisYear,
}

// PresetDefinition is a named range evaluated against now at selection time.
type PresetDefinition struct {
	Key     string
	Label   string
	Resolve func(now time.Time) DateRange
}

func lastNDays(n int) func(time.Time) DateRange {
	return func(now time.Time) DateRange {
		return newRange(civil(now).AddDate(0, 0, -(n - 1)), now)
	}
}

// weekStart returns the Monday on or before d.
func weekStart(d time.Time) time.Time {
	d = civil(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// weekEnd returns the Sunday on or after d.
func weekEnd(d time.Time) time.Time {
	return weekStart(d).AddDate(0, 0, 6)
}

func monthStart(d time.Time) time.Time {
	y, m, _ := d.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// monthEnd uses day 0 of the following month, which time.Date normalises
// to the real last day.
func monthEnd(d time.Time) time.Time {
	y, m, _ := d.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}

func buildPresets(epoch time.Time) []PresetDefinition {
	epoch = civil(epoch)
	return []PresetDefinition{
		{Label: PresetToday, Resolve: func(now time.Time) DateRange { return newRange(now, now) }},
		{Label: PresetYesterday, Resolve: func(now time.Time) DateRange {
			y := civil(now).AddDate(0, 0, -1)
			return newRange(y, y)
		}},
		{Label: PresetLast7Days, Resolve: lastNDays(7)},
		{Label: PresetLast14Days, Resolve: lastNDays(14)},
		{Label: PresetLast28Days, Resolve: lastNDays(28)},
		{Label: PresetLast30Days, Resolve: lastNDays(30)},
		{Label: PresetThisWeek, Resolve: func(now time.Time) DateRange {
			return newRange(weekStart(now), weekEnd(now))
		}},
		{Label: PresetLastWeek, Resolve: func(now time.Time) DateRange {
			prev := civil(now).AddDate(0, 0, -7)
			return newRange(weekStart(prev), weekEnd(prev))
		}},
		{Label: PresetThisMonth, Resolve: func(now time.Time) DateRange {
			return newRange(monthStart(now), monthEnd(now))
		}},
		{Label: PresetLastMonth, Resolve: func(now time.Time) DateRange {
			// day 1 first so March 31 never normalises into March 3
			prev := monthStart(now).AddDate(0, -1, 0)
			return newRange(prev, monthEnd(prev))
		}},
		{Label: PresetThisYear, Resolve: func(now time.Time) DateRange {
			y := now.Year()
			return newRange(
				time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
			)
		}},
		{Label: PresetMaximum, Resolve: func(now time.Time) DateRange { return newRange(epoch, now) }},
	}
}

// Slug turns a label into its lookup key, e.g. "Last 7 days" -> "last_7_days".
func Slug(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}
