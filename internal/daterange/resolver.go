package daterange

import (
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
)

// Resolver turns presets or picked days into canonical DateRanges. It is
// safe for concurrent use; nothing in it changes after NewResolver.
type Resolver struct {
	epoch   time.Time
	presets []PresetDefinition
	lookup  map[string]int
}

// NewResolver builds a resolver whose "Maximum" preset starts at epoch.
// A zero epoch falls back to DefaultEpoch.
func NewResolver(epoch time.Time) *Resolver {
	if epoch.IsZero() {
		epoch = DefaultEpoch
	}
	r := &Resolver{
		epoch:   civil(epoch),
		presets: buildPresets(epoch),
		lookup:  map[string]int{},
	}
	for i := range r.presets {
		r.presets[i].Key = Slug(r.presets[i].Label)
		r.lookup[r.presets[i].Key] = i
	}
	return r
}

// ParseEpoch reads the configured "Maximum" epoch; empty means DefaultEpoch.
func ParseEpoch(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultEpoch, nil
	}
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "maximum range epoch %q", s)
	}
	return t, nil
}

// Epoch returns the first day covered by "Maximum".
func (r *Resolver) Epoch() time.Time { return r.epoch }

// Presets lists every preset in display order.
func (r *Resolver) Presets() []PresetDefinition {
	out := make([]PresetDefinition, len(r.presets))
	copy(out, r.presets)
	return out
}

// Lookup finds a preset by label (any case), slug, or legacy alias.
func (r *Resolver) Lookup(name string) (PresetDefinition, bool) {
	key := Slug(name)
	if label, ok := aliases[key]; ok {
		key = Slug(label)
	}
	i, ok := r.lookup[key]
	if !ok {
		return PresetDefinition{}, false
	}
	return r.presets[i], true
}

// ResolvePreset evaluates the named preset against now.
func (r *Resolver) ResolvePreset(name string, now time.Time) (DateRange, error) {
	p, ok := r.Lookup(name)
	if !ok {
		return DateRange{}, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
	return p.Resolve(now), nil
}

// ResolveCustomRange orders two picked days into a range. Either day being
// the zero time is an incomplete selection.
func ResolveCustomRange(dayA, dayB time.Time) (DateRange, error) {
	if dayA.IsZero() || dayB.IsZero() {
		return DateRange{}, ErrIncompleteSelection
	}
	return newRange(dayA, dayB), nil
}

// Resolve applies request-style input. A preset wins over dates, a pair of
// dates gives a custom range in either order, exactly one date is an
// incomplete selection and no input at all gives DefaultPreset. Dates are
// read as calendar days in now's location.
func (r *Resolver) Resolve(preset, start, end string, now time.Time) (DateRange, error) {
	preset = strings.TrimSpace(preset)
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)

	if preset != "" && !strings.EqualFold(preset, "custom") {
		return r.ResolvePreset(preset, now)
	}

	switch {
	case start == "" && end == "":
		if preset != "" {
			return DateRange{}, ErrIncompleteSelection
		}
		return r.ResolvePreset(DefaultPreset, now)
	case start == "" || end == "":
		return DateRange{}, ErrIncompleteSelection
	}

	a, err := ParseForDisplay(start, now.Location())
	if err != nil {
		return DateRange{}, err
	}
	b, err := ParseForDisplay(end, now.Location())
	if err != nil {
		return DateRange{}, err
	}
	return ResolveCustomRange(a, b)
}

// ResolveAll evaluates every preset against now, keyed by label order.
func (r *Resolver) ResolveAll(now time.Time) []ResolvedPreset {
	out := make([]ResolvedPreset, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, ResolvedPreset{Key: p.Key, Label: p.Label, Range: p.Resolve(now)})
	}
	return out
}

// ResolvedPreset is a preset already evaluated for a given day.
type ResolvedPreset struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Range DateRange `json:"range"`
}
