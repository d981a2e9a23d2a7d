package daterange

import "time"

type Phase string

const (
	PhaseAwaitingAnchor   Phase = "awaiting-anchor"
	PhaseAwaitingTerminus Phase = "awaiting-terminus"
)

// Selection is the two-click custom range picker. The zero value awaits an
// anchor. All methods return a new value.
type Selection struct {
	Anchor   time.Time
	Terminus time.Time
}

// Phase derives the picker phase from which days are set. A completed pair
// awaits a fresh anchor.
func (s Selection) Phase() Phase {
	if !s.Anchor.IsZero() && s.Terminus.IsZero() {
		return PhaseAwaitingTerminus
	}
	return PhaseAwaitingAnchor
}

// Click advances the picker with the clicked day.
func (s Selection) Click(day time.Time) Selection {
	day = midnight(day)
	if s.Phase() == PhaseAwaitingAnchor {
		return Selection{Anchor: day}
	}
	if day.Before(s.Anchor) {
		return Selection{Anchor: day, Terminus: s.Anchor}
	}
	return Selection{Anchor: s.Anchor, Terminus: day}
}

// Cancel clears both days.
func (s Selection) Cancel() Selection {
	return Selection{}
}

func (s Selection) CanApply() bool {
	return !s.Anchor.IsZero() && !s.Terminus.IsZero()
}

// Apply emits the selected range. Callers record it in the recent cache.
func (s Selection) Apply() (DateRange, error) {
	if !s.CanApply() {
		return DateRange{}, ErrIncompleteSelection
	}
	return ResolveCustomRange(s.Anchor, s.Terminus)
}

// SelectionState is the wire form of a Selection.
type SelectionState struct {
	Anchor   string `json:"anchor,omitempty" example:"2025-03-04"`
	Terminus string `json:"terminus,omitempty" example:"2025-03-10"`
	Phase    Phase  `json:"phase" example:"awaiting-anchor"`
	CanApply bool   `json:"can_apply"`
}

// State renders s for transport.
func (s Selection) State() SelectionState {
	st := SelectionState{Phase: s.Phase(), CanApply: s.CanApply()}
	if !s.Anchor.IsZero() {
		st.Anchor = FormatForTransport(s.Anchor)
	}
	if !s.Terminus.IsZero() {
		st.Terminus = FormatForTransport(s.Terminus)
	}
	return st
}

// SelectionFromState rebuilds a Selection from its wire form. A terminus
// without an anchor is treated as the anchor.
func SelectionFromState(anchor, terminus string, loc *time.Location) (Selection, error) {
	var s Selection
	var err error
	if anchor != "" {
		if s.Anchor, err = ParseForDisplay(anchor, loc); err != nil {
			return Selection{}, err
		}
	}
	if terminus != "" {
		if s.Terminus, err = ParseForDisplay(terminus, loc); err != nil {
			return Selection{}, err
		}
	}
	switch {
	case s.Anchor.IsZero() && !s.Terminus.IsZero():
		s = Selection{Anchor: s.Terminus}
	case s.CanApply() && s.Terminus.Before(s.Anchor):
		s.Anchor, s.Terminus = s.Terminus, s.Anchor
	}
	return s, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return civil(a).Equal(civil(b))
}
