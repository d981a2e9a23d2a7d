package rangepicker

import (
	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/recentrange"
)

// SourceCustom labels ranges built from two picked days.
const SourceCustom = "custom"

// RangeQuery is how a request names a date range.
type RangeQuery struct {
	Preset    string `form:"preset" json:"preset"`
	StartDate string `form:"start_date" json:"start_date" binding:"omitempty,calendardate"`
	EndDate   string `form:"end_date" json:"end_date" binding:"omitempty,calendardate"`
	TZ        string `form:"tz" json:"tz"`
}

// Resolved is a range together with how it was chosen.
type Resolved struct {
	Range  daterange.DateRange `json:"range"`
	Source string              `json:"source"`
	Label  string              `json:"label"`
}

type PresetsResponse struct {
	Today   string                     `json:"today"`
	Presets []daterange.ResolvedPreset `json:"presets"`
}

type CalendarQuery struct {
	Month    string `form:"month"`
	Anchor   string `form:"anchor" binding:"omitempty,calendardate"`
	Terminus string `form:"terminus" binding:"omitempty,calendardate"`
	TZ       string `form:"tz"`
}

type CalendarResponse struct {
	Today     string                   `json:"today"`
	Selection daterange.SelectionState `json:"selection"`
	Months    []daterange.MonthGrid    `json:"months"`
}

const (
	ActionClick  = "click"
	ActionCancel = "cancel"
	ActionApply  = "apply"
)

// SelectionRequest is one step of the custom range picker.
type SelectionRequest struct {
	Anchor   string `json:"anchor" binding:"omitempty,calendardate"`
	Terminus string `json:"terminus" binding:"omitempty,calendardate"`
	Action   string `json:"action" binding:"required,oneof=click cancel apply"`
	Day      string `json:"day" binding:"omitempty,calendardate"`
	TZ       string `json:"tz"`
}

type SelectionResponse struct {
	Selection daterange.SelectionState `json:"selection"`
	Range     *daterange.DateRange     `json:"range,omitempty"`
	Recent    []recentrange.Entry      `json:"recent,omitempty"`
}

type RecentResponse struct {
	Data []recentrange.Entry `json:"data"`
}
