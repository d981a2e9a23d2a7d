package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
)

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

type CalendarCmd struct {
	Month    string `arg:"" optional:"" help:"First month shown (yyyy-MM); defaults to the current month."`
	Anchor   string `help:"First picked day (yyyy-MM-dd)."`
	Terminus string `help:"Second picked day (yyyy-MM-dd)."`
}

// Run prints two month tables. Picked days show as [d], days between them
// as ~d and today as d*. Days outside the month are left blank.
func (c *CalendarCmd) Run(ctx *Context) error {
	loc := ctx.Now.Location()
	month := time.Date(ctx.Now.Year(), ctx.Now.Month(), 1, 0, 0, 0, 0, loc)
	if c.Month != "" {
		var err error
		if month, err = daterange.ParseMonth(c.Month, loc); err != nil {
			return err
		}
	}

	sel, err := daterange.SelectionFromState(c.Anchor, c.Terminus, loc)
	if err != nil {
		return err
	}

	for i, grid := range daterange.DualMonthGrid(month, sel, ctx.Now) {
		if i > 0 {
			fmt.Fprintln(ctx.Out)
		}
		fmt.Fprintln(ctx.Out, grid.Label)

		table := tablewriter.NewWriter(ctx.Out)
		table.SetHeader(weekdayHeader)
		table.SetAutoFormatHeaders(false)
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		for _, week := range grid.Weeks {
			row := make([]string, 0, len(week))
			for _, d := range week {
				row = append(row, cell(d))
			}
			table.Append(row)
		}
		table.Render()
	}

	if st := sel.State(); st.CanApply {
		fmt.Fprintf(ctx.Out, "\nselected %s to %s\n", st.Anchor, st.Terminus)
	}
	return nil
}

func cell(d daterange.GridDay) string {
	if !d.InMonth {
		return ""
	}
	s := strconv.Itoa(d.Day)
	switch {
	case d.Selected:
		s = "[" + s + "]"
	case d.InRange:
		s = "~" + s
	}
	if d.Today {
		s += "*"
	}
	return s
}
