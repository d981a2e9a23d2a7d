package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
)

type PresetsCmd struct{}

func (c *PresetsCmd) Run(ctx *Context) error {
	table := tablewriter.NewWriter(ctx.Out)
	table.SetHeader([]string{"Key", "Label", "Start", "End", "Days"})
	table.SetAutoFormatHeaders(false)
	for _, p := range ctx.Resolver.ResolveAll(ctx.Now) {
		table.Append([]string{p.Key, p.Label, p.Range.StartDate, p.Range.EndDate, strconv.Itoa(p.Range.Days())})
	}
	table.Render()
	return nil
}

type ResolveCmd struct {
	Preset string `arg:"" help:"Preset label, key or legacy alias (daily, weekly, monthly, yearly)." default:"Last 7 days"`
	Record bool   `help:"Remember the range in the recent list."`
}

func (c *ResolveCmd) Run(ctx *Context) error {
	r, err := ctx.Resolver.ResolvePreset(c.Preset, ctx.Now)
	if err != nil {
		return err
	}
	return printRange(ctx, r, c.Record)
}

type CustomCmd struct {
	DayA   string `arg:"" help:"First picked day (yyyy-MM-dd)."`
	DayB   string `arg:"" help:"Second picked day (yyyy-MM-dd)."`
	Record bool   `help:"Remember the range in the recent list."`
}

func (c *CustomCmd) Run(ctx *Context) error {
	loc := ctx.Now.Location()
	a, err := daterange.ParseForDisplay(c.DayA, loc)
	if err != nil {
		return err
	}
	b, err := daterange.ParseForDisplay(c.DayB, loc)
	if err != nil {
		return err
	}
	r, err := daterange.ResolveCustomRange(a, b)
	if err != nil {
		return err
	}
	return printRange(ctx, r, c.Record)
}

func printRange(ctx *Context, r daterange.DateRange, record bool) error {
	fmt.Fprintf(ctx.Out, "%s %s\n", r.StartDate, r.EndDate)
	if !record {
		return nil
	}
	_, err := ctx.Recent.Record(context.Background(), ctx.Viewer, r)
	return err
}
