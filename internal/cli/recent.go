package cli

import (
	"context"
	"fmt"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
)

type RecentCmd struct {
	List   RecentListCmd   `cmd:"" default:"1" help:"Show the recent list, newest first."`
	Record RecentRecordCmd `cmd:"" help:"Put a range at the front of the recent list."`
	Clear  RecentClearCmd  `cmd:"" help:"Forget every recent range."`
}

type RecentListCmd struct{}

func (c *RecentListCmd) Run(ctx *Context) error {
	entries := ctx.Recent.Entries(context.Background(), ctx.Viewer)
	if len(entries) == 0 {
		fmt.Fprintln(ctx.Out, "no recent ranges")
		return nil
	}
	for i, e := range entries {
		suffix := ""
		if e.Disabled {
			suffix = " (invalid)"
		}
		fmt.Fprintf(ctx.Out, "%d. %s %s%s\n", i+1, e.StartDate, e.EndDate, suffix)
	}
	return nil
}

type RecentRecordCmd struct {
	StartDate string `arg:"" help:"yyyy-MM-dd"`
	EndDate   string `arg:"" help:"yyyy-MM-dd"`
}

func (c *RecentRecordCmd) Run(ctx *Context) error {
	r := daterange.DateRange{StartDate: c.StartDate, EndDate: c.EndDate}
	if _, err := ctx.Recent.Record(context.Background(), ctx.Viewer, r); err != nil {
		return err
	}
	return (&RecentListCmd{}).Run(ctx)
}

type RecentClearCmd struct{}

func (c *RecentClearCmd) Run(ctx *Context) error {
	return ctx.Recent.Clear(context.Background(), ctx.Viewer)
}
