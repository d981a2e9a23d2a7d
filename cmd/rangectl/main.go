package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/outreachboard/client-reporting-backend/internal/cli"
	"github.com/outreachboard/client-reporting-backend/internal/logger"
)

var CLI cli.Root

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("rangectl"),
		kong.Description("Resolve date range presets, draw the range picker and manage recent ranges"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, Prefix: "rangectl", Quiet: true}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx, err := CLI.Context(os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
