package cli

import (
	"io"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/recentrange"
)

// Root is the rangectl command line.
type Root struct {
	Version  kong.VersionFlag
	Now      string `help:"Pretend it is this moment (RFC3339 or yyyy-MM-dd)." placeholder:"TIME"`
	TZ       string `name:"tz" help:"IANA timezone the dates are read in." default:"Local"`
	Epoch    string `help:"First day covered by the Maximum preset (yyyy-MM-dd)." env:"MAXIMUM_RANGE_EPOCH"`
	StoreDir string `help:"Directory of the recent range store." type:"path" default:"~/.config/rangectl"`
	Viewer   string `help:"Whose recent ranges to read and write." default:"cli"`
	Debug    bool   `help:"Log debug output to stderr."`

	Presets      PresetsCmd      `cmd:"" help:"List presets resolved for now."`
	Resolve      ResolveCmd      `cmd:"" help:"Resolve one preset."`
	Custom       CustomCmd       `cmd:"" help:"Order two days into a custom range."`
	Calendar     CalendarCmd     `cmd:"" help:"Print the dual-month picker grid."`
	Recent       RecentCmd       `cmd:"" help:"Recently used ranges."`
	HashAdminKey HashAdminKeyCmd `cmd:"" help:"Prompt for an admin key and print its bcrypt hash for ADMIN_KEY_HASH."`
}

// Context is handed to every command's Run.
type Context struct {
	Out      io.Writer
	Now      time.Time
	Resolver *daterange.Resolver
	Recent   *recentrange.Cache
	Viewer   string
	// ReadSecret prompts for a value without echoing it.
	ReadSecret func(prompt string) (string, error)
}

// Context builds the run context from the parsed global flags.
func (r *Root) Context(out io.Writer) (*Context, error) {
	loc, err := daterange.LoadLocation(r.TZ)
	if err != nil {
		return nil, err
	}
	now, err := parseNow(r.Now, loc)
	if err != nil {
		return nil, err
	}
	epoch, err := daterange.ParseEpoch(r.Epoch)
	if err != nil {
		return nil, err
	}

	return &Context{
		Out:        out,
		Now:        now,
		Resolver:   daterange.NewResolver(epoch),
		Recent:     recentrange.New(recentrange.NewFileStore(r.StoreDir)),
		Viewer:     r.Viewer,
		ReadSecret: readSecretWithMask,
	}, nil
}

func parseNow(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return daterange.ParseForDisplay(s, loc)
}
