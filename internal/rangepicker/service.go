package rangepicker

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/events"
	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/internal/metrics"
	"github.com/outreachboard/client-reporting-backend/internal/recentrange"
)

var ErrDayRequired = errors.New("day is required for a click")

type Service interface {
	Location(tz string) (*time.Location, error)
	Presets(tz string) (*PresetsResponse, error)
	// Resolve turns q into a range. When viewer is non-empty the range is
	// recorded in the viewer's recent list and an analytics event is sent.
	Resolve(ctx context.Context, viewer, companyID string, q RangeQuery) (*Resolved, error)
	Calendar(q CalendarQuery) (*CalendarResponse, error)
	Select(ctx context.Context, viewer string, req SelectionRequest) (*SelectionResponse, error)
	Recent(ctx context.Context, viewer string) []recentrange.Entry
	Record(ctx context.Context, viewer string, r daterange.DateRange) ([]recentrange.Entry, error)
}

type service struct {
	resolver   *daterange.Resolver
	cache      *recentrange.Cache
	publisher  events.Publisher
	defaultLoc *time.Location
	now        func() time.Time
}

func NewService(resolver *daterange.Resolver, cache *recentrange.Cache, publisher events.Publisher, defaultLoc *time.Location) Service {
	return newService(resolver, cache, publisher, defaultLoc, time.Now)
}

func newService(resolver *daterange.Resolver, cache *recentrange.Cache, publisher events.Publisher, defaultLoc *time.Location, now func() time.Time) *service {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service{resolver: resolver, cache: cache, publisher: publisher, defaultLoc: defaultLoc, now: now}
}

// Location resolves the viewer's zone, falling back to the configured default.
func (s *service) Location(tz string) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		return s.defaultLoc, nil
	}
	return daterange.LoadLocation(tz)
}

func (s *service) viewerNow(tz string) (time.Time, error) {
	loc, err := s.Location(tz)
	if err != nil {
		return time.Time{}, err
	}
	return s.now().In(loc), nil
}

func (s *service) Presets(tz string) (*PresetsResponse, error) {
	now, err := s.viewerNow(tz)
	if err != nil {
		return nil, err
	}
	return &PresetsResponse{
		Today:   daterange.FormatForTransport(now),
		Presets: s.resolver.ResolveAll(now),
	}, nil
}

func (s *service) Resolve(ctx context.Context, viewer, companyID string, q RangeQuery) (*Resolved, error) {
	now, err := s.viewerNow(q.TZ)
	if err != nil {
		return nil, err
	}

	r, err := s.resolver.Resolve(q.Preset, q.StartDate, q.EndDate, now)
	if err != nil {
		return nil, err
	}

	res := &Resolved{Range: r, Source: SourceCustom, Label: r.String()}
	preset := q.Preset
	if preset == "" && q.StartDate == "" && q.EndDate == "" {
		preset = daterange.DefaultPreset
	}
	if p, ok := s.resolver.Lookup(preset); ok {
		res.Source, res.Label = p.Key, p.Label
	}
	metrics.RangesResolved.WithLabelValues(res.Source).Inc()

	if viewer != "" {
		if _, err := s.cache.Record(ctx, viewer, r); err != nil {
			logger.Warn("could not record recent range", "viewer", viewer, "err", err)
		}
		events.PublishQuietly(ctx, s.publisher, events.Event{
			Type:       events.TypeRangeResolved,
			OccurredAt: s.now().UTC(),
			Viewer:     viewer,
			CompanyID:  companyID,
			Source:     res.Source,
			Range:      &res.Range,
		})
	}
	return res, nil
}

func (s *service) Calendar(q CalendarQuery) (*CalendarResponse, error) {
	now, err := s.viewerNow(q.TZ)
	if err != nil {
		return nil, err
	}
	loc := now.Location()

	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	if q.Month != "" {
		if month, err = daterange.ParseMonth(q.Month, loc); err != nil {
			return nil, err
		}
	}

	sel, err := daterange.SelectionFromState(q.Anchor, q.Terminus, loc)
	if err != nil {
		return nil, err
	}

	return &CalendarResponse{
		Today:     daterange.FormatForTransport(now),
		Selection: sel.State(),
		Months:    daterange.DualMonthGrid(month, sel, now),
	}, nil
}

// Select applies one picker action. An applied range is recorded for
// viewer when viewer is non-empty.
func (s *service) Select(ctx context.Context, viewer string, req SelectionRequest) (*SelectionResponse, error) {
	loc, err := s.Location(req.TZ)
	if err != nil {
		return nil, err
	}
	sel, err := daterange.SelectionFromState(req.Anchor, req.Terminus, loc)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case ActionClick:
		if req.Day == "" {
			return nil, ErrDayRequired
		}
		day, err := daterange.ParseForDisplay(req.Day, loc)
		if err != nil {
			return nil, err
		}
		sel = sel.Click(day)
	case ActionCancel:
		sel = sel.Cancel()
	case ActionApply:
		r, err := sel.Apply()
		if err != nil {
			return nil, err
		}
		resp := &SelectionResponse{Selection: sel.State(), Range: &r}
		metrics.RangesResolved.WithLabelValues(SourceCustom).Inc()
		if viewer != "" {
			if resp.Recent, err = s.Record(ctx, viewer, r); err != nil {
				logger.Warn("could not record applied range", "viewer", viewer, "err", err)
			}
			events.PublishQuietly(ctx, s.publisher, events.Event{
				Type:       events.TypeRangeResolved,
				OccurredAt: s.now().UTC(),
				Viewer:     viewer,
				Source:     SourceCustom,
				Range:      &r,
			})
		}
		return resp, nil
	default:
		return nil, errors.Errorf("unknown selection action %q", req.Action)
	}

	return &SelectionResponse{Selection: sel.State()}, nil
}

func (s *service) Recent(ctx context.Context, viewer string) []recentrange.Entry {
	return s.cache.Entries(ctx, viewer)
}

func (s *service) Record(ctx context.Context, viewer string, r daterange.DateRange) ([]recentrange.Entry, error) {
	if _, err := s.cache.Record(ctx, viewer, r); err != nil {
		return nil, err
	}
	return s.cache.Entries(ctx, viewer), nil
}
