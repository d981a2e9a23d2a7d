package recentrange

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Laisky/errors/v2"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/internal/metrics"
)

const (
	// CacheName prefixes every storage key.
	CacheName = "recent_date_ranges"
	// MaxEntries is how many distinct ranges are remembered per viewer.
	MaxEntries = 3
)

// Store persists one opaque value per key. Load returns nil data and a nil
// error when the key has never been saved.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Entry is a remembered range as shown in the recent list.
type Entry struct {
	daterange.DateRange
	Disabled bool `json:"disabled"`
}

// InvalidateEntry marks e unusable. The stored value is left untouched.
func InvalidateEntry(e Entry) Entry {
	e.Disabled = true
	return e
}

// Cache remembers the last few distinct ranges per viewer, most recent first.
type Cache struct {
	store Store
	mu    sync.Mutex
}

func New(store Store) *Cache {
	return &Cache{store: store}
}

// Key is the storage key for a viewer.
func Key(viewer string) string {
	viewer = strings.TrimSpace(viewer)
	if viewer == "" {
		return CacheName
	}
	return CacheName + ":" + viewer
}

// Load returns the viewer's remembered ranges. Missing, unreadable or
// corrupt values all come back as an empty list.
func (c *Cache) Load(ctx context.Context, viewer string) []daterange.DateRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	ranges, err := c.load(ctx, viewer)
	if err != nil {
		logger.Warn("recent range cache unavailable", "key", Key(viewer), "err", err)
		return []daterange.DateRange{}
	}
	return ranges
}

// load returns an error only when the store itself fails. Corrupt content
// is discarded and reads as empty.
func (c *Cache) load(ctx context.Context, viewer string) ([]daterange.DateRange, error) {
	key := Key(viewer)
	data, err := c.store.Load(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "load recent ranges for %q", viewer)
	}
	if len(data) == 0 {
		return []daterange.DateRange{}, nil
	}

	var ranges []daterange.DateRange
	if err := json.Unmarshal(data, &ranges); err != nil {
		metrics.RecentCacheCorrupt.Inc()
		logger.Warn("discarding corrupt recent range cache", "key", key, "err", err)
		return []daterange.DateRange{}, nil
	}
	if ranges == nil {
		ranges = []daterange.DateRange{}
	}
	return ranges, nil
}

// Entries is Load with every entry checked; ranges whose dates no longer
// parse are returned disabled rather than dropped.
func (c *Cache) Entries(ctx context.Context, viewer string) []Entry {
	ranges := c.Load(ctx, viewer)
	out := make([]Entry, 0, len(ranges))
	for _, r := range ranges {
		e := Entry{DateRange: r}
		if err := r.Validate(); err != nil {
			logger.Debug("disabling recent range", "range", r.String(), "err", err)
			e = InvalidateEntry(e)
		}
		out = append(out, e)
	}
	return out
}

// Record moves r to the front of the viewer's list, dropping any equal entry
// and anything past MaxEntries, and returns the saved list. Nothing is saved
// when the current list cannot be read from the store.
func (c *Cache) Record(ctx context.Context, viewer string, r daterange.DateRange) ([]daterange.DateRange, error) {
	if err := r.Validate(); err != nil {
		return nil, errors.Wrap(err, "record recent range")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ranges, err := c.load(ctx, viewer)
	if err != nil {
		return nil, err
	}
	next := make([]daterange.DateRange, 0, MaxEntries)
	next = append(next, r)
	for _, existing := range ranges {
		if len(next) == MaxEntries {
			break
		}
		if existing.StartDate == r.StartDate && existing.EndDate == r.EndDate {
			continue
		}
		next = append(next, existing)
	}

	data, err := json.Marshal(next)
	if err != nil {
		return nil, errors.Wrap(err, "marshal recent ranges")
	}
	if err := c.store.Save(ctx, Key(viewer), data); err != nil {
		return nil, errors.Wrapf(err, "save recent ranges for %q", viewer)
	}
	return next, nil
}

// Clear forgets the viewer's list.
func (c *Cache) Clear(ctx context.Context, viewer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Save(ctx, Key(viewer), []byte("[]")); err != nil {
		return errors.Wrapf(err, "clear recent ranges for %q", viewer)
	}
	return nil
}
