package recentrange

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
)

func rng(start, end string) daterange.DateRange {
	return daterange.DateRange{StartDate: start, EndDate: end}
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Save(context.Context, string, []byte) error {
	return errors.New("connection refused")
}

// flakyStore fails the next Load once and then behaves like its MemoryStore.
type flakyStore struct {
	*MemoryStore
	failNextLoad bool
	saves        int
}

func (s *flakyStore) Load(ctx context.Context, key string) ([]byte, error) {
	if s.failNextLoad {
		s.failNextLoad = false
		return nil, errors.New("i/o timeout")
	}
	return s.MemoryStore.Load(ctx, key)
}

func (s *flakyStore) Save(ctx context.Context, key string, data []byte) error {
	s.saves++
	return s.MemoryStore.Save(ctx, key, data)
}

func TestLoadEmptyWhenNothingStored(t *testing.T) {
	c := New(NewMemoryStore())

	got := c.Load(context.Background(), "viewer-1")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecordSameRangeTwiceKeepsOneEntryFirst(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())

	_, err := c.Record(ctx, "v", rng("2025-01-01", "2025-01-31"))
	require.NoError(t, err)
	_, err = c.Record(ctx, "v", rng("2025-02-01", "2025-02-28"))
	require.NoError(t, err)
	_, err = c.Record(ctx, "v", rng("2025-01-01", "2025-01-31"))
	require.NoError(t, err)

	assert.Equal(t, []daterange.DateRange{
		rng("2025-01-01", "2025-01-31"),
		rng("2025-02-01", "2025-02-28"),
	}, c.Load(ctx, "v"))

	_, err = c.Record(ctx, "v", rng("2025-02-01", "2025-02-28"))
	require.NoError(t, err)
	got := c.Load(ctx, "v")
	require.Len(t, got, 2)
	assert.Equal(t, rng("2025-02-01", "2025-02-28"), got[0])
}

func TestRecordFourthDistinctRangeEvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())

	for _, r := range []daterange.DateRange{
		rng("2025-01-01", "2025-01-01"),
		rng("2025-01-02", "2025-01-02"),
		rng("2025-01-03", "2025-01-03"),
		rng("2025-01-04", "2025-01-04"),
	} {
		_, err := c.Record(ctx, "v", r)
		require.NoError(t, err)
	}

	assert.Equal(t, []daterange.DateRange{
		rng("2025-01-04", "2025-01-04"),
		rng("2025-01-03", "2025-01-03"),
		rng("2025-01-02", "2025-01-02"),
	}, c.Load(ctx, "v"))
}

func TestRecordRejectsInvalidRange(t *testing.T) {
	c := New(NewMemoryStore())

	_, err := c.Record(context.Background(), "v", rng("2025-02-01", "2025-01-01"))
	assert.Error(t, err)
	assert.Empty(t, c.Load(context.Background(), "v"))
}

func TestViewersAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store)

	_, err := c.Record(ctx, "a", rng("2025-01-01", "2025-01-31"))
	require.NoError(t, err)

	assert.Empty(t, c.Load(ctx, "b"))
	raw, err := store.Load(ctx, "recent_date_ranges:a")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"start_date":"2025-01-01","end_date":"2025-01-31"}]`, string(raw))
}

func TestCorruptValueLoadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"not json", `{"start_date":"2025-01-01"}`, `[1,2,3]`, "null"} {
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, Key("v"), []byte(raw)))
		c := New(store)

		assert.Empty(t, c.Load(ctx, "v"), raw)

		// recording over a corrupt value starts a fresh list
		got, err := c.Record(ctx, "v", rng("2025-01-01", "2025-01-02"))
		require.NoError(t, err, raw)
		assert.Len(t, got, 1)
	}
}

func TestStoreFailureLoadsAsEmpty(t *testing.T) {
	c := New(failingStore{})

	assert.Empty(t, c.Load(context.Background(), "v"))
	_, err := c.Record(context.Background(), "v", rng("2025-01-01", "2025-01-02"))
	assert.Error(t, err)
}

func TestRecordKeepsHistoryWhenStoreLoadFails(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: NewMemoryStore()}
	c := New(store)

	seeded := []daterange.DateRange{
		rng("2025-03-01", "2025-03-31"),
		rng("2025-02-01", "2025-02-28"),
		rng("2025-01-01", "2025-01-31"),
	}
	for i := len(seeded) - 1; i >= 0; i-- {
		_, err := c.Record(ctx, "v", seeded[i])
		require.NoError(t, err)
	}
	savesBefore := store.saves

	store.failNextLoad = true
	_, err := c.Record(ctx, "v", rng("2025-04-01", "2025-04-30"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i/o timeout")
	assert.Equal(t, savesBefore, store.saves)

	assert.Equal(t, seeded, c.Load(ctx, "v"))
}

func TestEntriesDisableUnparseableRanges(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	stored, err := json.Marshal([]daterange.DateRange{
		rng("2025-01-01", "2025-01-31"),
		rng("2025-02-30", "2025-03-01"),
		rng("2025-03-01", "2025-03-02"),
	})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, Key("v"), stored))

	entries := New(store).Entries(ctx, "v")
	require.Len(t, entries, 3)
	assert.False(t, entries[0].Disabled)
	assert.True(t, entries[1].Disabled)
	assert.False(t, entries[2].Disabled)

	// the bad entry is still in storage
	raw, err := store.Load(ctx, Key("v"))
	require.NoError(t, err)
	assert.Equal(t, stored, raw)
}

func TestInvalidateEntry(t *testing.T) {
	e := Entry{DateRange: rng("2025-01-01", "2025-01-02")}
	got := InvalidateEntry(e)

	assert.True(t, got.Disabled)
	assert.False(t, e.Disabled)
	assert.Equal(t, e.DateRange, got.DateRange)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())
	_, err := c.Record(ctx, "v", rng("2025-01-01", "2025-01-02"))
	require.NoError(t, err)

	require.NoError(t, c.Clear(ctx, "v"))
	assert.Empty(t, c.Load(ctx, "v"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "recent_date_ranges", Key(""))
	assert.Equal(t, "recent_date_ranges:admin", Key(" admin "))
}
