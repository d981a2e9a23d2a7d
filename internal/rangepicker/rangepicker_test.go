package rangepicker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/events"
	"github.com/outreachboard/client-reporting-backend/internal/recentrange"
	"github.com/outreachboard/client-reporting-backend/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// 2025-03-10 23:30 UTC is already 2025-03-11 in Tokyo.
var fixedNow = time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)

func newTestService() (*service, *events.Recorder) {
	rec := &events.Recorder{}
	svc := newService(
		daterange.NewResolver(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
		recentrange.New(recentrange.NewMemoryStore()),
		rec,
		time.UTC,
		func() time.Time { return fixedNow },
	)
	return svc, rec
}

func TestResolveRecordsForViewer(t *testing.T) {
	svc, rec := newTestService()
	ctx := context.Background()

	res, err := svc.Resolve(ctx, "share:l1", "c1", RangeQuery{Preset: "last_7_days"})
	require.NoError(t, err)
	assert.Equal(t, daterange.DateRange{StartDate: "2025-03-04", EndDate: "2025-03-10"}, res.Range)
	assert.Equal(t, "last_7_days", res.Source)
	assert.Equal(t, daterange.PresetLast7Days, res.Label)

	recent := svc.Recent(ctx, "share:l1")
	require.Len(t, recent, 1)
	assert.Equal(t, res.Range, recent[0].DateRange)

	got := rec.Events()
	require.Len(t, got, 1)
	assert.Equal(t, events.TypeRangeResolved, got[0].Type)
	assert.Equal(t, "c1", got[0].CompanyID)
}

func TestResolveAnonymousDoesNotRecord(t *testing.T) {
	svc, rec := newTestService()

	res, err := svc.Resolve(context.Background(), "", "", RangeQuery{StartDate: "2025-02-10", EndDate: "2025-02-01"})
	require.NoError(t, err)
	assert.Equal(t, SourceCustom, res.Source)
	assert.Equal(t, "2025-02-01", res.Range.StartDate)
	assert.Empty(t, rec.Events())
}

func TestResolveUsesViewerTimezone(t *testing.T) {
	svc, _ := newTestService()

	res, err := svc.Resolve(context.Background(), "", "", RangeQuery{Preset: "Today", TZ: "Asia/Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", res.Range.StartDate)

	res, err = svc.Resolve(context.Background(), "", "", RangeQuery{Preset: "Today"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", res.Range.StartDate)

	_, err = svc.Resolve(context.Background(), "", "", RangeQuery{TZ: "Nowhere/Special"})
	assert.Error(t, err)
}

func TestSelectFlow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.Select(ctx, "admin", SelectionRequest{Action: ActionClick, Day: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, daterange.PhaseAwaitingTerminus, resp.Selection.Phase)

	_, err = svc.Select(ctx, "admin", SelectionRequest{Anchor: resp.Selection.Anchor, Action: ActionApply})
	assert.ErrorIs(t, err, daterange.ErrIncompleteSelection)
	assert.Equal(t, http.StatusConflict, StatusFor(err))

	resp, err = svc.Select(ctx, "admin", SelectionRequest{Anchor: resp.Selection.Anchor, Action: ActionClick, Day: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", resp.Selection.Anchor)
	assert.Equal(t, "2025-03-10", resp.Selection.Terminus)

	applied, err := svc.Select(ctx, "admin", SelectionRequest{Anchor: resp.Selection.Anchor, Terminus: resp.Selection.Terminus, Action: ActionApply})
	require.NoError(t, err)
	require.NotNil(t, applied.Range)
	assert.Equal(t, daterange.DateRange{StartDate: "2025-03-01", EndDate: "2025-03-10"}, *applied.Range)
	require.Len(t, applied.Recent, 1)

	cancelled, err := svc.Select(ctx, "admin", SelectionRequest{Anchor: "2025-03-01", Action: ActionCancel})
	require.NoError(t, err)
	assert.Equal(t, daterange.SelectionState{Phase: daterange.PhaseAwaitingAnchor}, cancelled.Selection)

	_, err = svc.Select(ctx, "admin", SelectionRequest{Action: ActionClick})
	assert.ErrorIs(t, err, ErrDayRequired)
}

func TestCalendar(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Calendar(CalendarQuery{Anchor: "2025-03-04", Terminus: "2025-03-06"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Today)
	require.Len(t, resp.Months, 2)
	assert.Equal(t, "2025-03", resp.Months[0].Month)
	assert.Equal(t, "2025-04", resp.Months[1].Month)
	assert.True(t, resp.Selection.CanApply)

	_, err = svc.Calendar(CalendarQuery{Month: "March"})
	assert.Error(t, err)
}

func TestHandlers(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)

	r := gin.New()
	r.GET("/presets", h.GetPresets)
	r.GET("/resolve", h.ResolveRange)
	r.GET("/calendar", h.GetCalendar)
	r.POST("/selection", h.Select)
	viewer := func(c *gin.Context) { c.Set(middleware.ViewerKey, "share:l1"); c.Next() }
	r.GET("/recent", viewer, h.GetRecent)
	r.POST("/recent", viewer, h.RecordRecent)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presets?tz=UTC", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var presets PresetsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &presets))
	assert.Len(t, presets.Presets, 12)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resolve?preset=Last%20month", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"start_date":"2025-02-01","end_date":"2025-02-28"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resolve?start_date=2025-03-01", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resolve?start_date=01-03-2025&end_date=2025-03-02", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendar?month=2025-02", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"month":"2025-03"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/selection", bytes.NewBufferString(`{"action":"apply","anchor":"2025-03-01"}`)))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/selection", bytes.NewBufferString(`{"action":"dance"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recent", bytes.NewBufferString(`{"start_date":"2025-01-01","end_date":"2025-01-31"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/recent", bytes.NewBufferString(`{"start_date":"2025-02-01","end_date":"2025-01-31"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recent", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var recent RecentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recent))
	require.Len(t, recent.Data, 1)
	assert.False(t, recent.Data[0].Disabled)
}
