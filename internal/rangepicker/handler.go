package rangepicker

import (
	"net/http"
	"sync"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

var registerOnce sync.Once

// RegisterValidators installs the calendardate binding tag on gin's validator.
func RegisterValidators() (err error) {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		err = daterange.RegisterValidation(v)
	})
	return err
}

// StatusFor maps date range errors to HTTP statuses.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, daterange.ErrIncompleteSelection):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// recordFor returns whose recent list a request writes to. Anonymous
// public callers have none.
func recordFor(c *gin.Context) string {
	if v := middleware.ViewerFromContext(c); v != middleware.AnonymousViewer {
		return v
	}
	return ""
}

// GetPresets godoc
// @Summary List date range presets resolved for today
// @Tags DateRanges
// @Produce json
// @Param tz query string false "IANA timezone of the viewer"
// @Success 200 {object} PresetsResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/date-ranges/presets [get]
func (h *Handler) GetPresets(c *gin.Context) {
	resp, err := h.service.Presets(c.Query("tz"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResolveRange godoc
// @Summary Resolve a preset or a pair of dates into a date range
// @Description preset wins over dates; dates may come in either order; no input means "Last 7 days"
// @Tags DateRanges
// @Produce json
// @Param preset query string false "Preset label or key"
// @Param start_date query string false "yyyy-MM-dd"
// @Param end_date query string false "yyyy-MM-dd"
// @Param tz query string false "IANA timezone of the viewer"
// @Success 200 {object} Resolved
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/date-ranges/resolve [get]
func (h *Handler) ResolveRange(c *gin.Context) {
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	res, err := h.service.Resolve(c.Request.Context(), recordFor(c), "", q)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetCalendar godoc
// @Summary Dual-month calendar grid for the custom range picker
// @Tags DateRanges
// @Produce json
// @Param month query string false "yyyy-MM, defaults to the current month"
// @Param anchor query string false "first picked day"
// @Param terminus query string false "second picked day"
// @Param tz query string false "IANA timezone of the viewer"
// @Success 200 {object} CalendarResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/date-ranges/calendar [get]
func (h *Handler) GetCalendar(c *gin.Context) {
	var q CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	resp, err := h.service.Calendar(q)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Select godoc
// @Summary Advance the custom range picker
// @Description click sets the anchor or terminus, cancel clears, apply emits the range (409 until both days are set)
// @Tags DateRanges
// @Accept json
// @Produce json
// @Param body body SelectionRequest true "Current state and action"
// @Success 200 {object} SelectionResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/date-ranges/selection [post]
func (h *Handler) Select(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.service.Select(c.Request.Context(), recordFor(c), req)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetRecent godoc
// @Summary Recently used date ranges of the caller
// @Tags DateRanges
// @Produce json
// @Success 200 {object} RecentResponse
// @Router /api/v1/share/{token}/date-ranges/recent [get]
func (h *Handler) GetRecent(c *gin.Context) {
	c.JSON(http.StatusOK, RecentResponse{Data: h.service.Recent(c.Request.Context(), middleware.ViewerFromContext(c))})
}

// RecordRecent godoc
// @Summary Remember a date range for the caller
// @Tags DateRanges
// @Accept json
// @Produce json
// @Param body body daterange.DateRange true "Range to remember"
// @Success 200 {object} RecentResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/share/{token}/date-ranges/recent [post]
func (h *Handler) RecordRecent(c *gin.Context) {
	var r daterange.DateRange
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := r.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.service.Record(c.Request.Context(), middleware.ViewerFromContext(c), r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recent range"})
		return
	}
	c.JSON(http.StatusOK, RecentResponse{Data: entries})
}
