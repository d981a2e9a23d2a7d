package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
)

type Handler struct {
	service    Service
	resolver   *daterange.Resolver
	defaultLoc *time.Location
	now        func() time.Time
}

func NewHandler(service Service, resolver *daterange.Resolver, defaultLoc *time.Location) *Handler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &Handler{service: service, resolver: resolver, defaultLoc: defaultLoc, now: time.Now}
}

func (h *Handler) location(c *gin.Context) (*time.Location, error) {
	if tz := c.Query("tz"); tz != "" {
		return daterange.LoadLocation(tz)
	}
	return h.defaultLoc, nil
}

// GetAuditLogs handles GET /auditlogs - retrieves audit logs with filtering and pagination
// @Summary Get audit logs
// @Description Retrieve audit logs with optional filters and pagination (admin only)
// @Tags AuditLog
// @Produce json
// @Security AdminKey
// @Param actor query string false "Filter by actor"
// @Param company_id query string false "Filter by company ID"
// @Param action query string false "Filter by action (partial match)"
// @Param status query string false "Filter by status"
// @Param from_date query string false "Filter from date (YYYY-MM-DD)"
// @Param to_date query string false "Filter to date, inclusive (YYYY-MM-DD)"
// @Param tz query string false "IANA timezone the dates are read in"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Number of records per page (default: 20)"
// @Success 200 {object} PaginatedAuditLogs
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/admin/auditlogs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	loc, err := h.location(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := AuditLogFilter{
		Actor:     c.Query("actor"),
		CompanyID: c.Query("company_id"),
		Action:    c.Query("action"),
		Status:    c.Query("status"),
	}

	if fromDateStr := c.Query("from_date"); fromDateStr != "" {
		fromDate, err := daterange.ParseForDisplay(fromDateStr, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from_date format. Use YYYY-MM-DD"})
			return
		}
		filter.FromDate = &fromDate
	}

	if toDateStr := c.Query("to_date"); toDateStr != "" {
		toDate, err := daterange.ParseForDisplay(toDateStr, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to_date format. Use YYYY-MM-DD"})
			return
		}
		// whole day included
		next := toDate.AddDate(0, 0, 1)
		filter.ToDate = &next
	}

	filter.Page = 1
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}

	filter.Limit = 20
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		filter.Limit = limit
	}

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit logs"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAuditLogByID handles GET /auditlogs/:id - retrieves a specific audit log by ID
// @Summary Get audit log by ID
// @Tags AuditLog
// @Produce json
// @Security AdminKey
// @Param id path int true "Audit Log ID"
// @Success 200 {object} AuditLog
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/auditlogs/{id} [get]
func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid audit log ID"})
		return
	}

	log, err := h.service.GetAuditLogByID(c.Request.Context(), uint(id))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log"})
		return
	}

	c.JSON(http.StatusOK, log)
}

// GetAuditLogStats handles GET /auditlogs/stats
// @Summary Get audit log statistics
// @Description Counts for a preset window, "Last 7 days" by default
// @Tags AuditLog
// @Produce json
// @Security AdminKey
// @Param preset query string false "Date range preset"
// @Param tz query string false "IANA timezone"
// @Success 200 {object} AuditLogStats
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/admin/auditlogs/stats [get]
func (h *Handler) GetAuditLogStats(c *gin.Context) {
	loc, err := h.location(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preset := c.DefaultQuery("preset", daterange.PresetLast7Days)
	window, err := h.resolver.ResolvePreset(preset, h.now().In(loc))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), window, loc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
