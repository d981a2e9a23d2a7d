package reports

import (
	"fmt"
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/internal/rangepicker"
	"github.com/outreachboard/client-reporting-backend/internal/reporting"
	"github.com/outreachboard/client-reporting-backend/middleware"
)

// Handler serves campaign reports to admins and share-link viewers.
type Handler struct {
	service ReportService
}

// NewHandler creates a new reports handler
func NewHandler(svc ReportService) *Handler {
	return &Handler{service: svc}
}

func statusFor(err error) int {
	var rangeErr *RangeError
	switch {
	case errors.As(err, &rangeErr):
		return rangepicker.StatusFor(rangeErr.Err)
	case errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return reporting.HTTPStatus(err)
	}
}

func callerFrom(c *gin.Context) Caller {
	viewer := middleware.ViewerFromContext(c)
	if viewer == middleware.AnonymousViewer {
		viewer = ""
	}
	return Caller{
		Viewer: viewer,
		Actor:  middleware.ActorFromContext(c),
		IP:     middleware.GetIPFromContext(c),
	}
}

// companyFor returns the company a request is about: the share link's
// company on share routes, the :id path param on admin routes.
func companyFor(c *gin.Context) (string, bool) {
	if scope, ok := middleware.ShareScopeFromContext(c); ok {
		return scope.CompanyID, true
	}
	id := c.Param("id")
	return id, id != ""
}

// GetCampaignReport godoc
// @Summary Campaign report for a company over a date range
// @Description Resolves preset or start_date/end_date like /date-ranges/resolve and records the range as recent for the caller
// @Tags Reports
// @Produce json
// @Param id path string true "Company ID"
// @Param preset query string false "Preset label or key"
// @Param start_date query string false "yyyy-MM-dd"
// @Param end_date query string false "yyyy-MM-dd"
// @Param tz query string false "IANA timezone of the viewer"
// @Security AdminKey
// @Success 200 {object} CampaignReport
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/admin/companies/{id}/report [get]
func (h *Handler) GetCampaignReport(c *gin.Context) {
	companyID, ok := companyFor(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company id is required"})
		return
	}

	var q rangepicker.RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	report, err := h.service.GetCampaignReport(c.Request.Context(), callerFrom(c), companyID, q)
	if err != nil {
		logger.Warn("campaign report failed", "company", companyID, "err", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportCampaignReport godoc
// @Summary Download a campaign report as csv, excel or pdf
// @Tags Reports
// @Produce octet-stream
// @Param id path string true "Company ID"
// @Param format query string false "csv (default), excel or pdf"
// @Param preset query string false "Preset label or key"
// @Param start_date query string false "yyyy-MM-dd"
// @Param end_date query string false "yyyy-MM-dd"
// @Param tz query string false "IANA timezone of the viewer"
// @Security AdminKey
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/admin/companies/{id}/report/export [get]
func (h *Handler) ExportCampaignReport(c *gin.Context) {
	companyID, ok := companyFor(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company id is required"})
		return
	}

	var req CampaignReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	bytes, fname, mime, err := h.service.ExportCampaignReport(c.Request.Context(), callerFrom(c), companyID, req)
	if err != nil {
		logger.Warn("campaign export failed", "company", companyID, "format", req.Format, "err", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fname))
	c.Data(http.StatusOK, mime, bytes)
}
