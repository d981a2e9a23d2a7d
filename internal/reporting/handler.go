package reporting

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/outreachboard/client-reporting-backend/internal/auditlog"
	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/middleware"
)

// Handler serves the admin company and account endpoints.
type Handler struct {
	api   API
	audit auditlog.Service
}

func NewHandler(api API, audit auditlog.Service) *Handler {
	return &Handler{api: api, audit: audit}
}

// HTTPStatus maps a reporting error to the status this backend answers with.
func HTTPStatus(err error) int {
	switch status := StatusOf(err); {
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	case status == http.StatusNotFound:
		return http.StatusNotFound
	case status == http.StatusBadRequest, status == http.StatusConflict, status == http.StatusUnprocessableEntity:
		return status
	default:
		return http.StatusBadGateway
	}
}

// ListCompanies godoc
// @Summary List companies
// @Tags Companies
// @Produce json
// @Security AdminKey
// @Success 200 {array} Company
// @Failure 502 {object} map[string]string
// @Router /api/v1/admin/companies [get]
func (h *Handler) ListCompanies(c *gin.Context) {
	companies, err := h.api.ListCompanies(c.Request.Context())
	if err != nil {
		logger.Error("list companies failed", "err", err)
		c.JSON(HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": companies})
}

// ListAccounts godoc
// @Summary List outreach accounts assigned to a company
// @Tags Companies
// @Produce json
// @Security AdminKey
// @Param id path string true "Company ID"
// @Success 200 {array} Account
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/companies/{id}/accounts [get]
func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.api.ListAccounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

// AssignAccount godoc
// @Summary Assign an outreach account to a company
// @Tags Companies
// @Produce json
// @Security AdminKey
// @Param id path string true "Company ID"
// @Param accountId path string true "Account ID"
// @Success 200 {object} map[string]string
// @Router /api/v1/admin/companies/{id}/accounts/{accountId} [post]
func (h *Handler) AssignAccount(c *gin.Context) {
	h.changeAssignment(c, true)
}

// UnassignAccount godoc
// @Summary Remove an outreach account from a company
// @Tags Companies
// @Produce json
// @Security AdminKey
// @Param id path string true "Company ID"
// @Param accountId path string true "Account ID"
// @Success 200 {object} map[string]string
// @Router /api/v1/admin/companies/{id}/accounts/{accountId} [delete]
func (h *Handler) UnassignAccount(c *gin.Context) {
	h.changeAssignment(c, false)
}

func (h *Handler) changeAssignment(c *gin.Context, assign bool) {
	companyID, accountID := c.Param("id"), c.Param("accountId")
	ctx := c.Request.Context()

	action, message := auditlog.ActionAccountUnassigned, "Account unassigned"
	var err error
	if assign {
		action, message = auditlog.ActionAccountAssigned, "Account assigned"
		err = h.api.AssignAccount(ctx, companyID, accountID)
	} else {
		err = h.api.UnassignAccount(ctx, companyID, accountID)
	}

	details := map[string]interface{}{"account_id": accountID}
	status := auditlog.StatusSuccess
	if err != nil {
		details["error"] = err.Error()
		status = auditlog.StatusFailure
	}
	if h.audit != nil {
		if auditErr := h.audit.LogAction(ctx, middleware.ActorFromContext(c), companyID, action, details, middleware.GetIPFromContext(c), status); auditErr != nil {
			logger.Warn("audit log write failed", "action", action, "err", auditErr)
		}
	}

	if err != nil {
		c.JSON(HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
