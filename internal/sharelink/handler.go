package sharelink

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCompanyNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSecretMissing):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrRevoked), errors.Is(err, ErrExpired):
		return http.StatusGone
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// CreateShareLink godoc
// @Summary Create a read-only share link for a company
// @Tags ShareLinks
// @Accept json
// @Produce json
// @Security AdminKey
// @Param id path string true "Company ID"
// @Param body body CreateShareLinkRequest false "Label and lifetime"
// @Success 201 {object} ShareLinkResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/companies/{id}/share-links [post]
func (h *Handler) CreateShareLink(c *gin.Context) {
	var req CreateShareLinkRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	link, err := h.service.Create(c.Request.Context(), c.Param("id"), req, middleware.ActorFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		logger.Error("create share link failed", "company_id", c.Param("id"), "err", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, link)
}

// ListShareLinks godoc
// @Summary List share links of a company
// @Tags ShareLinks
// @Produce json
// @Security AdminKey
// @Param id path string true "Company ID"
// @Success 200 {array} ShareLinkResponse
// @Router /api/v1/admin/companies/{id}/share-links [get]
func (h *Handler) ListShareLinks(c *gin.Context) {
	links, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list share links"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": links})
}

// RevokeShareLink godoc
// @Summary Revoke a share link
// @Tags ShareLinks
// @Produce json
// @Security AdminKey
// @Param id path string true "Share link ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/share-links/{id} [delete]
func (h *Handler) RevokeShareLink(c *gin.Context) {
	err := h.service.Revoke(c.Request.Context(), c.Param("id"), middleware.ActorFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Share link revoked"})
}

// GetShareInfo godoc
// @Summary Describe the share link used for this request
// @Tags Share
// @Produce json
// @Param token path string true "Share link token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/share/{token} [get]
func (h *Handler) GetShareInfo(c *gin.Context) {
	scope, ok := middleware.ShareScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "share link required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"share_link_id": scope.LinkID,
		"company_id":    scope.CompanyID,
		"scope":         ScopeReadOnly,
	})
}
