package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/outreachboard/client-reporting-backend/config"
	_ "github.com/outreachboard/client-reporting-backend/docs"
	"github.com/outreachboard/client-reporting-backend/internal/auditlog"
	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/events"
	"github.com/outreachboard/client-reporting-backend/internal/rangepicker"
	"github.com/outreachboard/client-reporting-backend/internal/recentrange"
	"github.com/outreachboard/client-reporting-backend/internal/reporting"
	"github.com/outreachboard/client-reporting-backend/internal/reports"
	"github.com/outreachboard/client-reporting-backend/internal/sharelink"
	"github.com/outreachboard/client-reporting-backend/middleware"
)

// Deps are the long-lived collaborators built once in main.
type Deps struct {
	DB         *gorm.DB
	Resolver   *daterange.Resolver
	Recent     *recentrange.Cache
	Reporting  reporting.API
	Publisher  events.Publisher
	DefaultLoc *time.Location
}

// Setup wires every module onto r.
func Setup(r *gin.Engine, cfg *config.Config, deps Deps) error {
	if err := rangepicker.RegisterValidators(); err != nil {
		return err
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuditMiddleware()) // Audit middleware to capture IP
	api.Use(gzip.Gzip(gzip.DefaultCompression))

	// ========== Initialize Audit Log Module ==========
	auditRepo := auditlog.NewRepository(deps.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc, deps.Resolver, deps.DefaultLoc)

	// ========== Date ranges ==========
	rangeSvc := rangepicker.NewService(deps.Resolver, deps.Recent, deps.Publisher, deps.DefaultLoc)
	rangeHandler := rangepicker.NewHandler(rangeSvc)

	// ========== Share links ==========
	shareSvc := sharelink.NewService(sharelink.NewRepository(deps.DB), deps.Reporting, auditSvc, cfg.ShareLinkSecret, cfg.ShareLinkBaseURL)
	shareHandler := sharelink.NewHandler(shareSvc)

	// ========== Reports ==========
	reportsRepo := reports.NewRepository(deps.Reporting)
	reportsService := reports.NewReportService(reportsRepo, reports.NewReportExporter(), rangeSvc, auditSvc, deps.Publisher)
	reportsHandler := reports.NewHandler(reportsService)

	companyHandler := reporting.NewHandler(deps.Reporting, auditSvc)

	// Public picker endpoints, 5 req/sec per IP
	public := api.Group("/date-ranges")
	public.Use(middleware.RateLimiter(5, time.Second))
	{
		public.GET("/presets", rangeHandler.GetPresets)
		public.GET("/resolve", rangeHandler.ResolveRange)
		public.GET("/calendar", rangeHandler.GetCalendar)
		public.POST("/selection", rangeHandler.Select)
	}

	share := api.Group("/share/:token")
	share.Use(middleware.RateLimiter(10, time.Second))
	share.Use(middleware.ShareLinkAuth(shareSvc))
	{
		share.GET("", shareHandler.GetShareInfo)
		share.GET("/report", reportsHandler.GetCampaignReport)
		share.GET("/report/export", reportsHandler.ExportCampaignReport)
		share.GET("/date-ranges/recent", rangeHandler.GetRecent)
		share.POST("/date-ranges/recent", rangeHandler.RecordRecent)
		share.POST("/date-ranges/selection", rangeHandler.Select)
		share.GET("/date-ranges/calendar", rangeHandler.GetCalendar)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.AdminKeyHash))
	{
		admin.GET("/companies", companyHandler.ListCompanies)
		admin.GET("/companies/:id/accounts", companyHandler.ListAccounts)
		admin.POST("/companies/:id/accounts/:accountId", companyHandler.AssignAccount)
		admin.DELETE("/companies/:id/accounts/:accountId", companyHandler.UnassignAccount)

		admin.GET("/companies/:id/report", reportsHandler.GetCampaignReport)
		admin.GET("/companies/:id/report/export", reportsHandler.ExportCampaignReport)

		admin.POST("/companies/:id/share-links", shareHandler.CreateShareLink)
		admin.GET("/companies/:id/share-links", shareHandler.ListShareLinks)
		admin.DELETE("/share-links/:id", shareHandler.RevokeShareLink)

		admin.GET("/date-ranges/recent", rangeHandler.GetRecent)
		admin.POST("/date-ranges/recent", rangeHandler.RecordRecent)

		admin.GET("/auditlogs", auditHandler.GetAuditLogs)
		admin.GET("/auditlogs/stats", auditHandler.GetAuditLogStats)
		admin.GET("/auditlogs/:id", auditHandler.GetAuditLogByID)

		admin.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return nil
}
