package main

import (
	"context"
	"net/http"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/outreachboard/client-reporting-backend/config"
	"github.com/outreachboard/client-reporting-backend/database"
	"github.com/outreachboard/client-reporting-backend/internal/auditlog"
	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/events"
	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/internal/recentrange"
	"github.com/outreachboard/client-reporting-backend/internal/reporting"
	"github.com/outreachboard/client-reporting-backend/internal/sharelink"
	"github.com/outreachboard/client-reporting-backend/middleware"
	"github.com/outreachboard/client-reporting-backend/routes"
)

// @title Client Reporting API
// @version 1.0
// @description Date ranges, campaign reports and share links for the client reporting dashboard.
// @BasePath /
// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Debug: cfg.Debug, LogDir: cfg.LogDir, Prefix: "reporting"}); err != nil {
		logger.Fatal("logger init failed", "err", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connect failed", "driver", cfg.DBDriver, "err", err)
	}

	logger.Info("running database migrations")
	if err := db.AutoMigrate(
		&auditlog.AuditLog{},
		&sharelink.ShareLink{},
		&recentrange.StoredRanges{},
	); err != nil {
		logger.Fatal("DB AutoMigrate failed", "err", err)
	}

	loc, err := daterange.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		logger.Fatal("bad DEFAULT_TIMEZONE", "err", err)
	}
	epoch, err := daterange.ParseEpoch(cfg.MaximumRangeEpoch)
	if err != nil {
		logger.Fatal("bad MAXIMUM_RANGE_EPOCH", "err", err)
	}

	store, err := recentStore(cfg, db)
	if err != nil {
		logger.Fatal("recent range store init failed", "store", cfg.RecentRangeStore, "err", err)
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	if cfg.ReportingAPIURL == "" {
		logger.Warn("REPORTING_API_URL is not set; company and report endpoints will answer 503")
	}
	api := reporting.NewClient(cfg.ReportingAPIURL, cfg.ReportingAPIToken,
		time.Duration(cfg.ReportingCacheTTLSeconds)*time.Second,
		&http.Client{Timeout: 15 * time.Second})

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid TRUSTED_PROXIES", "err", err)
	}
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.AdminKeyHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	err = routes.Setup(router, cfg, routes.Deps{
		DB:         db,
		Resolver:   daterange.NewResolver(epoch),
		Recent:     recentrange.New(store),
		Reporting:  api,
		Publisher:  publisher,
		DefaultLoc: loc,
	})
	if err != nil {
		logger.Fatal("route setup failed", "err", err)
	}

	logger.Info("server starting", "port", cfg.Port, "recent_store", cfg.RecentRangeStore, "timezone", loc.String())
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

// recentStore picks the RecentRangeCache backend named by RECENT_RANGE_STORE.
func recentStore(cfg *config.Config, db *gorm.DB) (recentrange.Store, error) {
	switch cfg.RecentRangeStore {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, errors.New("REDIS_ADDR is required for the redis store")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, errors.Wrapf(err, "ping redis at %s", cfg.RedisAddr)
		}
		return recentrange.NewRedisStore(client), nil
	case "database":
		return recentrange.NewGormStore(db), nil
	case "memory":
		logger.Warn("recent ranges are kept in memory and lost on restart")
		return recentrange.NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown RECENT_RANGE_STORE %q", cfg.RecentRangeStore)
	}
}
