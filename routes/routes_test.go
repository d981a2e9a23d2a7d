package routes

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/outreachboard/client-reporting-backend/config"
	"github.com/outreachboard/client-reporting-backend/internal/auditlog"
	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/events"
	"github.com/outreachboard/client-reporting-backend/internal/recentrange"
	"github.com/outreachboard/client-reporting-backend/internal/reporting"
	"github.com/outreachboard/client-reporting-backend/internal/sharelink"
	"github.com/outreachboard/client-reporting-backend/middleware"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "routes.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auditlog.AuditLog{}, &sharelink.ShareLink{}, &recentrange.StoredRanges{}))

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{AdminKeyHash: string(hash), ShareLinkSecret: "s3cret", ShareLinkBaseURL: "http://localhost/share"}
	r := gin.New()
	require.NoError(t, Setup(r, cfg, Deps{
		DB:         db,
		Resolver:   daterange.NewResolver(time.Time{}),
		Recent:     recentrange.New(recentrange.NewGormStore(db)),
		Reporting:  reporting.NewClient("", "", time.Minute, nil),
		Publisher:  events.NoopPublisher{},
		DefaultLoc: time.UTC,
	}))
	return r
}

func do(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", nil).Code)

	w := do(r, http.MethodGet, "/api/v1/date-ranges/resolve?preset=maximum&tz=UTC", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"start_date":"2024-01-01"`)

	w = do(r, http.MethodGet, "/api/v1/date-ranges/presets", map[string]string{"Accept-Encoding": "gzip"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestAdminRoutesRequireKey(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/admin/auditlogs", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/admin/auditlogs", map[string]string{middleware.AdminKeyHeader: "nope"}).Code)

	key := map[string]string{middleware.AdminKeyHeader: "letmein"}
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/admin/auditlogs", key).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/admin/date-ranges/recent", key).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/admin/metrics", key).Code)

	// no reporting API configured
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/api/v1/admin/companies", key).Code)
}

func TestShareRoutesRejectBadToken(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/share/not-a-token/report", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/share/not-a-token", nil).Code)
}
