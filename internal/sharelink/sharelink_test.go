package sharelink

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/outreachboard/client-reporting-backend/internal/auditlog"
	"github.com/outreachboard/client-reporting-backend/internal/reporting"
	"github.com/outreachboard/client-reporting-backend/middleware"
)

type stubAPI struct {
	reporting.API
	companies map[string]bool
}

func (s stubAPI) GetCompany(_ context.Context, id string) (*reporting.Company, error) {
	if !s.companies[id] {
		return nil, &reporting.APIError{StatusCode: http.StatusNotFound, Message: "no such company"}
	}
	return &reporting.Company{ID: id, Name: "Acme"}, nil
}

type fixture struct {
	db    *gorm.DB
	svc   *service
	now   time.Time
	audit auditlog.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "links.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ShareLink{}, &auditlog.AuditLog{}))

	f := &fixture{db: db, now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	f.audit = auditlog.NewService(auditlog.NewRepository(db))
	svc := NewService(NewRepository(db), stubAPI{companies: map[string]bool{"c1": true}}, f.audit, "test-secret", "https://app.example.com/share").(*service)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func TestCreateAndVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, "c1", CreateShareLinkRequest{Label: "Weekly", TTLHours: 24}, "admin", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, resp.Active)
	assert.Equal(t, "https://app.example.com/share/"+resp.Token, resp.URL)
	require.NotNil(t, resp.ExpiresAt)

	// the token is an HS256 JWT naming the link and company
	claims := &Claims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil },
		jwt.WithTimeFunc(func() time.Time { return f.now }))
	require.NoError(t, err)
	assert.Equal(t, resp.ID, claims.Subject)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, ScopeReadOnly, claims.Scope)

	link, err := f.svc.Verify(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, link.ID)

	scope, err := f.svc.Authorize(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, middleware.ShareScope{LinkID: resp.ID, CompanyID: "c1"}, scope)

	var stored ShareLink
	require.NoError(t, f.db.First(&stored, "id = ?", resp.ID).Error)
	assert.NotNil(t, stored.LastUsedAt)

	logs, err := f.audit.GetAuditLogs(ctx, auditlog.AuditLogFilter{Action: auditlog.ActionShareLinkCreated})
	require.NoError(t, err)
	assert.Equal(t, int64(1), logs.Total)
}

func TestCreateUnknownCompany(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), "nope", CreateShareLinkRequest{}, "admin", "")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestVerifyRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, "c1", CreateShareLinkRequest{TTLHours: 1}, "admin", "")
	require.NoError(t, err)

	_, err = f.svc.Verify(ctx, resp.Token+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(NewRepository(f.db), stubAPI{}, nil, "other-secret", "").(*service)
	other.now = f.svc.now
	_, err = other.Verify(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	f.now = f.now.Add(2 * time.Hour)
	_, err = f.svc.Verify(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, "c1", CreateShareLinkRequest{}, "admin", "")
	require.NoError(t, err)
	assert.Nil(t, resp.ExpiresAt)

	require.NoError(t, f.svc.Revoke(ctx, resp.ID, "admin", ""))
	// second revoke is harmless
	require.NoError(t, f.svc.Revoke(ctx, resp.ID, "admin", ""))

	_, err = f.svc.Verify(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrRevoked)

	assert.ErrorIs(t, f.svc.Revoke(ctx, "missing", "admin", ""), ErrNotFound)

	links, err := f.svc.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.False(t, links[0].Active)
}

func TestVerifyWithoutSecret(t *testing.T) {
	f := newFixture(t)
	svc := NewService(NewRepository(f.db), stubAPI{}, nil, "", "")

	_, err := svc.Verify(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	h := NewHandler(f.svc)

	r := gin.New()
	r.POST("/admin/companies/:id/share-links", h.CreateShareLink)
	r.GET("/admin/companies/:id/share-links", h.ListShareLinks)
	r.DELETE("/admin/share-links/:id", h.RevokeShareLink)
	r.GET("/share/:token", middleware.ShareLinkAuth(f.svc), h.GetShareInfo)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"label":"Q1 review","ttl_hours":48}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/companies/c1/share-links", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created ShareLinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Q1 review", created.Label)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/share/"+created.Token, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"company_id":"c1"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/companies/ghost/share-links", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/share-links/"+created.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/share/"+created.Token, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/companies/c1/share-links", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":false`)
}
