package sharelink

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/outreachboard/client-reporting-backend/internal/auditlog"
	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/internal/reporting"
	"github.com/outreachboard/client-reporting-backend/middleware"
)

const tokenIssuer = "client-reporting"

var (
	ErrNotFound        = errors.New("share link not found")
	ErrRevoked         = errors.New("share link has been revoked")
	ErrExpired         = errors.New("share link has expired")
	ErrInvalidToken    = errors.New("share link token is invalid")
	ErrSecretMissing   = errors.New("SHARE_LINK_SECRET is not configured")
	ErrCompanyNotFound = errors.New("company not found")
)

type Service interface {
	Create(ctx context.Context, companyID string, req CreateShareLinkRequest, actor, ip string) (*ShareLinkResponse, error)
	List(ctx context.Context, companyID string) ([]ShareLinkResponse, error)
	Revoke(ctx context.Context, id, actor, ip string) error
	Verify(ctx context.Context, token string) (*ShareLink, error)
	Authorize(ctx context.Context, token string) (middleware.ShareScope, error)
}

type service struct {
	repo    Repository
	api     reporting.API
	audit   auditlog.Service
	secret  []byte
	baseURL string
	now     func() time.Time
}

func NewService(repo Repository, api reporting.API, audit auditlog.Service, secret, baseURL string) Service {
	return &service{
		repo:    repo,
		api:     api,
		audit:   audit,
		secret:  []byte(secret),
		baseURL: baseURL,
		now:     time.Now,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateShareLinkRequest, actor, ip string) (*ShareLinkResponse, error) {
	if len(s.secret) == 0 {
		return nil, ErrSecretMissing
	}
	if _, err := s.api.GetCompany(ctx, companyID); err != nil {
		if reporting.StatusOf(err) == 404 {
			return nil, errors.Wrapf(ErrCompanyNotFound, "%s", companyID)
		}
		return nil, err
	}

	now := s.now().UTC()
	link := &ShareLink{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Label:     req.Label,
		CreatedBy: actor,
		CreatedAt: now,
	}
	if req.TTLHours > 0 {
		exp := now.Add(time.Duration(req.TTLHours) * time.Hour)
		link.ExpiresAt = &exp
	}

	token, err := s.sign(link, now)
	if err != nil {
		return nil, err
	}
	link.Token = token

	if err := s.repo.Create(ctx, link); err != nil {
		s.logAudit(ctx, actor, companyID, auditlog.ActionShareLinkCreated, map[string]interface{}{"error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, errors.Wrap(err, "create share link")
	}

	s.logAudit(ctx, actor, companyID, auditlog.ActionShareLinkCreated, map[string]interface{}{
		"share_link_id": link.ID,
		"label":         link.Label,
		"ttl_hours":     req.TTLHours,
	}, ip, auditlog.StatusSuccess)
	logger.Info("share link created", "id", link.ID, "company_id", companyID)

	resp := s.toResponse(*link)
	return &resp, nil
}

func (s *service) List(ctx context.Context, companyID string) ([]ShareLinkResponse, error) {
	links, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, errors.Wrapf(err, "list share links of %s", companyID)
	}
	out := make([]ShareLinkResponse, 0, len(links))
	for _, l := range links {
		out = append(out, s.toResponse(l))
	}
	return out, nil
}

func (s *service) Revoke(ctx context.Context, id, actor, ip string) error {
	link, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(ErrNotFound, "%s", id)
	}
	if err != nil {
		return errors.Wrapf(err, "get share link %s", id)
	}

	if err := s.repo.Revoke(ctx, id, s.now().UTC()); err != nil {
		s.logAudit(ctx, actor, link.CompanyID, auditlog.ActionShareLinkRevoked, map[string]interface{}{"share_link_id": id, "error": err.Error()}, ip, auditlog.StatusFailure)
		return errors.Wrapf(err, "revoke share link %s", id)
	}

	s.logAudit(ctx, actor, link.CompanyID, auditlog.ActionShareLinkRevoked, map[string]interface{}{"share_link_id": id}, ip, auditlog.StatusSuccess)
	logger.Info("share link revoked", "id", id, "company_id", link.CompanyID)
	return nil
}

// Verify checks the token signature and expiry, then that the link still
// exists, is not revoked and belongs to the token's company.
func (s *service) Verify(ctx context.Context, token string) (*ShareLink, error) {
	if len(s.secret) == 0 {
		return nil, ErrSecretMissing
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpired
	}
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if claims.Scope != ScopeReadOnly || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	link, err := s.repo.GetByID(ctx, claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get share link %s", claims.Subject)
	}
	if link.CompanyID != claims.CompanyID {
		return nil, ErrInvalidToken
	}
	if link.RevokedAt != nil {
		return nil, ErrRevoked
	}
	if !link.IsActive(s.now()) {
		return nil, ErrExpired
	}

	if err := s.repo.TouchLastUsed(ctx, link.ID, s.now().UTC()); err != nil {
		logger.Warn("could not update share link last use", "id", link.ID, "err", err)
	}
	return link, nil
}

// Authorize adapts Verify for the share-link middleware.
func (s *service) Authorize(ctx context.Context, token string) (middleware.ShareScope, error) {
	link, err := s.Verify(ctx, token)
	if err != nil {
		return middleware.ShareScope{}, err
	}
	return middleware.ShareScope{LinkID: link.ID, CompanyID: link.CompanyID}, nil
}

func (s *service) sign(link *ShareLink, now time.Time) (string, error) {
	claims := Claims{
		CompanyID: link.CompanyID,
		Scope:     ScopeReadOnly,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       link.ID,
			Subject:  link.ID,
			Issuer:   tokenIssuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if link.ExpiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*link.ExpiresAt)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign share link token")
	}
	return token, nil
}

func (s *service) toResponse(l ShareLink) ShareLinkResponse {
	return ShareLinkResponse{
		ShareLink: l,
		Token:     l.Token,
		URL:       s.baseURL + "/" + l.Token,
		Active:    l.IsActive(s.now()),
	}
}

func (s *service) logAudit(ctx context.Context, actor, companyID, action string, details map[string]interface{}, ip, status string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogAction(ctx, actor, companyID, action, details, ip, status); err != nil {
		logger.Warn("audit log write failed", "action", action, "err", err)
	}
}
