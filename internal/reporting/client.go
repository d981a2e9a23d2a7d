package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/internal/metrics"
)

var ErrNotConfigured = errors.New("reporting API URL is not configured")

// APIError is a non-2xx answer from the reporting API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reporting API returned %d: %s", e.StatusCode, e.Message)
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// API is what the rest of the backend needs from the reporting service.
type API interface {
	ListCompanies(ctx context.Context) ([]Company, error)
	GetCompany(ctx context.Context, companyID string) (*Company, error)
	ListAccounts(ctx context.Context, companyID string) ([]Account, error)
	AssignAccount(ctx context.Context, companyID, accountID string) error
	UnassignAccount(ctx context.Context, companyID, accountID string) error
	GetCampaignStats(ctx context.Context, companyID string, r daterange.DateRange) (*CampaignStats, error)
}

// Client talks to the external reporting API. GET answers are cached for
// the configured TTL and identical concurrent GETs share one request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cache   *cache.Cache
	group   singleflight.Group
}

// NewClient builds a client. ttl <= 0 disables response caching.
func NewClient(baseURL, token string, ttl time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	c := &Client{baseURL: baseURL, token: token, http: httpClient}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var out []Company
	if err := c.getJSON(ctx, "/api/companies", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list companies")
	}
	return out, nil
}

func (c *Client) GetCompany(ctx context.Context, companyID string) (*Company, error) {
	var out Company
	if err := c.getJSON(ctx, "/api/companies/"+url.PathEscape(companyID), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "get company %s", companyID)
	}
	return &out, nil
}

func (c *Client) ListAccounts(ctx context.Context, companyID string) ([]Account, error) {
	var out []Account
	if err := c.getJSON(ctx, accountsPath(companyID), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "list accounts of %s", companyID)
	}
	return out, nil
}

func (c *Client) AssignAccount(ctx context.Context, companyID, accountID string) error {
	if _, err := c.do(ctx, http.MethodPost, accountsPath(companyID)+"/"+url.PathEscape(accountID)); err != nil {
		return errors.Wrapf(err, "assign account %s to %s", accountID, companyID)
	}
	c.forget(companyID)
	return nil
}

func (c *Client) UnassignAccount(ctx context.Context, companyID, accountID string) error {
	if _, err := c.do(ctx, http.MethodDelete, accountsPath(companyID)+"/"+url.PathEscape(accountID)); err != nil {
		return errors.Wrapf(err, "unassign account %s from %s", accountID, companyID)
	}
	c.forget(companyID)
	return nil
}

// GetCampaignStats fetches per-account counts for r and derives totals and rates.
func (c *Client) GetCampaignStats(ctx context.Context, companyID string, r daterange.DateRange) (*CampaignStats, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("start_date", r.StartDate)
	q.Set("end_date", r.EndDate)

	var payload statsPayload
	if err := c.getJSON(ctx, statsPath(companyID), q, &payload); err != nil {
		return nil, errors.Wrapf(err, "campaign stats of %s", companyID)
	}

	stats := &CampaignStats{CompanyID: companyID, Range: r, Accounts: payload.Accounts}
	if stats.Accounts == nil {
		stats.Accounts = []AccountStats{}
	}
	for i := range stats.Accounts {
		stats.Accounts[i].fillRates()
		stats.Totals.add(stats.Accounts[i].Counts)
	}
	stats.Totals.fillRates()
	return stats, nil
}

func accountsPath(companyID string) string {
	return "/api/companies/" + url.PathEscape(companyID) + "/accounts"
}

func statsPath(companyID string) string {
	return "/api/companies/" + url.PathEscape(companyID) + "/stats"
}

// forget drops cached answers an account change makes stale, including
// every stats window cached for the company.
func (c *Client) forget(companyID string) {
	if c.cache == nil {
		return
	}
	c.cache.Delete(cacheKey("/api/companies", nil))
	c.cache.Delete(cacheKey("/api/companies/"+url.PathEscape(companyID), nil))
	c.cache.Delete(cacheKey(accountsPath(companyID), nil))

	statsPrefix := statsPath(companyID) + "?"
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, statsPrefix) {
			c.cache.Delete(key)
		}
	}
}

func cacheKey(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	key := cacheKey(path, q)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			metrics.UpstreamRequests.WithLabelValues("cache_hit").Inc()
			return decode(body.([]byte), out)
		}
	}

	// the shared call outlives any single caller; the http client timeout
	// still bounds it
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		body, err := c.do(fetchCtx, http.MethodGet, key)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.SetDefault(key, body)
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "GET %s", key)
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		if res.Shared {
			logger.Debug("reporting request shared", "key", key)
		}
		return decode(res.Val.([]byte), out)
	}
}

func decode(body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decode reporting API response")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, pathAndQuery string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, errors.Wrapf(err, "%s %s", method, pathAndQuery)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "read response")
	}
	logger.Debug("reporting API call", "method", method, "path", pathAndQuery, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, &APIError{StatusCode: resp.StatusCode, Message: upstreamMessage(respBody, resp.Status)}
	}
	metrics.UpstreamRequests.WithLabelValues("ok").Inc()
	return respBody, nil
}

func upstreamMessage(body []byte, fallback string) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return fallback
}
