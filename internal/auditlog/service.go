package auditlog

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/Laisky/errors/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
)

var ErrNotFound = errors.New("audit log not found")

type Service interface {
	LogAction(ctx context.Context, actor, companyID, action string, details map[string]interface{}, ip string, status string) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
	GetAuditLogByID(ctx context.Context, id uint) (*AuditLog, error)
	GetStats(ctx context.Context, window daterange.DateRange, loc *time.Location) (*AuditLogStats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogAction creates a new audit log entry
func (s *service) LogAction(ctx context.Context, actor, companyID, action string, details map[string]interface{}, ip string, status string) error {
	if details == nil {
		details = make(map[string]interface{})
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return s.repo.Create(ctx, &AuditLog{
		Actor:     actor,
		CompanyID: companyID,
		Action:    action,
		Details:   datatypes.JSON(detailsJSON),
		IPAddress: ip,
		Status:    status,
	})
}

// GetAuditLogs retrieves paginated audit logs with filters
func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []AuditLog{}
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetAuditLogByID retrieves a specific audit log by ID
func (s *service) GetAuditLogByID(ctx context.Context, id uint) (*AuditLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "id %d", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get audit log %d", id)
	}
	return log, nil
}

// GetStats counts entries inside window, read as calendar days in loc.
func (s *service) GetStats(ctx context.Context, window daterange.DateRange, loc *time.Location) (*AuditLogStats, error) {
	from, to, err := Bounds(window, loc)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByActionStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}

	stats := &AuditLogStats{
		From:            window.StartDate,
		To:              window.EndDate,
		ActionBreakdown: map[string]int{},
	}
	for _, c := range counts {
		stats.Total += c.Count
		if c.Status == StatusSuccess {
			stats.SuccessCount += int(c.Count)
		} else {
			stats.FailureCount += int(c.Count)
		}
		stats.ActionBreakdown[c.Action] += int(c.Count)
	}
	return stats, nil
}

// Bounds converts a calendar range to [start of first day, start of the day
// after the last) in loc.
func Bounds(r daterange.DateRange, loc *time.Location) (time.Time, time.Time, error) {
	from, err := daterange.ParseForDisplay(r.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := daterange.ParseForDisplay(r.EndDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to.AddDate(0, 0, 1), nil
}
