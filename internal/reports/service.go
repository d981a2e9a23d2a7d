package reports

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"

	"github.com/outreachboard/client-reporting-backend/internal/auditlog"
	"github.com/outreachboard/client-reporting-backend/internal/events"
	"github.com/outreachboard/client-reporting-backend/internal/logger"
	"github.com/outreachboard/client-reporting-backend/internal/metrics"
	"github.com/outreachboard/client-reporting-backend/internal/rangepicker"
)

// RangeError marks a failure to resolve the requested date range, as
// opposed to a failure to fetch or render the report.
type RangeError struct {
	Err error
}

func (e *RangeError) Error() string { return "date range: " + e.Err.Error() }
func (e *RangeError) Unwrap() error { return e.Err }

// ReportService performs business logic and coordinates repo + exporter.
type ReportService interface {
	GetCampaignReport(ctx context.Context, caller Caller, companyID string, q rangepicker.RangeQuery) (*CampaignReport, error)
	ExportCampaignReport(ctx context.Context, caller Caller, companyID string, req CampaignReportRequest) ([]byte, string, string, error)
}

type reportService struct {
	repo      ReportRepository
	exporter  ReportExporter
	ranges    rangepicker.Service
	auditSvc  auditlog.Service
	publisher events.Publisher
	now       func() time.Time
}

func NewReportService(repo ReportRepository, exporter ReportExporter, ranges rangepicker.Service, auditSvc auditlog.Service, publisher events.Publisher) ReportService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &reportService{
		repo:      repo,
		exporter:  exporter,
		ranges:    ranges,
		auditSvc:  auditSvc,
		publisher: publisher,
		now:       time.Now,
	}
}

// build resolves the range (recording it for the caller) and fetches the
// company and its numbers.
func (s *reportService) build(ctx context.Context, caller Caller, companyID string, q rangepicker.RangeQuery) (*CampaignReport, error) {
	resolved, err := s.ranges.Resolve(ctx, caller.Viewer, companyID, q)
	if err != nil {
		return nil, &RangeError{Err: err}
	}

	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.GetCampaignStats(ctx, companyID, resolved.Range)
	if err != nil {
		return nil, err
	}

	return &CampaignReport{
		Company:     *company,
		Range:       *resolved,
		Totals:      stats.Totals,
		Rows:        rowsFromStats(stats),
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *reportService) GetCampaignReport(ctx context.Context, caller Caller, companyID string, q rangepicker.RangeQuery) (*CampaignReport, error) {
	report, err := s.build(ctx, caller, companyID, q)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{
		"start_date": report.Range.Range.StartDate,
		"end_date":   report.Range.Range.EndDate,
		"source":     report.Range.Source,
		"accounts":   len(report.Rows),
	}
	s.logAudit(ctx, caller, companyID, auditlog.ActionReportViewed, details, auditlog.StatusSuccess)
	return report, nil
}

func (s *reportService) ExportCampaignReport(ctx context.Context, caller Caller, companyID string, req CampaignReportRequest) ([]byte, string, string, error) {
	format := req.Format
	if format == "" {
		format = FormatCSV
	}

	fail := func(err error) ([]byte, string, string, error) {
		details := map[string]interface{}{
			"format": format,
			"error":  err.Error(),
		}
		s.logAudit(ctx, caller, companyID, auditlog.ActionReportExportFailed, details, auditlog.StatusFailure)
		return nil, "", "", err
	}

	report, err := s.build(ctx, caller, companyID, req.RangeQuery)
	if err != nil {
		return fail(err)
	}

	data, filename, mimeType, err := s.exporter.Export(format, report)
	if err != nil {
		return fail(err)
	}

	details := map[string]interface{}{
		"format":     format,
		"filename":   filename,
		"start_date": report.Range.Range.StartDate,
		"end_date":   report.Range.Range.EndDate,
		"accounts":   len(report.Rows),
	}
	s.logAudit(ctx, caller, companyID, auditlog.ActionReportExported, details, auditlog.StatusSuccess)
	metrics.ReportExports.WithLabelValues(format).Inc()

	events.PublishQuietly(ctx, s.publisher, events.Event{
		Type:       events.TypeReportExported,
		OccurredAt: report.GeneratedAt,
		Viewer:     caller.Viewer,
		CompanyID:  companyID,
		Source:     report.Range.Source,
		Range:      &report.Range.Range,
		Format:     format,
	})

	return data, filename, mimeType, nil
}

// logAudit never fails the request; a lost audit row is logged instead.
func (s *reportService) logAudit(ctx context.Context, caller Caller, companyID, action string, details map[string]interface{}, status string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.LogAction(ctx, caller.Actor, companyID, action, details, caller.IP, status); err != nil {
		logger.Error("audit write failed", "action", action, "err", errors.Wrap(err, "log action"))
	}
}
