package reports

import (
	"context"

	"github.com/Laisky/errors/v2"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
	"github.com/outreachboard/client-reporting-backend/internal/reporting"
)

// ReportRepository defines the data reads required by the reports service.
type ReportRepository interface {
	GetCompany(ctx context.Context, companyID string) (*reporting.Company, error)
	GetCampaignStats(ctx context.Context, companyID string, r daterange.DateRange) (*reporting.CampaignStats, error)
}

// repository reads campaign numbers from the reporting API. Nothing about
// campaigns is stored locally.
type repository struct {
	api reporting.API
}

func NewRepository(api reporting.API) ReportRepository {
	return &repository{api: api}
}

func (r *repository) GetCompany(ctx context.Context, companyID string) (*reporting.Company, error) {
	company, err := r.api.GetCompany(ctx, companyID)
	if err != nil {
		return nil, errors.Wrapf(err, "get company %s", companyID)
	}
	return company, nil
}

func (r *repository) GetCampaignStats(ctx context.Context, companyID string, dr daterange.DateRange) (*reporting.CampaignStats, error) {
	stats, err := r.api.GetCampaignStats(ctx, companyID, dr)
	if err != nil {
		return nil, errors.Wrapf(err, "campaign stats for %s over %s", companyID, dr)
	}
	return stats, nil
}
