package reports

import (
	"time"

	"github.com/outreachboard/client-reporting-backend/internal/rangepicker"
	"github.com/outreachboard/client-reporting-backend/internal/reporting"
)

// Report format constants
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// CampaignReportRequest represents request parameters for a campaign report.
// The range fields follow the date range resolver: a preset wins over dates.
type CampaignReportRequest struct {
	rangepicker.RangeQuery
	Format string `form:"format" json:"format" binding:"omitempty,oneof=csv excel pdf"`
}

// CampaignReportRow represents a single account row in the campaign report
type CampaignReportRow struct {
	AccountID      string  `json:"account_id"`
	AccountName    string  `json:"account_name"`
	Invites        int     `json:"invites"`
	Connections    int     `json:"connections"`
	Replies        int     `json:"replies"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	ReplyRate      float64 `json:"reply_rate"`
}

// CampaignReport is what a viewer sees for one company and one range.
type CampaignReport struct {
	Company     reporting.Company    `json:"company"`
	Range       rangepicker.Resolved `json:"range"`
	Totals      reporting.Counts     `json:"totals"`
	Rows        []CampaignReportRow  `json:"rows"`
	GeneratedAt time.Time            `json:"generated_at"`
}

func rowsFromStats(stats *reporting.CampaignStats) []CampaignReportRow {
	rows := make([]CampaignReportRow, 0, len(stats.Accounts))
	for _, a := range stats.Accounts {
		rows = append(rows, CampaignReportRow{
			AccountID:      a.AccountID,
			AccountName:    a.AccountName,
			Invites:        a.Invites,
			Connections:    a.Connections,
			Replies:        a.Replies,
			AcceptanceRate: a.AcceptanceRate,
			ReplyRate:      a.ReplyRate,
		})
	}
	return rows
}

// Caller identifies who asked for a report. Viewer owns the recent range
// list the resolved range goes into; Actor and IP go into the audit log.
type Caller struct {
	Viewer string
	Actor  string
	IP     string
}
