package reporting

import (
	"time"

	"github.com/outreachboard/client-reporting-backend/internal/daterange"
)

// Company is a client whose outreach results are reported.
type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AccountCount int       `json:"account_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Account is a LinkedIn outreach account. CompanyID is empty while unassigned.
type Account struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	CompanyID   string `json:"company_id,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Counts are the raw campaign numbers with rates derived from them.
type Counts struct {
	Invites        int     `json:"invites"`
	Connections    int     `json:"connections"`
	Replies        int     `json:"replies"`
	AcceptanceRate float64 `json:"acceptance_rate"` // connections / invites
	ReplyRate      float64 `json:"reply_rate"`      // replies / connections
}

// fillRates sets the derived rates. A zero divisor gives a zero rate.
func (c *Counts) fillRates() {
	c.AcceptanceRate, c.ReplyRate = 0, 0
	if c.Invites > 0 {
		c.AcceptanceRate = round4(float64(c.Connections) / float64(c.Invites))
	}
	if c.Connections > 0 {
		c.ReplyRate = round4(float64(c.Replies) / float64(c.Connections))
	}
}

func (c *Counts) add(o Counts) {
	c.Invites += o.Invites
	c.Connections += o.Connections
	c.Replies += o.Replies
}

type AccountStats struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Counts
}

// CampaignStats is a company's performance over a date range.
type CampaignStats struct {
	CompanyID string              `json:"company_id"`
	Range     daterange.DateRange `json:"range"`
	Totals    Counts              `json:"totals"`
	Accounts  []AccountStats      `json:"accounts"`
}

// upstream payload for the stats endpoint
type statsPayload struct {
	Accounts []AccountStats `json:"accounts"`
}

func round4(f float64) float64 {
	return float64(int64(f*10000+0.5)) / 10000
}
