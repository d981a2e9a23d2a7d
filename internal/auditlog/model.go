package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// Actions written by the reporting backend.
const (
	ActionShareLinkCreated   = "SHARE_LINK_CREATED"
	ActionShareLinkRevoked   = "SHARE_LINK_REVOKED"
	ActionAccountAssigned    = "ACCOUNT_ASSIGNED"
	ActionAccountUnassigned  = "ACCOUNT_UNASSIGNED"
	ActionReportViewed       = "REPORT_VIEWED"
	ActionReportExported     = "REPORT_EXPORTED"
	ActionReportExportFailed = "REPORT_EXPORT_FAILED"

	StatusSuccess = "success"
	StatusFailure = "failure"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string         `gorm:"size:100;not null;index" json:"actor"`      // "admin" or "share:<link id>"
	CompanyID string         `gorm:"size:64;index" json:"company_id,omitempty"` // empty for global actions
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `json:"details" swaggertype:"object"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	Actor     string     `json:"actor"`
	CompanyID string     `json:"company_id"`
	Action    string     `json:"action"`
	Status    string     `json:"status"`
	FromDate  *time.Time `json:"from_date"` // inclusive
	ToDate    *time.Time `json:"to_date"`   // exclusive
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
}

// PaginatedAuditLogs represents paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

// AuditLogStats summarises a window of audit entries.
type AuditLogStats struct {
	From            string         `json:"from"`
	To              string         `json:"to"`
	Total           int64          `json:"total"`
	SuccessCount    int            `json:"success_count"`
	FailureCount    int            `json:"failure_count"`
	ActionBreakdown map[string]int `json:"action_breakdown"`
}

// ActionStatusCount is one row of the grouped count behind AuditLogStats.
type ActionStatusCount struct {
	Action string
	Status string
	Count  int64
}
