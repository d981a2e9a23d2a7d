package sharelink

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const ScopeReadOnly = "read-only"

// ShareLink represents the share_links table
type ShareLink struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	CompanyID  string     `gorm:"size:64;not null;index" json:"company_id"`
	Label      string     `gorm:"size:200" json:"label"`
	Token      string     `gorm:"type:text;not null" json:"-"`
	CreatedBy  string     `gorm:"size:100" json:"created_by"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	RevokedAt  *time.Time `gorm:"index" json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for ShareLink
func (ShareLink) TableName() string {
	return "share_links"
}

// IsActive reports whether the link can still be used at now.
func (l ShareLink) IsActive(now time.Time) bool {
	if l.RevokedAt != nil {
		return false
	}
	return l.ExpiresAt == nil || now.Before(*l.ExpiresAt)
}

// Claims carried by a share-link token. Subject is the link id.
type Claims struct {
	CompanyID string `json:"company_id"`
	Scope     string `json:"scope"`
	jwt.RegisteredClaims
}

// Request/Response DTOs

type CreateShareLinkRequest struct {
	Label    string `json:"label" binding:"max=200"`
	TTLHours int    `json:"ttl_hours" binding:"min=0,max=87600"` // 0 never expires
}

type ShareLinkResponse struct {
	ShareLink
	Token  string `json:"token"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}
