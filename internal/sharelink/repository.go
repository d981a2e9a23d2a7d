package sharelink

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, link *ShareLink) error
	GetByID(ctx context.Context, id string) (*ShareLink, error)
	ListByCompany(ctx context.Context, companyID string) ([]ShareLink, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, link *ShareLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*ShareLink, error) {
	var link ShareLink
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListByCompany returns newest first.
func (r *repository) ListByCompany(ctx context.Context, companyID string) ([]ShareLink, error) {
	var links []ShareLink
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&links).Error
	return links, err
}

// Revoke sets revoked_at once; revoking again is a no-op.
func (r *repository) Revoke(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&ShareLink{}).
		Where("id = ?", id).
		Where("revoked_at IS NULL").
		Update("revoked_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&ShareLink{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *repository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&ShareLink{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", at).Error
}
