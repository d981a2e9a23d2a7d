package recentrange

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoredRanges is one viewer's recent list as a database row.
type StoredRanges struct {
	CacheKey  string         `gorm:"column:cache_key;primaryKey;size:191" json:"cache_key"`
	Ranges    datatypes.JSON `json:"ranges"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (StoredRanges) TableName() string {
	return "recent_range_entries"
}

// GormStore keeps values in the recent_range_entries table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, key string) ([]byte, error) {
	var row StoredRanges
	err := s.db.WithContext(ctx).Where("cache_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", key)
	}
	return []byte(row.Ranges), nil
}

func (s *GormStore) Save(ctx context.Context, key string, data []byte) error {
	row := StoredRanges{CacheKey: key, Ranges: datatypes.JSON(data), UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"ranges", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return errors.Wrapf(err, "save %s", key)
	}
	return nil
}
