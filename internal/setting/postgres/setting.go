package postgres

import (
	"errors"

	"github.com/mfirmanda/helpdesk-management/internal/setting"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository implements the setting.Repository interface using GORM
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) setting.Repository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(key string) (*setting.Setting, error) {
	var s setting.Setting
	err := r.db.Where("key = ?", key).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, setting.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettingRepository) List(category string) ([]*setting.Setting, error) {
	db := r.db.Model(&setting.Setting{})
	if category != "" {
		db = db.Where("category = ?", category)
	}

	var settings []*setting.Setting
	err := db.Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *SettingRepository) Upsert(s *setting.Setting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "category", "description", "updated_at"}),
	}).Create(s).Error
}
