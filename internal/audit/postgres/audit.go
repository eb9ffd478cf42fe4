package postgres

import (
	"github.com/mfirmanda/helpdesk-management/internal/audit"
	"gorm.io/gorm"
)

// AuditRepository implements the audit.Repository interface using GORM
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) CreateAuditLog(l *audit.AuditLog) error {
	return r.db.Create(l).Error
}

func (r *AuditRepository) ListAuditLogs(query audit.ListQuery) ([]*audit.AuditLog, int64, error) {
	db := r.db.Model(&audit.AuditLog{})

	if query.TicketID != "" {
		db = db.Where("ticket_id = ?", query.TicketID)
	}
	if query.UserID != "" {
		db = db.Where("actor_id = ?", query.UserID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*audit.AuditLog
	err := db.Order("created_at DESC").
		Limit(query.Limit).
		Offset(query.Offset()).
		Find(&logs).Error
	return logs, total, err
}

func (r *AuditRepository) CreateActivityLog(l *audit.ActivityLog) error {
	return r.db.Create(l).Error
}

func (r *AuditRepository) ListActivityLogs(query audit.ListQuery) ([]*audit.ActivityLog, int64, error) {
	db := r.db.Model(&audit.ActivityLog{})

	if query.UserID != "" {
		db = db.Where("user_id = ?", query.UserID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*audit.ActivityLog
	err := db.Order("created_at DESC").
		Limit(query.Limit).
		Offset(query.Offset()).
		Find(&logs).Error
	return logs, total, err
}
