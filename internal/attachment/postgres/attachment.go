package postgres

import (
	"errors"

	"github.com/mfirmanda/helpdesk-management/internal/attachment"
	"gorm.io/gorm"
)

// AttachmentRepository implements the attachment.Repository interface using GORM
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) attachment.Repository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(a *attachment.Attachment) error {
	return r.db.Create(a).Error
}

func (r *AttachmentRepository) GetByID(id string) (*attachment.Attachment, error) {
	var a attachment.Attachment
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attachment.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AttachmentRepository) ListByTicket(ticketID string) ([]*attachment.Attachment, error) {
	var attachments []*attachment.Attachment
	err := r.db.Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}
