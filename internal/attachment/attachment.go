package attachment

import (
	"errors"
	"time"
)

type Attachment struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	TicketID     string    `json:"ticket_id" gorm:"column:ticket_id;type:uuid;not null;index"`
	Filename     string    `json:"-" gorm:"column:filename;not null"`
	OriginalName string    `json:"original_name" gorm:"column:original_name;not null"`
	MimeType     string    `json:"mime_type" gorm:"column:mime_type;not null"`
	Size         int64     `json:"size" gorm:"not null"`
	UploadedByID string    `json:"uploaded_by_id" gorm:"column:uploaded_by_id;type:uuid;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// allowedMimeTypes is the upload whitelist.
var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

func AllowedMimeType(mime string) bool {
	return allowedMimeTypes[mime]
}

var (
	ErrNotFound        = errors.New("attachment not found")
	ErrInvalidFileType = errors.New("file type not allowed")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
)
