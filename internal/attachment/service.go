package attachment

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository defines the data access methods for attachment metadata
type Repository interface {
	Create(a *Attachment) error
	GetByID(id string) (*Attachment, error)
	ListByTicket(ticketID string) ([]*Attachment, error)
}

// Storage persists attachment payloads outside the database.
type Storage interface {
	Save(storedName string, r io.Reader) (int64, error)
	Open(storedName string) (io.ReadCloser, error)
	Remove(storedName string) error
}

// Service handles attachment upload and download logic
type Service struct {
	repo    Repository
	storage Storage
	maxSize int64
	logger  *slog.Logger
}

func NewService(repo Repository, storage Storage, maxSize int64, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// Upload validates and stores a file under a randomized name, keeping the
// original name and MIME type for download headers.
func (s *Service) Upload(ticketID, uploaderID, originalName, mimeType string, size int64, r io.Reader) (*Attachment, error) {
	if !AllowedMimeType(mimeType) {
		s.logger.Warn("upload rejected: file type", "mime_type", mimeType, "ticket_id", ticketID)
		return nil, ErrInvalidFileType
	}
	if size > s.maxSize {
		s.logger.Warn("upload rejected: size", "size", size, "max", s.maxSize, "ticket_id", ticketID)
		return nil, ErrFileTooLarge
	}

	storedName := uuid.New().String()

	written, err := s.storage.Save(storedName, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		s.logger.Error("failed to store attachment", "error", err, "ticket_id", ticketID)
		return nil, err
	}
	if written > s.maxSize {
		s.storage.Remove(storedName)
		return nil, ErrFileTooLarge
	}

	a := &Attachment{
		ID:           uuid.New().String(),
		TicketID:     ticketID,
		Filename:     storedName,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         written,
		UploadedByID: uploaderID,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(a); err != nil {
		s.logger.Error("failed to save attachment row", "error", err, "ticket_id", ticketID)
		s.storage.Remove(storedName)
		return nil, err
	}

	s.logger.Info("attachment uploaded",
		"attachment_id", a.ID,
		"ticket_id", ticketID,
		"size", written,
		"mime_type", mimeType)

	return a, nil
}

// Download returns the metadata plus a reader over the stored payload.
func (s *Service) Download(id string) (*Attachment, io.ReadCloser, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.storage.Open(a.Filename)
	if err != nil {
		s.logger.Error("failed to open stored attachment", "error", err, "attachment_id", id)
		return nil, nil, err
	}

	return a, f, nil
}

func (s *Service) ListByTicket(ticketID string) ([]*Attachment, error) {
	return s.repo.ListByTicket(ticketID)
}

// RemoveTicketFiles deletes the stored payloads for a ticket, best-effort.
// Rows are removed transactionally by the ticket delete; a leftover file is
// just disk noise, never an integrity problem.
func (s *Service) RemoveTicketFiles(ticketID string) {
	attachments, err := s.repo.ListByTicket(ticketID)
	if err != nil {
		s.logger.Error("failed to list attachments for cleanup", "error", err, "ticket_id", ticketID)
		return
	}

	for _, a := range attachments {
		if err := s.storage.Remove(a.Filename); err != nil {
			s.logger.Warn("failed to remove stored attachment", "error", err, "attachment_id", a.ID)
		}
	}
}
