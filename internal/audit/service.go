package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository defines the data access methods for audit and activity logs
type Repository interface {
	CreateAuditLog(l *AuditLog) error
	ListAuditLogs(query ListQuery) ([]*AuditLog, int64, error)
	CreateActivityLog(l *ActivityLog) error
	ListActivityLogs(query ListQuery) ([]*ActivityLog, int64, error)
}

// Service records and lists audit trails. Writes are best-effort: a failed
// audit insert is logged, never surfaced to the caller.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record writes one ticket audit entry.
func (s *Service) Record(ticketID, actorID, action, detail string) {
	l := &AuditLog{
		ID:        uuid.New().String(),
		TicketID:  ticketID,
		ActorID:   actorID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateAuditLog(l); err != nil {
		s.logger.Error("failed to write audit log",
			"error", err,
			"ticket_id", ticketID,
			"action", action)
	}
}

// RecordActivity writes one request-level activity entry.
func (s *Service) RecordActivity(userID, username, method, path string, status int, ip, userAgent string) {
	l := &ActivityLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		Method:    method,
		Path:      path,
		Status:    status,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateActivityLog(l); err != nil {
		s.logger.Error("failed to write activity log", "error", err, "path", path)
	}
}

func (s *Service) ListAuditLogs(query ListQuery) ([]*AuditLog, int64, error) {
	query.Normalize()
	return s.repo.ListAuditLogs(query)
}

func (s *Service) ListActivityLogs(query ListQuery) ([]*ActivityLog, int64, error) {
	query.Normalize()
	return s.repo.ListActivityLogs(query)
}
