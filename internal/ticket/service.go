package ticket

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	userDatamodel "github.com/mfirmanda/helpdesk-management/internal/core/datamodel/user"
	"github.com/mfirmanda/helpdesk-management/internal/core/events"
)

// Repository defines the data access methods for tickets and comments.
//
// Update applies the mutation inside a single transaction and returns both
// the prior and the committed row, so status transitions are detected
// exactly once instead of being diffed against a stale caller-side read.
type Repository interface {
	Create(t *Ticket) error
	GetByID(id string) (*Ticket, error)
	List(query ListTicketsQuery) ([]*Ticket, int64, error)
	Update(id string, apply func(t *Ticket) error) (old *Ticket, updated *Ticket, err error)
	Delete(id string) error
	AddComment(c *Comment) error
	ListComments(ticketID string, includeInternal bool) ([]*Comment, error)
	Stats(now time.Time) (*Stats, error)
}

// FileCleanup removes stored attachment files when a ticket goes away.
// Failures are logged by the implementation; row cleanup is transactional
// in the repository regardless.
type FileCleanup interface {
	RemoveTicketFiles(ticketID string)
}

// Service handles ticket lifecycle business logic
type Service struct {
	repo    Repository
	bus     *events.EventBus
	cleanup FileCleanup
	logger  *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, cleanup FileCleanup, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		bus:     bus,
		cleanup: cleanup,
		logger:  logger,
	}
}

// CreateTicket files a new ticket for the requester. The SLA deadline is
// derived from priority; the ticket number comes from the repository's
// atomic counter.
func (s *Service) CreateTicket(requester *userDatamodel.User, dto CreateTicketDTO) (*Ticket, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("ticket validation failed", "error", err, "user_id", requester.ID)
		return nil, err
	}

	now := time.Now()
	deadline := ComputeSLADeadline(Priority(dto.Priority), now)

	t := &Ticket{
		ID:          uuid.New().String(),
		Title:       dto.Title,
		Description: dto.Description,
		Category:    dto.Category,
		Priority:    Priority(dto.Priority),
		Status:      StatusOpen,

		EmployeeID:         requester.EmployeeID,
		EmployeeName:       requester.Name,
		EmployeeEmail:      requester.Email,
		EmployeeMobile:     requester.Mobile,
		EmployeeDepartment: requester.Department,

		CreatedByID: requester.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		SLADeadline: &deadline,
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create ticket", "error", err, "user_id", requester.ID)
		return nil, err
	}

	s.logger.Info("ticket created",
		"ticket_id", t.ID,
		"ticket_number", t.TicketNumber,
		"priority", t.Priority,
		"sla_deadline", deadline)

	s.bus.Publish(context.Background(), events.NewTicketCreatedEvent(
		t.ID, t.TicketNumber, t.Title, string(t.Priority),
		t.CreatedByID, t.EmployeeName, t.EmployeeEmail,
		deadline.Format(time.RFC3339)))

	return t, nil
}

// GetTicket retrieves a ticket with role-based access control: employees
// only see their own tickets.
func (s *Service) GetTicket(id string, viewer *userDatamodel.User) (*Ticket, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !viewer.CanViewAllTickets() && t.CreatedByID != viewer.ID {
		s.logger.Warn("ticket access denied", "ticket_id", id, "user_id", viewer.ID)
		return nil, ErrForbidden
	}

	return t, nil
}

// ListTickets applies filters and pagination. Employee-role viewers are
// forced onto their own tickets regardless of the requested filters.
func (s *Service) ListTickets(query ListTicketsQuery, viewer *userDatamodel.User) ([]*Ticket, int64, error) {
	query.Normalize()

	if !viewer.CanViewAllTickets() {
		query.CreatedBy = viewer.ID
	}

	return s.repo.List(query)
}

// UpdateTicket applies a partial update in one transaction. A status change
// to resolved or closed stamps resolved_at; any detected transition emits
// exactly one status-changed event.
func (s *Service) UpdateTicket(id string, dto UpdateTicketDTO, actor *userDatamodel.User) (*Ticket, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("ticket update validation failed", "error", err, "ticket_id", id)
		return nil, err
	}

	old, updated, err := s.repo.Update(id, func(t *Ticket) error {
		now := time.Now()

		if dto.Title != nil {
			t.Title = *dto.Title
		}
		if dto.Description != nil {
			t.Description = *dto.Description
		}
		if dto.Category != nil {
			t.Category = *dto.Category
		}
		if dto.Priority != nil {
			t.Priority = Priority(*dto.Priority)
		}
		if dto.AssignedToID != nil {
			if *dto.AssignedToID == "" {
				t.AssignedToID = nil
			} else {
				t.AssignedToID = dto.AssignedToID
			}
		}
		if dto.Status != nil {
			t.Status = Status(*dto.Status)
			if t.IsTerminal() {
				t.ResolvedAt = &now
			}
		}
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update ticket", "error", err, "ticket_id", id)
		return nil, err
	}

	if old.Status != updated.Status {
		s.logger.Info("ticket status changed",
			"ticket_id", id,
			"ticket_number", updated.TicketNumber,
			"old_status", old.Status,
			"new_status", updated.Status,
			"actor_id", actor.ID)

		s.bus.Publish(context.Background(), events.NewTicketStatusChangedEvent(
			updated.ID, updated.TicketNumber, updated.Title,
			string(old.Status), string(updated.Status),
			actor.ID, updated.EmployeeEmail))
	}

	if changedAssignee(old, updated) {
		s.bus.Publish(context.Background(), events.NewTicketAssignedEvent(
			updated.ID, updated.TicketNumber, updated.Title,
			*updated.AssignedToID, actor.ID, ""))
	}

	return updated, nil
}

func changedAssignee(old, updated *Ticket) bool {
	if updated.AssignedToID == nil {
		return false
	}
	return old.AssignedToID == nil || *old.AssignedToID != *updated.AssignedToID
}

// DeleteTicket removes a ticket and everything hanging off it. Stored
// attachment files are removed best-effort after the rows are gone.
func (s *Service) DeleteTicket(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	// file removal first: the attachment rows naming the stored files are
	// gone once the transactional delete commits
	if s.cleanup != nil {
		s.cleanup.RemoveTicketFiles(id)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete ticket", "error", err, "ticket_id", id)
		return err
	}

	s.logger.Info("ticket deleted", "ticket_id", id)
	return nil
}

// AddComment appends a comment to a ticket the author can access.
func (s *Service) AddComment(ticketID string, dto AddCommentDTO, author *userDatamodel.User) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	t, err := s.GetTicket(ticketID, author)
	if err != nil {
		return nil, err
	}

	// employees cannot author internal notes
	isInternal := dto.IsInternal && author.CanSeeInternalComments()

	c := &Comment{
		ID:         uuid.New().String(),
		TicketID:   t.ID,
		UserID:     author.ID,
		AuthorName: author.Name,
		Content:    dto.Content,
		IsInternal: isInternal,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.AddComment(c); err != nil {
		s.logger.Error("failed to add comment", "error", err, "ticket_id", ticketID)
		return nil, err
	}

	s.bus.Publish(context.Background(), events.NewCommentAddedEvent(
		t.ID, t.TicketNumber, t.Title,
		c.ID, author.ID, author.Name, c.IsInternal, t.EmployeeEmail))

	return c, nil
}

// ListComments returns a ticket's comments, hiding internal notes from
// employee-role viewers.
func (s *Service) ListComments(ticketID string, viewer *userDatamodel.User) ([]*Comment, error) {
	if _, err := s.GetTicket(ticketID, viewer); err != nil {
		return nil, err
	}

	return s.repo.ListComments(ticketID, viewer.CanSeeInternalComments())
}

// Stats aggregates dashboard counts. SLA breaches are open-state tickets
// whose deadline is behind the clock.
func (s *Service) Stats() (*Stats, error) {
	return s.repo.Stats(time.Now())
}
