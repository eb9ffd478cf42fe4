package postgres

import (
	"errors"
	"time"

	"github.com/mfirmanda/helpdesk-management/internal/ticket"
	"gorm.io/gorm"
)

// TicketRepository implements the ticket.Repository interface using GORM
type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) ticket.Repository {
	return &TicketRepository{db: db}
}

// Create inserts the ticket and allocates its number from the counter row
// in the same transaction. The counter UPDATE takes a row lock, so two
// concurrent creates serialize instead of computing the same number.
func (r *TicketRepository) Create(t *ticket.Ticket) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ticket.Counter{}).
			Where("id = ?", 1).
			Update("value", gorm.Expr("value + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&ticket.Counter{ID: 1, Value: 1}).Error; err != nil {
				return err
			}
		}

		var counter ticket.Counter
		if err := tx.Where("id = ?", 1).First(&counter).Error; err != nil {
			return err
		}

		t.TicketNumber = ticket.FormatTicketNumber(counter.Value)
		return tx.Create(t).Error
	})
}

func (r *TicketRepository) GetByID(id string) (*ticket.Ticket, error) {
	var t ticket.Ticket
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) List(query ticket.ListTicketsQuery) ([]*ticket.Ticket, int64, error) {
	q := r.db.Model(&ticket.Ticket{})

	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.Priority != "" {
		q = q.Where("priority = ?", query.Priority)
	}
	if query.Department != "" {
		q = q.Where("employee_department = ?", query.Department)
	}
	if query.AssignedTo != "" {
		q = q.Where("assigned_to_id = ?", query.AssignedTo)
	}
	if query.CreatedBy != "" {
		q = q.Where("created_by_id = ?", query.CreatedBy)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		q = q.Where(
			"title LIKE ? OR description LIKE ? OR ticket_number LIKE ? OR employee_name LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tickets []*ticket.Ticket
	err := q.Order("created_at DESC").
		Limit(query.Limit).
		Offset(query.Offset()).
		Find(&tickets).Error
	return tickets, total, err
}

// Update reads, mutates and writes the row in one transaction, returning
// the row as it was before and after. Status-transition detection happens
// against the in-transaction read, not a stale caller-side copy.
func (r *TicketRepository) Update(id string, apply func(t *ticket.Ticket) error) (*ticket.Ticket, *ticket.Ticket, error) {
	var old, updated ticket.Ticket

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var t ticket.Ticket
		if err := tx.Where("id = ?", id).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ticket.ErrTicketNotFound
			}
			return err
		}

		old = t

		if err := apply(&t); err != nil {
			return err
		}

		if err := tx.Save(&t).Error; err != nil {
			return err
		}

		updated = t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &old, &updated, nil
}

// Delete removes the ticket and its dependents in one transaction. The
// schema has ON DELETE CASCADE as well; the explicit deletes keep the
// behavior identical across database engines.
func (r *TicketRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&ticket.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM attachments WHERE ticket_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM audit_logs WHERE ticket_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&ticket.Ticket{}).Error
	})
}

func (r *TicketRepository) AddComment(c *ticket.Comment) error {
	return r.db.Create(c).Error
}

func (r *TicketRepository) ListComments(ticketID string, includeInternal bool) ([]*ticket.Comment, error) {
	q := r.db.Where("ticket_id = ?", ticketID)
	if !includeInternal {
		q = q.Where("is_internal = ?", false)
	}

	var comments []*ticket.Comment
	err := q.Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// Stats aggregates dashboard counts. Breached means the deadline is strictly
// in the past and the ticket is not in a terminal state.
func (r *TicketRepository) Stats(now time.Time) (*ticket.Stats, error) {
	stats := &ticket.Stats{
		ByStatus:   make(map[ticket.Status]int64),
		ByPriority: make(map[ticket.Priority]int64),
	}

	if err := r.db.Model(&ticket.Ticket{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		Key   string
		Count int64
	}

	var statusRows []countRow
	err := r.db.Model(&ticket.Ticket{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[ticket.Status(row.Key)] = row.Count
	}

	var priorityRows []countRow
	err = r.db.Model(&ticket.Ticket{}).
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").
		Scan(&priorityRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range priorityRows {
		stats.ByPriority[ticket.Priority(row.Key)] = row.Count
	}

	err = r.db.Model(&ticket.Ticket{}).
		Where("sla_deadline < ?", now).
		Where("status NOT IN ?", []ticket.Status{ticket.StatusResolved, ticket.StatusClosed}).
		Count(&stats.SLABreached).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
