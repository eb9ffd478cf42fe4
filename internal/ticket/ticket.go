package ticket

import (
	"errors"
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func ValidPriority(p string) bool {
	switch Priority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusOpen, StatusInProgress, StatusOnHold, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// slaWindows maps priority to the response window used to compute the
// deadline at creation time.
var slaWindows = map[Priority]time.Duration{
	PriorityCritical: 1 * time.Hour,
	PriorityHigh:     4 * time.Hour,
	PriorityMedium:   24 * time.Hour,
	PriorityLow:      72 * time.Hour,
}

// SLAWindow returns the response window for a priority.
func SLAWindow(p Priority) time.Duration {
	if w, ok := slaWindows[p]; ok {
		return w
	}
	return slaWindows[PriorityMedium]
}

// ComputeSLADeadline derives the deadline for a ticket created at the given time.
func ComputeSLADeadline(p Priority, createdAt time.Time) time.Time {
	return createdAt.Add(SLAWindow(p))
}

// FormatTicketNumber renders the human-readable ticket key for a sequence value.
func FormatTicketNumber(seq int64) string {
	return fmt.Sprintf("TKT-%03d", seq)
}

type Ticket struct {
	ID           string   `json:"id" gorm:"primaryKey;type:uuid"`
	TicketNumber string   `json:"ticket_number" gorm:"column:ticket_number;uniqueIndex;not null"`
	Title        string   `json:"title" gorm:"not null"`
	Description  string   `json:"description" gorm:"not null"`
	Category     string   `json:"category"`
	Priority     Priority `json:"priority" gorm:"not null;default:medium"`
	Status       Status   `json:"status" gorm:"not null;default:open"`

	// requester snapshot, copied from the user at submission time and never
	// kept in sync afterwards
	EmployeeID         string `json:"employee_id" gorm:"column:employee_id"`
	EmployeeName       string `json:"employee_name" gorm:"column:employee_name"`
	EmployeeEmail      string `json:"employee_email" gorm:"column:employee_email"`
	EmployeeMobile     string `json:"employee_mobile" gorm:"column:employee_mobile"`
	EmployeeDepartment string `json:"employee_department" gorm:"column:employee_department"`

	AssignedToID *string    `json:"assigned_to_id,omitempty" gorm:"column:assigned_to_id;type:uuid"`
	CreatedByID  string     `json:"created_by_id" gorm:"column:created_by_id;type:uuid;not null"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	SLADeadline  *time.Time `json:"sla_deadline,omitempty" gorm:"column:sla_deadline"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// IsTerminal reports whether the status counts as done for SLA purposes.
// The data layer still allows reopening via the normal update path.
func (t *Ticket) IsTerminal() bool {
	return t.Status == StatusResolved || t.Status == StatusClosed
}

type SLAState string

const (
	SLAOnTrack  SLAState = "on_track"
	SLAAtRisk   SLAState = "at_risk"
	SLABreached SLAState = "breached"
)

type SLAProgress struct {
	State          SLAState   `json:"state"`
	PercentElapsed int        `json:"percent_elapsed"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

// SLAProgressAt derives display progress against the ticket's own priority
// window, measured from creation to deadline. Resolved and closed tickets
// report their final state at resolution time.
func (t *Ticket) SLAProgressAt(now time.Time) SLAProgress {
	progress := SLAProgress{Deadline: t.SLADeadline}

	if t.SLADeadline == nil {
		progress.State = SLAOnTrack
		return progress
	}

	at := now
	if t.IsTerminal() && t.ResolvedAt != nil {
		at = *t.ResolvedAt
	}

	window := t.SLADeadline.Sub(t.CreatedAt)
	if window <= 0 {
		progress.State = SLABreached
		progress.PercentElapsed = 100
		return progress
	}

	elapsed := at.Sub(t.CreatedAt)
	percent := int(elapsed * 100 / window)
	if percent < 0 {
		percent = 0
	}

	switch {
	case percent > 100:
		progress.State = SLABreached
		progress.PercentElapsed = 100
	case percent >= 75:
		progress.State = SLAAtRisk
		progress.PercentElapsed = percent
	default:
		progress.State = SLAOnTrack
		progress.PercentElapsed = percent
	}

	return progress
}

// Comment is an append-only note on a ticket. Internal comments are visible
// to agents and above only.
type Comment struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	TicketID   string    `json:"ticket_id" gorm:"column:ticket_id;type:uuid;not null;index"`
	UserID     string    `json:"user_id" gorm:"column:user_id;type:uuid;not null"`
	AuthorName string    `json:"author_name" gorm:"column:author_name"`
	Content    string    `json:"content" gorm:"not null"`
	IsInternal bool      `json:"is_internal" gorm:"column:is_internal;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// Counter is the single-row sequence backing ticket number allocation. The
// increment happens inside the insert transaction, so concurrent creates
// cannot observe the same value.
type Counter struct {
	ID    int   `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}

func (Counter) TableName() string {
	return "ticket_counters"
}

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("not allowed to access this ticket")
)
