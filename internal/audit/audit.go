package audit

import (
	"errors"
	"time"
)

// AuditLog records a change made to a ticket: who did what, when.
type AuditLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	TicketID  string    `json:"ticket_id" gorm:"column:ticket_id;type:uuid;not null;index"`
	ActorID   string    `json:"actor_id" gorm:"column:actor_id;type:uuid"`
	Action    string    `json:"action" gorm:"not null"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// ActivityLog records a request-level action against the API: logins,
// mutations, exports. Read-only traffic is not recorded.
type ActivityLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" gorm:"column:user_id;type:uuid;index"`
	Username  string    `json:"username"`
	Method    string    `json:"method" gorm:"not null"`
	Path      string    `json:"path" gorm:"not null"`
	Status    int       `json:"status"`
	IP        string    `json:"ip" gorm:"column:ip"`
	UserAgent string    `json:"user_agent" gorm:"column:user_agent"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Actions recorded against tickets.
const (
	ActionTicketCreated = "ticket_created"
	ActionStatusChanged = "status_changed"
	ActionAssigned      = "assigned"
	ActionCommentAdded  = "comment_added"
)

var ErrNotFound = errors.New("audit log not found")

// ListQuery filters and paginates audit listings.
type ListQuery struct {
	TicketID string
	UserID   string
	Page     int
	Limit    int
}

func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
}

func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
