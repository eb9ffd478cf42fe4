package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeTicketCreated       = "ticket.created"
	EventTypeTicketStatusChanged = "ticket.status_changed"
	EventTypeTicketAssigned      = "ticket.assigned"
	EventTypeCommentAdded        = "comment.added"
)

type TicketCreatedEvent struct {
	BaseEvent
	TicketID       string `json:"ticket_id"`
	TicketNumber   string `json:"ticket_number"`
	Title          string `json:"title"`
	Priority       string `json:"priority"`
	CreatedByID    string `json:"created_by_id"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	SLADeadline    string `json:"sla_deadline"`
}

func NewTicketCreatedEvent(ticketID, ticketNumber, title, priority, createdByID, requesterName, requesterEmail, slaDeadline string) *TicketCreatedEvent {
	return &TicketCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":       ticketID,
				"ticket_number":   ticketNumber,
				"title":           title,
				"priority":        priority,
				"created_by_id":   createdByID,
				"requester_name":  requesterName,
				"requester_email": requesterEmail,
				"sla_deadline":    slaDeadline,
			},
		},
		TicketID:       ticketID,
		TicketNumber:   ticketNumber,
		Title:          title,
		Priority:       priority,
		CreatedByID:    createdByID,
		RequesterName:  requesterName,
		RequesterEmail: requesterEmail,
		SLADeadline:    slaDeadline,
	}
}

type TicketStatusChangedEvent struct {
	BaseEvent
	TicketID       string `json:"ticket_id"`
	TicketNumber   string `json:"ticket_number"`
	Title          string `json:"title"`
	OldStatus      string `json:"old_status"`
	NewStatus      string `json:"new_status"`
	ChangedByID    string `json:"changed_by_id"`
	RequesterEmail string `json:"requester_email"`
}

func NewTicketStatusChangedEvent(ticketID, ticketNumber, title, oldStatus, newStatus, changedByID, requesterEmail string) *TicketStatusChangedEvent {
	return &TicketStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":       ticketID,
				"ticket_number":   ticketNumber,
				"title":           title,
				"old_status":      oldStatus,
				"new_status":      newStatus,
				"changed_by_id":   changedByID,
				"requester_email": requesterEmail,
			},
		},
		TicketID:       ticketID,
		TicketNumber:   ticketNumber,
		Title:          title,
		OldStatus:      oldStatus,
		NewStatus:      newStatus,
		ChangedByID:    changedByID,
		RequesterEmail: requesterEmail,
	}
}

type TicketAssignedEvent struct {
	BaseEvent
	TicketID      string `json:"ticket_id"`
	TicketNumber  string `json:"ticket_number"`
	Title         string `json:"title"`
	AssignedToID  string `json:"assigned_to_id"`
	AssignedByID  string `json:"assigned_by_id"`
	AssigneeEmail string `json:"assignee_email"`
}

func NewTicketAssignedEvent(ticketID, ticketNumber, title, assignedToID, assignedByID, assigneeEmail string) *TicketAssignedEvent {
	return &TicketAssignedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeTicketAssigned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":      ticketID,
				"ticket_number":  ticketNumber,
				"title":          title,
				"assigned_to_id": assignedToID,
				"assigned_by_id": assignedByID,
				"assignee_email": assigneeEmail,
			},
		},
		TicketID:      ticketID,
		TicketNumber:  ticketNumber,
		Title:         title,
		AssignedToID:  assignedToID,
		AssignedByID:  assignedByID,
		AssigneeEmail: assigneeEmail,
	}
}

type CommentAddedEvent struct {
	BaseEvent
	TicketID       string `json:"ticket_id"`
	TicketNumber   string `json:"ticket_number"`
	Title          string `json:"title"`
	CommentID      string `json:"comment_id"`
	AuthorID       string `json:"author_id"`
	AuthorName     string `json:"author_name"`
	IsInternal     bool   `json:"is_internal"`
	RequesterEmail string `json:"requester_email"`
}

func NewCommentAddedEvent(ticketID, ticketNumber, title, commentID, authorID, authorName string, isInternal bool, requesterEmail string) *CommentAddedEvent {
	return &CommentAddedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCommentAdded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ticket_id":       ticketID,
				"ticket_number":   ticketNumber,
				"title":           title,
				"comment_id":      commentID,
				"author_id":       authorID,
				"author_name":     authorName,
				"is_internal":     isInternal,
				"requester_email": requesterEmail,
			},
		},
		TicketID:       ticketID,
		TicketNumber:   ticketNumber,
		Title:          title,
		CommentID:      commentID,
		AuthorID:       authorID,
		AuthorName:     authorName,
		IsInternal:     isInternal,
		RequesterEmail: requesterEmail,
	}
}
