package ticket

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/mfirmanda/helpdesk-management/internal"
)

// CreateTicketDTO is the request payload for filing a ticket.
type CreateTicketDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

func (dto CreateTicketDTO) Validate() error {
	if dto.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Title) > 200 {
		return internal.NewValidationFieldError("title", "title must not exceed 200 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Description == "" {
		return internal.NewValidationFieldError("description", "description is required", internal.ErrCodeValidationFailed)
	}
	if dto.Priority == "" {
		return internal.NewValidationFieldError("priority", "priority is required", internal.ErrCodeValidationFailed)
	}
	if !ValidPriority(dto.Priority) {
		return internal.NewValidationFieldError("priority", fmt.Sprintf("invalid priority %q", dto.Priority), internal.ErrCodeInvalidPriority)
	}
	return nil
}

// UpdateTicketDTO carries a partial update; nil fields are left untouched.
type UpdateTicketDTO struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Category     *string `json:"category,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	Status       *string `json:"status,omitempty"`
	AssignedToID *string `json:"assigned_to_id,omitempty"`
}

func (dto UpdateTicketDTO) Validate() error {
	if dto.Title != nil && *dto.Title == "" {
		return internal.NewValidationFieldError("title", "title cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Priority != nil && !ValidPriority(*dto.Priority) {
		return internal.NewValidationFieldError("priority", fmt.Sprintf("invalid priority %q", *dto.Priority), internal.ErrCodeInvalidPriority)
	}
	if dto.Status != nil && !ValidStatus(*dto.Status) {
		return internal.NewValidationFieldError("status", fmt.Sprintf("invalid status %q", *dto.Status), internal.ErrCodeInvalidStatus)
	}
	return nil
}

// AddCommentDTO is the request payload for commenting on a ticket.
type AddCommentDTO struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

func (dto AddCommentDTO) Validate() error {
	if dto.Content == "" {
		return internal.NewValidationFieldError("content", "content is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Content) > 5000 {
		return internal.NewValidationFieldError("content", "content must not exceed 5000 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ListTicketsQuery captures list filters and pagination.
type ListTicketsQuery struct {
	Status     string
	Priority   string
	Department string
	AssignedTo string
	CreatedBy  string
	Search     string
	Page       int
	Limit      int
}

// ParseListQuery reads filters from request query parameters.
func ParseListQuery(values url.Values) ListTicketsQuery {
	q := ListTicketsQuery{
		Status:     values.Get("status"),
		Priority:   values.Get("priority"),
		Department: values.Get("department"),
		AssignedTo: values.Get("assigned_to"),
		CreatedBy:  values.Get("created_by"),
		Search:     values.Get("search"),
	}
	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil {
			q.Page = p
		}
	}
	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			q.Limit = l
		}
	}
	return q
}

func (q *ListTicketsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

func (q ListTicketsQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Stats is the dashboard aggregate for GET /tickets/stats.
type Stats struct {
	Total       int64              `json:"total"`
	ByStatus    map[Status]int64   `json:"by_status"`
	ByPriority  map[Priority]int64 `json:"by_priority"`
	SLABreached int64              `json:"sla_breached"`
}
