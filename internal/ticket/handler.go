package ticket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/mfirmanda/helpdesk-management/internal"
	"github.com/mfirmanda/helpdesk-management/internal/auth"
	"github.com/mfirmanda/helpdesk-management/internal/transport"
	"github.com/mfirmanda/helpdesk-management/pkg/logger"
)

type ServiceAPI interface {
	CreateTicket(requester *auth.User, dto CreateTicketDTO) (*Ticket, error)
	GetTicket(id string, viewer *auth.User) (*Ticket, error)
	ListTickets(query ListTicketsQuery, viewer *auth.User) ([]*Ticket, int64, error)
	UpdateTicket(id string, dto UpdateTicketDTO, actor *auth.User) (*Ticket, error)
	DeleteTicket(id string) error
	AddComment(ticketID string, dto AddCommentDTO, author *auth.User) (*Comment, error)
	ListComments(ticketID string, viewer *auth.User) ([]*Comment, error)
	Stats() (*Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ticketView decorates a ticket with its display-time SLA progress.
type ticketView struct {
	*Ticket
	SLA SLAProgress `json:"sla"`
}

func newTicketView(t *Ticket) ticketView {
	return ticketView{Ticket: t, SLA: t.SLAProgressAt(time.Now())}
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTicketDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.CreateTicket(user, dto)
	if err != nil {
		h.Logger.Error("CreateTicket: service error", "error", err, "user_id", user.ID)
		h.handleTicketError(w, err)
		return
	}

	h.Logger.Info("CreateTicket: ticket created",
		"ticket_id", t.ID,
		"ticket_number", t.TicketNumber,
		"user_id", user.ID)

	h.WriteJSON(w, http.StatusCreated, newTicketView(t))
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	t, err := h.Service.GetTicket(id, user)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, newTicketView(t))
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	query := ParseListQuery(r.URL.Query())

	tickets, total, err := h.Service.ListTickets(query, user)
	if err != nil {
		h.Logger.Error("ListTickets: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	views := make([]ticketView, len(tickets))
	for i, t := range tickets {
		views[i] = newTicketView(t)
	}

	query.Normalize()
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tickets": views,
		"total":   total,
		"page":    query.Page,
		"limit":   query.Limit,
	})
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	var dto UpdateTicketDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.UpdateTicket(id, dto, user)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, newTicketView(t))
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteTicket(id); err != nil {
		h.handleTicketError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	var dto AddCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.AddComment(id, dto, user)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	comments, err := h.Service.ListComments(id, user)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.Logger.Error("Stats: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

// handleTicketError lifts domain sentinels into the error taxonomy and lets
// HandleServiceError do the rest: AppErrors keep their status and body,
// anything unrecognized becomes a generic 500.
func (h *Handler) handleTicketError(w http.ResponseWriter, err error) {
	switch err {
	case ErrTicketNotFound:
		err = internal.NewNotFoundError("ticket not found", internal.ErrCodeTicketNotFound)
	case ErrForbidden:
		err = internal.NewForbiddenError("not allowed to access this ticket", internal.ErrCodeUnauthorizedAccess)
	}
	h.HandleServiceError(w, err)
}
