package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mfirmanda/helpdesk-management/internal/transport"
	"github.com/mfirmanda/helpdesk-management/pkg/logger"
)

type ServiceAPI interface {
	ListAuditLogs(query ListQuery) ([]*AuditLog, int64, error)
	ListActivityLogs(query ListQuery) ([]*ActivityLog, int64, error)
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

func parseListQuery(r *http.Request) ListQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return ListQuery{
		TicketID: q.Get("ticket_id"),
		UserID:   q.Get("user_id"),
		Page:     page,
		Limit:    limit,
	}
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	logs, total, err := h.Service.ListAuditLogs(query)
	if err != nil {
		h.Logger.Error("ListAuditLogs: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	query.Normalize()
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
		"page":  query.Page,
		"limit": query.Limit,
	})
}

func (h *Handler) ListActivityLogs(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	logs, total, err := h.Service.ListActivityLogs(query)
	if err != nil {
		h.Logger.Error("ListActivityLogs: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	query.Normalize()
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
		"page":  query.Page,
		"limit": query.Limit,
	})
}
