package attachment

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mfirmanda/helpdesk-management/internal"
	"github.com/mfirmanda/helpdesk-management/internal/auth"
	"github.com/mfirmanda/helpdesk-management/internal/ticket"
	"github.com/mfirmanda/helpdesk-management/internal/transport"
	"github.com/mfirmanda/helpdesk-management/pkg/logger"
)

type ServiceAPI interface {
	MaxSize() int64
	Upload(ticketID, uploaderID, originalName, mimeType string, size int64, r io.Reader) (*Attachment, error)
	Download(id string) (*Attachment, io.ReadCloser, error)
	ListByTicket(ticketID string) ([]*Attachment, error)
}

// TicketGuard answers whether the viewer may touch a ticket at all.
// The ticket service's access rules apply unchanged to its attachments.
type TicketGuard interface {
	GetTicket(id string, viewer *auth.User) (*ticket.Ticket, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Tickets TicketGuard
}

func NewHandler(service ServiceAPI, tickets TicketGuard) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Tickets:     tickets,
	}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ticketID := chi.URLParam(r, "id")

	if _, err := h.Tickets.GetTicket(ticketID, user); err != nil {
		h.handleGuardError(w, err)
		return
	}

	// the extra bytes leave room for the multipart framing itself
	r.Body = http.MaxBytesReader(w, r.Body, h.Service.MaxSize()+1<<20)
	if err := r.ParseMultipartForm(h.Service.MaxSize()); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")

	a, err := h.Service.Upload(ticketID, user.ID, header.Filename, mimeType, header.Size, file)
	if err != nil {
		switch err {
		case ErrInvalidFileType:
			err = internal.NewValidationFieldError("file", "file type not allowed", internal.ErrCodeInvalidFileType)
		case ErrFileTooLarge:
			err = &internal.AppError{
				Type:       internal.ErrorTypeValidation,
				Code:       internal.ErrCodeFileTooLarge,
				Message:    "file exceeds the size limit",
				StatusCode: http.StatusRequestEntityTooLarge,
			}
		default:
			h.Logger.Error("Upload: service error", "error", err, "ticket_id", ticketID)
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) ListByTicket(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ticketID := chi.URLParam(r, "id")

	if _, err := h.Tickets.GetTicket(ticketID, user); err != nil {
		h.handleGuardError(w, err)
		return
	}

	attachments, err := h.Service.ListByTicket(ticketID)
	if err != nil {
		h.Logger.Error("ListByTicket: service error", "error", err, "ticket_id", ticketID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"attachments": attachments})
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	a, f, err := h.Service.Download(id)
	if err != nil {
		if err == ErrNotFound {
			err = internal.NewNotFoundError("attachment not found", internal.ErrCodeAttachmentNotFound)
		} else {
			h.Logger.Error("Download: service error", "error", err, "attachment_id", id)
		}
		h.HandleServiceError(w, err)
		return
	}
	defer f.Close()

	if _, err := h.Tickets.GetTicket(a.TicketID, user); err != nil {
		h.handleGuardError(w, err)
		return
	}

	w.Header().Set("Content-Type", a.MimeType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", a.Size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.OriginalName))

	if _, err := io.Copy(w, f); err != nil {
		h.Logger.Error("Download: stream interrupted", "error", err, "attachment_id", id)
	}
}

func (h *Handler) handleGuardError(w http.ResponseWriter, err error) {
	switch err {
	case ticket.ErrTicketNotFound:
		err = internal.NewNotFoundError("ticket not found", internal.ErrCodeTicketNotFound)
	case ticket.ErrForbidden:
		err = internal.NewForbiddenError("not allowed to access this ticket", internal.ErrCodeUnauthorizedAccess)
	default:
		h.Logger.Error("attachment handler: ticket lookup failed", "error", err)
	}
	h.HandleServiceError(w, err)
}
