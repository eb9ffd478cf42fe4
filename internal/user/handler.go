package user

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/mfirmanda/helpdesk-management/internal"
	"github.com/mfirmanda/helpdesk-management/internal/auth"
	"github.com/mfirmanda/helpdesk-management/internal/transport"
	"github.com/mfirmanda/helpdesk-management/pkg/logger"
)

type ServiceAPI interface {
	CreateUser(dto CreateUserDTO) (*User, error)
	GetUser(id string) (*User, error)
	ListUsers(query ListUsersQuery) ([]*User, int64, error)
	UpdateUser(id string, dto UpdateUserDTO) (*User, error)
	DeleteUser(id, actorID string) error
	AllUsers() ([]*User, error)
	ImportCSV(dtos []CreateUserDTO) (int, []string)
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

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.CreateUser(dto)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.Service.GetUser(id)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := ListUsersQuery{
		Department: r.URL.Query().Get("department"),
		Role:       r.URL.Query().Get("role"),
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil {
			query.Page = p
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			query.Limit = l
		}
	}

	users, total, err := h.Service.ListUsers(query)
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	query.Normalize()
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
		"page":  query.Page,
		"limit": query.Limit,
	})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.UpdateUser(id, dto)
	if err != nil {
		h.handleUserError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.Service.DeleteUser(id, actor.ID); err != nil {
		h.handleUserError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUserError lifts domain sentinels into the error taxonomy before
// delegating to HandleServiceError.
func (h *Handler) handleUserError(w http.ResponseWriter, err error) {
	switch err {
	case ErrNotFound:
		err = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	case ErrDuplicateUsername:
		err = internal.NewConflictError("username already exists", internal.ErrCodeDuplicateUsername)
	case ErrCannotDeleteSelf:
		err = internal.NewValidationError("cannot delete own account", internal.ErrCodeCannotDeleteSelf)
	}
	h.HandleServiceError(w, err)
}

// ImportUsers accepts a CSV file upload and bulk-creates accounts.
func (h *Handler) ImportUsers(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "csv file is required")
		return
	}
	defer file.Close()

	dtos, err := ParseUsersCSV(file)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, failures := h.Service.ImportCSV(dtos)

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"created":  created,
		"failed":   len(failures),
		"failures": failures,
	})
}

// ExportUsers streams all accounts as CSV, passwords excluded.
func (h *Handler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.AllUsers()
	if err != nil {
		h.Logger.Error("ExportUsers: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="users-`+time.Now().Format("2006-01-02")+`.csv"`)

	if err := WriteUsersCSV(w, users); err != nil {
		h.Logger.Error("ExportUsers: write error", "error", err)
	}
}
