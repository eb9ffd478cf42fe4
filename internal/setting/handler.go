package setting

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mfirmanda/helpdesk-management/internal"
	"github.com/mfirmanda/helpdesk-management/internal/transport"
	"github.com/mfirmanda/helpdesk-management/pkg/logger"
)

type ServiceAPI interface {
	Get(key string) (*Setting, error)
	List(category string) ([]*Setting, error)
	Upsert(dto UpsertSettingDTO) (*Setting, error)
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

func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.List(r.URL.Query().Get("category"))
	if err != nil {
		h.Logger.Error("ListSettings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"settings": settings})
}

func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	s, err := h.Service.Get(key)
	if err != nil {
		if err == ErrNotFound {
			err = internal.NewNotFoundError("setting not found", internal.ErrCodeSettingNotFound)
		} else {
			h.Logger.Error("GetSetting: service error", "error", err, "key", key)
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	var dto UpsertSettingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// PUT /settings/{key} wins over whatever the body says
	if key := chi.URLParam(r, "key"); key != "" {
		dto.Key = key
	}

	s, err := h.Service.Upsert(dto)
	if err != nil {
		if err == ErrEmptyKey {
			err = internal.NewValidationFieldError("key", "key is required", internal.ErrCodeValidationFailed)
		} else {
			h.Logger.Error("UpsertSetting: service error", "error", err, "key", dto.Key)
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, s)
}
