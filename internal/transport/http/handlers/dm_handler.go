package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/service"
	"github.com/vedran77/haven/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type DMHandler struct {
	dmService *service.DMService
	log       *zap.SugaredLogger
}

func NewDMHandler(dmService *service.DMService, log *zap.SugaredLogger) *DMHandler {
	return &DMHandler{dmService: dmService, log: log}
}

type openDMRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// Open finds or creates the DM thread with another user.
func (h *DMHandler) Open(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req openDMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.UserID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "MISSING_USER", "user_id is required")
		return
	}

	conv, err := h.dmService.GetOrCreateConversation(r.Context(), userID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotDMSelf):
			writeError(w, http.StatusBadRequest, "SELF_DM", "You cannot message yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		default:
			h.log.Errorw("open dm", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

func (h *DMHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	convs, err := h.dmService.ListConversations(r.Context(), userID)
	if err != nil {
		h.log.Errorw("list dms", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, convs)
}
