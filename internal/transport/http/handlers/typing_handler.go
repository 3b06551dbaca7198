package handlers

import (
	"errors"
	"net/http"

	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/service"
	"github.com/vedran77/haven/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type TypingHandler struct {
	typingService *service.TypingService
	log           *zap.SugaredLogger
}

func NewTypingHandler(typingService *service.TypingService, log *zap.SugaredLogger) *TypingHandler {
	return &TypingHandler{typingService: typingService, log: log}
}

// Start records keystroke activity; clients call it repeatedly while the user
// types and the indicator expires on its own once they stop.
func (h *TypingHandler) Start(kind domain.ConversationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		conv, ok := pathConversation(w, r, kind)
		if !ok {
			return
		}

		if _, err := h.typingService.Upsert(r.Context(), userID, conv); err != nil {
			h.writeTypingError(w, err, "typing start")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *TypingHandler) List(kind domain.ConversationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		conv, ok := pathConversation(w, r, kind)
		if !ok {
			return
		}

		names, err := h.typingService.List(r.Context(), userID, conv)
		if err != nil {
			h.writeTypingError(w, err, "typing list")
			return
		}

		writeJSON(w, http.StatusOK, map[string][]string{"typing": names})
	}
}

func (h *TypingHandler) writeTypingError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrChannelNotFound),
		errors.Is(err, service.ErrConversationNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Conversation not found")
	case errors.Is(err, service.ErrNotConversationMember):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not have access to this conversation")
	default:
		h.log.Errorw(op, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}
