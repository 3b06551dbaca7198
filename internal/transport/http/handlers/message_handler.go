package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/service"
	"github.com/vedran77/haven/internal/transport/http/middleware"
	"github.com/vedran77/haven/pkg/validator"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messageService *service.MessageService
	log            *zap.SugaredLogger
}

func NewMessageHandler(messageService *service.MessageService, log *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{messageService: messageService, log: log}
}

// Send returns a handler bound to a conversation kind; the channel and dm
// routes share everything except the ref they build from the path id.
func (h *MessageHandler) Send(kind domain.ConversationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		conv, ok := pathConversation(w, r, kind)
		if !ok {
			return
		}

		var input service.SendMessageInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
			return
		}
		if fields := validator.Struct(input); fields != nil {
			writeValidationErrors(w, fields)
			return
		}

		msg, err := h.messageService.Send(r.Context(), userID, conv, input)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrRateLimited):
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "You are sending messages too fast")
			default:
				h.writeConversationError(w, err, "send message")
			}
			return
		}

		writeJSON(w, http.StatusCreated, msg)
	}
}

func (h *MessageHandler) List(kind domain.ConversationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		conv, ok := pathConversation(w, r, kind)
		if !ok {
			return
		}

		messages, err := h.messageService.List(r.Context(), userID, conv)
		if err != nil {
			h.writeConversationError(w, err, "list messages")
			return
		}

		writeJSON(w, http.StatusOK, messages)
	}
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	messageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return
	}

	if err := h.messageService.Remove(r.Context(), userID, messageID); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Message not found")
		case errors.Is(err, service.ErrNotMessageSender):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You can only delete your own messages")
		default:
			h.log.Errorw("delete message", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MessageHandler) writeConversationError(w http.ResponseWriter, err error, op string) {
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

// pathConversation builds the conversation ref from the {id} path segment.
// It writes the error response itself and reports success via the bool.
func pathConversation(w http.ResponseWriter, r *http.Request, kind domain.ConversationKind) (domain.ConversationRef, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid conversation ID")
		return domain.ConversationRef{}, false
	}
	return domain.ConversationRef{Kind: kind, ID: id}, true
}
