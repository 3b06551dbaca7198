package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/service"
	"github.com/vedran77/haven/internal/transport/http/middleware"
	"github.com/vedran77/haven/pkg/validator"
	"go.uber.org/zap"
)

type ChannelHandler struct {
	channelService *service.ChannelService
	log            *zap.SugaredLogger
}

func NewChannelHandler(channelService *service.ChannelService, log *zap.SugaredLogger) *ChannelHandler {
	return &ChannelHandler{channelService: channelService, log: log}
}

func (h *ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	serverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid server ID")
		return
	}

	channels, err := h.channelService.List(r.Context(), userID, serverID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServerNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Server not found")
		case errors.Is(err, service.ErrNotServerMember):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not a member of this server")
		default:
			h.log.Errorw("list channels", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, channels)
}

func (h *ChannelHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	serverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid server ID")
		return
	}

	var input service.CreateChannelInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if fields := validator.Struct(input); fields != nil {
		writeValidationErrors(w, fields)
		return
	}

	channel, err := h.channelService.Create(r.Context(), userID, serverID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServerNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Server not found")
		case errors.Is(err, service.ErrNotServerOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the server owner can create channels")
		case errors.Is(err, service.ErrChannelNameTaken):
			writeError(w, http.StatusConflict, "NAME_TAKEN", "A channel with this name already exists")
		default:
			h.log.Errorw("create channel", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, channel)
}

func (h *ChannelHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	channelID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid channel ID")
		return
	}

	channel, err := h.channelService.Get(r.Context(), userID, channelID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChannelNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Channel not found")
		case errors.Is(err, service.ErrNotServerMember):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not have access to this channel")
		default:
			h.log.Errorw("get channel", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, channel)
}

func (h *ChannelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	channelID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid channel ID")
		return
	}

	if err := h.channelService.Remove(r.Context(), userID, channelID); err != nil {
		switch {
		case errors.Is(err, service.ErrChannelNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Channel not found")
		case errors.Is(err, service.ErrServerNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Server not found")
		case errors.Is(err, service.ErrNotServerOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the server owner can delete channels")
		case errors.Is(err, service.ErrDefaultChannel):
			writeError(w, http.StatusConflict, "DEFAULT_CHANNEL", "The default channel cannot be deleted")
		default:
			h.log.Errorw("delete channel", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
