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

type InviteHandler struct {
	inviteService *service.InviteService
	log           *zap.SugaredLogger
}

func NewInviteHandler(inviteService *service.InviteService, log *zap.SugaredLogger) *InviteHandler {
	return &InviteHandler{inviteService: inviteService, log: log}
}

func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	serverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid server ID")
		return
	}

	var input service.CreateInviteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if fields := validator.Struct(input); fields != nil {
		writeValidationErrors(w, fields)
		return
	}

	invite, err := h.inviteService.Create(r.Context(), userID, serverID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServerNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Server not found")
		case errors.Is(err, service.ErrNotServerOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the server owner can create invites")
		default:
			h.log.Errorw("create invite", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, invite)
}

func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	serverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid server ID")
		return
	}

	invites, err := h.inviteService.List(r.Context(), userID, serverID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServerNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Server not found")
		case errors.Is(err, service.ErrNotServerOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the server owner can list invites")
		default:
			h.log.Errorw("list invites", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, invites)
}

func (h *InviteHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	inviteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid invite ID")
		return
	}

	serverID, err := h.inviteService.Redeem(r.Context(), userID, inviteID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Invite not found")
		case errors.Is(err, service.ErrInviteExpired):
			writeError(w, http.StatusGone, "INVITE_EXPIRED", "This invite has expired")
		case errors.Is(err, service.ErrInviteExhausted):
			writeError(w, http.StatusGone, "INVITE_EXHAUSTED", "This invite has no uses left")
		default:
			h.log.Errorw("redeem invite", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"server_id": serverID.String()})
}
