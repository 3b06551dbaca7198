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

type ServerHandler struct {
	serverService *service.ServerService
	log           *zap.SugaredLogger
}

func NewServerHandler(serverService *service.ServerService, log *zap.SugaredLogger) *ServerHandler {
	return &ServerHandler{serverService: serverService, log: log}
}

func (h *ServerHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.CreateServerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if fields := validator.Struct(input); fields != nil {
		writeValidationErrors(w, fields)
		return
	}

	server, err := h.serverService.Create(r.Context(), userID, input)
	if err != nil {
		h.log.Errorw("create server", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, server)
}

func (h *ServerHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	servers, err := h.serverService.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Errorw("list servers", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, servers)
}

func (h *ServerHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	serverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid server ID")
		return
	}

	server, err := h.serverService.Get(r.Context(), userID, serverID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServerNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Server not found")
		case errors.Is(err, service.ErrNotServerMember):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not a member of this server")
		default:
			h.log.Errorw("get server", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, server)
}

func (h *ServerHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	serverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid server ID")
		return
	}

	members, err := h.serverService.ListMembers(r.Context(), userID, serverID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServerNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Server not found")
		case errors.Is(err, service.ErrNotServerMember):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not a member of this server")
		default:
			h.log.Errorw("list members", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, members)
}
