package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"billiard/internal/domain"
	"billiard/internal/service"
)

// TableHandler handles HTTP requests for the floor and table transitions.
type TableHandler struct {
	sessionService *service.SessionService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(sessionService *service.SessionService) *TableHandler {
	return &TableHandler{sessionService: sessionService}
}

// TablesResponse is the floor overview.
type TablesResponse struct {
	Settings SettingsResponse `json:"settings"`
	Tables   []TableResponse  `json:"tables"`
}

// SessionEnvelope wraps a single session.
type SessionEnvelope struct {
	Session *SessionResponse `json:"session"`
	Created *bool            `json:"created,omitempty"`
}

// GetAll handles GET /v1/tables
func (h *TableHandler) GetAll(c *gin.Context) {
	overview, err := h.sessionService.ListTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, TablesResponse{
		Settings: toSettingsResponse(overview.Settings),
		Tables:   toTableResponses(overview.Tables),
	})
}

// Start handles POST /v1/tables/:tableNo/start
func (h *TableHandler) Start(c *gin.Context) {
	tableNo, ok := h.tableNo(c)
	if !ok {
		return
	}

	session, created, err := h.sessionService.Start(c.Request.Context(), tableNo)
	if err != nil {
		respondError(c, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	respondJSON(c, code, SessionEnvelope{Session: toSessionResponse(session, nil), Created: &created})
}

// Stop handles POST /v1/tables/:tableNo/stop
func (h *TableHandler) Stop(c *gin.Context) {
	h.transition(c, h.sessionService.Stop)
}

// Resume handles POST /v1/tables/:tableNo/resume
func (h *TableHandler) Resume(c *gin.Context) {
	h.transition(c, h.sessionService.Resume)
}

func (h *TableHandler) transition(c *gin.Context, fn func(ctx context.Context, tableNo int) (*domain.TableSession, error)) {
	tableNo, ok := h.tableNo(c)
	if !ok {
		return
	}

	session, err := fn(c.Request.Context(), tableNo)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SessionEnvelope{Session: toSessionResponse(session, nil)})
}

// tableNo parses and validates the path parameter, answering 400 on failure.
func (h *TableHandler) tableNo(c *gin.Context) (int, bool) {
	raw, ok := tableNoParam(c)
	if !ok {
		respondError(c, service.ErrInvalidTableNo)
		return 0, false
	}

	tableNo, err := service.NormalizeTableNo(raw)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return tableNo, true
}
