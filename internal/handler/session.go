package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billiard/internal/domain"
	"billiard/internal/engine"
	"billiard/internal/service"
)

// SessionHandler handles HTTP requests for sessions and checkout.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CheckoutResponse is the order created by checkout with the settings for its receipt.
type CheckoutResponse struct {
	Order    OrderResponse    `json:"order"`
	Settings SettingsResponse `json:"settings"`
}

// GetSession handles GET /v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.sessionService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SessionEnvelope{Session: toSessionResponse(view.Session, &view.Totals)})
}

// AddExtra handles POST /v1/sessions/:id/extras
func (h *SessionHandler) AddExtra(c *gin.Context) {
	body := bindObject(c)

	session, err := h.sessionService.AddExtra(c.Request.Context(), c.Param("id"), engine.ExtraInput{
		Name:  stringField(body, "name"),
		Price: numberField(body, "price", 0),
		Qty:   numberField(body, "qty", 1),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SessionEnvelope{Session: toSessionResponse(session, nil)})
}

// RemoveExtra handles DELETE /v1/sessions/:id/extras?extraId=
func (h *SessionHandler) RemoveExtra(c *gin.Context) {
	session, err := h.sessionService.RemoveExtra(c.Request.Context(), c.Param("id"), c.Query("extraId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SessionEnvelope{Session: toSessionResponse(session, nil)})
}

// Stop handles POST /v1/sessions/:id/stop
func (h *SessionHandler) Stop(c *gin.Context) {
	session, err := h.sessionService.StopByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SessionEnvelope{Session: toSessionResponse(session, nil)})
}

// Resume handles POST /v1/sessions/:id/resume
func (h *SessionHandler) Resume(c *gin.Context) {
	session, err := h.sessionService.ResumeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SessionEnvelope{Session: toSessionResponse(session, nil)})
}

// Checkout handles POST /v1/checkout
func (h *SessionHandler) Checkout(c *gin.Context) {
	body := bindObject(c)

	method := stringField(body, "method")
	if method == "" {
		method = string(domain.PaymentMethodCash)
	}

	result, err := h.sessionService.Checkout(c.Request.Context(), engine.CheckoutInput{
		SessionID: stringField(body, "session_id"),
		Method:    domain.PaymentMethod(method),
		CashGiven: numberField(body, "cash_given", 0),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CheckoutResponse{
		Order:    toOrderResponse(result.Order),
		Settings: toSettingsResponse(result.Settings),
	})
}
