package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billiard/internal/service"
)

// OrderHandler handles HTTP requests for order history.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrdersResponse lists orders newest first.
type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// OrderDetailResponse is an order with the settings to render it.
type OrderDetailResponse struct {
	Order    OrderResponse    `json:"order"`
	Settings SettingsResponse `json:"settings"`
}

// GetAll handles GET /v1/orders
func (h *OrderHandler) GetAll(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, OrdersResponse{Orders: toOrderResponses(orders)})
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	detail, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, OrderDetailResponse{
		Order:    toOrderResponse(detail.Order),
		Settings: toSettingsResponse(detail.Settings),
	})
}

// GetReceipt handles GET /v1/orders/:id/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	text, err := h.orderService.Receipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.String(http.StatusOK, text)
}
