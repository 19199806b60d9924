// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/services"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /orders
func (h *OrderHandler) Place(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	order, err := h.orderService.PlaceOrder(userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, order)
}

// GET /orders/my-orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := services.OrderListParams{
		PaginationParams: utils.GetPaginationParams(c),
		UserID:           &userID,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		params.Status = &status
	}

	orders, total, err := h.orderService.ListOrders(params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params.PaginationParams))
}

// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(orderID, userID, isAdmin(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// PATCH /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(orderID, userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// GET /orders/all (admin)
func (h *OrderHandler) ListAll(c *gin.Context) {
	params := services.OrderListParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		params.Status = &status
	}
	if raw := c.Query("user_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.UserID = &id
		}
	}

	orders, total, err := h.orderService.ListOrders(params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params.PaginationParams))
}

// PATCH /orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(orderID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}

// GET /orders/stats/overview (admin)
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.GetStatsOverview()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}
