// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aryanmiramini/shopyar-backend/internal/services"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GET /cart/summary
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	summary, err := h.cartService.GetSummary(userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// POST /cart/add
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	item, err := h.cartService.AddItem(userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, item)
}

// PATCH /cart/items/:itemId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	item, err := h.cartService.UpdateItem(userID, itemID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	if item == nil {
		// Quantity zero removes the line
		utils.SuccessResponse(c, gin.H{"removed": true})
		return
	}
	utils.SuccessResponse(c, item)
}

// DELETE /cart/items/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(userID, itemID); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"removed": true})
}

// DELETE /cart/clear
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.cartService.ClearCart(userID); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"cleared": true})
}
