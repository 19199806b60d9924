// internal/handlers/review.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aryanmiramini/shopyar-backend/internal/services"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	review, err := h.reviewService.CreateReview(userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, review)
}

// PATCH /reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	review, err := h.reviewService.UpdateReview(reviewID, userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, review)
}

// DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(reviewID, userID, isAdmin(c)); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
