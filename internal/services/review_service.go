// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type ReviewService struct {
	db *gorm.DB
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// reviewStatuses are the order states that count as a completed purchase for
// review eligibility.
var reviewStatuses = []models.OrderStatus{
	models.OrderStatusPaid,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

// CreateReview requires a completed purchase of the product, and one review
// per user per product. The product's cached rating is recomputed in the
// same transaction.
func (s *ReviewService) CreateReview(userID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var review *models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(i18n.CodeProductNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		var purchased int64
		if err := tx.Model(&models.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.user_id = ? AND order_items.product_id = ? AND orders.status IN ?", userID, req.ProductID, reviewStatuses).
			Count(&purchased).Error; err != nil {
			return fmt.Errorf("failed to check purchase history: %w", err)
		}
		if purchased == 0 {
			return apperrors.Forbidden(i18n.CodeReviewNotEligible)
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND product_id = ?", userID, req.ProductID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}
		if existing > 0 {
			return apperrors.Conflict(i18n.CodeReviewExists)
		}

		review = &models.Review{
			UserID:    userID,
			ProductID: req.ProductID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		return recomputeProductRating(tx, req.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

func (s *ReviewService) UpdateReview(reviewID, userID uuid.UUID, req *UpdateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(i18n.CodeReviewNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if req.Rating != nil {
			review.Rating = *req.Rating
		}
		if req.Comment != nil {
			review.Comment = *req.Comment
		}

		if err := tx.Save(&review).Error; err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}

		return recomputeProductRating(tx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (s *ReviewService) DeleteReview(reviewID, userID uuid.UUID, isAdmin bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		query := tx.Where("id = ?", reviewID)
		if !isAdmin {
			query = query.Where("user_id = ?", userID)
		}
		if err := query.First(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(i18n.CodeReviewNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Unscoped().Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}

		return recomputeProductRating(tx, review.ProductID)
	})
}

func (s *ReviewService) ListForProduct(productID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "rating"})
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Preload("User").Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, total, nil
}

// recomputeProductRating does a full AVG/COUNT recompute rather than an
// incremental adjustment, so the cached columns can never drift.
func recomputeProductRating(tx *gorm.DB, productID uuid.UUID) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]interface{}{
			"rating":       agg.Avg,
			"review_count": agg.Count,
		}).Error
}
