// internal/services/wishlist_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
)

type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

func (s *WishlistService) Add(userID, productID uuid.UUID) (*models.WishlistItem, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ? AND is_active = ?", productID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(i18n.CodeProductNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var existing int64
	if err := s.db.Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.Conflict(i18n.CodeWishlistExists)
	}

	item := &models.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}

	item.Product = product
	return item, nil
}

func (s *WishlistService) List(userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch wishlist: %w", err)
	}
	return items, nil
}

func (s *WishlistService) Remove(userID, productID uuid.UUID) error {
	result := s.db.Unscoped().
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound(i18n.CodeWishlistItemNotFound)
	}
	return nil
}

// Contains reports whether the product is on the user's wishlist.
func (s *WishlistService) Contains(userID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return count > 0, nil
}
