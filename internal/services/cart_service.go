// internal/services/cart_service.go
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

type CartService struct {
	db *gorm.DB
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartLine pairs the stored snapshot with the live product price the summary
// is computed from.
type CartLine struct {
	ItemID     uuid.UUID       `json:"item_id"`
	Product    *models.Product `json:"product"`
	Quantity   int             `json:"quantity"`
	PriceAtAdd float64         `json:"price_at_add"`
	UnitPrice  float64         `json:"unit_price"`
	LineTotal  float64         `json:"line_total"`
	Available  bool            `json:"available"`
}

type CartSummary struct {
	CartID        uuid.UUID  `json:"cart_id"`
	Items         []CartLine `json:"items"`
	ItemCount     int        `json:"item_count"`
	TotalQuantity int        `json:"total_quantity"`
	Subtotal      float64    `json:"subtotal"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// getOrCreateCart returns the user's single cart, creating it lazily.
func (s *CartService) getOrCreateCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	cart = models.Cart{UserID: userID}
	if err := tx.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// AddItem merges into an existing line when the product is already carted;
// the merged quantity is re-validated against current stock.
func (s *CartService) AddItem(userID uuid.UUID, req *AddCartItemRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var item *models.CartItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(i18n.CodeProductNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !product.IsActive {
			return apperrors.BadRequest(i18n.CodeProductInactive)
		}

		cart, err := s.getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var existing models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&existing).Error
		switch {
		case err == nil:
			newQuantity := existing.Quantity + req.Quantity
			if !product.InStock(newQuantity) {
				return apperrors.BadRequest(i18n.CodeInsufficientStock, product.Name)
			}
			if err := tx.Model(&existing).Update("quantity", newQuantity).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
			existing.Quantity = newQuantity
			item = &existing
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			if !product.InStock(req.Quantity) {
				return apperrors.BadRequest(i18n.CodeInsufficientStock, product.Name)
			}
			newItem := models.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  req.Quantity,
				Price:     product.Price, // snapshot at add time
			}
			if err := tx.Create(&newItem).Error; err != nil {
				return fmt.Errorf("failed to create cart item: %w", err)
			}
			item = &newItem
			return nil

		default:
			return fmt.Errorf("database error: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Product").First(item, "id = ?", item.ID)
	return item, nil
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *CartService) UpdateItem(userID, itemID uuid.UUID, req *UpdateCartItemRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity == 0 {
		if err := s.db.Delete(item).Error; err != nil {
			return nil, fmt.Errorf("failed to delete cart item: %w", err)
		}
		return nil, nil
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", item.ProductID).Error; err != nil {
		return nil, apperrors.NotFound(i18n.CodeProductNotFound)
	}
	if !product.InStock(req.Quantity) {
		return nil, apperrors.BadRequest(i18n.CodeInsufficientStock, product.Name)
	}

	if err := s.db.Model(item).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	item.Quantity = req.Quantity

	s.db.Preload("Product").First(item, "id = ?", item.ID)
	return item, nil
}

func (s *CartService) RemoveItem(userID, itemID uuid.UUID) error {
	item, err := s.findOwnedItem(userID, itemID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

func (s *CartService) ClearCart(userID uuid.UUID) error {
	var cart models.Cart
	if err := s.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// GetSummary recomputes the subtotal from the live product price, not the
// add-time snapshot. Lines whose product has been deactivated stay visible
// but are priced at the current value like everything else. Lines whose
// product was removed from the catalog are still listed so the client can
// show them, but they are flagged unavailable and contribute nothing to the
// totals.
func (s *CartService) GetSummary(userID uuid.UUID) (*CartSummary, error) {
	cart, err := s.getOrCreateCart(s.db, userID)
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	err = s.db.Where("cart_id = ?", cart.ID).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart items: %w", err)
	}

	summary := &CartSummary{
		CartID: cart.ID,
		Items:  make([]CartLine, 0, len(items)),
	}

	for i := range items {
		item := &items[i]
		available := item.Product.ID != uuid.Nil && !item.Product.DeletedAt.Valid

		line := CartLine{
			ItemID:     item.ID,
			Product:    &item.Product,
			Quantity:   item.Quantity,
			PriceAtAdd: item.Price,
			Available:  available,
		}
		if available {
			line.UnitPrice = item.Product.Price
			line.LineTotal = line.UnitPrice * float64(item.Quantity)
			summary.TotalQuantity += item.Quantity
			summary.Subtotal += line.LineTotal
		}
		summary.Items = append(summary.Items, line)
	}
	summary.ItemCount = len(summary.Items)

	return summary, nil
}

func (s *CartService) findOwnedItem(userID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(i18n.CodeCartItemNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &item, nil
}
