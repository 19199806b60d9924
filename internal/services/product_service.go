// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name               string     `json:"name" validate:"required,min=2,max=255"`
	NameFa             string     `json:"name_fa,omitempty" validate:"omitempty,max=255"`
	Description        string     `json:"description,omitempty"`
	DescriptionFa      string     `json:"description_fa,omitempty"`
	SKU                string     `json:"sku" validate:"required,min=2,max=64"`
	Price              float64    `json:"price" validate:"required,gt=0"`
	OriginalPrice      float64    `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	DiscountPercentage float64    `json:"discount_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Quantity           int        `json:"quantity" validate:"min=0"`
	CategoryID         *uuid.UUID `json:"category_id,omitempty"`
	IsFeatured         bool       `json:"is_featured,omitempty"`
	IsActive           *bool      `json:"is_active,omitempty"`
	Images             []string   `json:"images,omitempty"`
	Tags               []string   `json:"tags,omitempty"`
}

type UpdateProductRequest struct {
	Name               *string    `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	NameFa             *string    `json:"name_fa,omitempty" validate:"omitempty,max=255"`
	Description        *string    `json:"description,omitempty"`
	DescriptionFa      *string    `json:"description_fa,omitempty"`
	Price              *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	OriginalPrice      *float64   `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	DiscountPercentage *float64   `json:"discount_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Quantity           *int       `json:"quantity,omitempty" validate:"omitempty,min=0"`
	CategoryID         *uuid.UUID `json:"category_id,omitempty"`
	IsFeatured         *bool      `json:"is_featured,omitempty"`
	IsActive           *bool      `json:"is_active,omitempty"`
	Images             []string   `json:"images,omitempty"`
	Tags               []string   `json:"tags,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID    *uuid.UUID
	PriceMin      *float64
	PriceMax      *float64
	Tags          []string
	InStock       *bool
	Featured      *bool
	IncludeHidden bool // admin only
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	// SKU is unique
	var existing models.Product
	if err := s.db.Where("sku = ?", req.SKU).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict(i18n.CodeSKUTaken)
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			return nil, apperrors.NotFound(i18n.CodeCategoryNotFound)
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &models.Product{
		Name:               req.Name,
		NameFa:             req.NameFa,
		Description:        req.Description,
		DescriptionFa:      req.DescriptionFa,
		SKU:                req.SKU,
		Price:              req.Price,
		OriginalPrice:      req.OriginalPrice,
		DiscountPercentage: req.DiscountPercentage,
		Quantity:           req.Quantity,
		CategoryID:         req.CategoryID,
		IsFeatured:         req.IsFeatured,
		IsActive:           isActive,
		Images:             pqStringArray(req.Images),
		Tags:               pqStringArray(req.Tags),
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(product, "id = ?", product.ID)
	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID, includeHidden bool) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(i18n.CodeProductNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !product.IsActive && !includeHidden {
		return nil, apperrors.NotFound(i18n.CodeProductNotFound)
	}

	return &product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(i18n.CodeProductNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.NameFa != nil {
		updates["name_fa"] = *req.NameFa
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DescriptionFa != nil {
		updates["description_fa"] = *req.DescriptionFa
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.DiscountPercentage != nil {
		updates["discount_percentage"] = *req.DiscountPercentage
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, "id = ?", *req.CategoryID).Error; err != nil {
			return nil, apperrors.NotFound(i18n.CodeCategoryNotFound)
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Images != nil {
		updates["images"] = pqStringArray(req.Images)
	}
	if req.Tags != nil {
		updates["tags"] = pqStringArray(req.Tags)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.db.Preload("Category").First(&product, "id = ?", id)
	return &product, nil
}

func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound(i18n.CodeProductNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Soft delete keeps the product resolvable from old order items
	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")

	if !params.IncludeHidden {
		query = query.Where("is_active = ?", true)
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(name_fa) LIKE ? OR LOWER(description) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", pqStringArray(params.Tags))
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("quantity > 0")
	}

	if params.Featured != nil {
		query = query.Where("is_featured = ?", *params.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "rating", "quantity"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) GetFeaturedProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("is_active = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}

	return products, nil
}

func (s *ProductService) AppendImages(id uuid.UUID, urls []string) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, apperrors.NotFound(i18n.CodeProductNotFound)
	}

	product.Images = append(product.Images, urls...)
	if err := s.db.Model(&product).Update("images", product.Images).Error; err != nil {
		return nil, fmt.Errorf("failed to update product images: %w", err)
	}

	return &product, nil
}
