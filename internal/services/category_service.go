// internal/services/category_service.go
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

type CategoryService struct {
	db *gorm.DB
}

type CreateCategoryRequest struct {
	Name      string     `json:"name" validate:"required,min=2,max=120"`
	NameFa    string     `json:"name_fa,omitempty" validate:"omitempty,max=120"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	SortOrder int        `json:"sort_order,omitempty"`
}

type UpdateCategoryRequest struct {
	Name      *string    `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	NameFa    *string    `json:"name_fa,omitempty" validate:"omitempty,max=120"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	SortOrder *int       `json:"sort_order,omitempty"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var existing models.Category
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperrors.Conflict(i18n.CodeCategoryNameTaken)
	}

	if req.ParentID != nil {
		var parent models.Category
		if err := s.db.First(&parent, "id = ?", *req.ParentID).Error; err != nil {
			return nil, apperrors.NotFound(i18n.CodeCategoryNotFound)
		}
	}

	category := &models.Category{
		Name:      req.Name,
		NameFa:    req.NameFa,
		Slug:      s.uniqueSlug(req.Name),
		ParentID:  req.ParentID,
		SortOrder: req.SortOrder,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *CategoryService) GetCategory(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.Preload("Children").Preload("Parent").First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(i18n.CodeCategoryNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) UpdateCategory(id uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.BadRequest(i18n.CodeValidationError).WithDetails(utils.GetValidationErrors(err))
	}

	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(i18n.CodeCategoryNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != category.Name {
		var existing models.Category
		if err := s.db.Where("name = ? AND id <> ?", *req.Name, id).First(&existing).Error; err == nil {
			return nil, apperrors.Conflict(i18n.CodeCategoryNameTaken)
		}
		updates["name"] = *req.Name
		updates["slug"] = s.uniqueSlug(*req.Name)
	}
	if req.NameFa != nil {
		updates["name_fa"] = *req.NameFa
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, apperrors.BadRequest(i18n.CodeBadRequest)
		}
		var parent models.Category
		if err := s.db.First(&parent, "id = ?", *req.ParentID).Error; err != nil {
			return nil, apperrors.NotFound(i18n.CodeCategoryNotFound)
		}
		updates["parent_id"] = *req.ParentID
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(&category).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update category: %w", err)
		}
	}

	s.db.First(&category, "id = ?", id)
	return &category, nil
}

// DeleteCategory refuses while products or subcategories still point at it.
func (s *CategoryService) DeleteCategory(id uuid.UUID) error {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound(i18n.CodeCategoryNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	var childCount int64
	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
		return fmt.Errorf("failed to count subcategories: %w", err)
	}

	if productCount > 0 || childCount > 0 {
		return apperrors.Conflict(i18n.CodeCategoryInUse)
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

func (s *CategoryService) uniqueSlug(name string) string {
	base := utils.Slugify(name)
	slug := base

	for i := 2; ; i++ {
		var count int64
		s.db.Model(&models.Category{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
