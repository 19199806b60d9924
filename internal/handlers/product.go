// internal/handlers/product.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aryanmiramini/shopyar-backend/internal/services"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	reviewService  *services.ReviewService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, reviewService *services.ReviewService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		reviewService:  reviewService,
		storageService: storageService,
	}
}

// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	params := services.ProductSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		IncludeHidden:    isAdmin(c) && c.Query("include_hidden") == "true",
	}

	if raw := c.Query("category_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.CategoryID = &id
		}
	}
	if raw := c.Query("price_min"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.PriceMin = &v
		}
	}
	if raw := c.Query("price_max"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.PriceMax = &v
		}
	}
	if raw := c.Query("tags"); raw != "" {
		params.Tags = strings.Split(raw, ",")
	}
	if raw := c.Query("in_stock"); raw != "" {
		v := raw == "true"
		params.InStock = &v
	}
	if raw := c.Query("featured"); raw != "" {
		v := raw == "true"
		params.Featured = &v
	}

	products, total, err := h.productService.SearchProducts(params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params.PaginationParams))
}

// GET /products/featured
func (h *ProductHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	products, err := h.productService.GetFeaturedProducts(limit)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, products)
}

// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(id, isAdmin(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products (admin)
func (h *ProductHandler) Create(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	product, err := h.productService.CreateProduct(&req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

// PATCH /products/:id (admin)
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /products/:id (admin)
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /products/:id/images (admin)
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "file field is required")
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadFile(file, header, services.ProductImageOptions())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	product, err := h.productService.AppendImages(id, []string{result.URL})
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"upload":  result,
		"product": product,
	})
}

// GET /products/:id/reviews
func (h *ProductHandler) ListReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	reviews, total, err := h.reviewService.ListForProduct(id, params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(reviews, total, params))
}

func isAdmin(c *gin.Context) bool {
	role, ok := utils.GetUserRoleFromContext(c)
	return ok && role == "admin"
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
