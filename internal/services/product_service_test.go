// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

type ProductServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	products *ProductService
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.products = NewProductService(suite.db)
}

func (suite *ProductServiceTestSuite) searchParams() ProductSearchParams {
	return ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"},
	}
}

func (suite *ProductServiceTestSuite) TestCreateRejectsDuplicateSKU() {
	_, err := suite.products.CreateProduct(&CreateProductRequest{
		Name:  "Tablet",
		SKU:   "TAB-1",
		Price: 12000000,
	})
	suite.Require().NoError(err)

	_, err = suite.products.CreateProduct(&CreateProductRequest{
		Name:  "Tablet v2",
		SKU:   "TAB-1",
		Price: 13000000,
	})
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeSKUTaken, appErr.Code)
}

func (suite *ProductServiceTestSuite) TestCreateRejectsUnknownCategory() {
	missing := uuid.New()

	_, err := suite.products.CreateProduct(&CreateProductRequest{
		Name:       "Lamp",
		SKU:        "LAMP-1",
		Price:      400000,
		CategoryID: &missing,
	})
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeCategoryNotFound, appErr.Code)
}

func (suite *ProductServiceTestSuite) TestInactiveProductHiddenFromPublic() {
	product := createTestProduct(suite.T(), suite.db, "Hidden", 100000, 1)
	suite.Require().NoError(suite.db.Model(product).Update("is_active", false).Error)

	_, err := suite.products.GetProduct(product.ID, false)
	suite.Require().Error(err)

	fetched, err := suite.products.GetProduct(product.ID, true)
	suite.Require().NoError(err)
	suite.Equal(product.ID, fetched.ID)
}

func (suite *ProductServiceTestSuite) TestSearchFiltersAndHidesInactive() {
	createTestProduct(suite.T(), suite.db, "Cheap Cable", 50000, 5)
	createTestProduct(suite.T(), suite.db, "Expensive Cable", 900000, 0)
	inactive := createTestProduct(suite.T(), suite.db, "Retired Cable", 70000, 3)
	suite.Require().NoError(suite.db.Model(inactive).Update("is_active", false).Error)

	params := suite.searchParams()
	params.Search = "cable"
	results, total, err := suite.products.SearchProducts(params)
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(results, 2)

	inStock := true
	params.InStock = &inStock
	results, total, err = suite.products.SearchProducts(params)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("Cheap Cable", results[0].Name)

	priceMax := 100000.0
	params.InStock = nil
	params.PriceMax = &priceMax
	_, total, err = suite.products.SearchProducts(params)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
}

func (suite *ProductServiceTestSuite) TestSearchIncludeHiddenForAdmin() {
	inactive := createTestProduct(suite.T(), suite.db, "Backroom", 100000, 1)
	suite.Require().NoError(suite.db.Model(inactive).Update("is_active", false).Error)

	params := suite.searchParams()
	params.IncludeHidden = true
	_, total, err := suite.products.SearchProducts(params)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
}

func (suite *ProductServiceTestSuite) TestUpdateAppliesOnlyProvidedFields() {
	product := createTestProduct(suite.T(), suite.db, "Router", 3000000, 4)

	price := 3500000.0
	updated, err := suite.products.UpdateProduct(product.ID, &UpdateProductRequest{Price: &price})
	suite.Require().NoError(err)
	suite.Equal(3500000.0, updated.Price)
	suite.Equal("Router", updated.Name)
	suite.Equal(4, updated.Quantity)
}

func (suite *ProductServiceTestSuite) TestDeleteIsSoft() {
	product := createTestProduct(suite.T(), suite.db, "Gone", 200000, 1)
	suite.Require().NoError(suite.products.DeleteProduct(product.ID))

	_, err := suite.products.GetProduct(product.ID, true)
	suite.Require().Error(err)

	var count int64
	suite.db.Unscoped().Model(product).Where("id = ?", product.ID).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *ProductServiceTestSuite) TestFeaturedReturnsOnlyActiveFeatured() {
	featured := createTestProduct(suite.T(), suite.db, "Star", 100000, 2)
	suite.Require().NoError(suite.db.Model(featured).Update("is_featured", true).Error)
	createTestProduct(suite.T(), suite.db, "Plain", 100000, 2)

	list, err := suite.products.GetFeaturedProducts(8)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1)
	suite.Equal("Star", list[0].Name)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
