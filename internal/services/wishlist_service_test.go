// internal/services/wishlist_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/apperrors"
	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
	"github.com/aryanmiramini/shopyar-backend/internal/models"
)

type WishlistServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	wishlist *WishlistService
	user     *models.User
	product  *models.Product
}

func (suite *WishlistServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.wishlist = NewWishlistService(suite.db)
	suite.user = createTestUser(suite.T(), suite.db, "wisher@example.com")
	suite.product = createTestProduct(suite.T(), suite.db, "Camera", 45000000, 2)
}

func (suite *WishlistServiceTestSuite) TestAddAndList() {
	item, err := suite.wishlist.Add(suite.user.ID, suite.product.ID)
	suite.Require().NoError(err)
	suite.Equal(suite.product.ID, item.ProductID)

	items, err := suite.wishlist.List(suite.user.ID)
	suite.Require().NoError(err)
	suite.Require().Len(items, 1)
	suite.Equal(suite.product.ID, items[0].Product.ID)
}

func (suite *WishlistServiceTestSuite) TestDuplicateAddConflicts() {
	_, err := suite.wishlist.Add(suite.user.ID, suite.product.ID)
	suite.Require().NoError(err)

	_, err = suite.wishlist.Add(suite.user.ID, suite.product.ID)
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeWishlistExists, appErr.Code)
}

func (suite *WishlistServiceTestSuite) TestContainsAndRemove() {
	_, err := suite.wishlist.Add(suite.user.ID, suite.product.ID)
	suite.Require().NoError(err)

	contains, err := suite.wishlist.Contains(suite.user.ID, suite.product.ID)
	suite.Require().NoError(err)
	suite.True(contains)

	suite.Require().NoError(suite.wishlist.Remove(suite.user.ID, suite.product.ID))

	contains, err = suite.wishlist.Contains(suite.user.ID, suite.product.ID)
	suite.Require().NoError(err)
	suite.False(contains)
}

func (suite *WishlistServiceTestSuite) TestRemoveMissingNotFound() {
	err := suite.wishlist.Remove(suite.user.ID, suite.product.ID)
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeWishlistItemNotFound, appErr.Code)
}

func (suite *WishlistServiceTestSuite) TestInactiveProductCannotBeAdded() {
	suite.Require().NoError(suite.db.Model(suite.product).Update("is_active", false).Error)

	_, err := suite.wishlist.Add(suite.user.ID, suite.product.ID)
	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(i18n.CodeProductNotFound, appErr.Code)
}

func (suite *WishlistServiceTestSuite) TestWishlistsAreScopedPerUser() {
	other := createTestUser(suite.T(), suite.db, "another@example.com")

	_, err := suite.wishlist.Add(suite.user.ID, suite.product.ID)
	suite.Require().NoError(err)

	items, err := suite.wishlist.List(other.ID)
	suite.Require().NoError(err)
	suite.Empty(items)
}

func TestWishlistServiceSuite(t *testing.T) {
	suite.Run(t, new(WishlistServiceTestSuite))
}
