package service_test

import (
	"testing"

	"github.com/madxrebel/MStock/internal/model"
	"github.com/madxrebel/MStock/internal/repository"
	"github.com/madxrebel/MStock/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalog(db *gorm.DB) service.CatalogService {
	return service.NewCatalogService(repository.NewProductRepo(db), db, nil)
}

func TestCreateProduct(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	product := &model.Product{
		SKU:           "SKU-1",
		Name:          "Soap Bar",
		UnitPrice:     5,
		PackedStock:   10,
		UnpackedStock: 40,
	}
	require.NoError(t, catalog.CreateProduct(product, testOwner))

	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, testOwner, product.OwnerID)
	assert.Equal(t, testOwner, product.CreatedBy)

	fetched, err := catalog.GetProduct(testOwner, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soap Bar", fetched.Name)
	assert.Equal(t, 10, fetched.PackedStock)
	assert.Equal(t, 40, fetched.UnpackedStock)
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 0)

	err := catalog.CreateProduct(&model.Product{SKU: "SKU-1", Name: "Other Soap", UnitPrice: 7}, testOwner)
	assert.ErrorIs(t, err, service.ErrSKUExists)
}

func TestCreateProductValidation(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	err := catalog.CreateProduct(&model.Product{SKU: "SKU-1", UnitPrice: 5}, testOwner)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	products, listErr := catalog.ListProducts(testOwner)
	require.NoError(t, listErr)
	assert.Empty(t, products)
}

func TestUpdateProductLeavesStockAlone(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	product := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 40)

	// Stock values in the request body must be ignored.
	updated, err := catalog.UpdateProduct(product.ID, &model.Product{
		SKU:           "SKU-1A",
		Name:          "Deluxe Soap",
		UnitPrice:     8,
		PackedStock:   999,
		UnpackedStock: 999,
	}, testOwner)
	require.NoError(t, err)

	assert.Equal(t, "SKU-1A", updated.SKU)
	assert.Equal(t, "Deluxe Soap", updated.Name)
	assert.Equal(t, int64(8), updated.UnitPrice)
	assert.Equal(t, 10, updated.PackedStock)
	assert.Equal(t, 40, updated.UnpackedStock)
}

func TestUpdateProductRejectsTakenSKU(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 0)
	other := seedProduct(t, db, "SKU-2", "Rice Bag", 20, 8, 0)

	_, err := catalog.UpdateProduct(other.ID, &model.Product{SKU: "SKU-1", Name: "Rice Bag", UnitPrice: 20}, testOwner)
	assert.ErrorIs(t, err, service.ErrSKUExists)
}

func TestAdjustPackedStock(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	product := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 0)

	updated, err := catalog.AdjustPackedStock(testOwner, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.PackedStock)

	updated, err = catalog.AdjustPackedStock(testOwner, product.ID, -12)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.PackedStock)
}

func TestAdjustPackedStockCannotGoNegative(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	product := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 0)

	_, err := catalog.AdjustPackedStock(testOwner, product.ID, -11)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	var stockErr *service.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 11, stockErr.Requested)
	assert.Equal(t, 10, stockErr.Available)

	assert.Equal(t, 10, packedStock(t, db, product))
}

func TestAdjustPackedStockRejectsZeroDelta(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	product := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 0)

	_, err := catalog.AdjustPackedStock(testOwner, product.ID, 0)
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
}

func TestPackStockMovesBulkIntoPacked(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	product := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 40)

	updated, err := catalog.PackStock(testOwner, product.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 25, updated.PackedStock)
	assert.Equal(t, 25, updated.UnpackedStock)
}

func TestPackStockRequiresEnoughBulk(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	product := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 4)

	_, err := catalog.PackStock(testOwner, product.ID, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	var stockErr *service.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 4, stockErr.Available)

	// Neither side of the move applied.
	fetched, err := catalog.GetProduct(testOwner, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, fetched.PackedStock)
	assert.Equal(t, 4, fetched.UnpackedStock)
}

func TestPackStockRejectsNonPositiveUnits(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	product := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 40)

	_, err := catalog.PackStock(testOwner, product.ID, 0)
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
	_, err = catalog.PackStock(testOwner, product.ID, -2)
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
}

func TestDeleteProduct(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	product := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 0)

	require.NoError(t, catalog.DeleteProduct(testOwner, product.ID))

	_, err := catalog.GetProduct(testOwner, product.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	products, err := catalog.ListProducts(testOwner)
	require.NoError(t, err)
	assert.Empty(t, products)

	err = catalog.DeleteProduct(testOwner, product.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestProductsScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	mine := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 0)

	theirs := &model.Product{SKU: "SKU-9", Name: "Foreign Item", UnitPrice: 1, OwnerID: "someone-else"}
	require.NoError(t, db.Create(theirs).Error)

	products, err := catalog.ListProducts(testOwner)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, mine.ID, products[0].ID)

	_, err = catalog.GetProduct(testOwner, theirs.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestProductGetNotFound(t *testing.T) {
	db := newTestDB(t)
	catalog := newCatalog(db)

	_, err := catalog.GetProduct(testOwner, uuid.New())
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}
