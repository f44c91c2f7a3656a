package service_test

import (
	"testing"

	"github.com/madxrebel/MStock/internal/model"
	"github.com/madxrebel/MStock/internal/repository"
	"github.com/madxrebel/MStock/internal/service"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testOwner = "owner-1"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Product{}, &model.Party{},
		&model.Transaction{}, &model.LineItem{},
	))
	return db
}

func newWorkflow(db *gorm.DB) service.WorkflowService {
	return service.NewWorkflowService(
		repository.NewProductRepo(db),
		repository.NewPartyRepo(db),
		repository.NewTransactionRepo(db),
		db,
		nil,
	)
}

func seedProduct(t *testing.T, db *gorm.DB, sku, name string, price int64, packed, unpacked int) *model.Product {
	t.Helper()
	product := &model.Product{
		SKU:           sku,
		Name:          name,
		UnitPrice:     price,
		PackedStock:   packed,
		UnpackedStock: unpacked,
		OwnerID:       testOwner,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedParty(t *testing.T, db *gorm.DB, partyType model.PartyType, name string) *model.Party {
	t.Helper()
	party := &model.Party{
		Type:    partyType,
		Name:    name,
		OwnerID: testOwner,
	}
	require.NoError(t, db.Create(party).Error)
	return party
}

func packedStock(t *testing.T, db *gorm.DB, product *model.Product) int {
	t.Helper()
	var fresh model.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	return fresh.PackedStock
}

func transactionCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&count).Error)
	return count
}
