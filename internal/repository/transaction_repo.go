package repository

import (
	"time"

	"github.com/madxrebel/MStock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	FindByID(ownerID string, id uuid.UUID) (*model.Transaction, error)
	FindByIDTx(tx *gorm.DB, ownerID string, id uuid.UUID) (*model.Transaction, error)
	FindAll(ownerID string) ([]model.Transaction, error)
	FindByPartyID(ownerID string, partyID uuid.UUID) ([]model.Transaction, error)
	FindRecent(ownerID string, limit int) ([]model.Transaction, error)
	SaveReconciliation(tx *gorm.DB, transaction *model.Transaction) error

	GetDashboardStats(ownerID string) (*DashboardStats, error)
	GetRevenueMovement(ownerID string, startDate, endDate time.Time) ([]RevenueMovementData, error)
}

// RevenueMovementData is one day's issued vs realized totals for charts.
type RevenueMovementData struct {
	Date     string `json:"date"`
	Issued   int64  `json:"issued"`
	Realized int64  `json:"realized"`
}

// DashboardStats is the overview block on the admin dashboard.
type DashboardStats struct {
	TotalProducts      int64 `json:"total_products"`
	LowStockCount      int64 `json:"low_stock_count"`
	StockValuation     int64 `json:"stock_valuation"`
	SupplierCount      int64 `json:"supplier_count"`
	ShopkeeperCount    int64 `json:"shopkeeper_count"`
	OpenTransactions   int64 `json:"open_transactions"`
	TotalIssuedPrice   int64 `json:"total_issued_price"`
	TotalRealizedPrice int64 `json:"total_realized_price"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	return tx.Create(transaction).Error
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *transactionRepo) FindByID(ownerID string, id uuid.UUID) (*model.Transaction, error) {
	return r.FindByIDTx(r.db, ownerID, id)
}

// FindByIDTx loads a transaction with its party and ordered line items using
// the given handle, so the workflow can read inside its own transaction.
func (r *transactionRepo) FindByIDTx(tx *gorm.DB, ownerID string, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := tx.Preload("Party").Preload("Items", orderedItems).
		Where("owner_id = ?", ownerID).
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindAll(ownerID string) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Party").Preload("Items", orderedItems).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByPartyID(ownerID string, partyID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Party").Preload("Items", orderedItems).
		Where("owner_id = ? AND party_id = ?", ownerID, partyID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindRecent(ownerID string, limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Party").Preload("Items", orderedItems).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

// SaveReconciliation persists the final sold/returned split, the lock flags
// and the realized total in one pass. Caller provides the surrounding
// transaction handle.
func (r *transactionRepo) SaveReconciliation(tx *gorm.DB, transaction *model.Transaction) error {
	for i := range transaction.Items {
		item := &transaction.Items[i]
		err := tx.Model(&model.LineItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"sold_units":     item.SoldUnits,
				"returned_units": item.ReturnedUnits,
				"locked":         item.Locked,
			}).Error
		if err != nil {
			return err
		}
	}
	return tx.Model(&model.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]interface{}{
			"total_realized_price": transaction.TotalRealizedPrice,
			"updated_by":           transaction.UpdatedBy,
		}).Error
}

func (r *transactionRepo) GetDashboardStats(ownerID string) (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Where("owner_id = ?", ownerID).Count(&stats.TotalProducts)
	r.db.Model(&model.Product{}).Where("owner_id = ? AND packed_stock < ?", ownerID, model.LowStockThreshold).
		Count(&stats.LowStockCount)
	r.db.Model(&model.Product{}).Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(packed_stock * unit_price), 0)").Scan(&stats.StockValuation)

	r.db.Model(&model.Party{}).Where("owner_id = ? AND type = ?", ownerID, model.PartySupplier).
		Count(&stats.SupplierCount)
	r.db.Model(&model.Party{}).Where("owner_id = ? AND type = ?", ownerID, model.PartyShopkeeper).
		Count(&stats.ShopkeeperCount)

	r.db.Model(&model.Transaction{}).
		Where("owner_id = ?", ownerID).
		Where("EXISTS (SELECT 1 FROM line_items WHERE line_items.transaction_id = transactions.id AND line_items.locked = ?)", false).
		Count(&stats.OpenTransactions)

	r.db.Model(&model.Transaction{}).Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(total_issued_price), 0)").Scan(&stats.TotalIssuedPrice)
	r.db.Model(&model.Transaction{}).Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(COALESCE(total_realized_price, 0)), 0)").Scan(&stats.TotalRealizedPrice)

	return &stats, nil
}

func (r *transactionRepo) GetRevenueMovement(ownerID string, startDate, endDate time.Time) ([]RevenueMovementData, error) {
	var results []RevenueMovementData

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(total_issued_price), 0) as issued,
			COALESCE(SUM(COALESCE(total_realized_price, 0)), 0) as realized
		`).
		Where("owner_id = ? AND created_at BETWEEN ? AND ?", ownerID, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data RevenueMovementData
		if err := rows.Scan(&data.Date, &data.Issued, &data.Realized); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
