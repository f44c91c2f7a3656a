package repository

import (
	"github.com/madxrebel/MStock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(ownerID string) ([]model.Product, error)
	FindByID(ownerID string, id uuid.UUID) (*model.Product, error)
	FindBySKU(ownerID, sku string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(ownerID string, id uuid.UUID, deletedBy string) error

	// Conditional stock writes. Each takes the *gorm.DB so it can run inside
	// a surrounding transaction, and reports false when the guard condition
	// no longer holds (stock would go negative).
	DecrementPackedStock(tx *gorm.DB, id uuid.UUID, units int, updatedBy string) (bool, error)
	AddPackedStock(tx *gorm.DB, id uuid.UUID, units int, updatedBy string) error
	MoveUnpackedToPacked(tx *gorm.DB, id uuid.UUID, units int, updatedBy string) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(ownerID string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("owner_id = ?", ownerID).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ownerID string, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("owner_id = ?", ownerID).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ownerID, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("owner_id = ?", ownerID).First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(ownerID string, id uuid.UUID, deletedBy string) error {
	res := r.db.Model(&model.Product{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("deleted_by", deletedBy)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// DecrementPackedStock subtracts units only while enough stock remains. The
// guard in the WHERE clause is what keeps packed_stock from going negative
// under concurrent issuances.
func (r *productRepo) DecrementPackedStock(tx *gorm.DB, id uuid.UUID, units int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND packed_stock >= ?", id, units).
		Updates(map[string]interface{}{
			"packed_stock": gorm.Expr("packed_stock - ?", units),
			"updated_by":   updatedBy,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) AddPackedStock(tx *gorm.DB, id uuid.UUID, units int, updatedBy string) error {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"packed_stock": gorm.Expr("packed_stock + ?", units),
			"updated_by":   updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MoveUnpackedToPacked converts bulk stock into issuable units in one
// conditional write.
func (r *productRepo) MoveUnpackedToPacked(tx *gorm.DB, id uuid.UUID, units int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND unpacked_stock >= ?", id, units).
		Updates(map[string]interface{}{
			"unpacked_stock": gorm.Expr("unpacked_stock - ?", units),
			"packed_stock":   gorm.Expr("packed_stock + ?", units),
			"updated_by":     updatedBy,
		})
	return res.RowsAffected > 0, res.Error
}
