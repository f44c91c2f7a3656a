package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/madxrebel/MStock/internal/model"
	"github.com/madxrebel/MStock/internal/repository"
	"github.com/madxrebel/MStock/internal/ws"
	"github.com/madxrebel/MStock/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSKUExists = errors.New("SKU already exists")

// CatalogService manages the product catalog and manual stock movements.
// Issuance is the only other path that touches packed stock.
type CatalogService interface {
	CreateProduct(req *model.Product, ownerID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, ownerID string) (*model.Product, error)
	GetProduct(ownerID string, id uuid.UUID) (*model.Product, error)
	ListProducts(ownerID string) ([]model.Product, error)
	AdjustPackedStock(ownerID string, id uuid.UUID, delta int) (*model.Product, error)
	PackStock(ownerID string, id uuid.UUID, units int) (*model.Product, error)
	DeleteProduct(ownerID string, id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, ownerID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.productRepo.FindBySKU(ownerID, req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	req.OwnerID = ownerID
	req.CreatedBy = ownerID
	req.UpdatedBy = ownerID

	if err := s.productRepo.Create(req); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	go s.notifyProduct("product_created", req)
	return nil
}

// UpdateProduct edits the catalog fields. Stock counts are deliberately left
// alone here; they move only through AdjustPackedStock, PackStock and
// issuance.
func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, ownerID string) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	if req.Name == "" || req.SKU == "" || req.UnitPrice < 0 {
		return nil, errors.New("name, SKU and a non-negative unit price are required")
	}

	if req.SKU != existing.SKU {
		other, _ := s.productRepo.FindBySKU(ownerID, req.SKU)
		if other != nil && other.ID != existing.ID {
			return nil, ErrSKUExists
		}
	}

	existing.Name = req.Name
	existing.SKU = req.SKU
	existing.UnitPrice = req.UnitPrice
	existing.UpdatedBy = ownerID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	go s.notifyProduct("product_updated", existing)
	return existing, nil
}

func (s *catalogService) GetProduct(ownerID string, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return product, nil
}

func (s *catalogService) ListProducts(ownerID string) ([]model.Product, error) {
	return s.productRepo.FindAll(ownerID)
}

// AdjustPackedStock applies a manual correction from the stock modal. A
// negative delta may not take the count below zero.
func (s *catalogService) AdjustPackedStock(ownerID string, id uuid.UUID, delta int) (*model.Product, error) {
	if delta == 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	if delta > 0 {
		if err := s.productRepo.AddPackedStock(s.db, id, delta, ownerID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
		}
	} else {
		ok, err := s.productRepo.DecrementPackedStock(s.db, id, -delta, ownerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
		}
		if !ok {
			return nil, &InsufficientStockError{
				ProductID: id,
				Requested: -delta,
				Available: product.PackedStock,
			}
		}
	}

	updated, err := s.productRepo.FindByID(ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	go s.notifyProduct("stock_adjusted", updated)
	return updated, nil
}

// PackStock moves units from bulk to issuable stock.
func (s *catalogService) PackStock(ownerID string, id uuid.UUID, units int) (*model.Product, error) {
	if units <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	ok, err := s.productRepo.MoveUnpackedToPacked(s.db, id, units, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	if !ok {
		return nil, &InsufficientStockError{
			ProductID: id,
			Requested: units,
			Available: product.UnpackedStock,
		}
	}

	updated, err := s.productRepo.FindByID(ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	go s.notifyProduct("stock_packed", updated)
	return updated, nil
}

func (s *catalogService) DeleteProduct(ownerID string, id uuid.UUID) error {
	if err := s.productRepo.Delete(ownerID, id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return nil
}

func (s *catalogService) notifyProduct(action string, product *model.Product) {
	if s.wsHub == nil {
		return
	}
	payload := map[string]interface{}{
		"type":   "stock_update",
		"action": action,
		"product": map[string]interface{}{
			"id":             product.ID,
			"sku":            product.SKU,
			"name":           product.Name,
			"packed_stock":   product.PackedStock,
			"unpacked_stock": product.UnpackedStock,
			"unit_price":     product.UnitPrice,
		},
	}
	msg, _ := json.Marshal(payload)
	s.wsHub.Broadcast <- msg
}
