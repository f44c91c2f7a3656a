package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/madxrebel/MStock/internal/model"
	"github.com/madxrebel/MStock/internal/repository"
	"github.com/madxrebel/MStock/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// commitAttempts bounds the retry loop around the issuance commit. Driver
// level failures are retried; validation and stock errors are not.
const commitAttempts = 3

// IssueItem is one requested product/quantity pair in an issuance call.
type IssueItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Units     int       `json:"units"`
}

type ReconcileField string

const (
	FieldSold     ReconcileField = "sold"
	FieldReturned ReconcileField = "returned"
)

// ReconcileUpdate sets the sold or returned count of one line. The
// complementary field is derived, never set directly.
type ReconcileUpdate struct {
	LineIndex int            `json:"line_index"`
	Field     ReconcileField `json:"field"`
	Value     int            `json:"value"`
}

// ReconcileResult reports the finalized transaction plus the indexes of
// lines whose value was capped at the issued quantity, so the caller can
// surface a field-level warning instead of a hard failure.
type ReconcileResult struct {
	Transaction  *model.Transaction `json:"transaction"`
	ClampedLines []int              `json:"clamped_lines,omitempty"`
}

// WorkflowService is the transaction lifecycle core: issuing stock to a
// party and reconciling the sold/returned split exactly once.
type WorkflowService interface {
	Issue(ownerID string, partyID uuid.UUID, items []IssueItem) (*model.Transaction, error)
	Reconcile(ownerID string, txID uuid.UUID, updates []ReconcileUpdate) (*ReconcileResult, error)
	GetTransaction(ownerID string, id uuid.UUID) (*model.Transaction, error)
	ListTransactions(ownerID string) ([]model.Transaction, error)
	ListTransactionsByParty(ownerID string, partyID uuid.UUID) ([]model.Transaction, error)
}

type workflowService struct {
	productRepo     repository.ProductRepository
	partyRepo       repository.PartyRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	wsHub           *ws.Hub
}

func NewWorkflowService(
	pRepo repository.ProductRepository,
	partyRepo repository.PartyRepository,
	tRepo repository.TransactionRepository,
	db *gorm.DB,
	hub *ws.Hub,
) WorkflowService {
	return &workflowService{
		productRepo:     pRepo,
		partyRepo:       partyRepo,
		transactionRepo: tRepo,
		db:              db,
		wsHub:           hub,
	}
}

// Issue validates the request against current stock, then creates the
// transaction and decrements each product's packed stock as one atomic unit
// of work. Either the transaction exists and all decrements applied, or
// nothing changed.
func (s *workflowService) Issue(ownerID string, partyID uuid.UUID, items []IssueItem) (*model.Transaction, error) {
	if len(items) == 0 {
		return nil, ErrEmptyTransaction
	}

	// Repeated product ids collapse into a single line; the merged quantity
	// still has to clear the stock check.
	merged := make([]IssueItem, 0, len(items))
	seen := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil || item.Units <= 0 {
			return nil, ErrInvalidQuantity
		}
		if pos, ok := seen[item.ProductID]; ok {
			merged[pos].Units += item.Units
			continue
		}
		seen[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	if _, err := s.partyRepo.FindByID(ownerID, partyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}

	var created *model.Transaction
	var err error
	for attempt := 0; attempt < commitAttempts; attempt++ {
		created, err = s.issueOnce(ownerID, partyID, merged)
		if err == nil || !errors.Is(err, ErrCommitFailed) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	go s.notifyIssued(created)

	// Reload so the response carries the party; the created value is already
	// complete if the read fails.
	if full, err := s.transactionRepo.FindByID(ownerID, created.ID); err == nil {
		return full, nil
	}
	return created, nil
}

func (s *workflowService) issueOnce(ownerID string, partyID uuid.UUID, items []IssueItem) (*model.Transaction, error) {
	var created *model.Transaction

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		lines := make([]model.LineItem, 0, len(items))
		var totalIssued int64

		for i, item := range items {
			var product model.Product
			err := tx.Where("owner_id = ?", ownerID).First(&product, "id = ?", item.ProductID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return fmt.Errorf("%w: %v", ErrReadFailed, err)
			}
			if item.Units > product.PackedStock {
				return &InsufficientStockError{
					ProductID: product.ID,
					Requested: item.Units,
					Available: product.PackedStock,
				}
			}

			lines = append(lines, model.LineItem{
				Position:    i,
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.UnitPrice,
				IssuedUnits: item.Units,
			})
			totalIssued += product.UnitPrice * int64(item.Units)
		}

		transaction := &model.Transaction{
			PartyID:          partyID,
			Items:            lines,
			TotalIssuedPrice: totalIssued,
			OwnerID:          ownerID,
		}
		transaction.CreatedBy = ownerID
		transaction.UpdatedBy = ownerID

		if err := s.transactionRepo.Create(tx, transaction); err != nil {
			return fmt.Errorf("%w: %v", ErrCommitFailed, err)
		}

		for _, item := range items {
			ok, err := s.productRepo.DecrementPackedStock(tx, item.ProductID, item.Units, ownerID)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCommitFailed, err)
			}
			if !ok {
				// A concurrent issuance consumed the stock between our read
				// and this write. Report what is left now.
				var product model.Product
				available := 0
				if tx.First(&product, "id = ?", item.ProductID).Error == nil {
					available = product.PackedStock
				}
				return &InsufficientStockError{
					ProductID: item.ProductID,
					Requested: item.Units,
					Available: available,
				}
			}
		}

		created = transaction
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	return created, nil
}

// Reconcile records the sold/returned split for a transaction exactly once.
// Every line is locked by a successful save, including lines the caller did
// not touch, and the transaction moves irreversibly from open to closed.
func (s *workflowService) Reconcile(ownerID string, txID uuid.UUID, updates []ReconcileUpdate) (*ReconcileResult, error) {
	var result *ReconcileResult

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.transactionRepo.FindByIDTx(tx, ownerID, txID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("%w: %v", ErrReadFailed, err)
		}
		if transaction.IsFinalized() {
			return ErrAlreadyFinalized
		}

		var clamped []int
		clampedSeen := make(map[int]bool)
		for _, update := range updates {
			if update.LineIndex < 0 || update.LineIndex >= len(transaction.Items) {
				return ErrLineItemNotFound
			}
			if update.Field != FieldSold && update.Field != FieldReturned {
				return ErrInvalidField
			}
			if update.Value < 0 {
				return ErrInvalidQuantity
			}

			item := &transaction.Items[update.LineIndex]
			value := update.Value
			if value > item.IssuedUnits {
				// Cap at the issued quantity and flag the line instead of
				// rejecting; the caller shows a field-level warning.
				value = item.IssuedUnits
				if !clampedSeen[update.LineIndex] {
					clampedSeen[update.LineIndex] = true
					clamped = append(clamped, update.LineIndex)
				}
			}

			// Sold and returned stay complementary: setting one derives the
			// other from the issued quantity.
			if update.Field == FieldSold {
				item.SoldUnits = value
				item.ReturnedUnits = item.IssuedUnits - value
			} else {
				item.ReturnedUnits = value
				item.SoldUnits = item.IssuedUnits - value
			}
		}

		var realized int64
		for i := range transaction.Items {
			item := &transaction.Items[i]
			// Lines the caller never touched finalize as fully returned.
			if item.SoldUnits+item.ReturnedUnits != item.IssuedUnits {
				item.ReturnedUnits = item.IssuedUnits - item.SoldUnits
			}
			item.Locked = true
			realized += item.UnitPrice * int64(item.SoldUnits)
		}
		transaction.TotalRealizedPrice = &realized
		transaction.UpdatedBy = ownerID

		if err := s.transactionRepo.SaveReconciliation(tx, transaction); err != nil {
			return fmt.Errorf("%w: %v", ErrCommitFailed, err)
		}

		result = &ReconcileResult{Transaction: transaction, ClampedLines: clamped}
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	go s.notifyReconciled(result.Transaction)

	return result, nil
}

func (s *workflowService) GetTransaction(ownerID string, id uuid.UUID) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.FindByID(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return transaction, nil
}

func (s *workflowService) ListTransactions(ownerID string) ([]model.Transaction, error) {
	return s.transactionRepo.FindAll(ownerID)
}

func (s *workflowService) ListTransactionsByParty(ownerID string, partyID uuid.UUID) ([]model.Transaction, error) {
	if _, err := s.partyRepo.FindByID(ownerID, partyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartyNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return s.transactionRepo.FindByPartyID(ownerID, partyID)
}

func (s *workflowService) notifyIssued(transaction *model.Transaction) {
	if s.wsHub == nil {
		return
	}
	payload := map[string]interface{}{
		"type":   "stock_update",
		"action": "transaction_issued",
		"transaction": map[string]interface{}{
			"id":                 transaction.ID,
			"party_id":           transaction.PartyID,
			"total_issued_price": transaction.TotalIssuedPrice,
			"item_count":         len(transaction.Items),
		},
	}
	msg, _ := json.Marshal(payload)
	s.wsHub.Broadcast <- msg
}

func (s *workflowService) notifyReconciled(transaction *model.Transaction) {
	if s.wsHub == nil {
		return
	}
	payload := map[string]interface{}{
		"type":   "stock_update",
		"action": "transaction_reconciled",
		"transaction": map[string]interface{}{
			"id":                   transaction.ID,
			"party_id":             transaction.PartyID,
			"total_realized_price": transaction.TotalRealizedPrice,
		},
	}
	msg, _ := json.Marshal(payload)
	s.wsHub.Broadcast <- msg
}
