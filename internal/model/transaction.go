package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction records a batch of stock issued to a single party. It is
// created once at issuance and mutated at most once, when the sold/returned
// split is reconciled. It is never deleted.
type Transaction struct {
	BaseModel
	// Weak reference: the party may be deleted later, the transaction stays.
	PartyID uuid.UUID `gorm:"type:uuid;not null;index" json:"party_id" validate:"uuid_required"`
	Party   *Party    `gorm:"foreignKey:PartyID" json:"party,omitempty" validate:"-"`

	Items []LineItem `gorm:"foreignKey:TransactionID" json:"items"`

	// Computed at issuance from the line snapshots, never recomputed.
	TotalIssuedPrice int64 `gorm:"not null" json:"total_issued_price"`
	// Set once at reconciliation; nil while the transaction is open.
	TotalRealizedPrice *int64 `json:"total_realized_price,omitempty"`

	OwnerID string `gorm:"type:varchar(255);not null;index" json:"owner_id"`
}

// IsFinalized reports whether every line has been locked by a successful
// reconciliation. The open/closed state is derived, never stored.
func (t *Transaction) IsFinalized() bool {
	if len(t.Items) == 0 {
		return false
	}
	for _, item := range t.Items {
		if !item.Locked {
			return false
		}
	}
	return true
}

// LineItem is one product's quantity record inside a transaction. Name and
// price are snapshots taken at issuance so later catalog edits cannot
// rewrite history. Sold/Returned are editable exactly once; Locked flips to
// true on the first successful reconciliation and never back.
type LineItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	Position      int       `gorm:"not null" json:"position"`

	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPrice   int64     `gorm:"not null" json:"unit_price"`

	IssuedUnits   int  `gorm:"not null" json:"issued_units"`
	SoldUnits     int  `gorm:"not null;default:0" json:"sold_units"`
	ReturnedUnits int  `gorm:"not null;default:0" json:"returned_units"`
	Locked        bool `gorm:"not null;default:false" json:"locked"`
}

func (li *LineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return
}
