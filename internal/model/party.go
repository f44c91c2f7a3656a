package model

type PartyType string

const (
	PartySupplier   PartyType = "SUPPLIER"
	PartyShopkeeper PartyType = "SHOPKEEPER"
)

// Party is the counterparty of a transaction: a supplier or a shopkeeper.
// Both roles share the same shape; Type tells them apart. A party is
// registered once and is read-only inside the transaction workflow.
type Party struct {
	BaseModel
	Type       PartyType `gorm:"type:varchar(20);not null;index" json:"type" validate:"required,oneof=SUPPLIER SHOPKEEPER"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone"`
	NationalID string    `gorm:"type:varchar(50)" json:"national_id"`
	Address    string    `gorm:"type:text" json:"address"`

	OwnerID string `gorm:"type:varchar(255);not null;index" json:"owner_id"`
}
