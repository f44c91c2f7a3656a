package model

// Product is a catalog entry owned by the admin account that created it.
// PackedStock counts units ready to be issued to a party; UnpackedStock is
// bulk stock that becomes issuable only after a pack operation.
type Product struct {
	BaseModel
	SKU           string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	UnitPrice     int64  `gorm:"not null;default:0" json:"unit_price" validate:"gte=0"`
	PackedStock   int    `gorm:"not null;default:0" json:"packed_stock" validate:"gte=0"`
	UnpackedStock int    `gorm:"not null;default:0" json:"unpacked_stock" validate:"gte=0"`

	// Admin account that owns this product. All reads are scoped to it.
	OwnerID string `gorm:"type:varchar(255);not null;index" json:"owner_id"`
}

// LowStockThreshold classifies a product as low stock on the dashboard.
const LowStockThreshold = 150

func (p *Product) IsLowStock() bool {
	return p.PackedStock < LowStockThreshold
}
