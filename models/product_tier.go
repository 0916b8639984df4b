package models

import "time"

// ProductTier is one purchasable kit size. the studio reads only MagnetCount
// for the selected tier; everything else is storefront display data.
type ProductTier struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	MagnetCount int    `gorm:"not null" json:"magnet_count"`
	PriceCents  int    `gorm:"not null" json:"price_cents"`
	SortOrder   int    `gorm:"not null;default:0" json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (ProductTier) TableName() string {
	return "product_tiers"
}
