package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRecord is one stock issuance. It is written once and never changed.
// TotalPrice is the unit price at issuance times Quantity, not recomputed later.
// ProductID becomes nil if the product is deleted afterwards.
type OrderRecord struct {
	ID         uint            `gorm:"primaryKey"`
	Reference  string          `gorm:"uniqueIndex;not null"`
	ProductID  *uint           `gorm:"index"`
	Product    *Product        `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Quantity   int             `gorm:"not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `gorm:"index"`
}

func (o *OrderRecord) TableName() string {
	return "orders"
}

// ProductName returns the joined product name, or "" if the product is gone.
func (o *OrderRecord) ProductName() string {
	if o.Product == nil {
		return ""
	}
	return o.Product.Name
}
