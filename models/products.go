package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// Product represents a stocked item.
// NameKey is the case-folded name used for case-insensitive lookups.
type Product struct {
	ID         uint            `gorm:"primaryKey"`
	Name       string          `gorm:"not null"`
	NameKey    string          `gorm:"index;not null"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity   int             `gorm:"not null;default:0"`
	CategoryID uint            `gorm:"not null;index"`
	Category   Category        `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Product) TableName() string {
	return "products"
}

// BeforeSave keeps NameKey in step with Name.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.NameKey = NameKey(p.Name)
	return nil
}

// StockValue is price times quantity on hand.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// NameKey folds a product name for case-insensitive comparison.
// "MLEKO", "mleko" and " Mleko " share a key, as do "ŻUBR" and "żubr".
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
