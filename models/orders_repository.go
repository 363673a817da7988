package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdersRepository struct {
	db *gorm.DB
}

// IssueInput is the payload of Issue.
type IssueInput struct {
	ProductID uint
	Quantity  int
	IssuedAt  time.Time
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

// GetOrders returns the issuance history, newest first, with products joined.
func (r *OrdersRepository) GetOrders(ctx context.Context) ([]OrderRecord, error) {
	var orders []OrderRecord
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Issue removes Quantity units of a product from stock and records the order.
// The order insert and the stock decrement commit together or not at all.
// The decrement is conditional on enough stock remaining, so two concurrent
// issuances cannot oversell.
func (r *OrdersRepository) Issue(ctx context.Context, in IssueInput) (*OrderRecord, *Product, error) {
	var (
		order   OrderRecord
		product Product
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if in.Quantity > product.Quantity {
			return &InsufficientStockError{
				ProductID: product.ID,
				Product:   product.Name,
				Requested: in.Quantity,
				Available: product.Quantity,
			}
		}

		productID := product.ID
		order = OrderRecord{
			Reference:  uuid.New().String(),
			ProductID:  &productID,
			Quantity:   in.Quantity,
			TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
			CreatedAt:  in.IssuedAt,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return fmt.Errorf("failed to record order: %w", err)
		}

		res := tx.Model(&Product{}).
			Where("id = ? AND quantity >= ?", product.ID, in.Quantity).
			UpdateColumns(map[string]any{
				"quantity":   gorm.Expr("quantity - ?", in.Quantity),
				"updated_at": tx.NowFunc(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to decrement stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Stock changed since the read above.
			var current Product
			if err := tx.First(&current, product.ID).Error; err != nil {
				return err
			}
			return &InsufficientStockError{
				ProductID: current.ID,
				Product:   current.Name,
				Requested: in.Quantity,
				Available: current.Quantity,
			}
		}

		if err := tx.Preload("Category").First(&product, product.ID).Error; err != nil {
			return err
		}
		order.Product = &product
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &order, &product, nil
}
