package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

type ProductFilters struct {
	// Search matches products whose name contains the text, ignoring case.
	Search     string
	CategoryID uint
	// LowStockBelow keeps only products with quantity below this value when > 0.
	LowStockBelow int
}

// UpsertInput is the payload of UpsertByName.
type UpsertInput struct {
	Name       string
	Price      decimal.Decimal
	CategoryID uint
	Delta      int
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, filters ProductFilters) ([]Product, error) {
	var products []Product

	query := r.db.WithContext(ctx).Model(&Product{}).Preload("Category")

	if filters.Search != "" {
		query = query.Where(`name_key LIKE ? ESCAPE '\'`, "%"+escapeLike(NameKey(filters.Search))+"%")
	}
	if filters.CategoryID != 0 {
		query = query.Where("category_id = ?", filters.CategoryID)
	}
	if filters.LowStockBelow > 0 {
		query = query.Where("quantity < ?", filters.LowStockBelow)
	}

	if err := query.Order("name, id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetByName finds a product by case-insensitive name. When several rows share
// the name the oldest one wins.
func (r *ProductsRepository) GetByName(ctx context.Context, name string) (*Product, error) {
	return findByName(r.db.WithContext(ctx), name)
}

// UpsertByName adds Delta units to the product matching Name case-insensitively,
// overwriting its price, or creates it with Quantity = Delta. The lookup and the
// write share one transaction. The boolean result reports whether a row was created.
func (r *ProductsRepository) UpsertByName(ctx context.Context, in UpsertInput) (*Product, bool, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	var (
		result  Product
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findByName(tx, name)
		switch {
		case errors.Is(err, ErrProductNotFound):
			result = Product{
				Name:       name,
				Price:      in.Price,
				Quantity:   in.Delta,
				CategoryID: in.CategoryID,
			}
			if err := tx.Omit(clause.Associations).Create(&result).Error; err != nil {
				if IsForeignKeyViolation(err) {
					return ErrCategoryNotFound
				}
				return fmt.Errorf("failed to create product: %w", err)
			}
			created = true
		case err != nil:
			return err
		default:
			if err := tx.Model(&Product{}).
				Where("id = ?", existing.ID).
				UpdateColumns(map[string]any{
					"price":      in.Price,
					"quantity":   gorm.Expr("quantity + ?", in.Delta),
					"updated_at": tx.NowFunc(),
				}).Error; err != nil {
				return fmt.Errorf("failed to update product %d: %w", existing.ID, err)
			}
			result.ID = existing.ID
		}

		return tx.Preload("Category").First(&result, result.ID).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &result, created, nil
}

func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func findByName(db *gorm.DB, name string) (*Product, error) {
	var product Product
	if err := db.Where("name_key = ?", NameKey(name)).
		Order("id").
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
