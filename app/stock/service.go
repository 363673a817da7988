package stock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockroom/inventory/models"
	"github.com/stockroom/inventory/pkg/cache"
	"github.com/stockroom/inventory/pkg/clock"
	"github.com/stockroom/inventory/pkg/logger"
)

var (
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrInvalidDelta     = errors.New("quantity to add must be at least 1")
	ErrInvalidQuantity  = errors.New("quantity to issue must be at least 1")
	ErrCategoryRequired = errors.New("category is required")
)

// IsValidation reports whether err was caused by bad input rather than store state.
func IsValidation(err error) bool {
	return errors.Is(err, models.ErrEmptyName) ||
		errors.Is(err, ErrNegativePrice) ||
		errors.Is(err, ErrInvalidDelta) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrCategoryRequired)
}

type CategoryStore interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
}

type ProductStore interface {
	GetFilteredProducts(ctx context.Context, filters models.ProductFilters) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	UpsertByName(ctx context.Context, in models.UpsertInput) (*models.Product, bool, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type OrderStore interface {
	GetOrders(ctx context.Context) ([]models.OrderRecord, error)
	Issue(ctx context.Context, in models.IssueInput) (*models.OrderRecord, *models.Product, error)
}

// UpsertRequest adds Delta units of a product, creating it if no product
// with the same name (ignoring case) exists.
type UpsertRequest struct {
	Name       string
	Price      decimal.Decimal
	CategoryID uint
	Delta      int
}

type UpsertResult struct {
	Product *models.Product
	Created bool
}

type IssueRequest struct {
	ProductID uint
	Quantity  int
}

type IssueResult struct {
	Order   *models.OrderRecord
	Product *models.Product
}

type Options struct {
	Threshold int
	CacheTTL  time.Duration
	Clock     clock.Clock
	Logger    *slog.Logger
}

// Service runs the inventory operations and caches list reads until a write
// invalidates them or they expire.
type Service struct {
	categories CategoryStore
	products   ProductStore
	orders     OrderStore

	threshold int
	clock     clock.Clock
	logger    *slog.Logger

	categoryCache *cache.ReadThrough[[]models.Category]
	productCache  *cache.ReadThrough[[]models.Product]
	orderCache    *cache.ReadThrough[[]models.OrderRecord]
}

func NewService(categories CategoryStore, products ProductStore, orders OrderStore, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = clock.NewRealClock()
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultLowStockThreshold
	}
	return &Service{
		categories:    categories,
		products:      products,
		orders:        orders,
		threshold:     opts.Threshold,
		clock:         opts.Clock,
		logger:        logger.WithComponent(opts.Logger, "stock_service"),
		categoryCache: cache.New[[]models.Category](opts.CacheTTL, opts.Clock),
		productCache:  cache.New[[]models.Product](opts.CacheTTL, opts.Clock),
		orderCache:    cache.New[[]models.OrderRecord](opts.CacheTTL, opts.Clock),
	}
}

// Threshold is the low-stock cutoff in use.
func (s *Service) Threshold() int {
	return s.threshold
}

// Invalidate drops every cached read.
func (s *Service) Invalidate() {
	s.categoryCache.Invalidate()
	s.productCache.Invalidate()
	s.orderCache.Invalidate()
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categoryCache.Get(ctx, "all", s.categories.GetAllCategories)
}

func (s *Service) Products(ctx context.Context, filters models.ProductFilters) ([]models.Product, error) {
	key := fmt.Sprintf("%s|%d|%d", models.NameKey(filters.Search), filters.CategoryID, filters.LowStockBelow)
	return s.productCache.Get(ctx, key, func(ctx context.Context) ([]models.Product, error) {
		return s.products.GetFilteredProducts(ctx, filters)
	})
}

func (s *Service) Orders(ctx context.Context) ([]models.OrderRecord, error) {
	return s.orderCache.Get(ctx, "all", s.orders.GetOrders)
}

// Product reads a single product straight from the store.
func (s *Service) Product(ctx context.Context, id uint) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ProductByName reads a single product by case-insensitive name.
func (s *Service) ProductByName(ctx context.Context, name string) (*models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.ErrEmptyName
	}
	return s.products.GetByName(ctx, name)
}

// LowStock returns the products below the threshold.
func (s *Service) LowStock(ctx context.Context) ([]models.Product, error) {
	products, err := s.Products(ctx, models.ProductFilters{})
	if err != nil {
		return nil, err
	}
	alerts, _ := PartitionLowStock(products, s.threshold)
	return alerts, nil
}

func (s *Service) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrEmptyName
	}

	category := &models.Category{Name: name, Description: strings.TrimSpace(description)}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		s.logger.Warn("create category failed", "name", name, "error", err)
		return nil, err
	}
	s.Invalidate()

	s.logger.Info("category created", "category_id", category.ID, "name", name)
	return category, nil
}

// DeleteCategory removes a category unless products still reference it,
// in which case models.ErrCategoryInUse is returned and nothing changes.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, models.ErrCategoryInUse) {
			s.logger.Info("category delete refused, still referenced", "category_id", id)
		} else {
			s.logger.Error("delete category failed", "category_id", id, "error", err)
		}
		return err
	}
	s.Invalidate()

	s.logger.Info("category deleted", "category_id", id)
	return nil
}

func (s *Service) UpsertProduct(ctx context.Context, req UpsertRequest) (*UpsertResult, error) {
	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		return nil, models.ErrEmptyName
	case req.Price.IsNegative():
		return nil, ErrNegativePrice
	case req.Delta < 1:
		return nil, ErrInvalidDelta
	case req.CategoryID == 0:
		return nil, ErrCategoryRequired
	}

	if _, err := s.categories.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product, created, err := s.products.UpsertByName(ctx, models.UpsertInput{
		Name:       name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		Delta:      req.Delta,
	})
	if err != nil {
		s.logger.Error("upsert product failed", "name", name, "error", err)
		return nil, err
	}
	s.Invalidate()

	s.logger.Info("product upserted",
		"product_id", product.ID,
		"name", product.Name,
		"created", created,
		"added", req.Delta,
		"quantity", product.Quantity)
	return &UpsertResult{Product: product, Created: created}, nil
}

// IssueStock takes Quantity units out of stock and records the order.
// Insufficient stock yields a *models.InsufficientStockError and no changes.
func (s *Service) IssueStock(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	rec, product, err := s.orders.Issue(ctx, models.IssueInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		IssuedAt:  s.clock.Now(),
	})
	if err != nil {
		var stockErr *models.InsufficientStockError
		if errors.As(err, &stockErr) {
			s.logger.Info("issue rejected",
				"product_id", req.ProductID,
				"requested", stockErr.Requested,
				"available", stockErr.Available)
		} else {
			s.logger.Error("issue failed", "product_id", req.ProductID, "error", err)
		}
		return nil, err
	}
	s.Invalidate()

	s.logger.Info("stock issued",
		"product_id", product.ID,
		"order_ref", rec.Reference,
		"quantity", rec.Quantity,
		"total", rec.TotalPrice.StringFixed(2),
		"remaining", product.Quantity)
	return &IssueResult{Order: rec, Product: product}, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.Invalidate()

	s.logger.Info("product deleted", "product_id", id)
	return nil
}
