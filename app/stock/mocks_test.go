package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/inventory/models"
)

// --- In-memory stores ---

type MockCategoryStore struct {
	Categories []models.Category
	DeleteErr  error
	ListCalls  int
	nextID     uint
}

func (m *MockCategoryStore) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	m.ListCalls++
	out := make([]models.Category, len(m.Categories))
	copy(out, m.Categories)
	return out, nil
}

func (m *MockCategoryStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	for _, c := range m.Categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryStore) CreateCategory(ctx context.Context, category *models.Category) error {
	for _, c := range m.Categories {
		if c.Name == category.Name {
			return models.ErrCategoryExists
		}
	}
	m.nextID++
	category.ID = m.nextID
	m.Categories = append(m.Categories, *category)
	return nil
}

func (m *MockCategoryStore) DeleteCategory(ctx context.Context, id uint) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i, c := range m.Categories {
		if c.ID == id {
			m.Categories = append(m.Categories[:i], m.Categories[i+1:]...)
			return nil
		}
	}
	return models.ErrCategoryNotFound
}

type MockProductStore struct {
	Products  []models.Product
	ListCalls int
	LastInput *models.UpsertInput
	nextID    uint
}

func (m *MockProductStore) GetFilteredProducts(ctx context.Context, filters models.ProductFilters) ([]models.Product, error) {
	m.ListCalls++
	out := make([]models.Product, len(m.Products))
	copy(out, m.Products)
	return out, nil
}

func (m *MockProductStore) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	for i := range m.Products {
		if m.Products[i].ID == id {
			p := m.Products[i]
			return &p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *MockProductStore) GetByName(ctx context.Context, name string) (*models.Product, error) {
	for i := range m.Products {
		if models.NameKey(m.Products[i].Name) == models.NameKey(name) {
			p := m.Products[i]
			return &p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *MockProductStore) UpsertByName(ctx context.Context, in models.UpsertInput) (*models.Product, bool, error) {
	m.LastInput = &in
	for i := range m.Products {
		if models.NameKey(m.Products[i].Name) == models.NameKey(in.Name) {
			m.Products[i].Price = in.Price
			m.Products[i].Quantity += in.Delta
			p := m.Products[i]
			return &p, false, nil
		}
	}
	m.nextID++
	p := models.Product{ID: m.nextID, Name: in.Name, Price: in.Price, Quantity: in.Delta, CategoryID: in.CategoryID}
	m.Products = append(m.Products, p)
	return &p, true, nil
}

func (m *MockProductStore) DeleteProduct(ctx context.Context, id uint) error {
	for i := range m.Products {
		if m.Products[i].ID == id {
			m.Products = append(m.Products[:i], m.Products[i+1:]...)
			return nil
		}
	}
	return models.ErrProductNotFound
}

// MockOrderStore issues against the products of a MockProductStore.
type MockOrderStore struct {
	Products *MockProductStore
	Orders   []models.OrderRecord
	IssueErr error
	nextID   uint
}

func (m *MockOrderStore) GetOrders(ctx context.Context) ([]models.OrderRecord, error) {
	out := make([]models.OrderRecord, len(m.Orders))
	copy(out, m.Orders)
	return out, nil
}

func (m *MockOrderStore) Issue(ctx context.Context, in models.IssueInput) (*models.OrderRecord, *models.Product, error) {
	if m.IssueErr != nil {
		return nil, nil, m.IssueErr
	}
	for i := range m.Products.Products {
		p := &m.Products.Products[i]
		if p.ID != in.ProductID {
			continue
		}
		if in.Quantity > p.Quantity {
			return nil, nil, &models.InsufficientStockError{
				ProductID: p.ID, Product: p.Name, Requested: in.Quantity, Available: p.Quantity,
			}
		}
		m.nextID++
		id := p.ID
		rec := models.OrderRecord{
			ID:         m.nextID,
			Reference:  uuid.NewString(),
			ProductID:  &id,
			Quantity:   in.Quantity,
			TotalPrice: p.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
			CreatedAt:  in.IssuedAt,
		}
		p.Quantity -= in.Quantity
		m.Orders = append(m.Orders, rec)
		prod := *p
		return &rec, &prod, nil
	}
	return nil, nil, models.ErrProductNotFound
}

var errStoreDown = errors.New("store unavailable")
