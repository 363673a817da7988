package cli

import (
	"time"

	"github.com/stockroom/inventory/app/dashboard"
	"github.com/stockroom/inventory/app/orders"
	"github.com/stockroom/inventory/models"
)

// NoCategory is shown for a product whose category could not be loaded.
const NoCategory = "(none)"

type CategoryView struct {
	ID          uint   `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type ProductView struct {
	ID       uint   `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Price    string `json:"price" yaml:"price"`
	Quantity int    `json:"quantity" yaml:"quantity"`
	LowStock bool   `json:"low_stock" yaml:"low_stock"`
}

type OrderView struct {
	Reference  string    `json:"reference" yaml:"reference"`
	Product    string    `json:"product" yaml:"product"`
	Quantity   int       `json:"quantity" yaml:"quantity"`
	TotalPrice string    `json:"total_price" yaml:"total_price"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

func toCategoryView(c models.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toProductView(p models.Product, threshold int) ProductView {
	category := p.Category.Name
	if category == "" {
		category = NoCategory
	}
	return ProductView{
		ID:       p.ID,
		Name:     p.Name,
		Category: category,
		Price:    p.Price.StringFixed(2),
		Quantity: p.Quantity,
		LowStock: p.Quantity < threshold,
	}
}

func toOrderView(o models.OrderRecord) OrderView {
	name := o.ProductName()
	if name == "" {
		name = orders.DeletedProduct
	}
	return OrderView{
		Reference:  o.Reference,
		Product:    name,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice.StringFixed(2),
		CreatedAt:  o.CreatedAt,
	}
}

type SummaryView struct {
	Categories int    `json:"categories" yaml:"categories"`
	Products   int    `json:"products" yaml:"products"`
	TotalUnits int    `json:"total_units" yaml:"total_units"`
	StockValue string `json:"stock_value" yaml:"stock_value"`
	LowStock   int    `json:"low_stock" yaml:"low_stock"`
	Threshold  int    `json:"low_stock_threshold" yaml:"low_stock_threshold"`
	Orders     int    `json:"orders" yaml:"orders"`
	UnitsOut   int    `json:"units_issued" yaml:"units_issued"`
	Revenue    string `json:"revenue" yaml:"revenue"`
}

func toSummaryView(s dashboard.Summary) SummaryView {
	return SummaryView{
		Categories: s.Categories,
		Products:   s.Products,
		TotalUnits: s.TotalUnits,
		StockValue: s.StockValue.StringFixed(2),
		LowStock:   s.LowStock,
		Threshold:  s.Threshold,
		Orders:     s.Orders,
		UnitsOut:   s.UnitsOut,
		Revenue:    s.Revenue.StringFixed(2),
	}
}
