package dashboard

import (
	"context"
	"net/http"

	"github.com/stockroom/inventory/app/api"
	"github.com/stockroom/inventory/app/stock"
	"github.com/stockroom/inventory/models"
)

type Provider interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Products(ctx context.Context, filters models.ProductFilters) ([]models.Product, error)
	Orders(ctx context.Context) ([]models.OrderRecord, error)
	Threshold() int
}

type Alert struct {
	ProductID uint   `json:"product_id" yaml:"product_id"`
	Name      string `json:"name" yaml:"name"`
	Category  string `json:"category" yaml:"category"`
	Quantity  int    `json:"quantity" yaml:"quantity"`
}

type AlertsResponse struct {
	Threshold int     `json:"threshold" yaml:"threshold"`
	Alerts    []Alert `json:"alerts" yaml:"alerts"`
}

// Build loads the listings and returns the summary and the low-stock products.
func Build(ctx context.Context, p Provider) (Summary, []models.Product, error) {
	categories, err := p.Categories(ctx)
	if err != nil {
		return Summary{}, nil, err
	}
	products, err := p.Products(ctx, models.ProductFilters{})
	if err != nil {
		return Summary{}, nil, err
	}
	orders, err := p.Orders(ctx)
	if err != nil {
		return Summary{}, nil, err
	}

	alerts, _ := stock.PartitionLowStock(products, p.Threshold())
	return Summarize(categories, products, orders, p.Threshold()), alerts, nil
}

// ToAlerts converts low-stock products to their response form.
func ToAlerts(threshold int, products []models.Product) AlertsResponse {
	out := AlertsResponse{Threshold: threshold, Alerts: make([]Alert, len(products))}
	for i, p := range products {
		out.Alerts[i] = Alert{ProductID: p.ID, Name: p.Name, Category: p.Category.Name, Quantity: p.Quantity}
	}
	return out
}

// SummaryResponse is the HTTP form of Summary; money is a JSON number like
// every other price in the API.
type SummaryResponse struct {
	Categories int     `json:"categories"`
	Products   int     `json:"products"`
	TotalUnits int     `json:"total_units"`
	StockValue float64 `json:"stock_value"`
	LowStock   int     `json:"low_stock"`
	Threshold  int     `json:"low_stock_threshold"`
	Orders     int     `json:"orders"`
	UnitsOut   int     `json:"units_issued"`
	Revenue    float64 `json:"revenue"`
}

func toSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		Categories: s.Categories,
		Products:   s.Products,
		TotalUnits: s.TotalUnits,
		StockValue: s.StockValue.Round(2).InexactFloat64(),
		LowStock:   s.LowStock,
		Threshold:  s.Threshold,
		Orders:     s.Orders,
		UnitsOut:   s.UnitsOut,
		Revenue:    s.Revenue.Round(2).InexactFloat64(),
	}
}

type DashboardHandler struct {
	svc Provider
}

func NewDashboardHandler(s Provider) *DashboardHandler {
	return &DashboardHandler{svc: s}
}

func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, _, err := Build(r.Context(), h.svc)
	if err != nil {
		api.WriteDomainError(w, err, "failed to build dashboard")
		return
	}
	api.WriteJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (h *DashboardHandler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products(r.Context(), models.ProductFilters{})
	if err != nil {
		api.WriteDomainError(w, err, "failed to fetch products")
		return
	}
	alerts, _ := stock.PartitionLowStock(products, h.svc.Threshold())
	api.WriteJSON(w, http.StatusOK, ToAlerts(h.svc.Threshold(), alerts))
}
