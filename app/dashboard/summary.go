// Package dashboard derives the headline inventory metrics.
package dashboard

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/stockroom/inventory/app/stock"
	"github.com/stockroom/inventory/models"
)

// Summary holds the headline metrics. Transports map it to their own money encoding.
type Summary struct {
	Categories int
	Products   int
	TotalUnits int
	StockValue decimal.Decimal
	LowStock   int
	Threshold  int
	Orders     int
	UnitsOut   int
	Revenue    decimal.Decimal
}

// Summarize computes the dashboard metrics from full listings.
func Summarize(categories []models.Category, products []models.Product, orders []models.OrderRecord, threshold int) Summary {
	s := Summary{
		Categories: len(categories),
		Products:   len(products),
		Orders:     len(orders),
		Threshold:  threshold,
		StockValue: decimal.Zero,
		Revenue:    decimal.Zero,
	}

	for _, p := range products {
		s.TotalUnits += p.Quantity
		s.StockValue = s.StockValue.Add(p.StockValue())
	}
	alerts, _ := stock.PartitionLowStock(products, threshold)
	s.LowStock = len(alerts)

	for _, o := range orders {
		s.UnitsOut += o.Quantity
		s.Revenue = s.Revenue.Add(o.TotalPrice)
	}

	return s
}

// Render writes the plain-text dashboard followed by the low-stock list.
func Render(w io.Writer, s Summary, alerts []models.Product) error {
	rows := []struct {
		label string
		value string
	}{
		{"Categories", fmt.Sprint(s.Categories)},
		{"Products", fmt.Sprint(s.Products)},
		{"Units in stock", fmt.Sprint(s.TotalUnits)},
		{"Stock value", s.StockValue.StringFixed(2)},
		{"Orders", fmt.Sprint(s.Orders)},
		{"Units issued", fmt.Sprint(s.UnitsOut)},
		{"Revenue", s.Revenue.StringFixed(2)},
		{fmt.Sprintf("Low stock (<%d)", s.Threshold), fmt.Sprint(s.LowStock)},
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-18s %12s\n", r.label, r.value); err != nil {
			return err
		}
	}

	if len(alerts) == 0 {
		_, err := fmt.Fprintln(w, "\nAll products are sufficiently stocked.")
		return err
	}

	if _, err := fmt.Fprintln(w, "\nLOW STOCK"); err != nil {
		return err
	}
	for _, p := range alerts {
		if _, err := fmt.Fprintf(w, "  %-24s %6d\n", p.Name, p.Quantity); err != nil {
			return err
		}
	}
	return nil
}
