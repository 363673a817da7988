package stock

import "github.com/stockroom/inventory/models"

// DefaultLowStockThreshold flags products with fewer units than this.
const DefaultLowStockThreshold = 10

// PartitionLowStock splits products into those with quantity strictly below
// threshold (alerts) and the rest, preserving input order.
func PartitionLowStock(products []models.Product, threshold int) (alerts, ok []models.Product) {
	alerts = []models.Product{}
	ok = []models.Product{}
	for _, p := range products {
		if p.Quantity < threshold {
			alerts = append(alerts, p)
		} else {
			ok = append(ok, p)
		}
	}
	return alerts, ok
}
