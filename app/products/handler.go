package products

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/stockroom/inventory/app/api"
	"github.com/stockroom/inventory/app/stock"
	"github.com/stockroom/inventory/models"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
	LowStock bool     `json:"low_stock"`
	Category Category `json:"category"`
}

type UpsertResponse struct {
	Created bool    `json:"created"`
	Product Product `json:"product"`
}

type ProductProvider interface {
	Products(ctx context.Context, filters models.ProductFilters) ([]models.Product, error)
	Product(ctx context.Context, id uint) (*models.Product, error)
	UpsertProduct(ctx context.Context, req stock.UpsertRequest) (*stock.UpsertResult, error)
	DeleteProduct(ctx context.Context, id uint) error
	Threshold() int
}

type ProductHandler struct {
	svc ProductProvider
}

func NewProductHandler(s ProductProvider) *ProductHandler {
	return &ProductHandler{
		svc: s,
	}
}

func (h *ProductHandler) toProduct(p models.Product) Product {
	return Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.InexactFloat64(),
		Quantity: p.Quantity,
		LowStock: p.Quantity < h.svc.Threshold(),
		Category: Category{
			ID:   p.Category.ID,
			Name: p.Category.Name,
		},
	}
}

// HandleGet lists products. Query params: search, category (id), low_stock=true.
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.ProductFilters{
		Search: q.Get("search"),
	}

	if cStr := q.Get("category"); cStr != "" {
		c, err := strconv.ParseUint(cStr, 10, 64)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "Invalid category filter")
			return
		}
		filters.CategoryID = uint(c)
	}

	if low, err := strconv.ParseBool(q.Get("low_stock")); err == nil && low {
		filters.LowStockBelow = h.svc.Threshold()
	}

	res, err := h.svc.Products(r.Context(), filters)
	if err != nil {
		api.WriteDomainError(w, err, "failed to fetch products")
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = h.toProduct(p)
	}

	api.WriteJSON(w, http.StatusOK, Response{
		Total:    len(products),
		Products: products,
	})
}

func (h *ProductHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := api.IDParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := h.svc.Product(r.Context(), id)
	if err != nil {
		api.WriteDomainError(w, err, "failed to fetch product")
		return
	}

	api.WriteJSON(w, http.StatusOK, h.toProduct(*product))
}

// HandleUpsert adds stock to the product with the given name (ignoring case),
// overwriting its price, or creates it. 201 when created, 200 when topped up.
func (h *ProductHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name       string          `json:"name"`
		Price      decimal.Decimal `json:"price"`
		CategoryID uint            `json:"category_id"`
		Quantity   int             `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := h.svc.UpsertProduct(r.Context(), stock.UpsertRequest{
		Name:       input.Name,
		Price:      input.Price,
		CategoryID: input.CategoryID,
		Delta:      input.Quantity,
	})
	if err != nil {
		api.WriteDomainError(w, err, "Failed to save product")
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	api.WriteJSON(w, status, UpsertResponse{
		Created: res.Created,
		Product: h.toProduct(*res.Product),
	})
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.IDParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		api.WriteDomainError(w, err, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
