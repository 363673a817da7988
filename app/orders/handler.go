package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/stockroom/inventory/app/api"
	"github.com/stockroom/inventory/app/stock"
	"github.com/stockroom/inventory/models"
)

// DeletedProduct labels history rows whose product no longer exists.
const DeletedProduct = "(deleted)"

type OrderResponse struct {
	ID         uint      `json:"id"`
	Reference  string    `json:"reference"`
	ProductID  *uint     `json:"product_id"`
	Product    string    `json:"product"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

type IssueResponse struct {
	Order     OrderResponse `json:"order"`
	Remaining int           `json:"remaining"`
}

type OrderProvider interface {
	Orders(ctx context.Context) ([]models.OrderRecord, error)
	IssueStock(ctx context.Context, req stock.IssueRequest) (*stock.IssueResult, error)
}

type OrderHandler struct {
	svc OrderProvider
}

func NewOrderHandler(s OrderProvider) *OrderHandler {
	return &OrderHandler{svc: s}
}

func toResponse(o models.OrderRecord) OrderResponse {
	name := o.ProductName()
	if o.ProductID == nil || name == "" {
		name = DeletedProduct
	}
	return OrderResponse{
		ID:         o.ID,
		Reference:  o.Reference,
		ProductID:  o.ProductID,
		Product:    name,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice.InexactFloat64(),
		CreatedAt:  o.CreatedAt,
	}
}

// HandleGetAll returns the issuance history, newest first.
func (h *OrderHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Orders(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, "failed to fetch orders")
		return
	}

	response := make([]OrderResponse, len(orders))
	for i, o := range orders {
		response[i] = toResponse(o)
	}

	api.WriteJSON(w, http.StatusOK, response)
}

// HandleIssue takes stock out of the warehouse. Asking for more than is on
// hand is a 409 whose message states the available quantity.
func (h *OrderHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.ProductID == 0 {
		api.WriteError(w, http.StatusBadRequest, "Missing product_id")
		return
	}

	res, err := h.svc.IssueStock(r.Context(), stock.IssueRequest{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	})
	if err != nil {
		api.WriteDomainError(w, err, "Failed to issue stock")
		return
	}

	api.WriteJSON(w, http.StatusCreated, IssueResponse{
		Order:     toResponse(*res.Order),
		Remaining: res.Product.Quantity,
	})
}
