package categories

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stockroom/inventory/app/api"
	"github.com/stockroom/inventory/models"
)

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryProvider interface {
	Categories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, description string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	svc CategoryProvider
}

func NewCategoryHandler(s CategoryProvider) *CategoryHandler {
	return &CategoryHandler{svc: s}
}

func toResponse(c models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(c)
	}

	api.WriteJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), input.Name, input.Description)
	if err != nil {
		api.WriteDomainError(w, err, "Failed to create category")
		return
	}

	api.WriteJSON(w, http.StatusCreated, toResponse(*category))
}

// HandleDelete refuses to delete a category that products still use.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.IDParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		api.WriteDomainError(w, err, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
