package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pantryhub/pantry/internal/middleware"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/services"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	inventoryRepo    repository.InventoryRepository
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryRepo repository.InventoryRepository, inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryRepo: inventoryRepo, inventoryService: inventoryService}
}

type inventoryRequest struct {
	Name    string                  `json:"name"`
	Entries []models.InventoryEntry `json:"entries"`
}

func (request inventoryRequest) validate() error {
	if strings.TrimSpace(request.Name) == "" {
		return &shopping.ValidationError{Field: "name", Reason: "is required"}
	}
	seen := make(map[string]bool, len(request.Entries))
	for i, entry := range request.Entries {
		field := fmt.Sprintf("entries[%d]", i)
		if entry.IngredientID == "" {
			return &shopping.ValidationError{Field: field, Reason: "ingredient_id is required"}
		}
		if entry.Quantity.IsNegative() {
			return &shopping.ValidationError{Field: field, Reason: "quantity must not be negative"}
		}
		if seen[entry.IngredientID] {
			return &shopping.ValidationError{Field: field, Reason: "ingredient listed twice"}
		}
		seen[entry.IngredientID] = true
	}
	return nil
}

type quantityRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
}

func (handler *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	inventories, err := handler.inventoryRepo.FindByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inventories)
}

func (handler *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	inventory, ok := handler.owned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inventory)
}

func (handler *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request inventoryRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := request.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := handler.inventoryRepo.Create(r.Context(), models.Inventory{
		Name:    strings.TrimSpace(request.Name),
		OwnerID: middleware.GetUser(r.Context()).ID,
		Entries: request.Entries,
	})
	if err != nil {
		writeError(w, r, unknownIngredient(err))
		return
	}

	// Zero entries are skipped on insert, so report what was stored.
	stored, err := handler.inventoryRepo.FindByID(r.Context(), created.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (handler *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request inventoryRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := request.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	existing, ok := handler.owned(w, r)
	if !ok {
		return
	}
	existing.Name = strings.TrimSpace(request.Name)
	// An omitted entries field keeps the stored stock; [] clears it.
	if request.Entries != nil {
		existing.Entries = request.Entries
	}

	updated, err := handler.inventoryRepo.Update(r.Context(), existing)
	if err != nil {
		writeError(w, r, unknownIngredient(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (handler *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := handler.owned(w, r)
	if !ok {
		return
	}
	if err := handler.inventoryRepo.Delete(r.Context(), existing.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetIngredientQuantity stocks one ingredient. A zero quantity removes it.
func (handler *InventoryHandler) SetIngredientQuantity(w http.ResponseWriter, r *http.Request) {
	var request quantityRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}
	if request.Quantity == nil {
		writeError(w, r, &shopping.ValidationError{Field: "quantity", Reason: "is required"})
		return
	}

	user := middleware.GetUser(r.Context())
	inventory, err := handler.inventoryService.SetIngredientQuantity(r.Context(), user.ID,
		chi.URLParam(r, "id"), chi.URLParam(r, "ingredientID"), *request.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inventory)
}

func (handler *InventoryHandler) owned(w http.ResponseWriter, r *http.Request) (models.Inventory, bool) {
	user := middleware.GetUser(r.Context())
	inventory, err := handler.inventoryRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return models.Inventory{}, false
	}
	if inventory.OwnerID != user.ID {
		writeError(w, r, services.ErrForbidden)
		return models.Inventory{}, false
	}
	return inventory, true
}
