package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
)

type IngredientHandler struct {
	ingredientRepo repository.IngredientRepository
}

func NewIngredientHandler(ingredientRepo repository.IngredientRepository) *IngredientHandler {
	return &IngredientHandler{ingredientRepo: ingredientRepo}
}

type ingredientRequest struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (request ingredientRequest) validate() error {
	switch {
	case strings.TrimSpace(request.Name) == "":
		return &shopping.ValidationError{Field: "name", Reason: "is required"}
	case strings.TrimSpace(request.Unit) == "":
		return &shopping.ValidationError{Field: "unit", Reason: "is required"}
	case request.UnitPrice.IsNegative():
		return &shopping.ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}
	return nil
}

func (handler *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := handler.ingredientRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

func (handler *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	ingredient, err := handler.ingredientRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

func (handler *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request ingredientRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := request.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := handler.ingredientRepo.Create(r.Context(), models.Ingredient{
		Name:      strings.TrimSpace(request.Name),
		Unit:      strings.TrimSpace(request.Unit),
		UnitPrice: request.UnitPrice,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request ingredientRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := request.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := handler.ingredientRepo.Update(r.Context(), models.Ingredient{
		ID:        chi.URLParam(r, "id"),
		Name:      strings.TrimSpace(request.Name),
		Unit:      strings.TrimSpace(request.Unit),
		UnitPrice: request.UnitPrice,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete answers 409 while the ingredient is used by a recipe, an inventory
// or a shopping list.
func (handler *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.ingredientRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
