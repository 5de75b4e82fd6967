package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pantryhub/pantry/internal/middleware"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/services"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
)

type ShoppingHandler struct {
	listRepo        repository.ShoppingListRepository
	ingredientRepo  repository.IngredientRepository
	shoppingService *services.ShoppingService
}

func NewShoppingHandler(
	listRepo repository.ShoppingListRepository,
	ingredientRepo repository.IngredientRepository,
	shoppingService *services.ShoppingService,
) *ShoppingHandler {
	return &ShoppingHandler{listRepo: listRepo, ingredientRepo: ingredientRepo, shoppingService: shoppingService}
}

// listRequest carries a whole list. Omitting items keeps the stored ones.
type listRequest struct {
	Name  string                    `json:"name"`
	Items []models.ShoppingListItem `json:"items"`
}

type itemRequest struct {
	IngredientID string           `json:"ingredient_id"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Purchased    *bool            `json:"purchased"`
}

type generateRequest struct {
	Name string `json:"name"`
}

func (handler *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	lists, err := handler.listRepo.FindByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ingredients, err := handler.ingredientRepo.FindAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	catalog := shopping.NewCatalog(ingredients)
	for i, list := range lists {
		if lists[i], err = shopping.Reprice(list, catalog); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (handler *ShoppingHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	list, err := handler.shoppingService.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (handler *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request listRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}

	user := middleware.GetUser(r.Context())
	list, err := handler.shoppingService.Create(r.Context(), user.ID, request.Name, request.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (handler *ShoppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request listRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}

	user := middleware.GetUser(r.Context())
	list, err := handler.shoppingService.Replace(r.Context(), user.ID, chi.URLParam(r, "id"), request.Name, request.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (handler *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	list, err := handler.shoppingService.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := handler.listRepo.Delete(r.Context(), list.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *ShoppingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var request itemRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}
	if request.Quantity == nil {
		writeError(w, r, &shopping.ValidationError{Field: "quantity", Reason: "is required"})
		return
	}

	user := middleware.GetUser(r.Context())
	list, err := handler.shoppingService.AddItem(r.Context(), user.ID, chi.URLParam(r, "id"), request.IngredientID, *request.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// UpdateItem changes the quantity, the purchased flag, or both in a single
// write.
func (handler *ShoppingHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var request itemRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}

	user := middleware.GetUser(r.Context())
	list, err := handler.shoppingService.UpdateItem(r.Context(), user.ID,
		chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), request.Quantity, request.Purchased)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (handler *ShoppingHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	list, err := handler.shoppingService.RemoveItem(r.Context(), user.ID, chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Generate stores a list covering what the inventory lacks for the recipe.
func (handler *ShoppingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var request generateRequest
	if err := decodeJSON(r, &request, true); err != nil {
		writeError(w, r, err)
		return
	}

	user := middleware.GetUser(r.Context())
	list, err := handler.shoppingService.Generate(r.Context(), user.ID,
		chi.URLParam(r, "recipeID"), chi.URLParam(r, "inventoryID"), request.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}
