package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pantryhub/pantry/internal/middleware"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/services"
	"github.com/pantryhub/pantry/internal/shopping"
)

type RecipeHandler struct {
	recipeRepo repository.RecipeRepository
}

func NewRecipeHandler(recipeRepo repository.RecipeRepository) *RecipeHandler {
	return &RecipeHandler{recipeRepo: recipeRepo}
}

type recipeRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	PrepMinutes int                       `json:"prep_minutes"`
	CookMinutes int                       `json:"cook_minutes"`
	Public      bool                      `json:"public"`
	Ingredients []models.RecipeIngredient `json:"ingredients"`
}

func (request recipeRequest) validate() error {
	if strings.TrimSpace(request.Name) == "" {
		return &shopping.ValidationError{Field: "name", Reason: "is required"}
	}
	if request.PrepMinutes < 0 || request.CookMinutes < 0 {
		return &shopping.ValidationError{Field: "minutes", Reason: "must not be negative"}
	}

	seen := make(map[string]bool, len(request.Ingredients))
	for i, ingredient := range request.Ingredients {
		field := fmt.Sprintf("ingredients[%d]", i)
		if ingredient.IngredientID == "" {
			return &shopping.ValidationError{Field: field, Reason: "ingredient_id is required"}
		}
		if !ingredient.Quantity.IsPositive() {
			return &shopping.ValidationError{Field: field, Reason: "quantity must be positive"}
		}
		if seen[ingredient.IngredientID] {
			return &shopping.ValidationError{Field: field, Reason: "ingredient listed twice"}
		}
		seen[ingredient.IngredientID] = true
	}
	return nil
}

func (request recipeRequest) recipe() models.Recipe {
	return models.Recipe{
		Name:        strings.TrimSpace(request.Name),
		Description: request.Description,
		PrepMinutes: request.PrepMinutes,
		CookMinutes: request.CookMinutes,
		Public:      request.Public,
		Ingredients: request.Ingredients,
	}
}

// unknownIngredient turns a foreign key failure on a body's ingredient ids
// into a validation error.
func unknownIngredient(err error) error {
	if errors.Is(err, repository.ErrReferenced) {
		return &shopping.ValidationError{Field: "ingredients", Reason: "references an unknown ingredient"}
	}
	return err
}

func (handler *RecipeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	recipes, err := handler.recipeRepo.FindByAuthor(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (handler *RecipeHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	recipes, err := handler.recipeRepo.FindPublic(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (handler *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	recipe, err := handler.recipeRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !recipe.VisibleTo(user.ID) {
		writeError(w, r, services.ErrForbidden)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (handler *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request recipeRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := request.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	recipe := request.recipe()
	recipe.AuthorID = middleware.GetUser(r.Context()).ID

	created, err := handler.recipeRepo.Create(r.Context(), recipe)
	if err != nil {
		writeError(w, r, unknownIngredient(err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request recipeRequest
	if err := decodeJSON(r, &request, false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := request.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	existing, ok := handler.authored(w, r)
	if !ok {
		return
	}

	recipe := request.recipe()
	recipe.ID = existing.ID
	recipe.AuthorID = existing.AuthorID

	updated, err := handler.recipeRepo.Update(r.Context(), recipe)
	if err != nil {
		writeError(w, r, unknownIngredient(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (handler *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing, ok := handler.authored(w, r)
	if !ok {
		return
	}
	if err := handler.recipeRepo.Delete(r.Context(), existing.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authored loads the recipe named in the URL and writes the error response
// unless the current user is its author.
func (handler *RecipeHandler) authored(w http.ResponseWriter, r *http.Request) (models.Recipe, bool) {
	user := middleware.GetUser(r.Context())
	recipe, err := handler.recipeRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return models.Recipe{}, false
	}
	if recipe.AuthorID != user.ID {
		writeError(w, r, services.ErrForbidden)
		return models.Recipe{}, false
	}
	return recipe, true
}
