// Package backend implements services.Backend on top of the local SQLite
// repositories.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
)

type SQLite struct {
	ingredients repository.IngredientRepository
	recipes     repository.RecipeRepository
	inventories repository.InventoryRepository
	lists       repository.ShoppingListRepository
}

func NewSQLite(database *sql.DB) *SQLite {
	return &SQLite{
		ingredients: repository.NewIngredientRepository(database),
		recipes:     repository.NewRecipeRepository(database),
		inventories: repository.NewInventoryRepository(database),
		lists:       repository.NewShoppingListRepository(database),
	}
}

func (backend *SQLite) FetchCatalog(ctx context.Context) ([]models.Ingredient, error) {
	ingredients, err := backend.ingredients.FindAll(ctx)
	if err != nil {
		return nil, translate("fetching catalog", err, "ingredient", "")
	}
	return ingredients, nil
}

func (backend *SQLite) FetchInventory(ctx context.Context, inventoryID string) (models.Inventory, error) {
	inventory, err := backend.inventories.FindByID(ctx, inventoryID)
	if err != nil {
		return models.Inventory{}, translate("fetching inventory", err, "inventory", inventoryID)
	}
	return inventory, nil
}

func (backend *SQLite) FetchRecipe(ctx context.Context, recipeID string) (models.Recipe, error) {
	recipe, err := backend.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return models.Recipe{}, translate("fetching recipe", err, "recipe", recipeID)
	}
	return recipe, nil
}

func (backend *SQLite) FetchShoppingList(ctx context.Context, listID string) (models.ShoppingList, error) {
	list, err := backend.lists.FindByID(ctx, listID)
	if err != nil {
		return models.ShoppingList{}, translate("fetching shopping list", err, "shopping list", listID)
	}
	return list, nil
}

func (backend *SQLite) PersistShoppingList(ctx context.Context, list models.ShoppingList) (models.ShoppingList, error) {
	saved, err := backend.lists.Save(ctx, list)
	if err != nil {
		return models.ShoppingList{}, translate("persisting shopping list", err, "shopping list", list.ID)
	}
	return saved, nil
}

func (backend *SQLite) PersistShoppingListItem(ctx context.Context, listID string, change shopping.ItemChange) error {
	var err error
	switch change.Op {
	case shopping.ItemCreated:
		err = backend.lists.CreateItem(ctx, listID, change.Item)
	case shopping.ItemUpdated:
		err = backend.lists.UpdateItem(ctx, listID, change.Item)
	case shopping.ItemDeleted:
		err = backend.lists.DeleteItem(ctx, listID, change.Item.ID)
	default:
		return fmt.Errorf("unknown item change %q", change.Op)
	}
	if err != nil {
		return translate("persisting shopping list item", err, "shopping list item", change.Item.ID)
	}
	return nil
}

func (backend *SQLite) PersistInventoryEntry(ctx context.Context, inventoryID string, ingredientID string, quantity decimal.Decimal) error {
	err := backend.inventories.SetEntry(ctx, inventoryID, ingredientID, quantity)
	if errors.Is(err, repository.ErrReferenced) {
		return &shopping.NotFoundError{Entity: "ingredient", ID: ingredientID}
	}
	if err != nil {
		return translate("persisting inventory entry", err, "inventory", inventoryID)
	}
	return nil
}

// translate maps repository failures onto the domain error types. Anything
// that is neither a missing row nor a broken reference means the store
// itself failed.
func translate(op string, err error, entity, id string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return &shopping.NotFoundError{Entity: entity, ID: id}
	case errors.Is(err, repository.ErrReferenced):
		return &shopping.DataIntegrityError{Entity: entity, ID: id, Reason: "references a missing record"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return &shopping.BackendUnavailableError{Op: op, Err: err}
}
