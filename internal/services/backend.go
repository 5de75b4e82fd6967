package services

import (
	"context"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
)

// Backend is the persistence boundary the shopping and inventory services
// run against. Every call completes before it returns. Implementations report
// unknown ids as *shopping.NotFoundError and an unreachable store as
// *shopping.BackendUnavailableError.
type Backend interface {
	FetchCatalog(ctx context.Context) ([]models.Ingredient, error)
	FetchInventory(ctx context.Context, inventoryID string) (models.Inventory, error)
	FetchRecipe(ctx context.Context, recipeID string) (models.Recipe, error)
	FetchShoppingList(ctx context.Context, listID string) (models.ShoppingList, error)
	// PersistShoppingList creates the list when its ID is empty, otherwise
	// replaces it with its full item set.
	PersistShoppingList(ctx context.Context, list models.ShoppingList) (models.ShoppingList, error)
	PersistShoppingListItem(ctx context.Context, listID string, change shopping.ItemChange) error
	// PersistInventoryEntry stores one entry. A zero quantity deletes it.
	PersistInventoryEntry(ctx context.Context, inventoryID string, ingredientID string, quantity decimal.Decimal) error
}
