package services_test

import (
	"context"
	"errors"
	"sync"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
)

var errConnectionRefused = errors.New("connection refused")

// fakeBackend stores everything in memory and can be told to fail writes.
type fakeBackend struct {
	mu          sync.Mutex
	ingredients []models.Ingredient
	recipes     map[string]models.Recipe
	inventories map[string]models.Inventory
	lists       map[string]models.ShoppingList
	failWrites  bool
	failReads   bool
	itemWrites  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		ingredients: []models.Ingredient{
			{ID: "flour", Name: "Farine", Unit: "g", UnitPrice: decimal.RequireFromString("0.002")},
			{ID: "sugar", Name: "Sucre", Unit: "g", UnitPrice: decimal.RequireFromString("0.005")},
		},
		recipes:     map[string]models.Recipe{},
		inventories: map[string]models.Inventory{},
		lists:       map[string]models.ShoppingList{},
	}
}

func (backend *fakeBackend) unavailable(op string) error {
	return &shopping.BackendUnavailableError{Op: op, Err: errConnectionRefused}
}

func (backend *fakeBackend) FetchCatalog(ctx context.Context) ([]models.Ingredient, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.failReads {
		return nil, backend.unavailable("fetching catalog")
	}
	return backend.ingredients, nil
}

func (backend *fakeBackend) FetchInventory(ctx context.Context, inventoryID string) (models.Inventory, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	inventory, ok := backend.inventories[inventoryID]
	if !ok {
		return models.Inventory{}, &shopping.NotFoundError{Entity: "inventory", ID: inventoryID}
	}
	return inventory, nil
}

func (backend *fakeBackend) FetchRecipe(ctx context.Context, recipeID string) (models.Recipe, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	recipe, ok := backend.recipes[recipeID]
	if !ok {
		return models.Recipe{}, &shopping.NotFoundError{Entity: "recipe", ID: recipeID}
	}
	return recipe, nil
}

func (backend *fakeBackend) FetchShoppingList(ctx context.Context, listID string) (models.ShoppingList, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	list, ok := backend.lists[listID]
	if !ok {
		return models.ShoppingList{}, &shopping.NotFoundError{Entity: "shopping list", ID: listID}
	}
	return list, nil
}

func (backend *fakeBackend) PersistShoppingList(ctx context.Context, list models.ShoppingList) (models.ShoppingList, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.failWrites {
		return models.ShoppingList{}, backend.unavailable("persisting shopping list")
	}
	if list.ID == "" {
		list.ID = "list-" + string(rune('a'+len(backend.lists)))
	}
	backend.lists[list.ID] = list
	return list, nil
}

func (backend *fakeBackend) PersistShoppingListItem(ctx context.Context, listID string, change shopping.ItemChange) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.failWrites {
		return backend.unavailable("persisting shopping list item")
	}
	backend.itemWrites++

	list := backend.lists[listID]
	items := make([]models.ShoppingListItem, 0, len(list.Items)+1)
	for _, item := range list.Items {
		if item.ID != change.Item.ID {
			items = append(items, item)
		}
	}
	if change.Op != shopping.ItemDeleted {
		items = append(items, change.Item)
	}
	list.Items = items
	backend.lists[listID] = list
	return nil
}

func (backend *fakeBackend) PersistInventoryEntry(ctx context.Context, inventoryID string, ingredientID string, quantity decimal.Decimal) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.failWrites {
		return backend.unavailable("persisting inventory entry")
	}
	inventory := backend.inventories[inventoryID]
	entries := []models.InventoryEntry{}
	for _, entry := range inventory.Entries {
		if entry.IngredientID != ingredientID {
			entries = append(entries, entry)
		}
	}
	if !quantity.IsZero() {
		entries = append(entries, models.InventoryEntry{IngredientID: ingredientID, Quantity: quantity})
	}
	inventory.Entries = entries
	backend.inventories[inventoryID] = inventory
	return nil
}
