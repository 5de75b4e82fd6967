package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ShoppingService runs list generation and line mutations against a Backend.
// Each operation reads what it needs, applies a pure shopping function and
// persists only what changed, so a failure at any step leaves stored state
// as it was.
type ShoppingService struct {
	backend Backend
}

func NewShoppingService(backend Backend) *ShoppingService {
	return &ShoppingService{backend: backend}
}

// Generate builds a list from the recipe's shortfall against the inventory
// and stores it. The name defaults to the recipe name.
func (service *ShoppingService) Generate(ctx context.Context, userID, recipeID, inventoryID, name string) (models.ShoppingList, error) {
	var (
		recipe      models.Recipe
		inventory   models.Inventory
		ingredients []models.Ingredient
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		recipe, err = service.backend.FetchRecipe(groupCtx, recipeID)
		if err != nil {
			return fmt.Errorf("fetching recipe: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		inventory, err = service.backend.FetchInventory(groupCtx, inventoryID)
		if err != nil {
			return fmt.Errorf("fetching inventory: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		ingredients, err = service.backend.FetchCatalog(groupCtx)
		if err != nil {
			return fmt.Errorf("fetching catalog: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return models.ShoppingList{}, err
	}

	if !recipe.VisibleTo(userID) || inventory.OwnerID != userID {
		return models.ShoppingList{}, ErrForbidden
	}

	catalog := shopping.NewCatalog(ingredients)
	list, err := shopping.Generate(recipe, inventory, catalog)
	if err != nil {
		return models.ShoppingList{}, err
	}
	list.Name = strings.TrimSpace(name)
	if list.Name == "" {
		list.Name = recipe.Name
	}

	saved, err := service.backend.PersistShoppingList(ctx, list)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("persisting shopping list: %w", err)
	}
	return shopping.Reprice(saved, catalog)
}

// Create stores a new list owned by the user, priced from lines. Lines may
// be empty.
func (service *ShoppingService) Create(ctx context.Context, userID, name string, lines []models.ShoppingListItem) (models.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ShoppingList{}, &shopping.ValidationError{Field: "name", Reason: "is required"}
	}

	ingredients, err := service.backend.FetchCatalog(ctx)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("fetching catalog: %w", err)
	}
	catalog := shopping.NewCatalog(ingredients)

	list, err := shopping.Build(models.ShoppingList{Name: name, OwnerID: userID}, catalog, lines)
	if err != nil {
		return models.ShoppingList{}, err
	}

	saved, err := service.backend.PersistShoppingList(ctx, list)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("persisting shopping list: %w", err)
	}
	return shopping.Reprice(saved, catalog)
}

// Replace renames the list and, when lines is not nil, replaces its items.
func (service *ShoppingService) Replace(ctx context.Context, userID, listID, name string, lines []models.ShoppingListItem) (models.ShoppingList, error) {
	list, catalog, err := service.load(ctx, userID, listID)
	if err != nil {
		return models.ShoppingList{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		list.Name = name
	}
	if lines != nil {
		if list, err = shopping.Build(list, catalog, lines); err != nil {
			return models.ShoppingList{}, err
		}
	}

	saved, err := service.backend.PersistShoppingList(ctx, list)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("persisting shopping list: %w", err)
	}
	return shopping.Reprice(saved, catalog)
}

// Get returns the user's list priced at current catalog prices.
func (service *ShoppingService) Get(ctx context.Context, userID, listID string) (models.ShoppingList, error) {
	list, _, err := service.load(ctx, userID, listID)
	return list, err
}

func (service *ShoppingService) AddItem(ctx context.Context, userID, listID, ingredientID string, quantity decimal.Decimal) (models.ShoppingList, error) {
	return service.mutate(ctx, userID, listID, func(list models.ShoppingList, catalog shopping.Catalog) (models.ShoppingList, shopping.ItemChange, error) {
		return shopping.AddItem(list, catalog, ingredientID, quantity)
	})
}

func (service *ShoppingService) UpdateItemQuantity(ctx context.Context, userID, listID, itemID string, quantity decimal.Decimal) (models.ShoppingList, error) {
	return service.mutate(ctx, userID, listID, func(list models.ShoppingList, catalog shopping.Catalog) (models.ShoppingList, shopping.ItemChange, error) {
		return shopping.UpdateItemQuantity(list, catalog, itemID, quantity)
	})
}

func (service *ShoppingService) ToggleItemPurchased(ctx context.Context, userID, listID, itemID string, purchased bool) (models.ShoppingList, error) {
	return service.mutate(ctx, userID, listID, func(list models.ShoppingList, _ shopping.Catalog) (models.ShoppingList, shopping.ItemChange, error) {
		return shopping.ToggleItemPurchased(list, itemID, purchased)
	})
}

// UpdateItem sets the quantity and/or purchased flag of a line in one write.
func (service *ShoppingService) UpdateItem(ctx context.Context, userID, listID, itemID string, quantity *decimal.Decimal, purchased *bool) (models.ShoppingList, error) {
	return service.mutate(ctx, userID, listID, func(list models.ShoppingList, catalog shopping.Catalog) (models.ShoppingList, shopping.ItemChange, error) {
		return shopping.UpdateItem(list, catalog, itemID, quantity, purchased)
	})
}

func (service *ShoppingService) RemoveItem(ctx context.Context, userID, listID, itemID string) (models.ShoppingList, error) {
	return service.mutate(ctx, userID, listID, func(list models.ShoppingList, _ shopping.Catalog) (models.ShoppingList, shopping.ItemChange, error) {
		return shopping.RemoveItem(list, itemID)
	})
}

type listMutation func(models.ShoppingList, shopping.Catalog) (models.ShoppingList, shopping.ItemChange, error)

func (service *ShoppingService) mutate(ctx context.Context, userID, listID string, apply listMutation) (models.ShoppingList, error) {
	list, catalog, err := service.load(ctx, userID, listID)
	if err != nil {
		return models.ShoppingList{}, err
	}

	updated, change, err := apply(list, catalog)
	if err != nil {
		return models.ShoppingList{}, err
	}

	if err := service.backend.PersistShoppingListItem(ctx, list.ID, change); err != nil {
		return models.ShoppingList{}, fmt.Errorf("persisting shopping list item: %w", err)
	}
	return updated, nil
}

// load fetches the list and the catalog together, checks ownership and
// re-prices the list so its total reflects current prices.
func (service *ShoppingService) load(ctx context.Context, userID, listID string) (models.ShoppingList, shopping.Catalog, error) {
	var (
		list        models.ShoppingList
		ingredients []models.Ingredient
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		list, err = service.backend.FetchShoppingList(groupCtx, listID)
		if err != nil {
			return fmt.Errorf("fetching shopping list: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		ingredients, err = service.backend.FetchCatalog(groupCtx)
		if err != nil {
			return fmt.Errorf("fetching catalog: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return models.ShoppingList{}, nil, err
	}

	if list.OwnerID != userID {
		return models.ShoppingList{}, nil, ErrForbidden
	}

	catalog := shopping.NewCatalog(ingredients)
	priced, err := shopping.Reprice(list, catalog)
	if err != nil {
		return models.ShoppingList{}, nil, err
	}
	return priced, catalog, nil
}
