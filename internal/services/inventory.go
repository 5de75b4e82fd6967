package services

import (
	"context"
	"fmt"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type InventoryService struct {
	backend Backend
}

func NewInventoryService(backend Backend) *InventoryService {
	return &InventoryService{backend: backend}
}

// SetIngredientQuantity sets how much of an ingredient the user's inventory
// holds. Zero removes the entry.
func (service *InventoryService) SetIngredientQuantity(ctx context.Context, userID, inventoryID, ingredientID string, quantity decimal.Decimal) (models.Inventory, error) {
	var (
		inventory   models.Inventory
		ingredients []models.Ingredient
	)

	group, groupCtx := errgroup.WithContext(ctx)
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
		return models.Inventory{}, err
	}

	if inventory.OwnerID != userID {
		return models.Inventory{}, ErrForbidden
	}

	updated, err := shopping.SetIngredientQuantity(inventory, shopping.NewCatalog(ingredients), ingredientID, quantity)
	if err != nil {
		return models.Inventory{}, err
	}

	if err := service.backend.PersistInventoryEntry(ctx, inventory.ID, ingredientID, quantity); err != nil {
		return models.Inventory{}, fmt.Errorf("persisting inventory entry: %w", err)
	}
	return updated, nil
}
