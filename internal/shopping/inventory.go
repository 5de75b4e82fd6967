package shopping

import (
	"slices"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/shopspring/decimal"
)

// OnHand is the stocked quantity of an ingredient, zero when the inventory
// has no entry for it.
func OnHand(inventory models.Inventory, ingredientID string) decimal.Decimal {
	for _, entry := range inventory.Entries {
		if entry.IngredientID == ingredientID {
			return entry.Quantity
		}
	}
	return decimal.Zero
}

// SetIngredientQuantity creates or overwrites the entry for the ingredient.
// A zero quantity removes the entry instead of keeping a zero row.
func SetIngredientQuantity(inventory models.Inventory, catalog Catalog, ingredientID string, quantity decimal.Decimal) (models.Inventory, error) {
	if quantity.IsNegative() {
		return inventory, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if _, ok := catalog.Lookup(ingredientID); !ok {
		return inventory, &NotFoundError{Entity: "ingredient", ID: ingredientID}
	}

	entries := slices.Clone(inventory.Entries)
	index := slices.IndexFunc(entries, func(entry models.InventoryEntry) bool {
		return entry.IngredientID == ingredientID
	})
	switch {
	case quantity.IsZero() && index >= 0:
		entries = slices.Delete(entries, index, index+1)
	case quantity.IsZero():
	case index >= 0:
		entries[index].Quantity = quantity
	default:
		entries = append(entries, models.InventoryEntry{IngredientID: ingredientID, Quantity: quantity})
	}
	if entries == nil {
		entries = []models.InventoryEntry{}
	}

	inventory.Entries = entries
	return inventory, nil
}
