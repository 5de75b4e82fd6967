package shopping

import (
	"github.com/pantryhub/pantry/internal/models"
	"github.com/shopspring/decimal"
)

// Shortfall is what is still needed after counting stock, floored at zero.
func Shortfall(required, onHand decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, required.Sub(onHand))
}

// Generate builds a new, unsaved shopping list covering every ingredient of
// the recipe that the inventory does not fully stock. Covered ingredients are
// left out rather than emitted as zero-quantity lines.
func Generate(recipe models.Recipe, inventory models.Inventory, catalog Catalog) (models.ShoppingList, error) {
	list := models.ShoppingList{
		OwnerID: inventory.OwnerID,
		Items:   []models.ShoppingListItem{},
	}

	for _, required := range recipe.Ingredients {
		ingredient, err := catalog.Resolve(required.IngredientID)
		if err != nil {
			return models.ShoppingList{}, err
		}

		shortfall := Shortfall(required.Quantity, OnHand(inventory, required.IngredientID))
		if !shortfall.IsPositive() {
			continue
		}

		list.Items = append(list.Items, models.ShoppingListItem{
			ID:             newItemID(),
			IngredientID:   ingredient.ID,
			Quantity:       shortfall,
			EstimatedPrice: shortfall.Mul(ingredient.UnitPrice),
		})
	}

	list.TotalPrice = Total(list.Items)
	return list, nil
}
