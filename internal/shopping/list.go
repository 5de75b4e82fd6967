package shopping

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/shopspring/decimal"
)

// ItemOp names the kind of change applied to a single shopping list line.
type ItemOp string

const (
	ItemCreated ItemOp = "create"
	ItemUpdated ItemOp = "update"
	ItemDeleted ItemOp = "delete"
)

// ItemChange is the one line a mutation touched, for persisting it alone.
type ItemChange struct {
	Op   ItemOp
	Item models.ShoppingListItem
}

// newItemID returns a time-ordered id so that sorting items by id keeps them
// in creation order.
func newItemID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Total sums the estimated prices of the items.
func Total(items []models.ShoppingListItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.EstimatedPrice)
	}
	return total
}

func withItems(list models.ShoppingList, items []models.ShoppingListItem) models.ShoppingList {
	slices.SortFunc(items, func(a, b models.ShoppingListItem) int {
		return strings.Compare(a.ID, b.ID)
	})
	list.Items = items
	list.TotalPrice = Total(items)
	return list
}

func requirePositive(field string, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return &ValidationError{Field: field, Reason: "must be greater than zero"}
	}
	return nil
}

// AddItem appends a new unpurchased line priced from the current catalog.
func AddItem(list models.ShoppingList, catalog Catalog, ingredientID string, quantity decimal.Decimal) (models.ShoppingList, ItemChange, error) {
	if err := requirePositive("quantity", quantity); err != nil {
		return list, ItemChange{}, err
	}
	ingredient, ok := catalog.Lookup(ingredientID)
	if !ok {
		return list, ItemChange{}, &ValidationError{Field: "ingredient_id", Reason: "unknown ingredient " + ingredientID}
	}

	item := models.ShoppingListItem{
		ID:             newItemID(),
		IngredientID:   ingredient.ID,
		Quantity:       quantity,
		EstimatedPrice: quantity.Mul(ingredient.UnitPrice),
		CreatedAt:      time.Now(),
	}

	items := append(slices.Clone(list.Items), item)
	return withItems(list, items), ItemChange{Op: ItemCreated, Item: item}, nil
}

// UpdateItemQuantity replaces the quantity of a line and re-prices it at the
// catalog's current unit price, not the price it was created with.
func UpdateItemQuantity(list models.ShoppingList, catalog Catalog, itemID string, quantity decimal.Decimal) (models.ShoppingList, ItemChange, error) {
	if err := requirePositive("quantity", quantity); err != nil {
		return list, ItemChange{}, err
	}
	index := list.FindItem(itemID)
	if index < 0 {
		return list, ItemChange{}, &NotFoundError{Entity: "shopping list item", ID: itemID}
	}

	items := slices.Clone(list.Items)
	item := items[index]
	price, err := catalog.Price(item.IngredientID, quantity)
	if err != nil {
		return list, ItemChange{}, err
	}
	item.Quantity = quantity
	item.EstimatedPrice = price
	items[index] = item

	return withItems(list, items), ItemChange{Op: ItemUpdated, Item: item}, nil
}

// ToggleItemPurchased sets the purchased flag. Quantity and price are kept.
func ToggleItemPurchased(list models.ShoppingList, itemID string, purchased bool) (models.ShoppingList, ItemChange, error) {
	index := list.FindItem(itemID)
	if index < 0 {
		return list, ItemChange{}, &NotFoundError{Entity: "shopping list item", ID: itemID}
	}

	items := slices.Clone(list.Items)
	items[index].Purchased = purchased

	return withItems(list, items), ItemChange{Op: ItemUpdated, Item: items[index]}, nil
}

// UpdateItem applies an optional quantity and an optional purchased flag to
// one line as a single change. Either both apply or neither does.
func UpdateItem(list models.ShoppingList, catalog Catalog, itemID string, quantity *decimal.Decimal, purchased *bool) (models.ShoppingList, ItemChange, error) {
	if quantity == nil && purchased == nil {
		return list, ItemChange{}, &ValidationError{Field: "item", Reason: "quantity or purchased is required"}
	}

	updated, change := list, ItemChange{}
	var err error
	if quantity != nil {
		if updated, change, err = UpdateItemQuantity(updated, catalog, itemID, *quantity); err != nil {
			return list, ItemChange{}, err
		}
	}
	if purchased != nil {
		if updated, change, err = ToggleItemPurchased(updated, itemID, *purchased); err != nil {
			return list, ItemChange{}, err
		}
	}
	return updated, change, nil
}

func RemoveItem(list models.ShoppingList, itemID string) (models.ShoppingList, ItemChange, error) {
	index := list.FindItem(itemID)
	if index < 0 {
		return list, ItemChange{}, &NotFoundError{Entity: "shopping list item", ID: itemID}
	}

	removed := list.Items[index]
	items := slices.Delete(slices.Clone(list.Items), index, index+1)

	return withItems(list, items), ItemChange{Op: ItemDeleted, Item: removed}, nil
}

// Build prices lines into the list, replacing its items. Each line keeps its
// ingredient, quantity and purchased flag and gets a fresh id.
func Build(list models.ShoppingList, catalog Catalog, lines []models.ShoppingListItem) (models.ShoppingList, error) {
	now := time.Now()
	items := make([]models.ShoppingListItem, 0, len(lines))
	for _, line := range lines {
		if err := requirePositive("quantity", line.Quantity); err != nil {
			return list, err
		}
		ingredient, ok := catalog.Lookup(line.IngredientID)
		if !ok {
			return list, &ValidationError{Field: "ingredient_id", Reason: "unknown ingredient " + line.IngredientID}
		}
		items = append(items, models.ShoppingListItem{
			ID:             newItemID(),
			IngredientID:   ingredient.ID,
			Quantity:       line.Quantity,
			Purchased:      line.Purchased,
			EstimatedPrice: line.Quantity.Mul(ingredient.UnitPrice),
			CreatedAt:      now,
		})
	}
	return withItems(list, items), nil
}

// Reprice recomputes every line price and the total from the catalog. Lists
// read back from storage go through here so prices track the catalog.
func Reprice(list models.ShoppingList, catalog Catalog) (models.ShoppingList, error) {
	items := slices.Clone(list.Items)
	if items == nil {
		items = []models.ShoppingListItem{}
	}
	for i, item := range items {
		price, err := catalog.Price(item.IngredientID, item.Quantity)
		if err != nil {
			return list, err
		}
		items[i].EstimatedPrice = price
	}
	return withItems(list, items), nil
}
