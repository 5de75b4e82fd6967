package shopping_test

import (
	"reflect"
	"testing"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
)

func assertTotal(t *testing.T, list models.ShoppingList) {
	t.Helper()
	sum := decimal.Zero
	for _, item := range list.Items {
		sum = sum.Add(item.EstimatedPrice)
	}
	if !list.TotalPrice.Equal(sum) {
		t.Errorf("total %s does not match item sum %s", list.TotalPrice, sum)
	}
}

func generatedList(t *testing.T) models.ShoppingList {
	t.Helper()
	list, err := shopping.Generate(recipeOf("flour", "500", "sugar", "200"), inventoryOf("flour", "300"), testCatalog())
	if err != nil {
		t.Fatalf("generating list: %v", err)
	}
	list.ID = "list-1"
	return list
}

func TestAddItem(t *testing.T) {
	list := generatedList(t)

	updated, change, err := shopping.AddItem(list, testCatalog(), "egg", dec("6"))
	if err != nil {
		t.Fatalf("adding item: %v", err)
	}
	if len(updated.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(updated.Items))
	}
	if change.Op != shopping.ItemCreated {
		t.Errorf("expected create change, got %s", change.Op)
	}
	if !change.Item.EstimatedPrice.Equal(dec("2.10")) {
		t.Errorf("expected price 2.10, got %s", change.Item.EstimatedPrice)
	}
	if updated.Items[2].ID != change.Item.ID {
		t.Errorf("expected new item last, got %s", updated.Items[2].ID)
	}
	if !updated.TotalPrice.Equal(dec("3.50")) {
		t.Errorf("expected total 3.50, got %s", updated.TotalPrice)
	}
	assertTotal(t, updated)

	if len(list.Items) != 2 {
		t.Errorf("original list was modified: %d items", len(list.Items))
	}
}

func TestAddItem_Validation(t *testing.T) {
	tests := []struct {
		name         string
		ingredientID string
		quantity     string
	}{
		{name: "zero quantity", ingredientID: "egg", quantity: "0"},
		{name: "negative quantity", ingredientID: "egg", quantity: "-1"},
		{name: "unknown ingredient", ingredientID: "saffron", quantity: "1"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			list := generatedList(t)
			updated, _, err := shopping.AddItem(list, testCatalog(), testCase.ingredientID, dec(testCase.quantity))
			if !shopping.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !reflect.DeepEqual(updated, list) {
				t.Error("expected list to be unchanged")
			}
		})
	}
}

func TestUpdateItemQuantity_RepricesFromCurrentCatalog(t *testing.T) {
	list := generatedList(t)
	flourID := list.Items[0].ID

	catalog := testCatalog()
	flour := catalog["flour"]
	flour.UnitPrice = dec("0.003")
	catalog["flour"] = flour

	updated, change, err := shopping.UpdateItemQuantity(list, catalog, flourID, dec("1000"))
	if err != nil {
		t.Fatalf("updating quantity: %v", err)
	}
	if change.Op != shopping.ItemUpdated {
		t.Errorf("expected update change, got %s", change.Op)
	}
	if !updated.Items[0].Quantity.Equal(dec("1000")) {
		t.Errorf("expected quantity 1000, got %s", updated.Items[0].Quantity)
	}
	if !updated.Items[0].EstimatedPrice.Equal(dec("3")) {
		t.Errorf("expected price 3 at the new unit price, got %s", updated.Items[0].EstimatedPrice)
	}
	if !updated.TotalPrice.Equal(dec("4")) {
		t.Errorf("expected total 4, got %s", updated.TotalPrice)
	}
	assertTotal(t, updated)
}

func TestUpdateItemQuantity_NegativeLeavesItemUnchanged(t *testing.T) {
	list := generatedList(t)
	itemID := list.Items[0].ID

	updated, _, err := shopping.UpdateItemQuantity(list, testCatalog(), itemID, dec("-5"))
	if !shopping.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !updated.Items[0].Quantity.Equal(dec("200")) {
		t.Errorf("expected quantity to stay 200, got %s", updated.Items[0].Quantity)
	}
	if !reflect.DeepEqual(updated, list) {
		t.Error("expected list to be unchanged")
	}
}

func TestUpdateItemQuantity_UnknownItem(t *testing.T) {
	list := generatedList(t)
	_, _, err := shopping.UpdateItemQuantity(list, testCatalog(), "missing", dec("1"))
	if !shopping.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestToggleItemPurchased_KeepsQuantityAndPrice(t *testing.T) {
	list := generatedList(t)
	item := list.Items[1]

	updated, change, err := shopping.ToggleItemPurchased(list, item.ID, true)
	if err != nil {
		t.Fatalf("toggling item: %v", err)
	}
	if !updated.Items[1].Purchased || !change.Item.Purchased {
		t.Error("expected item to be purchased")
	}
	if !updated.Items[1].Quantity.Equal(item.Quantity) {
		t.Errorf("quantity changed: %s", updated.Items[1].Quantity)
	}
	if !updated.TotalPrice.Equal(list.TotalPrice) {
		t.Errorf("total changed from %s to %s", list.TotalPrice, updated.TotalPrice)
	}
	if list.Items[1].Purchased {
		t.Error("original list was modified")
	}

	back, _, err := shopping.ToggleItemPurchased(updated, item.ID, false)
	if err != nil {
		t.Fatalf("toggling back: %v", err)
	}
	if back.Items[1].Purchased {
		t.Error("expected item to be unpurchased again")
	}
}

func TestRemoveItem(t *testing.T) {
	list := generatedList(t)

	updated, change, err := shopping.RemoveItem(list, list.Items[0].ID)
	if err != nil {
		t.Fatalf("removing item: %v", err)
	}
	if change.Op != shopping.ItemDeleted || change.Item.IngredientID != "flour" {
		t.Errorf("unexpected change %+v", change)
	}
	if len(updated.Items) != 1 || updated.Items[0].IngredientID != "sugar" {
		t.Fatalf("unexpected items %+v", updated.Items)
	}
	if !updated.TotalPrice.Equal(dec("1.00")) {
		t.Errorf("expected total 1.00, got %s", updated.TotalPrice)
	}
	if len(list.Items) != 2 {
		t.Error("original list was modified")
	}
}

func TestRemoveItem_UnknownLeavesListUnchanged(t *testing.T) {
	list := generatedList(t)

	updated, _, err := shopping.RemoveItem(list, "does-not-exist")
	if !shopping.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !reflect.DeepEqual(updated, list) {
		t.Error("expected list to be unchanged")
	}
}

func TestMutations_CommuteOnDisjointItems(t *testing.T) {
	base := generatedList(t)
	base, _, err := shopping.AddItem(base, testCatalog(), "egg", dec("2"))
	if err != nil {
		t.Fatalf("adding egg: %v", err)
	}
	flourID, sugarID, eggID := base.Items[0].ID, base.Items[1].ID, base.Items[2].ID
	catalog := testCatalog()

	type mutation func(models.ShoppingList) (models.ShoppingList, shopping.ItemChange, error)
	update := func(list models.ShoppingList) (models.ShoppingList, shopping.ItemChange, error) {
		return shopping.UpdateItemQuantity(list, catalog, flourID, dec("50"))
	}
	remove := func(list models.ShoppingList) (models.ShoppingList, shopping.ItemChange, error) {
		return shopping.RemoveItem(list, sugarID)
	}
	toggle := func(list models.ShoppingList) (models.ShoppingList, shopping.ItemChange, error) {
		return shopping.ToggleItemPurchased(list, eggID, true)
	}

	apply := func(order ...mutation) models.ShoppingList {
		list := base
		for _, step := range order {
			var err error
			list, _, err = step(list)
			if err != nil {
				t.Fatalf("applying mutation: %v", err)
			}
		}
		return list
	}

	first := apply(update, remove, toggle)
	second := apply(toggle, remove, update)
	third := apply(remove, update, toggle)

	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(first, third) {
		t.Errorf("expected equal final states:\n%+v\n%+v\n%+v", first, second, third)
	}
	assertTotal(t, first)
}

func TestMutations_LastWriteWinsOnSameItem(t *testing.T) {
	list := generatedList(t)
	itemID := list.Items[0].ID

	list, _, _ = shopping.UpdateItemQuantity(list, testCatalog(), itemID, dec("10"))
	list, _, _ = shopping.UpdateItemQuantity(list, testCatalog(), itemID, dec("30"))
	list, _, _ = shopping.ToggleItemPurchased(list, itemID, true)
	list, _, _ = shopping.ToggleItemPurchased(list, itemID, false)

	if !list.Items[0].Quantity.Equal(dec("30")) {
		t.Errorf("expected last quantity 30, got %s", list.Items[0].Quantity)
	}
	if list.Items[0].Purchased {
		t.Error("expected last toggle to win")
	}
}

func TestReprice(t *testing.T) {
	list := generatedList(t)
	catalog := testCatalog()
	sugar := catalog["sugar"]
	sugar.UnitPrice = dec("0.01")
	catalog["sugar"] = sugar

	repriced, err := shopping.Reprice(list, catalog)
	if err != nil {
		t.Fatalf("repricing: %v", err)
	}
	if !repriced.TotalPrice.Equal(dec("2.40")) {
		t.Errorf("expected total 2.40, got %s", repriced.TotalPrice)
	}

	delete(catalog, "flour")
	if _, err := shopping.Reprice(list, catalog); !shopping.IsDataIntegrity(err) {
		t.Errorf("expected DataIntegrityError, got %v", err)
	}
}

func TestBuild(t *testing.T) {
	lines := []models.ShoppingListItem{
		{IngredientID: "flour", Quantity: dec("100")},
		{IngredientID: "egg", Quantity: dec("4"), Purchased: true},
	}

	list, err := shopping.Build(models.ShoppingList{Name: "Courses", OwnerID: "user-1"}, testCatalog(), lines)
	if err != nil {
		t.Fatalf("building list: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}
	if list.Items[0].IngredientID != "flour" || list.Items[0].ID == "" {
		t.Errorf("unexpected first item %+v", list.Items[0])
	}
	if !list.Items[1].Purchased {
		t.Error("expected purchased flag to be kept")
	}
	if !list.TotalPrice.Equal(dec("1.60")) {
		t.Errorf("expected total 1.60, got %s", list.TotalPrice)
	}
	assertTotal(t, list)

	if _, err := shopping.Build(models.ShoppingList{}, testCatalog(), []models.ShoppingListItem{{IngredientID: "flour"}}); !shopping.IsValidation(err) {
		t.Errorf("expected ValidationError for zero quantity, got %v", err)
	}
	if _, err := shopping.Build(models.ShoppingList{}, testCatalog(), []models.ShoppingListItem{{IngredientID: "saffron", Quantity: dec("1")}}); !shopping.IsValidation(err) {
		t.Errorf("expected ValidationError for unknown ingredient, got %v", err)
	}
}

func TestUpdateItem(t *testing.T) {
	quantity := func(value string) *decimal.Decimal {
		parsed := dec(value)
		return &parsed
	}
	purchased := func(value bool) *bool { return &value }

	tests := []struct {
		name          string
		itemID        string
		quantity      *decimal.Decimal
		purchased     *bool
		wantQuantity  string
		wantPurchased bool
		wantErr       func(error) bool
	}{
		{name: "quantity and purchased", quantity: quantity("50"), purchased: purchased(true), wantQuantity: "50", wantPurchased: true},
		{name: "quantity only", quantity: quantity("50"), wantQuantity: "50"},
		{name: "purchased only", purchased: purchased(true), wantQuantity: "200", wantPurchased: true},
		{name: "neither", wantErr: shopping.IsValidation},
		{name: "invalid quantity with flag", quantity: quantity("0"), purchased: purchased(true), wantErr: shopping.IsValidation},
		{name: "unknown item", itemID: "missing", quantity: quantity("5"), purchased: purchased(true), wantErr: shopping.IsNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			list := generatedList(t)
			itemID := list.Items[0].ID
			if testCase.itemID != "" {
				itemID = testCase.itemID
			}

			updated, change, err := shopping.UpdateItem(list, testCatalog(), itemID, testCase.quantity, testCase.purchased)
			if testCase.wantErr != nil {
				if !testCase.wantErr(err) {
					t.Fatalf("unexpected error %v", err)
				}
				if !reflect.DeepEqual(updated, list) {
					t.Error("expected list to be unchanged")
				}
				return
			}
			if err != nil {
				t.Fatalf("updating item: %v", err)
			}
			if change.Op != shopping.ItemUpdated {
				t.Errorf("expected update change, got %s", change.Op)
			}
			if !change.Item.Quantity.Equal(dec(testCase.wantQuantity)) || change.Item.Purchased != testCase.wantPurchased {
				t.Errorf("unexpected change item %+v", change.Item)
			}
			if !reflect.DeepEqual(updated.Items[0], change.Item) {
				t.Errorf("list item %+v differs from change %+v", updated.Items[0], change.Item)
			}
			assertTotal(t, updated)
		})
	}
}
