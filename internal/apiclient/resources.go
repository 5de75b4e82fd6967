package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/shopspring/decimal"
)

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// Register creates an account and returns the user with a fresh token.
func (client *Client) Register(ctx context.Context, username, email, password string) (models.User, string, error) {
	var response tokenResponse
	err := client.do(ctx, http.MethodPost, "/api/auth/register", target{entity: "user"}, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &response)
	if err != nil {
		return models.User{}, "", fmt.Errorf("registering: %w", err)
	}
	return response.User, response.AccessToken, nil
}

func (client *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	var response tokenResponse
	err := client.do(ctx, http.MethodPost, "/api/auth/login", target{entity: "user"}, map[string]string{
		"email":    email,
		"password": password,
	}, &response)
	if err != nil {
		return models.User{}, "", fmt.Errorf("logging in: %w", err)
	}
	return response.User, response.AccessToken, nil
}

func (client *Client) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	if err := client.get(ctx, "/api/auth/profile", target{entity: "user"}, &user); err != nil {
		return models.User{}, fmt.Errorf("fetching profile: %w", err)
	}
	return user, nil
}

func (client *Client) FetchCatalog(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := client.get(ctx, "/api/ingredients", target{entity: "ingredient"}, &ingredients); err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	return ingredients, nil
}

func (client *Client) CreateIngredient(ctx context.Context, name, unit string, unitPrice decimal.Decimal) (models.Ingredient, error) {
	var ingredient models.Ingredient
	err := client.do(ctx, http.MethodPost, "/api/ingredients", target{entity: "ingredient"}, map[string]any{
		"name":       name,
		"unit":       unit,
		"unit_price": unitPrice,
	}, &ingredient)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("creating ingredient: %w", err)
	}
	return ingredient, nil
}

func (client *Client) FetchRecipe(ctx context.Context, recipeID string) (models.Recipe, error) {
	var recipe models.Recipe
	if err := client.get(ctx, "/api/recipes/"+escape(recipeID), target{"recipe", recipeID}, &recipe); err != nil {
		return models.Recipe{}, fmt.Errorf("fetching recipe: %w", err)
	}
	return recipe, nil
}

// ListRecipes returns the recipes the current user wrote.
func (client *Client) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := client.get(ctx, "/api/recipes", target{entity: "recipe"}, &recipes); err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	return recipes, nil
}

func (client *Client) ListPublicRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := client.get(ctx, "/api/recipes/public", target{entity: "recipe"}, &recipes); err != nil {
		return nil, fmt.Errorf("listing public recipes: %w", err)
	}
	return recipes, nil
}

func (client *Client) FetchInventory(ctx context.Context, inventoryID string) (models.Inventory, error) {
	var inventory models.Inventory
	if err := client.get(ctx, "/api/inventories/"+escape(inventoryID), target{"inventory", inventoryID}, &inventory); err != nil {
		return models.Inventory{}, fmt.Errorf("fetching inventory: %w", err)
	}
	return inventory, nil
}

func (client *Client) ListInventories(ctx context.Context) ([]models.Inventory, error) {
	var inventories []models.Inventory
	if err := client.get(ctx, "/api/inventories", target{entity: "inventory"}, &inventories); err != nil {
		return nil, fmt.Errorf("listing inventories: %w", err)
	}
	return inventories, nil
}

func (client *Client) CreateInventory(ctx context.Context, name string) (models.Inventory, error) {
	var inventory models.Inventory
	err := client.do(ctx, http.MethodPost, "/api/inventories", target{entity: "inventory"}, map[string]string{"name": name}, &inventory)
	if err != nil {
		return models.Inventory{}, fmt.Errorf("creating inventory: %w", err)
	}
	return inventory, nil
}

func (client *Client) PersistInventoryEntry(ctx context.Context, inventoryID string, ingredientID string, quantity decimal.Decimal) error {
	path := "/api/inventories/" + escape(inventoryID) + "/ingredients/" + escape(ingredientID)
	err := client.do(ctx, http.MethodPut, path, target{"inventory", inventoryID}, map[string]any{"quantity": quantity}, nil)
	if err != nil {
		return fmt.Errorf("persisting inventory entry: %w", err)
	}
	return nil
}

func (client *Client) FetchShoppingList(ctx context.Context, listID string) (models.ShoppingList, error) {
	var list models.ShoppingList
	if err := client.get(ctx, "/api/shopping/lists/"+escape(listID), target{"shopping list", listID}, &list); err != nil {
		return models.ShoppingList{}, fmt.Errorf("fetching shopping list: %w", err)
	}
	return list, nil
}

func (client *Client) ListShoppingLists(ctx context.Context) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	if err := client.get(ctx, "/api/shopping/lists", target{entity: "shopping list"}, &lists); err != nil {
		return nil, fmt.Errorf("listing shopping lists: %w", err)
	}
	return lists, nil
}

type lineRequest struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Purchased    bool            `json:"purchased"`
}

// PersistShoppingList creates the list when it has no ID yet, otherwise
// replaces its name and items. The server assigns item ids, so the returned
// list is the stored one rather than the argument.
func (client *Client) PersistShoppingList(ctx context.Context, list models.ShoppingList) (models.ShoppingList, error) {
	lines := make([]lineRequest, 0, len(list.Items))
	for _, item := range list.Items {
		lines = append(lines, lineRequest{IngredientID: item.IngredientID, Quantity: item.Quantity, Purchased: item.Purchased})
	}
	body := map[string]any{"name": list.Name, "items": lines}

	var (
		saved models.ShoppingList
		err   error
	)
	if list.ID == "" {
		err = client.do(ctx, http.MethodPost, "/api/shopping/lists", target{entity: "shopping list"}, body, &saved)
	} else {
		err = client.do(ctx, http.MethodPut, "/api/shopping/lists/"+escape(list.ID), target{"shopping list", list.ID}, body, &saved)
	}
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("persisting shopping list: %w", err)
	}
	return saved, nil
}

func (client *Client) PersistShoppingListItem(ctx context.Context, listID string, change shopping.ItemChange) error {
	listPath := "/api/shopping/lists/" + escape(listID)
	item := change.Item

	var err error
	switch change.Op {
	case shopping.ItemCreated:
		err = client.do(ctx, http.MethodPost, listPath+"/items", target{"shopping list", listID}, map[string]any{
			"ingredient_id": item.IngredientID,
			"quantity":      item.Quantity,
		}, nil)
	case shopping.ItemUpdated:
		err = client.do(ctx, http.MethodPut, listPath+"/items/"+escape(item.ID), target{"shopping list item", item.ID}, map[string]any{
			"quantity":  item.Quantity,
			"purchased": item.Purchased,
		}, nil)
	case shopping.ItemDeleted:
		err = client.do(ctx, http.MethodDelete, listPath+"/items/"+escape(item.ID), target{"shopping list item", item.ID}, nil, nil)
	default:
		return fmt.Errorf("persisting shopping list item: unknown change %q", change.Op)
	}
	if err != nil {
		return fmt.Errorf("persisting shopping list item: %w", err)
	}
	return nil
}

func (client *Client) DeleteShoppingList(ctx context.Context, listID string) error {
	err := client.do(ctx, http.MethodDelete, "/api/shopping/lists/"+escape(listID), target{"shopping list", listID}, nil, nil)
	if err != nil {
		return fmt.Errorf("deleting shopping list: %w", err)
	}
	return nil
}
