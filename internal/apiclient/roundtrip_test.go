package apiclient_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pantryhub/pantry/internal/apiclient"
	"github.com/pantryhub/pantry/internal/config"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/server"
	"github.com/pantryhub/pantry/internal/services"
	"github.com/pantryhub/pantry/internal/testutil"
	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

type remote struct {
	client    *apiclient.Client
	user      models.User
	recipes   repository.RecipeRepository
	serverURL string
}

func newRemote(t *testing.T) remote {
	t.Helper()
	db := testutil.NewFileTestDatabase(t)
	authService := services.NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour)
	testServer := httptest.NewServer(server.New(db, config.Config{}, authService).Handler())
	t.Cleanup(testServer.Close)

	client := apiclient.New(testServer.URL)
	user, token, err := client.Register(context.Background(), "alice", "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("registering: %v", err)
	}
	client.SetToken(token)

	return remote{client: client, user: user, recipes: repository.NewRecipeRepository(db), serverURL: testServer.URL}
}

func TestRoundTrip_AuthErrors(t *testing.T) {
	env := newRemote(t)
	ctx := context.Background()
	anonymous := apiclient.New(env.serverURL)

	if _, _, err := anonymous.Register(ctx, "alice", "other@example.com", "correct horse"); !errors.Is(err, services.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
	if _, _, err := anonymous.Login(ctx, "alice@example.com", "wrong horse"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := anonymous.Profile(ctx); !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	user, token, err := anonymous.Login(ctx, "alice@example.com", "correct horse")
	if err != nil || token == "" || user.ID != env.user.ID {
		t.Fatalf("logging in: %v (user %+v)", err, user)
	}
}

// The shopping services run client side with the API client as their backend.
func TestRoundTrip_ShoppingServiceOverREST(t *testing.T) {
	env := newRemote(t)
	ctx := context.Background()

	flour, err := env.client.CreateIngredient(ctx, "Flour", "g", dec("0.002"))
	if err != nil {
		t.Fatalf("creating flour: %v", err)
	}
	sugar, err := env.client.CreateIngredient(ctx, "Sugar", "g", dec("0.005"))
	if err != nil {
		t.Fatalf("creating sugar: %v", err)
	}

	recipe, err := env.recipes.Create(ctx, models.Recipe{
		Name:     "Cake",
		AuthorID: env.user.ID,
		Ingredients: []models.RecipeIngredient{
			{IngredientID: flour.ID, Quantity: dec("500")},
			{IngredientID: sugar.ID, Quantity: dec("200")},
		},
	})
	if err != nil {
		t.Fatalf("creating recipe: %v", err)
	}

	inventory, err := env.client.CreateInventory(ctx, "Kitchen")
	if err != nil {
		t.Fatalf("creating inventory: %v", err)
	}

	inventoryService := services.NewInventoryService(env.client)
	if _, err := inventoryService.SetIngredientQuantity(ctx, env.user.ID, inventory.ID, flour.ID, dec("300")); err != nil {
		t.Fatalf("stocking flour: %v", err)
	}

	shoppingService := services.NewShoppingService(env.client)
	list, err := shoppingService.Generate(ctx, env.user.ID, recipe.ID, inventory.ID, "")
	if err != nil {
		t.Fatalf("generating list: %v", err)
	}
	if list.ID == "" || list.Name != "Cake" || len(list.Items) != 2 {
		t.Fatalf("unexpected list %+v", list)
	}
	if !list.TotalPrice.Equal(dec("1.40")) {
		t.Errorf("expected total 1.40, got %s", list.TotalPrice)
	}

	if _, err := shoppingService.AddItem(ctx, env.user.ID, list.ID, sugar.ID, dec("100")); err != nil {
		t.Fatalf("adding item: %v", err)
	}
	list, err = shoppingService.Get(ctx, env.user.ID, list.ID)
	if err != nil {
		t.Fatalf("reloading list: %v", err)
	}
	if len(list.Items) != 3 || !list.TotalPrice.Equal(dec("1.90")) {
		t.Fatalf("expected 3 items at 1.90, got %d at %s", len(list.Items), list.TotalPrice)
	}

	flourItem := list.Items[0].ID
	if _, err := shoppingService.ToggleItemPurchased(ctx, env.user.ID, list.ID, flourItem, true); err != nil {
		t.Fatalf("toggling item: %v", err)
	}
	if _, err := shoppingService.UpdateItemQuantity(ctx, env.user.ID, list.ID, flourItem, dec("50")); err != nil {
		t.Fatalf("updating quantity: %v", err)
	}
	if _, err := shoppingService.RemoveItem(ctx, env.user.ID, list.ID, list.Items[2].ID); err != nil {
		t.Fatalf("removing item: %v", err)
	}

	stored, err := env.client.FetchShoppingList(ctx, list.ID)
	if err != nil {
		t.Fatalf("fetching list: %v", err)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("expected 2 stored items, got %d", len(stored.Items))
	}
	if !stored.Items[0].Purchased || !stored.Items[0].Quantity.Equal(dec("50")) {
		t.Errorf("unexpected flour line %+v", stored.Items[0])
	}
	if !stored.TotalPrice.Equal(dec("1.10")) {
		t.Errorf("expected total 1.10, got %s", stored.TotalPrice)
	}

	if _, err := shoppingService.UpdateItemQuantity(ctx, env.user.ID, list.ID, "missing", dec("1")); err == nil {
		t.Error("expected error for unknown item")
	}

	lists, err := env.client.ListShoppingLists(ctx)
	if err != nil || len(lists) != 1 {
		t.Fatalf("listing lists: %v (%d lists)", err, len(lists))
	}
	if err := env.client.DeleteShoppingList(ctx, list.ID); err != nil {
		t.Fatalf("deleting list: %v", err)
	}
	if _, err := env.client.FetchShoppingList(ctx, list.ID); err == nil {
		t.Error("expected deleted list to be gone")
	}
}

func TestRoundTrip_CreateWithLines(t *testing.T) {
	env := newRemote(t)
	ctx := context.Background()

	egg, err := env.client.CreateIngredient(ctx, "Egg", "piece", dec("0.35"))
	if err != nil {
		t.Fatalf("creating egg: %v", err)
	}

	shoppingService := services.NewShoppingService(env.client)
	list, err := shoppingService.Create(ctx, env.user.ID, "Brunch", []models.ShoppingListItem{
		{IngredientID: egg.ID, Quantity: dec("6")},
	})
	if err != nil {
		t.Fatalf("creating list: %v", err)
	}
	if len(list.Items) != 1 || !list.TotalPrice.Equal(dec("2.10")) {
		t.Fatalf("unexpected list %+v", list)
	}

	renamed, err := shoppingService.Replace(ctx, env.user.ID, list.ID, "Late brunch", nil)
	if err != nil {
		t.Fatalf("renaming list: %v", err)
	}
	if renamed.Name != "Late brunch" || len(renamed.Items) != 1 {
		t.Errorf("unexpected renamed list %+v", renamed)
	}
}
