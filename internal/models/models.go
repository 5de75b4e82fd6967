package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Ingredient is a catalog entry. UnitPrice is the price of one Unit.
type Ingredient struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type RecipeIngredient struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type Recipe struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	PrepMinutes int                `json:"prep_minutes"`
	CookMinutes int                `json:"cook_minutes"`
	Public      bool               `json:"public"`
	AuthorID    string             `json:"author_id"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// VisibleTo reports whether the user may read the recipe.
func (recipe Recipe) VisibleTo(userID string) bool {
	return recipe.Public || recipe.AuthorID == userID
}

type InventoryEntry struct {
	IngredientID string          `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type Inventory struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	OwnerID   string           `json:"owner_id"`
	Entries   []InventoryEntry `json:"entries"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type ShoppingListItem struct {
	ID             string          `json:"id"`
	IngredientID   string          `json:"ingredient_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Purchased      bool            `json:"purchased"`
	EstimatedPrice decimal.Decimal `json:"estimated_price"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ShoppingList carries TotalPrice as a derived value: it is recomputed from
// Items and never persisted.
type ShoppingList struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	OwnerID    string             `json:"owner_id"`
	Items      []ShoppingListItem `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// FindItem returns the index of the item with the given id, or -1.
func (list ShoppingList) FindItem(itemID string) int {
	for i, item := range list.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}
