// Package shopping derives priced shopping lists from recipes and
// inventories and applies line-item mutations to them. Everything here is a
// pure function of its inputs: callers fetch and persist.
package shopping

import (
	"github.com/pantryhub/pantry/internal/models"
	"github.com/shopspring/decimal"
)

// Catalog indexes ingredients by id.
type Catalog map[string]models.Ingredient

func NewCatalog(ingredients []models.Ingredient) Catalog {
	catalog := make(Catalog, len(ingredients))
	for _, ingredient := range ingredients {
		catalog[ingredient.ID] = ingredient
	}
	return catalog
}

func (catalog Catalog) Lookup(id string) (models.Ingredient, bool) {
	ingredient, ok := catalog[id]
	return ingredient, ok
}

// Resolve returns the ingredient or a DataIntegrityError: an id that reaches
// this point was referenced by stored data and must exist.
func (catalog Catalog) Resolve(id string) (models.Ingredient, error) {
	ingredient, ok := catalog[id]
	if !ok {
		return models.Ingredient{}, &DataIntegrityError{Entity: "ingredient", ID: id, Reason: "is missing from the catalog"}
	}
	return ingredient, nil
}

// Price returns quantity × the current unit price of the ingredient.
func (catalog Catalog) Price(id string, quantity decimal.Decimal) (decimal.Decimal, error) {
	ingredient, err := catalog.Resolve(id)
	if err != nil {
		return decimal.Zero, err
	}
	return quantity.Mul(ingredient.UnitPrice), nil
}
