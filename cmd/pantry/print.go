package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/shopping"
)

type table struct {
	writer *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{writer: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	t.row(headers...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.writer, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.writer.Flush()
}

// catalog fetches ingredient names for display. A failure only costs the
// names, so it falls back to an empty catalog.
func (application *app) catalog(ctx context.Context) shopping.Catalog {
	ingredients, err := application.client.FetchCatalog(ctx)
	if err != nil {
		return shopping.NewCatalog(nil)
	}
	return shopping.NewCatalog(ingredients)
}

func ingredientLabel(catalog shopping.Catalog, ingredientID string) (string, string) {
	if ingredient, ok := catalog.Lookup(ingredientID); ok {
		return ingredient.Name, ingredient.Unit
	}
	return ingredientID, ""
}

func (application *app) printList(ctx context.Context, list models.ShoppingList) error {
	fmt.Fprintf(application.out, "%s (%s)\n", list.Name, list.ID)

	catalog := application.catalog(ctx)
	t := newTable(application.out, "ITEM", "", "INGREDIENT", "QUANTITY", "PRICE")
	for _, item := range list.Items {
		mark := "[ ]"
		if item.Purchased {
			mark = "[x]"
		}
		name, unit := ingredientLabel(catalog, item.IngredientID)
		t.row(item.ID, mark, name, strings.TrimSpace(item.Quantity.String()+" "+unit), item.EstimatedPrice.StringFixed(2))
	}
	if err := t.flush(); err != nil {
		return err
	}

	fmt.Fprintf(application.out, "Total: %s\n", list.TotalPrice.StringFixed(2))
	return nil
}

func (application *app) printInventory(ctx context.Context, inventory models.Inventory) error {
	fmt.Fprintf(application.out, "%s (%s)\n", inventory.Name, inventory.ID)

	catalog := application.catalog(ctx)
	t := newTable(application.out, "INGREDIENT", "ID", "QUANTITY")
	for _, entry := range inventory.Entries {
		name, unit := ingredientLabel(catalog, entry.IngredientID)
		t.row(name, entry.IngredientID, strings.TrimSpace(entry.Quantity.String()+" "+unit))
	}
	return t.flush()
}
