package main

import (
	"fmt"

	"github.com/pantryhub/pantry/internal/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (application *app) ingredientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "List the ingredient catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, err := application.client.FetchCatalog(cmd.Context())
			if err != nil {
				return err
			}
			table := newTable(application.out, "ID", "NAME", "UNIT", "UNIT PRICE")
			for _, ingredient := range ingredients {
				table.row(ingredient.ID, ingredient.Name, ingredient.Unit, ingredient.UnitPrice.String())
			}
			return table.flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <unit> <unit-price>",
		Short: "Add an ingredient to the catalog",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parseQuantity(args[2])
			if err != nil {
				return err
			}
			if _, err := application.session(); err != nil {
				return err
			}
			ingredient, err := application.client.CreateIngredient(cmd.Context(), args[0], args[1], price)
			if err != nil {
				return err
			}
			fmt.Fprintf(application.out, "Added %s (%s)\n", ingredient.Name, ingredient.ID)
			return nil
		},
	})
	return cmd
}

func (application *app) recipesCommand() *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List your recipes, or public ones with --public",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := application.session(); err != nil {
				return err
			}
			list := application.client.ListRecipes
			if public {
				list = application.client.ListPublicRecipes
			}
			recipes, err := list(cmd.Context())
			if err != nil {
				return err
			}
			table := newTable(application.out, "ID", "NAME", "INGREDIENTS", "PUBLIC")
			for _, recipe := range recipes {
				table.row(recipe.ID, recipe.Name, fmt.Sprint(len(recipe.Ingredients)), fmt.Sprint(recipe.Public))
			}
			return table.flush()
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "list public recipes from every author")
	return cmd
}

func (application *app) inventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inspect and stock inventories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your inventories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := application.session(); err != nil {
					return err
				}
				inventories, err := application.client.ListInventories(cmd.Context())
				if err != nil {
					return err
				}
				table := newTable(application.out, "ID", "NAME", "ENTRIES")
				for _, inventory := range inventories {
					table.row(inventory.ID, inventory.Name, fmt.Sprint(len(inventory.Entries)))
				}
				return table.flush()
			},
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create an empty inventory",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := application.session(); err != nil {
					return err
				}
				inventory, err := application.client.CreateInventory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(application.out, "Created %s (%s)\n", inventory.Name, inventory.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <inventory-id>",
			Short: "Show what an inventory holds",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := application.session(); err != nil {
					return err
				}
				inventory, err := application.client.FetchInventory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return application.printInventory(cmd.Context(), inventory)
			},
		},
		&cobra.Command{
			Use:   "set <inventory-id> <ingredient-id> <quantity>",
			Short: "Set the stocked quantity of an ingredient, 0 removes it",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				quantity, err := parseQuantity(args[2])
				if err != nil {
					return err
				}
				current, err := application.session()
				if err != nil {
					return err
				}
				inventory, err := services.NewInventoryService(application.client).
					SetIngredientQuantity(cmd.Context(), current.User.ID, args[0], args[1], quantity)
				if err != nil {
					return err
				}
				return application.printInventory(cmd.Context(), inventory)
			},
		},
	)
	return cmd
}

func parseQuantity(value string) (decimal.Decimal, error) {
	quantity, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing quantity %q: %w", value, err)
	}
	return quantity, nil
}
