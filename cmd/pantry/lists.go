package main

import (
	"context"
	"fmt"

	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/shopping"
	"github.com/spf13/cobra"
)

func (application *app) listsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List your shopping lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := application.session(); err != nil {
				return err
			}
			lists, err := application.client.ListShoppingLists(cmd.Context())
			if err != nil {
				return err
			}
			table := newTable(application.out, "ID", "NAME", "ITEMS", "TOTAL")
			for _, list := range lists {
				table.row(list.ID, list.Name, fmt.Sprint(len(list.Items)), list.TotalPrice.StringFixed(2))
			}
			return table.flush()
		},
	}
}

func (application *app) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show, create and delete shopping lists",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <list-id>",
			Short: "Show a shopping list at current prices",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				current, err := application.session()
				if err != nil {
					return err
				}
				list, err := application.shoppingService().Get(cmd.Context(), current.User.ID, args[0])
				if err != nil {
					return err
				}
				return application.printList(cmd.Context(), list)
			},
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create an empty shopping list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				current, err := application.session()
				if err != nil {
					return err
				}
				list, err := application.shoppingService().Create(cmd.Context(), current.User.ID, args[0], nil)
				if err != nil {
					return err
				}
				return application.printList(cmd.Context(), list)
			},
		},
		&cobra.Command{
			Use:   "delete <list-id>",
			Short: "Delete a shopping list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := application.session(); err != nil {
					return err
				}
				if err := application.client.DeleteShoppingList(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(application.out, "Deleted", args[0])
				return nil
			},
		},
	)
	return cmd
}

func (application *app) generateCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "generate <recipe-id> <inventory-id>",
		Short: "Create a shopping list for what the inventory lacks for a recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := application.session()
			if err != nil {
				return err
			}
			list, err := application.shoppingService().Generate(cmd.Context(), current.User.ID, args[0], args[1], name)
			if err != nil {
				return err
			}
			return application.printList(cmd.Context(), list)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "list name (defaults to the recipe name)")
	return cmd
}

func (application *app) itemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Edit the lines of a shopping list",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <list-id> <ingredient-id> <quantity>",
			Short: "Append a line",
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
				return application.runTracked(cmd.Context(), current, args[0], func(ctx context.Context) (models.ShoppingList, error) {
					return application.shoppingService().AddItem(ctx, current.User.ID, args[0], args[1], quantity)
				})
			},
		},
		&cobra.Command{
			Use:   "qty <list-id> <item-id> <quantity>",
			Short: "Change the quantity of a line",
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
				return application.runTracked(cmd.Context(), current, args[0], func(ctx context.Context) (models.ShoppingList, error) {
					return application.shoppingService().UpdateItemQuantity(ctx, current.User.ID, args[0], args[1], quantity)
				})
			},
		},
		&cobra.Command{
			Use:   "toggle <list-id> <item-id>",
			Short: "Flip the purchased flag of a line",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				current, err := application.session()
				if err != nil {
					return err
				}
				list, err := application.shoppingService().Get(cmd.Context(), current.User.ID, args[0])
				if err != nil {
					return err
				}
				index := list.FindItem(args[1])
				if index < 0 {
					return &shopping.NotFoundError{Entity: "shopping list item", ID: args[1]}
				}
				purchased := !list.Items[index].Purchased
				return application.runTracked(cmd.Context(), current, args[0], func(ctx context.Context) (models.ShoppingList, error) {
					return application.shoppingService().ToggleItemPurchased(ctx, current.User.ID, args[0], args[1], purchased)
				})
			},
		},
		&cobra.Command{
			Use:   "rm <list-id> <item-id>",
			Short: "Remove a line",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				current, err := application.session()
				if err != nil {
					return err
				}
				return application.runTracked(cmd.Context(), current, args[0], func(ctx context.Context) (models.ShoppingList, error) {
					return application.shoppingService().RemoveItem(ctx, current.User.ID, args[0], args[1])
				})
			},
		},
	)
	return cmd
}
