package repository

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pantryhub/pantry/internal/models"
)

// ShoppingListRepository stores lists and their items. Item prices and the
// list total are not stored; callers price lists against the catalog.
type ShoppingListRepository interface {
	FindByID(ctx context.Context, id string) (models.ShoppingList, error)
	FindByOwner(ctx context.Context, ownerID string) ([]models.ShoppingList, error)
	Save(ctx context.Context, list models.ShoppingList) (models.ShoppingList, error)
	Rename(ctx context.Context, id string, name string) error
	Delete(ctx context.Context, id string) error
	CreateItem(ctx context.Context, listID string, item models.ShoppingListItem) error
	UpdateItem(ctx context.Context, listID string, item models.ShoppingListItem) error
	DeleteItem(ctx context.Context, listID string, itemID string) error
}

type SQLiteShoppingListRepository struct {
	database *sql.DB
}

func NewShoppingListRepository(database *sql.DB) *SQLiteShoppingListRepository {
	return &SQLiteShoppingListRepository{database: database}
}

func (repository *SQLiteShoppingListRepository) FindByID(ctx context.Context, id string) (models.ShoppingList, error) {
	var list models.ShoppingList
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, name, owner_id, created_at, updated_at FROM shopping_lists WHERE id = ?", id,
	).Scan(&list.ID, &list.Name, &list.OwnerID, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("finding shopping list by id: %w", err)
	}
	list.Items, err = repository.findItems(ctx, list.ID)
	if err != nil {
		return models.ShoppingList{}, err
	}
	return list, nil
}

func (repository *SQLiteShoppingListRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.ShoppingList, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT id, name, owner_id, created_at, updated_at FROM shopping_lists WHERE owner_id = ? ORDER BY created_at DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding shopping lists: %w", err)
	}

	lists := []models.ShoppingList{}
	for rows.Next() {
		var list models.ShoppingList
		if err := rows.Scan(&list.ID, &list.Name, &list.OwnerID, &list.CreatedAt, &list.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning shopping list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating shopping lists: %w", err)
	}
	rows.Close()

	for i := range lists {
		if lists[i].Items, err = repository.findItems(ctx, lists[i].ID); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

func (repository *SQLiteShoppingListRepository) findItems(ctx context.Context, listID string) ([]models.ShoppingListItem, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT id, ingredient_id, quantity, purchased, created_at FROM shopping_list_items WHERE list_id = ? ORDER BY id",
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding shopping list items: %w", err)
	}
	defer rows.Close()

	items := []models.ShoppingListItem{}
	for rows.Next() {
		var item models.ShoppingListItem
		if err := rows.Scan(&item.ID, &item.IngredientID, &item.Quantity, &item.Purchased, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning shopping list item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Save creates the list when it has no id yet, otherwise replaces its name
// and full item set.
func (repository *SQLiteShoppingListRepository) Save(ctx context.Context, list models.ShoppingList) (models.ShoppingList, error) {
	now := time.Now()
	creating := list.ID == ""
	if creating {
		list.ID = uuid.New().String()
		list.CreatedAt = now
	}
	list.UpdatedAt = now
	list.Items = slices.Clone(list.Items)
	if list.Items == nil {
		list.Items = []models.ShoppingListItem{}
	}

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.ShoppingList{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	if creating {
		_, err = transaction.ExecContext(ctx,
			"INSERT INTO shopping_lists (id, name, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			list.ID, list.Name, list.OwnerID, list.CreatedAt, list.UpdatedAt,
		)
		if err != nil {
			return models.ShoppingList{}, fmt.Errorf("creating shopping list: %w", classify(err))
		}
	} else {
		result, err := transaction.ExecContext(ctx,
			"UPDATE shopping_lists SET name = ?, updated_at = ? WHERE id = ?",
			list.Name, list.UpdatedAt, list.ID,
		)
		if err != nil {
			return models.ShoppingList{}, fmt.Errorf("updating shopping list: %w", err)
		}
		if err := requireAffected(result); err != nil {
			return models.ShoppingList{}, fmt.Errorf("updating shopping list: %w", err)
		}
		if _, err := transaction.ExecContext(ctx, "DELETE FROM shopping_list_items WHERE list_id = ?", list.ID); err != nil {
			return models.ShoppingList{}, fmt.Errorf("clearing shopping list items: %w", err)
		}
	}

	for i, item := range list.Items {
		if item.ID == "" {
			item.ID = uuid.Must(uuid.NewV7()).String()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		if err := insertItem(ctx, transaction, list.ID, item); err != nil {
			return models.ShoppingList{}, err
		}
		list.Items[i] = item
	}

	if err := transaction.Commit(); err != nil {
		return models.ShoppingList{}, fmt.Errorf("committing shopping list: %w", err)
	}
	return list, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertItem(ctx context.Context, database execer, listID string, item models.ShoppingListItem) error {
	_, err := database.ExecContext(ctx,
		`INSERT INTO shopping_list_items (id, list_id, ingredient_id, quantity, purchased, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, listID, item.IngredientID, item.Quantity, item.Purchased, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting shopping list item: %w", classify(err))
	}
	return nil
}

func (repository *SQLiteShoppingListRepository) touch(ctx context.Context, listID string) error {
	result, err := repository.database.ExecContext(ctx,
		"UPDATE shopping_lists SET updated_at = ? WHERE id = ?", time.Now(), listID,
	)
	if err != nil {
		return fmt.Errorf("touching shopping list: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("touching shopping list: %w", err)
	}
	return nil
}

func (repository *SQLiteShoppingListRepository) Rename(ctx context.Context, id string, name string) error {
	result, err := repository.database.ExecContext(ctx,
		"UPDATE shopping_lists SET name = ?, updated_at = ? WHERE id = ?", name, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("renaming shopping list: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("renaming shopping list: %w", err)
	}
	return nil
}

func (repository *SQLiteShoppingListRepository) Delete(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM shopping_lists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting shopping list: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("deleting shopping list: %w", err)
	}
	return nil
}

func (repository *SQLiteShoppingListRepository) CreateItem(ctx context.Context, listID string, item models.ShoppingListItem) error {
	if err := repository.touch(ctx, listID); err != nil {
		return err
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	return insertItem(ctx, repository.database, listID, item)
}

// UpdateItem writes the quantity and purchased flag of an existing item.
func (repository *SQLiteShoppingListRepository) UpdateItem(ctx context.Context, listID string, item models.ShoppingListItem) error {
	result, err := repository.database.ExecContext(ctx,
		"UPDATE shopping_list_items SET quantity = ?, purchased = ? WHERE id = ? AND list_id = ?",
		item.Quantity, item.Purchased, item.ID, listID,
	)
	if err != nil {
		return fmt.Errorf("updating shopping list item: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("updating shopping list item: %w", err)
	}
	return repository.touch(ctx, listID)
}

func (repository *SQLiteShoppingListRepository) DeleteItem(ctx context.Context, listID string, itemID string) error {
	result, err := repository.database.ExecContext(ctx,
		"DELETE FROM shopping_list_items WHERE id = ? AND list_id = ?", itemID, listID,
	)
	if err != nil {
		return fmt.Errorf("deleting shopping list item: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("deleting shopping list item: %w", err)
	}
	return repository.touch(ctx, listID)
}
