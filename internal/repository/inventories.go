package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/shopspring/decimal"
)

type InventoryRepository interface {
	FindByID(ctx context.Context, id string) (models.Inventory, error)
	FindByOwner(ctx context.Context, ownerID string) ([]models.Inventory, error)
	Create(ctx context.Context, inventory models.Inventory) (models.Inventory, error)
	Update(ctx context.Context, inventory models.Inventory) (models.Inventory, error)
	Delete(ctx context.Context, id string) error
	SetEntry(ctx context.Context, inventoryID string, ingredientID string, quantity decimal.Decimal) error
}

type SQLiteInventoryRepository struct {
	database *sql.DB
}

func NewInventoryRepository(database *sql.DB) *SQLiteInventoryRepository {
	return &SQLiteInventoryRepository{database: database}
}

func (repository *SQLiteInventoryRepository) FindByID(ctx context.Context, id string) (models.Inventory, error) {
	var inventory models.Inventory
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, name, owner_id, created_at, updated_at FROM inventories WHERE id = ?", id,
	).Scan(&inventory.ID, &inventory.Name, &inventory.OwnerID, &inventory.CreatedAt, &inventory.UpdatedAt)
	if err != nil {
		return models.Inventory{}, fmt.Errorf("finding inventory by id: %w", err)
	}
	inventory.Entries, err = repository.findEntries(ctx, inventory.ID)
	if err != nil {
		return models.Inventory{}, err
	}
	return inventory, nil
}

func (repository *SQLiteInventoryRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Inventory, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT id, name, owner_id, created_at, updated_at FROM inventories WHERE owner_id = ? ORDER BY name",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding inventories: %w", err)
	}

	inventories := []models.Inventory{}
	for rows.Next() {
		var inventory models.Inventory
		if err := rows.Scan(&inventory.ID, &inventory.Name, &inventory.OwnerID, &inventory.CreatedAt, &inventory.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning inventory: %w", err)
		}
		inventories = append(inventories, inventory)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating inventories: %w", err)
	}
	rows.Close()

	for i := range inventories {
		if inventories[i].Entries, err = repository.findEntries(ctx, inventories[i].ID); err != nil {
			return nil, err
		}
	}
	return inventories, nil
}

func (repository *SQLiteInventoryRepository) findEntries(ctx context.Context, inventoryID string) ([]models.InventoryEntry, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT ingredient_id, quantity FROM inventory_entries WHERE inventory_id = ? ORDER BY rowid",
		inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding inventory entries: %w", err)
	}
	defer rows.Close()

	entries := []models.InventoryEntry{}
	for rows.Next() {
		var entry models.InventoryEntry
		if err := rows.Scan(&entry.IngredientID, &entry.Quantity); err != nil {
			return nil, fmt.Errorf("scanning inventory entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (repository *SQLiteInventoryRepository) Create(ctx context.Context, inventory models.Inventory) (models.Inventory, error) {
	if inventory.ID == "" {
		inventory.ID = uuid.New().String()
	}
	now := time.Now()
	inventory.CreatedAt = now
	inventory.UpdatedAt = now
	if inventory.Entries == nil {
		inventory.Entries = []models.InventoryEntry{}
	}

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Inventory{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	_, err = transaction.ExecContext(ctx,
		"INSERT INTO inventories (id, name, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		inventory.ID, inventory.Name, inventory.OwnerID, inventory.CreatedAt, inventory.UpdatedAt,
	)
	if err != nil {
		return models.Inventory{}, fmt.Errorf("creating inventory: %w", classify(err))
	}
	if err := insertEntries(ctx, transaction, inventory); err != nil {
		return models.Inventory{}, err
	}

	if err := transaction.Commit(); err != nil {
		return models.Inventory{}, fmt.Errorf("committing inventory: %w", err)
	}
	return inventory, nil
}

// Update renames the inventory and replaces all of its entries.
func (repository *SQLiteInventoryRepository) Update(ctx context.Context, inventory models.Inventory) (models.Inventory, error) {
	inventory.UpdatedAt = time.Now()

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Inventory{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	result, err := transaction.ExecContext(ctx,
		"UPDATE inventories SET name = ?, updated_at = ? WHERE id = ?",
		inventory.Name, inventory.UpdatedAt, inventory.ID,
	)
	if err != nil {
		return models.Inventory{}, fmt.Errorf("updating inventory: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return models.Inventory{}, fmt.Errorf("updating inventory: %w", err)
	}

	if _, err := transaction.ExecContext(ctx, "DELETE FROM inventory_entries WHERE inventory_id = ?", inventory.ID); err != nil {
		return models.Inventory{}, fmt.Errorf("clearing inventory entries: %w", err)
	}
	if err := insertEntries(ctx, transaction, inventory); err != nil {
		return models.Inventory{}, err
	}

	if err := transaction.Commit(); err != nil {
		return models.Inventory{}, fmt.Errorf("committing inventory: %w", err)
	}
	return repository.FindByID(ctx, inventory.ID)
}

func insertEntries(ctx context.Context, transaction *sql.Tx, inventory models.Inventory) error {
	for _, entry := range inventory.Entries {
		if entry.Quantity.IsZero() {
			continue
		}
		if _, err := transaction.ExecContext(ctx,
			"INSERT INTO inventory_entries (inventory_id, ingredient_id, quantity) VALUES (?, ?, ?)",
			inventory.ID, entry.IngredientID, entry.Quantity,
		); err != nil {
			return fmt.Errorf("inserting inventory entry: %w", classify(err))
		}
	}
	return nil
}

// SetEntry upserts one entry, or removes it when quantity is zero.
func (repository *SQLiteInventoryRepository) SetEntry(ctx context.Context, inventoryID string, ingredientID string, quantity decimal.Decimal) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	result, err := transaction.ExecContext(ctx,
		"UPDATE inventories SET updated_at = ? WHERE id = ?", time.Now(), inventoryID,
	)
	if err != nil {
		return fmt.Errorf("touching inventory: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("touching inventory: %w", err)
	}

	if quantity.IsZero() {
		_, err = transaction.ExecContext(ctx,
			"DELETE FROM inventory_entries WHERE inventory_id = ? AND ingredient_id = ?",
			inventoryID, ingredientID,
		)
	} else {
		_, err = transaction.ExecContext(ctx,
			`INSERT INTO inventory_entries (inventory_id, ingredient_id, quantity) VALUES (?, ?, ?)
			ON CONFLICT (inventory_id, ingredient_id) DO UPDATE SET quantity = excluded.quantity`,
			inventoryID, ingredientID, quantity,
		)
	}
	if err != nil {
		return fmt.Errorf("setting inventory entry: %w", classify(err))
	}

	return transaction.Commit()
}

func (repository *SQLiteInventoryRepository) Delete(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM inventories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting inventory: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("deleting inventory: %w", err)
	}
	return nil
}
