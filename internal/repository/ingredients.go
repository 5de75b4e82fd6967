package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pantryhub/pantry/internal/models"
)

type IngredientRepository interface {
	FindByID(ctx context.Context, id string) (models.Ingredient, error)
	FindAll(ctx context.Context) ([]models.Ingredient, error)
	Create(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error)
	Update(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error)
	Delete(ctx context.Context, id string) error
}

type SQLiteIngredientRepository struct {
	database *sql.DB
}

func NewIngredientRepository(database *sql.DB) *SQLiteIngredientRepository {
	return &SQLiteIngredientRepository{database: database}
}

func (repository *SQLiteIngredientRepository) FindByID(ctx context.Context, id string) (models.Ingredient, error) {
	var ingredient models.Ingredient
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, name, unit, unit_price, created_at, updated_at FROM ingredients WHERE id = ?", id,
	).Scan(&ingredient.ID, &ingredient.Name, &ingredient.Unit, &ingredient.UnitPrice, &ingredient.CreatedAt, &ingredient.UpdatedAt)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("finding ingredient by id: %w", err)
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) FindAll(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT id, name, unit, unit_price, created_at, updated_at FROM ingredients ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("finding ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []models.Ingredient{}
	for rows.Next() {
		var ingredient models.Ingredient
		if err := rows.Scan(&ingredient.ID, &ingredient.Name, &ingredient.Unit, &ingredient.UnitPrice, &ingredient.CreatedAt, &ingredient.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, rows.Err()
}

func (repository *SQLiteIngredientRepository) Create(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error) {
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	now := time.Now()
	ingredient.CreatedAt = now
	ingredient.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO ingredients (id, name, unit, unit_price, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		ingredient.ID, ingredient.Name, ingredient.Unit, ingredient.UnitPrice, ingredient.CreatedAt, ingredient.UpdatedAt,
	)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("creating ingredient: %w", classify(err))
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) Update(ctx context.Context, ingredient models.Ingredient) (models.Ingredient, error) {
	ingredient.UpdatedAt = time.Now()

	result, err := repository.database.ExecContext(ctx,
		"UPDATE ingredients SET name = ?, unit = ?, unit_price = ?, updated_at = ? WHERE id = ?",
		ingredient.Name, ingredient.Unit, ingredient.UnitPrice, ingredient.UpdatedAt, ingredient.ID,
	)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("updating ingredient: %w", classify(err))
	}
	if err := requireAffected(result); err != nil {
		return models.Ingredient{}, fmt.Errorf("updating ingredient: %w", err)
	}
	return repository.FindByID(ctx, ingredient.ID)
}

// Delete fails with ErrReferenced while a recipe, inventory or shopping list
// still uses the ingredient.
func (repository *SQLiteIngredientRepository) Delete(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM ingredients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting ingredient: %w", classify(err))
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("deleting ingredient: %w", err)
	}
	return nil
}

// requireAffected reports sql.ErrNoRows when a write matched nothing.
func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
