package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pantryhub/pantry/internal/models"
)

type RecipeRepository interface {
	FindByID(ctx context.Context, id string) (models.Recipe, error)
	FindByAuthor(ctx context.Context, authorID string) ([]models.Recipe, error)
	FindPublic(ctx context.Context) ([]models.Recipe, error)
	Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	Update(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	Delete(ctx context.Context, id string) error
}

type SQLiteRecipeRepository struct {
	database *sql.DB
}

func NewRecipeRepository(database *sql.DB) *SQLiteRecipeRepository {
	return &SQLiteRecipeRepository{database: database}
}

const recipeColumns = `id, name, description, prep_minutes, cook_minutes, is_public,
	author_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (models.Recipe, error) {
	var recipe models.Recipe
	err := row.Scan(
		&recipe.ID, &recipe.Name, &recipe.Description, &recipe.PrepMinutes, &recipe.CookMinutes,
		&recipe.Public, &recipe.AuthorID, &recipe.CreatedAt, &recipe.UpdatedAt,
	)
	return recipe, err
}

func (repository *SQLiteRecipeRepository) FindByID(ctx context.Context, id string) (models.Recipe, error) {
	recipe, err := scanRecipe(repository.database.QueryRowContext(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id,
	))
	if err != nil {
		return models.Recipe{}, fmt.Errorf("finding recipe by id: %w", err)
	}
	recipe.Ingredients, err = repository.findIngredients(ctx, recipe.ID)
	if err != nil {
		return models.Recipe{}, err
	}
	return recipe, nil
}

func (repository *SQLiteRecipeRepository) FindByAuthor(ctx context.Context, authorID string) ([]models.Recipe, error) {
	return repository.findMany(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE author_id = ? ORDER BY name ASC", authorID,
	)
}

func (repository *SQLiteRecipeRepository) FindPublic(ctx context.Context) ([]models.Recipe, error) {
	return repository.findMany(ctx,
		"SELECT "+recipeColumns+" FROM recipes WHERE is_public = 1 ORDER BY name ASC",
	)
}

func (repository *SQLiteRecipeRepository) findMany(ctx context.Context, query string, args ...any) ([]models.Recipe, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}

	recipes := []models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating recipes: %w", err)
	}
	rows.Close()

	for i := range recipes {
		if recipes[i].Ingredients, err = repository.findIngredients(ctx, recipes[i].ID); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

func (repository *SQLiteRecipeRepository) findIngredients(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT ingredient_id, quantity FROM recipe_ingredients WHERE recipe_id = ? ORDER BY position",
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding recipe ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []models.RecipeIngredient{}
	for rows.Next() {
		var ingredient models.RecipeIngredient
		if err := rows.Scan(&ingredient.IngredientID, &ingredient.Quantity); err != nil {
			return nil, fmt.Errorf("scanning recipe ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, rows.Err()
}

func (repository *SQLiteRecipeRepository) Create(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	if recipe.Ingredients == nil {
		recipe.Ingredients = []models.RecipeIngredient{}
	}

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	_, err = transaction.ExecContext(ctx,
		"INSERT INTO recipes ("+recipeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		recipe.ID, recipe.Name, recipe.Description, recipe.PrepMinutes, recipe.CookMinutes,
		recipe.Public, recipe.AuthorID, recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("creating recipe: %w", classify(err))
	}
	if err := insertRecipeIngredients(ctx, transaction, recipe); err != nil {
		return models.Recipe{}, err
	}

	if err := transaction.Commit(); err != nil {
		return models.Recipe{}, fmt.Errorf("committing recipe: %w", err)
	}
	return recipe, nil
}

// Update replaces the recipe's fields and its whole ingredient set.
func (repository *SQLiteRecipeRepository) Update(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	recipe.UpdatedAt = time.Now()
	if recipe.Ingredients == nil {
		recipe.Ingredients = []models.RecipeIngredient{}
	}

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	result, err := transaction.ExecContext(ctx,
		`UPDATE recipes SET name = ?, description = ?, prep_minutes = ?, cook_minutes = ?,
			is_public = ?, updated_at = ?
		WHERE id = ?`,
		recipe.Name, recipe.Description, recipe.PrepMinutes, recipe.CookMinutes,
		recipe.Public, recipe.UpdatedAt, recipe.ID,
	)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("updating recipe: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return models.Recipe{}, fmt.Errorf("updating recipe: %w", err)
	}

	if _, err := transaction.ExecContext(ctx, "DELETE FROM recipe_ingredients WHERE recipe_id = ?", recipe.ID); err != nil {
		return models.Recipe{}, fmt.Errorf("clearing recipe ingredients: %w", err)
	}
	if err := insertRecipeIngredients(ctx, transaction, recipe); err != nil {
		return models.Recipe{}, err
	}

	if err := transaction.Commit(); err != nil {
		return models.Recipe{}, fmt.Errorf("committing recipe: %w", err)
	}
	return repository.FindByID(ctx, recipe.ID)
}

func insertRecipeIngredients(ctx context.Context, transaction *sql.Tx, recipe models.Recipe) error {
	for position, ingredient := range recipe.Ingredients {
		if _, err := transaction.ExecContext(ctx,
			"INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity, position) VALUES (?, ?, ?, ?)",
			recipe.ID, ingredient.IngredientID, ingredient.Quantity, position,
		); err != nil {
			return fmt.Errorf("inserting recipe ingredient: %w", classify(err))
		}
	}
	return nil
}

func (repository *SQLiteRecipeRepository) Delete(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	return nil
}
