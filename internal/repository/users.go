package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pantryhub/pantry/internal/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
}

type SQLiteUserRepository struct {
	database *sql.DB
}

func NewUserRepository(database *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{database: database}
}

const userColumns = "id, username, email, password_hash, created_at"

func (repository *SQLiteUserRepository) findOne(ctx context.Context, column, value string) (models.User, error) {
	var user models.User
	err := repository.database.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by %s: %w", column, err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return repository.findOne(ctx, "id", id)
}

func (repository *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return repository.findOne(ctx, "email", email)
}

func (repository *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return repository.findOne(ctx, "username", username)
}

func (repository *SQLiteUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", classify(err))
	}
	return user, nil
}
