package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pantryhub/pantry/internal/models"
	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/shopping"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	minPasswordLength = 8
)

// AuthService registers users, checks their passwords and issues the bearer
// tokens the API accepts.
type AuthService struct {
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	cost     int
}

func NewAuthService(userRepo repository.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		cost:     bcrypt.DefaultCost,
	}
}

func (service *AuthService) Register(ctx context.Context, username, email, password string) (models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	switch {
	case len(username) < minUsernameLength:
		return models.User{}, "", &shopping.ValidationError{Field: "username", Reason: fmt.Sprintf("must be at least %d characters", minUsernameLength)}
	case !validEmail(email):
		return models.User{}, "", &shopping.ValidationError{Field: "email", Reason: "must be a valid address"}
	case len(password) < minPasswordLength:
		return models.User{}, "", &shopping.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}

	if err := service.checkAvailable(ctx, username, email); err != nil {
		return models.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.cost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("hashing password: %w", err)
	}

	user, err := service.userRepo.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost a race with another registration; report which field collided.
		if takenErr := service.checkAvailable(ctx, username, email); takenErr != nil {
			return models.User{}, "", takenErr
		}
		return models.User{}, "", fmt.Errorf("creating user: %w", err)
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := service.IssueToken(user)
	if err != nil {
		return models.User{}, "", err
	}

	slog.Info("registered user", "id", user.ID, "username", user.Username)
	return user, token, nil
}

// checkAvailable reports ErrUsernameTaken or ErrEmailTaken when an existing
// user already holds the username or email.
func (service *AuthService) checkAvailable(ctx context.Context, username, email string) error {
	if _, err := service.userRepo.FindByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("looking up username: %w", err)
	}
	if _, err := service.userRepo.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("looking up email: %w", err)
	}
	return nil
}

func (service *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, "", &shopping.ValidationError{Field: "credentials", Reason: "email and password are required"}
	}

	user, err := service.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := service.IssueToken(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// IssueToken signs an HS256 token whose subject is the user id.
func (service *AuthService) IssueToken(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(service.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user. Every failure is
// reported as ErrUnauthorized.
func (service *AuthService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return service.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := service.userRepo.FindByID(ctx, claims.Subject)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

func validEmail(email string) bool {
	address, err := mail.ParseAddress(email)
	return err == nil && address.Address == email
}
