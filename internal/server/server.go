package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pantryhub/pantry/internal/backend"
	"github.com/pantryhub/pantry/internal/config"
	"github.com/pantryhub/pantry/internal/handlers"
	"github.com/pantryhub/pantry/internal/middleware"
	"github.com/pantryhub/pantry/internal/repository"
	"github.com/pantryhub/pantry/internal/services"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config, authService *services.AuthService) *Server {
	ingredientRepo := repository.NewIngredientRepository(database)
	recipeRepo := repository.NewRecipeRepository(database)
	inventoryRepo := repository.NewInventoryRepository(database)
	listRepo := repository.NewShoppingListRepository(database)

	store := backend.NewSQLite(database)
	shoppingService := services.NewShoppingService(store)
	inventoryService := services.NewInventoryService(store)

	authHandler := handlers.NewAuthHandler(authService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientRepo)
	recipeHandler := handlers.NewRecipeHandler(recipeRepo)
	inventoryHandler := handlers.NewInventoryHandler(inventoryRepo, inventoryService)
	shoppingHandler := handlers.NewShoppingHandler(listRepo, ingredientRepo, shoppingService)

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Post("/api/auth/register", authHandler.Register)
	router.Post("/api/auth/login", authHandler.Login)

	router.Get("/api/ingredients", ingredientHandler.List)
	router.Get("/api/ingredients/{id}", ingredientHandler.Get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService))

		r.Get("/api/auth/profile", authHandler.Profile)

		r.Post("/api/ingredients", ingredientHandler.Create)
		r.Put("/api/ingredients/{id}", ingredientHandler.Update)
		r.Delete("/api/ingredients/{id}", ingredientHandler.Delete)

		r.Get("/api/recipes", recipeHandler.ListMine)
		r.Get("/api/recipes/public", recipeHandler.ListPublic)
		r.Get("/api/recipes/{id}", recipeHandler.Get)
		r.Post("/api/recipes", recipeHandler.Create)
		r.Put("/api/recipes/{id}", recipeHandler.Update)
		r.Delete("/api/recipes/{id}", recipeHandler.Delete)

		r.Get("/api/inventories", inventoryHandler.List)
		r.Post("/api/inventories", inventoryHandler.Create)
		r.Get("/api/inventories/{id}", inventoryHandler.Get)
		r.Put("/api/inventories/{id}", inventoryHandler.Update)
		r.Delete("/api/inventories/{id}", inventoryHandler.Delete)
		r.Put("/api/inventories/{id}/ingredients/{ingredientID}", inventoryHandler.SetIngredientQuantity)

		r.Get("/api/shopping/lists", shoppingHandler.List)
		r.Post("/api/shopping/lists", shoppingHandler.Create)
		r.Get("/api/shopping/lists/{id}", shoppingHandler.Get)
		r.Put("/api/shopping/lists/{id}", shoppingHandler.Update)
		r.Delete("/api/shopping/lists/{id}", shoppingHandler.Delete)
		r.Post("/api/shopping/lists/{id}/items", shoppingHandler.AddItem)
		r.Put("/api/shopping/lists/{id}/items/{itemID}", shoppingHandler.UpdateItem)
		r.Delete("/api/shopping/lists/{id}/items/{itemID}", shoppingHandler.RemoveItem)
		r.Post("/api/shopping/generate/{recipeID}/{inventoryID}", shoppingHandler.Generate)
	})

	server := &Server{
		router: router,
		config: cfg,
	}

	return server
}

// Handler exposes the router, mainly for tests.
func (server *Server) Handler() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
