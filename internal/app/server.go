package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/config"
	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/handler"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 30 * time.Second

// RouterDeps содержит зависимости HTTP-слоя
type RouterDeps struct {
	Config  *config.Config
	Logger  *slog.Logger
	Users   usecase.UserUseCase
	Recipes usecase.RecipeUseCase
	Tokens  handler.TokenParser
	Store   ports.Pinger
}

// NewRouter собирает chi-роутер со всеми маршрутами API
func NewRouter(d RouterDeps) http.Handler {
	userHandler := handler.NewUserHandler(d.Users, d.Logger)
	recipeHandler := handler.NewRecipeHandler(d.Recipes, d.Logger)
	healthHandler := handler.NewHealthHandler(d.Store, d.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.Metrics)
	r.Use(handler.RequestLogger(d.Logger))
	r.Use(handler.Recoverer(d.Logger))
	if d.Config.RateLimit > 0 {
		r.Use(handler.RateLimit(rate.NewLimiter(rate.Limit(d.Config.RateLimit), d.Config.RateLimitBurst), d.Logger))
	}
	if d.Config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.Config.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", handler.MetricsHandler())

	r.Post("/users/register", userHandler.Register)
	r.Post("/users/login", userHandler.Login)

	r.Get("/recipes/public", recipeHandler.ListPublic)
	r.Get("/recipes/filter", recipeHandler.Filter)
	r.Get("/recipes/{id}/ratings/average", recipeHandler.AverageRating)

	// Все изменяющие и приватные маршруты требуют токен
	r.Group(func(r chi.Router) {
		r.Use(handler.Authenticate(d.Tokens, d.Users, d.Logger))

		r.Get("/recipes/private", recipeHandler.ListPrivate)
		r.Post("/recipes", recipeHandler.Create)
		r.Post("/recipes/{id}/ratings", recipeHandler.AddRating)
		r.Put("/recipes/{id}/ratings", recipeHandler.UpdateRating)
		r.Put("/recipes/{id}/image", recipeHandler.UploadImage)
		r.Put("/api/recipes/{id}", recipeHandler.Update)
		r.Delete("/api/recipes/{id}", recipeHandler.Delete)
	})

	return r
}

// runServer запускает HTTP сервер и останавливает его при отмене ctx
func runServer(ctx context.Context, cfg *config.Config, router http.Handler, logger *slog.Logger) error {
	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping server")

	// ctx уже отменен, поэтому таймаут отсчитывается от нового контекста
	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
