package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/RecipeApp/internal/app"
	"github.com/GoArmGo/RecipeApp/internal/auth"
	"github.com/GoArmGo/RecipeApp/internal/config"
	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/database/client"
	"github.com/GoArmGo/RecipeApp/internal/database/memory"
	"github.com/GoArmGo/RecipeApp/internal/database/mongodb"
	"github.com/GoArmGo/RecipeApp/internal/database/postgres"
	"github.com/GoArmGo/RecipeApp/internal/database/storage"
	"github.com/GoArmGo/RecipeApp/internal/rabbitmq"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
)

const closeTimeout = 10 * time.Second

// Stores содержит хранилища, выбранные по STORE_DRIVER
type Stores struct {
	Recipes ports.RecipeStorage
	Users   ports.UserStorage
	Pinger  ports.Pinger
	Close   func() error
}

// BuildStores подключается к выбранному хранилищу
func BuildStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		mc, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		if err := mc.EnsureIndexes(ctx); err != nil {
			_ = mc.Close(context.Background())
			return nil, err
		}
		return &Stores{
			Recipes: mongodb.NewRecipeStorage(mc.Database(), logger),
			Users:   mongodb.NewUserStorage(mc.Database(), logger),
			Pinger:  mc,
			Close: func() error {
				closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
				defer cancel()
				return mc.Close(closeCtx)
			},
		}, nil

	case config.StorePostgres:
		if err := client.ApplyMigrations(cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}
		dbClient, err := client.NewClient(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Recipes: postgres.NewRecipeStorage(dbClient.Gorm, logger),
			Users:   storage.NewUserStorage(dbClient.DB, logger),
			Pinger:  dbClient,
			Close:   dbClient.Close,
		}, nil

	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		mem := memory.NewStorage()
		return &Stores{
			Recipes: mem,
			Users:   mem,
			Pinger:  mem,
			Close:   func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Migrate готовит схему выбранного хранилища без запуска приложения
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		return client.ApplyMigrations(cfg.DatabaseURL, logger)
	case config.StoreMongo:
		mc, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return err
		}
		defer func() { _ = mc.Close(context.Background()) }()
		return mc.EnsureIndexes(ctx)
	default:
		logger.Info("store driver has no schema, nothing to migrate", "driver", cfg.StoreDriver)
		return nil
	}
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.App, error) {
	var closers []func() error
	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	// 1. Хранилища
	stores, err := BuildStores(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, stores.Close)

	// 2. Файловое хранилище обложек (опционально)
	var files usecase.FileStorage
	if cfg.ImagesEnabled() {
		minioClient, err := minio.NewMinioClient(ctx, cfg, logger)
		if err != nil {
			return fail(err)
		}
		files = minioClient
	} else {
		logger.Info("MINIO_ENDPOINT not set, image uploads disabled")
	}

	// 3. RabbitMQ (опционально)
	var publisher ports.RecipeEventPublisher
	var consumer ports.RecipeEventConsumer
	if cfg.EventsEnabled() {
		mq, err := rabbitmq.NewClient(cfg.RabbitMQ.RabbitMQURL, cfg.RabbitMQ.RabbitMQQueueName, logger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, mq.Close)
		publisher = mq
		consumer = mq
	} else {
		logger.Info("RABBITMQ_URL not set, recipe events disabled")
	}

	// 4. JWT
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fail(err)
	}

	// 5. Бизнес-логика
	userUseCase := usecase.NewUserUseCase(stores.Users, tokens, logger)
	recipeUseCase := usecase.NewRecipeUseCase(stores.Recipes, files, publisher, logger)

	router := app.NewRouter(app.RouterDeps{
		Config:  cfg,
		Logger:  logger,
		Users:   userUseCase,
		Recipes: recipeUseCase,
		Tokens:  tokens,
		Store:   stores.Pinger,
	})

	logger.Info("all dependencies initialized", "store", cfg.StoreDriver)
	return app.NewApp(cfg, logger, router, consumer, files, closers...), nil
}
