package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/GoArmGo/RecipeApp/internal/app"
	"github.com/GoArmGo/RecipeApp/internal/config"
	"github.com/GoArmGo/RecipeApp/internal/di"
	"github.com/GoArmGo/RecipeApp/internal/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	// bootstrap-логгер (используется только до загрузки конфигурации)
	bootstrapLogger := logger.NewBootstrap()

	cmd := &cli.Command{
		Name:  "recipeapp",
		Usage: "Recipe sharing REST API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server",
				Action: runMode(app.ModeServe),
			},
			{
				Name:   "worker",
				Usage:  "Consume recipe events from RabbitMQ",
				Action: runMode(app.ModeWorker),
			},
			{
				Name:   "migrate",
				Usage:  "Apply Postgres migrations or create MongoDB indexes",
				Action: migrate,
			},
		},
		// без подкоманды запускается сервер
		Action: runMode(app.ModeServe),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		bootstrapLogger.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

func runMode(mode string) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		cfg, slogger, err := setup()
		if err != nil {
			return err
		}

		application, err := di.BuildApp(ctx, cfg, slogger)
		if err != nil {
			return fmt.Errorf("build app: %w", err)
		}

		if err := application.Run(ctx, mode); err != nil {
			return err
		}
		slogger.Info("application stopped gracefully")
		return nil
	}
}

func migrate(ctx context.Context, _ *cli.Command) error {
	cfg, slogger, err := setup()
	if err != nil {
		return err
	}
	if err := di.Migrate(ctx, cfg, slogger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	slogger.Info("migration finished", "driver", cfg.StoreDriver)
	return nil
}

func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)
	return cfg, slogger, nil
}
