package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/messaging/payloads"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
)

// runWorker потребляет события до отмены ctx.
// Потеря соединения с брокером возвращается ошибкой, чтобы процесс завершился с ненулевым кодом.
func runWorker(ctx context.Context, consumer ports.RecipeEventConsumer, files usecase.FileStorage, logger *slog.Logger) error {
	logger.Info("worker started, waiting for recipe events")

	if err := consumer.ConsumeRecipeEvents(ctx, newEventHandler(files, logger)); err != nil {
		return fmt.Errorf("RabbitMQ consumer: %w", err)
	}

	logger.Info("worker stopped")
	return nil
}

// newEventHandler возвращает обработчик событий о рецептах.
// При удалении рецепта удаляет его обложку из файлового хранилища.
func newEventHandler(files usecase.FileStorage, logger *slog.Logger) func(context.Context, payloads.RecipeEvent) error {
	return func(ctx context.Context, event payloads.RecipeEvent) error {
		log := logger.With("type", event.Type, "recipe_id", event.RecipeID, "user_id", event.UserID)

		switch event.Type {
		case payloads.RecipeDeleted:
			if event.ImageKey == "" {
				log.Info("recipe deleted, no image to clean up")
				return nil
			}
			if files == nil {
				log.Warn("recipe image left in storage, image storage is not configured", "key", event.ImageKey)
				return nil
			}
			if err := files.DeleteFile(ctx, event.ImageKey); err != nil {
				return fmt.Errorf("delete image %s: %w", event.ImageKey, err)
			}
			log.Info("recipe image removed", "key", event.ImageKey)
		default:
			log.Info("recipe event received", "occurred_at", event.OccurredAt)
		}
		return nil
	}
}
