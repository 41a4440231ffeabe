package ports

import (
	"context"

	"github.com/GoArmGo/RecipeApp/internal/messaging/payloads"
)

// RecipeEventPublisher определяет методы для публикации событий жизненного цикла рецептов.
// Используется usecase-слоем после успешных изменений.
type RecipeEventPublisher interface {
	PublishRecipeEvent(ctx context.Context, event payloads.RecipeEvent) error
}

// RecipeEventConsumer определяет методы для потребления событий о рецептах.
// Используется воркером.
type RecipeEventConsumer interface {
	// ConsumeRecipeEvents слушает очередь и вызывает handler для каждого события.
	// Блокирует до отмены ctx (возвращает nil) или потери канала доставки (возвращает ошибку).
	ConsumeRecipeEvents(ctx context.Context, handler func(context.Context, payloads.RecipeEvent) error) error
}
