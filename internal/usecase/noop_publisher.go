package usecase

import (
	"context"

	"github.com/GoArmGo/RecipeApp/internal/messaging/payloads"
)

// NoopPublisher используется, когда брокер сообщений не настроен
type NoopPublisher struct{}

func (NoopPublisher) PublishRecipeEvent(context.Context, payloads.RecipeEvent) error {
	return nil
}
