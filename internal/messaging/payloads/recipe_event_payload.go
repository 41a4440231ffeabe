package payloads

import (
	"time"

	"github.com/google/uuid"
)

type RecipeEventType string

const (
	RecipeCreated       RecipeEventType = "recipe.created"
	RecipeUpdated       RecipeEventType = "recipe.updated"
	RecipeDeleted       RecipeEventType = "recipe.deleted"
	RecipeRated         RecipeEventType = "recipe.rated"
	RecipeRatingUpdated RecipeEventType = "recipe.rating_updated"
	RecipeImageUploaded RecipeEventType = "recipe.image_uploaded"
)

// RecipeEvent представляет событие о рецепте, передаваемое через RabbitMQ.
type RecipeEvent struct {
	Type       RecipeEventType `json:"type"`
	RecipeID   uuid.UUID       `json:"recipe_id"`
	UserID     uuid.UUID       `json:"user_id"`
	ImageKey   string          `json:"image_key,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
