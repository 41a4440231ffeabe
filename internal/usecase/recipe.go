package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
)

// ErrImagesDisabled возвращается, когда файловое хранилище не настроено
var ErrImagesDisabled = errors.New("image storage is not configured")

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
type FileStorage interface {
	// UploadFile загружает файл и возвращает его публичный URL.
	// key - уникальное имя файла в хранилище.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFile удаляет файл из хранилища по его ключу
	DeleteFile(ctx context.Context, key string) error
}

// CreateRecipeInput данные нового рецепта
type CreateRecipeInput struct {
	Title        string
	Ingredients  []string
	Instructions []string
	IsPublic     bool
	RecipeType   string
}

// ImageUpload загружаемая обложка рецепта
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// RecipeUseCase определяет бизнес-логику работы с рецептами и оценками.
// userID везде аутентифицированный пользователь.
type RecipeUseCase interface {
	ListPublicRecipes(ctx context.Context) ([]domain.Recipe, error)
	ListPrivateRecipes(ctx context.Context, userID uuid.UUID) ([]domain.Recipe, error)
	// ListRecipesByType возвращает публичные рецепты с точным совпадением типа
	ListRecipesByType(ctx context.Context, recipeType string) ([]domain.Recipe, error)

	CreateRecipe(ctx context.Context, userID uuid.UUID, input CreateRecipeInput) (*domain.Recipe, error)
	// UpdateRecipe применяет частичное обновление; только владелец (domain.ErrForbidden)
	UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, update domain.RecipeUpdate) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error

	AddRating(ctx context.Context, userID, recipeID uuid.UUID, value float64) error
	UpdateRating(ctx context.Context, userID, recipeID uuid.UUID, value float64) error
	AverageRating(ctx context.Context, recipeID uuid.UUID) (domain.RatingSummary, error)

	// UploadImage сохраняет обложку в файловом хранилище; только владелец
	UploadImage(ctx context.Context, userID, recipeID uuid.UUID, image ImageUpload) (*domain.Recipe, error)
}
