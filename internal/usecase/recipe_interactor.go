package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/GoArmGo/RecipeApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

// recipeUseCase implements RecipeUseCase
type recipeUseCase struct {
	recipes   ports.RecipeStorage
	files     FileStorage
	publisher ports.RecipeEventPublisher
	logger    *slog.Logger
}

// NewRecipeUseCase создает новый экземпляр RecipeUseCase.
// files может быть nil: тогда загрузка изображений возвращает ErrImagesDisabled.
func NewRecipeUseCase(
	recipes ports.RecipeStorage,
	files FileStorage,
	publisher ports.RecipeEventPublisher,
	logger *slog.Logger,
) RecipeUseCase {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &recipeUseCase{
		recipes:   recipes,
		files:     files,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *recipeUseCase) ListPublicRecipes(ctx context.Context) ([]domain.Recipe, error) {
	public := true
	return uc.list(ctx, domain.RecipeFilter{IsPublic: &public})
}

func (uc *recipeUseCase) ListPrivateRecipes(ctx context.Context, userID uuid.UUID) ([]domain.Recipe, error) {
	public := false
	return uc.list(ctx, domain.RecipeFilter{IsPublic: &public, UserID: &userID})
}

func (uc *recipeUseCase) ListRecipesByType(ctx context.Context, recipeType string) ([]domain.Recipe, error) {
	if strings.TrimSpace(recipeType) == "" {
		return nil, fmt.Errorf("%w: recipeType is required", domain.ErrValidation)
	}
	public := true
	return uc.list(ctx, domain.RecipeFilter{IsPublic: &public, RecipeType: &recipeType})
}

func (uc *recipeUseCase) list(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	recipes, err := uc.recipes.ListRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("usecase: list recipes: %w", err)
	}
	return recipes, nil
}

func (uc *recipeUseCase) CreateRecipe(ctx context.Context, userID uuid.UUID, input CreateRecipeInput) (*domain.Recipe, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if input.Ingredients == nil || input.Instructions == nil {
		return nil, fmt.Errorf("%w: ingredients and instructions are required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	recipe := &domain.Recipe{
		ID:           uuid.New(),
		Title:        input.Title,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		IsPublic:     input.IsPublic,
		UserID:       userID,
		RecipeType:   input.RecipeType,
		Ratings:      []domain.Rating{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.recipes.SaveRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("usecase: save recipe: %w", err)
	}

	uc.logger.Info("recipe created", "recipe_id", recipe.ID, "user_id", userID)
	uc.publish(ctx, payloads.RecipeCreated, recipe.ID, userID, "")
	return recipe, nil
}

func (uc *recipeUseCase) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, update domain.RecipeUpdate) (*domain.Recipe, error) {
	recipe, err := uc.owned(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	recipe.Apply(update)
	recipe.UpdatedAt = time.Now().UTC()

	if err := uc.recipes.UpdateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("usecase: update recipe %s: %w", recipeID, err)
	}

	uc.logger.Info("recipe updated", "recipe_id", recipeID, "user_id", userID)
	uc.publish(ctx, payloads.RecipeUpdated, recipeID, userID, "")
	return recipe, nil
}

func (uc *recipeUseCase) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	recipe, err := uc.owned(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	if err := uc.recipes.DeleteRecipe(ctx, recipeID); err != nil {
		return fmt.Errorf("usecase: delete recipe %s: %w", recipeID, err)
	}

	uc.logger.Info("recipe deleted", "recipe_id", recipeID, "user_id", userID)
	uc.publish(ctx, payloads.RecipeDeleted, recipeID, userID, recipe.ImageKey)
	return nil
}

func (uc *recipeUseCase) AddRating(ctx context.Context, userID, recipeID uuid.UUID, value float64) error {
	if err := domain.ValidateRating(value); err != nil {
		return err
	}

	err := uc.recipes.AddRating(ctx, recipeID, domain.Rating{UserID: userID, Rating: value})
	if err != nil {
		return fmt.Errorf("usecase: add rating to %s: %w", recipeID, err)
	}

	uc.logger.Info("rating added", "recipe_id", recipeID, "user_id", userID, "rating", value)
	uc.publish(ctx, payloads.RecipeRated, recipeID, userID, "")
	return nil
}

func (uc *recipeUseCase) UpdateRating(ctx context.Context, userID, recipeID uuid.UUID, value float64) error {
	if err := domain.ValidateRating(value); err != nil {
		return err
	}

	err := uc.recipes.UpdateRating(ctx, recipeID, domain.Rating{UserID: userID, Rating: value})
	if err != nil {
		return fmt.Errorf("usecase: update rating on %s: %w", recipeID, err)
	}

	uc.logger.Info("rating updated", "recipe_id", recipeID, "user_id", userID, "rating", value)
	uc.publish(ctx, payloads.RecipeRatingUpdated, recipeID, userID, "")
	return nil
}

func (uc *recipeUseCase) AverageRating(ctx context.Context, recipeID uuid.UUID) (domain.RatingSummary, error) {
	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RatingSummary{}, fmt.Errorf("usecase: get recipe %s: %w", recipeID, err)
	}
	return recipe.AverageRating(), nil
}

// UploadImage загружает новую обложку, затем удаляет предыдущую
func (uc *recipeUseCase) UploadImage(ctx context.Context, userID, recipeID uuid.UUID, image ImageUpload) (*domain.Recipe, error) {
	if uc.files == nil {
		return nil, ErrImagesDisabled
	}

	recipe, err := uc.owned(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if _, ok := imageExtensions[image.ContentType]; !ok {
		return nil, fmt.Errorf("%w: file must be a JPEG, PNG, GIF or WebP image", domain.ErrValidation)
	}

	key := ImageKey(recipeID, image.Filename, image.ContentType)
	url, err := uc.files.UploadFile(ctx, key, image.Reader, image.ContentType)
	if err != nil {
		return nil, fmt.Errorf("usecase: upload image for %s: %w", recipeID, err)
	}

	oldKey := recipe.ImageKey
	recipe.ImageURL = url
	recipe.ImageKey = key
	recipe.UpdatedAt = time.Now().UTC()

	if err := uc.recipes.UpdateRecipe(ctx, recipe); err != nil {
		uc.removeFile(ctx, key)
		return nil, fmt.Errorf("usecase: save image for %s: %w", recipeID, err)
	}
	if oldKey != "" && oldKey != key {
		uc.removeFile(ctx, oldKey)
	}

	uc.logger.Info("recipe image uploaded", "recipe_id", recipeID, "key", key)
	uc.publish(ctx, payloads.RecipeImageUploaded, recipeID, userID, key)
	return recipe, nil
}

// imageExtensions перечисляет принимаемые растровые форматы обложек.
// SVG не принимается: из публичного бакета он исполняется браузером.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageKey строит ключ объекта: recipes/<recipe id>/<uuid><ext>.
// Расширение берется из типа содержимого, имя файла используется только для неизвестных типов.
func ImageKey(recipeID uuid.UUID, filename, contentType string) string {
	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	return fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.New(), ext)
}

// owned загружает рецепт и проверяет, что им владеет userID
func (uc *recipeUseCase) owned(ctx context.Context, userID, recipeID uuid.UUID) (*domain.Recipe, error) {
	recipe, err := uc.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("usecase: get recipe %s: %w", recipeID, err)
	}
	if !recipe.IsOwnedBy(userID) {
		uc.logger.Warn("recipe access denied", "recipe_id", recipeID, "user_id", userID)
		return nil, domain.ErrForbidden
	}
	return recipe, nil
}

func (uc *recipeUseCase) removeFile(ctx context.Context, key string) {
	if err := uc.files.DeleteFile(ctx, key); err != nil {
		uc.logger.Warn("failed to delete image", "key", key, "error", err)
	}
}

// publish отправляет событие; ошибка брокера не влияет на результат запроса
func (uc *recipeUseCase) publish(ctx context.Context, typ payloads.RecipeEventType, recipeID, userID uuid.UUID, imageKey string) {
	event := payloads.RecipeEvent{
		Type:       typ,
		RecipeID:   recipeID,
		UserID:     userID,
		ImageKey:   imageKey,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.publisher.PublishRecipeEvent(ctx, event); err != nil {
		uc.logger.Error("failed to publish recipe event", "type", typ, "recipe_id", recipeID, "error", err)
	}
}
