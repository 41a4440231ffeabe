package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/database/client"
	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeStorage реализует ports.RecipeStorage с использованием GORM.
// Оценки лежат в отдельной таблице recipe_ratings с первичным ключом (recipe_id, user_id).
type RecipeStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRecipeStorage(db *gorm.DB, logger *slog.Logger) *RecipeStorage {
	return &RecipeStorage{db: db, logger: logger}
}

// SaveRecipe сохраняет новый рецепт (без оценок)
func (s *RecipeStorage) SaveRecipe(ctx context.Context, recipe *domain.Recipe) error {
	start := time.Now()

	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}

	rec := toRecipeRecord(recipe)
	if err := s.db.WithContext(ctx).Omit("Ratings").Create(&rec).Error; err != nil {
		s.logger.Error("failed to save recipe", "id", recipe.ID, "error", err)
		return fmt.Errorf("save recipe: %w", err)
	}

	s.logger.Debug("recipe saved", "id", recipe.ID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// GetRecipeByID получает рецепт вместе с оценками
func (s *RecipeStorage) GetRecipeByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	start := time.Now()

	var rec recipeRecord
	err := s.withRatings(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		s.logger.Error("failed to get recipe by id", "id", id, "error", err)
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}

	s.logger.Debug("recipe retrieved by id", "id", id, "duration_ms", time.Since(start).Milliseconds())
	return rec.toDomain(), nil
}

// ListRecipes выбирает рецепты по фильтру в порядке создания
func (s *RecipeStorage) ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	start := time.Now()

	q := s.withRatings(ctx)
	if filter.IsPublic != nil {
		q = q.Where("is_public = ?", *filter.IsPublic)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.RecipeType != nil {
		q = q.Where("recipe_type = ?", *filter.RecipeType)
	}

	var recs []recipeRecord
	if err := q.Order("created_at ASC").Find(&recs).Error; err != nil {
		s.logger.Error("failed to list recipes", "error", err)
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	out := make([]domain.Recipe, 0, len(recs))
	for i := range recs {
		out = append(out, *recs[i].toDomain())
	}

	s.logger.Debug("recipes listed", "count", len(out), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

// UpdateRecipe перезаписывает редактируемые поля, оценки не трогает
func (s *RecipeStorage) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	start := time.Now()

	rec := toRecipeRecord(recipe)
	res := s.db.WithContext(ctx).
		Model(&recipeRecord{ID: recipe.ID}).
		Select("title", "ingredients", "instructions", "is_public", "recipe_type", "image_url", "image_key", "updated_at").
		Updates(&rec)
	if res.Error != nil {
		s.logger.Error("failed to update recipe", "id", recipe.ID, "error", res.Error)
		return fmt.Errorf("update recipe %s: %w", recipe.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecipeNotFound
	}

	s.logger.Debug("recipe updated", "id", recipe.ID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// DeleteRecipe удаляет рецепт, оценки удаляются каскадно
func (s *RecipeStorage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	res := s.db.WithContext(ctx).Delete(&recipeRecord{}, "id = ?", id)
	if res.Error != nil {
		s.logger.Error("failed to delete recipe", "id", id, "error", res.Error)
		return fmt.Errorf("delete recipe %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecipeNotFound
	}

	s.logger.Debug("recipe deleted", "id", id, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// insertRatingSQL не перезаписывает существующую оценку: повтор дает ноль затронутых строк
const insertRatingSQL = `INSERT INTO recipe_ratings (recipe_id, user_id, rating, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (recipe_id, user_id) DO NOTHING`

// insertRatingResult переводит результат insertRatingSQL в доменные ошибки.
// Нарушение внешнего ключа означает, что рецепта нет.
func insertRatingResult(err error, rowsAffected int64) error {
	switch {
	case err != nil && client.IsForeignKeyViolation(err):
		return domain.ErrRecipeNotFound
	case err != nil:
		return err
	case rowsAffected == 0:
		return domain.ErrAlreadyRated
	default:
		return nil
	}
}

// AddRating вставляет оценку одним запросом; конфликт по (recipe_id, user_id) означает повтор
func (s *RecipeStorage) AddRating(ctx context.Context, recipeID uuid.UUID, rating domain.Rating) error {
	start := time.Now()

	res := s.db.WithContext(ctx).Exec(insertRatingSQL,
		recipeID, rating.UserID, rating.Rating, time.Now().UTC(),
	)
	switch err := insertRatingResult(res.Error, res.RowsAffected); {
	case err == nil:
	case errors.Is(err, domain.ErrRecipeNotFound), errors.Is(err, domain.ErrAlreadyRated):
		return err
	default:
		s.logger.Error("failed to add rating", "recipe_id", recipeID, "error", err)
		return fmt.Errorf("add rating to %s: %w", recipeID, err)
	}

	s.touch(ctx, recipeID)
	s.logger.Debug("rating added", "recipe_id", recipeID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// UpdateRating меняет существующую оценку пользователя
func (s *RecipeStorage) UpdateRating(ctx context.Context, recipeID uuid.UUID, rating domain.Rating) error {
	start := time.Now()

	res := s.db.WithContext(ctx).
		Model(&ratingRecord{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, rating.UserID).
		Update("rating", rating.Rating)
	if res.Error != nil {
		s.logger.Error("failed to update rating", "recipe_id", recipeID, "error", res.Error)
		return fmt.Errorf("update rating on %s: %w", recipeID, res.Error)
	}
	if res.RowsAffected == 0 {
		exists, err := s.exists(ctx, recipeID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrRecipeNotFound
		}
		return domain.ErrRatingNotFound
	}

	s.touch(ctx, recipeID)
	s.logger.Debug("rating updated", "recipe_id", recipeID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *RecipeStorage) withRatings(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Ratings", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (s *RecipeStorage) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&recipeRecord{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check recipe %s: %w", id, err)
	}
	return n > 0, nil
}

// touch обновляет updated_at рецепта; ошибка только логируется
func (s *RecipeStorage) touch(ctx context.Context, id uuid.UUID) {
	err := s.db.WithContext(ctx).
		Model(&recipeRecord{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now().UTC()).Error
	if err != nil {
		s.logger.Warn("failed to touch recipe", "id", id, "error", err)
	}
}
