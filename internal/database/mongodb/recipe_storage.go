package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecipeStorage реализует ports.RecipeStorage поверх коллекции recipes.
// Оценки хранятся массивом внутри документа рецепта.
type RecipeStorage struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewRecipeStorage(db *mongo.Database, logger *slog.Logger) *RecipeStorage {
	return &RecipeStorage{coll: db.Collection(recipesCollection), logger: logger}
}

func (s *RecipeStorage) SaveRecipe(ctx context.Context, recipe *domain.Recipe) error {
	start := time.Now()

	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}

	if _, err := s.coll.InsertOne(ctx, toRecipeDocument(recipe)); err != nil {
		s.logger.Error("failed to save recipe", "id", recipe.ID, "error", err)
		return fmt.Errorf("insert recipe: %w", err)
	}

	s.logger.Debug("recipe saved", "id", recipe.ID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *RecipeStorage) GetRecipeByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error) {
	start := time.Now()

	var doc recipeDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRecipeNotFound
	}
	if err != nil {
		s.logger.Error("failed to get recipe by id", "id", id, "error", err)
		return nil, fmt.Errorf("find recipe %s: %w", id, err)
	}

	recipe, err := doc.toDomain()
	if err != nil {
		return nil, fmt.Errorf("decode recipe %s: %w", id, err)
	}

	s.logger.Debug("recipe retrieved by id", "id", id, "duration_ms", time.Since(start).Milliseconds())
	return recipe, nil
}

func (s *RecipeStorage) ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error) {
	start := time.Now()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.coll.Find(ctx, recipeFilter(filter), opts)
	if err != nil {
		s.logger.Error("failed to list recipes", "error", err)
		return nil, fmt.Errorf("find recipes: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.Recipe, 0)
	for cur.Next(ctx) {
		var doc recipeDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode recipe: %w", err)
		}
		r, err := doc.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode recipe %s: %w", doc.ID, err)
		}
		out = append(out, *r)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}

	s.logger.Debug("recipes listed", "count", len(out), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

// UpdateRecipe перезаписывает редактируемые поля, массив ratings не трогает
func (s *RecipeStorage) UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error {
	start := time.Now()

	doc := toRecipeDocument(recipe)
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"title":        doc.Title,
		"ingredients":  doc.Ingredients,
		"instructions": doc.Instructions,
		"is_public":    doc.IsPublic,
		"recipe_type":  doc.RecipeType,
		"image_url":    doc.ImageURL,
		"image_key":    doc.ImageKey,
		"updated_at":   doc.UpdatedAt,
	}})
	if err != nil {
		s.logger.Error("failed to update recipe", "id", recipe.ID, "error", err)
		return fmt.Errorf("update recipe %s: %w", recipe.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecipeNotFound
	}

	s.logger.Debug("recipe updated", "id", recipe.ID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *RecipeStorage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		s.logger.Error("failed to delete recipe", "id", id, "error", err)
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecipeNotFound
	}

	s.logger.Debug("recipe deleted", "id", id, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// AddRating добавляет оценку условным $push: документ совпадает, только если
// пользователь его еще не оценивал
func (s *RecipeStorage) AddRating(ctx context.Context, recipeID uuid.UUID, rating domain.Rating) error {
	start := time.Now()

	filter, update := addRatingQuery(recipeID, rating, time.Now().UTC())
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		s.logger.Error("failed to add rating", "recipe_id", recipeID, "error", err)
		return fmt.Errorf("add rating to %s: %w", recipeID, err)
	}
	if res.MatchedCount == 0 {
		return s.missReason(ctx, recipeID, domain.ErrAlreadyRated)
	}

	s.logger.Debug("rating added", "recipe_id", recipeID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// UpdateRating меняет оценку пользователя позиционным оператором $
func (s *RecipeStorage) UpdateRating(ctx context.Context, recipeID uuid.UUID, rating domain.Rating) error {
	start := time.Now()

	filter, update := updateRatingQuery(recipeID, rating, time.Now().UTC())
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		s.logger.Error("failed to update rating", "recipe_id", recipeID, "error", err)
		return fmt.Errorf("update rating on %s: %w", recipeID, err)
	}
	if res.MatchedCount == 0 {
		return s.missReason(ctx, recipeID, domain.ErrRatingNotFound)
	}

	s.logger.Debug("rating updated", "recipe_id", recipeID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// missReason отличает отсутствующий рецепт от несработавшего условия по оценке
func (s *RecipeStorage) missReason(ctx context.Context, recipeID uuid.UUID, conditionErr error) error {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": recipeID.String()}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("check recipe %s: %w", recipeID, err)
	}
	if n == 0 {
		return domain.ErrRecipeNotFound
	}
	return conditionErr
}
