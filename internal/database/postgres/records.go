package postgres

import (
	"time"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// recipeRecord соответствует таблице recipes
type recipeRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Title        string         `gorm:"not null"`
	Ingredients  pq.StringArray `gorm:"type:text[]"`
	Instructions pq.StringArray `gorm:"type:text[]"`
	IsPublic     bool
	UserID       uuid.UUID `gorm:"type:uuid"`
	RecipeType   string
	ImageURL     string `gorm:"column:image_url"`
	ImageKey     string
	Ratings      []ratingRecord `gorm:"foreignKey:RecipeID;references:ID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (recipeRecord) TableName() string {
	return "recipes"
}

// ratingRecord соответствует таблице recipe_ratings
type ratingRecord struct {
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Rating    float64
	CreatedAt time.Time
}

func (ratingRecord) TableName() string {
	return "recipe_ratings"
}

func toRecipeRecord(r *domain.Recipe) recipeRecord {
	return recipeRecord{
		ID:           r.ID,
		Title:        r.Title,
		Ingredients:  pq.StringArray(nonNil(r.Ingredients)),
		Instructions: pq.StringArray(nonNil(r.Instructions)),
		IsPublic:     r.IsPublic,
		UserID:       r.UserID,
		RecipeType:   r.RecipeType,
		ImageURL:     r.ImageURL,
		ImageKey:     r.ImageKey,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *recipeRecord) toDomain() *domain.Recipe {
	ratings := make([]domain.Rating, 0, len(r.Ratings))
	for _, rt := range r.Ratings {
		ratings = append(ratings, domain.Rating{UserID: rt.UserID, Rating: rt.Rating})
	}

	return &domain.Recipe{
		ID:           r.ID,
		Title:        r.Title,
		Ingredients:  nonNil(r.Ingredients),
		Instructions: nonNil(r.Instructions),
		IsPublic:     r.IsPublic,
		UserID:       r.UserID,
		RecipeType:   r.RecipeType,
		ImageURL:     r.ImageURL,
		ImageKey:     r.ImageKey,
		Ratings:      ratings,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
