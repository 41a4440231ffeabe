package postgres

import (
	"testing"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeRecord_Conversion(t *testing.T) {
	now := time.Now().UTC()
	r := &domain.Recipe{
		ID:         uuid.New(),
		Title:      "Cake",
		UserID:     uuid.New(),
		IsPublic:   true,
		RecipeType: "dessert",
		ImageKey:   "recipes/a/b.jpg",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	rec := toRecipeRecord(r)
	require.NotNil(t, rec.Ingredients, "NOT NULL text[] column")
	require.NotNil(t, rec.Instructions)
	assert.Nil(t, rec.Ratings)

	rec.Ratings = []ratingRecord{{RecipeID: r.ID, UserID: uuid.New(), Rating: 2.5}}
	back := rec.toDomain()

	assert.Equal(t, r.ID, back.ID)
	assert.Equal(t, "dessert", back.RecipeType)
	assert.Equal(t, "recipes/a/b.jpg", back.ImageKey)
	assert.Equal(t, []string{}, back.Ingredients)
	require.Len(t, back.Ratings, 1)
	assert.Equal(t, 2.5, back.Ratings[0].Rating)
}

func TestRecordTableNames(t *testing.T) {
	assert.Equal(t, "recipes", recipeRecord{}.TableName())
	assert.Equal(t, "recipe_ratings", ratingRecord{}.TableName())
}
