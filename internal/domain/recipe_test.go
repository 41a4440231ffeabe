package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRecipe_AddRating(t *testing.T) {
	r := &Recipe{ID: uuid.New()}
	u := uuid.New()

	require.NoError(t, r.AddRating(u, 4))
	require.Len(t, r.Ratings, 1)

	err := r.AddRating(u, 2)
	require.ErrorIs(t, err, ErrAlreadyRated)
	assert.Len(t, r.Ratings, 1)
	assert.Equal(t, float64(4), r.Ratings[0].Rating)
}

func TestRecipe_AddRating_OutOfRange(t *testing.T) {
	r := &Recipe{}

	for _, v := range []float64{-1, 5.5, 10} {
		err := r.AddRating(uuid.New(), v)
		require.ErrorIs(t, err, ErrInvalidRating)
		require.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, r.Ratings)

	require.NoError(t, r.AddRating(uuid.New(), 0))
	require.NoError(t, r.AddRating(uuid.New(), 5))
}

func TestRecipe_UpdateRating(t *testing.T) {
	r := &Recipe{}
	u := uuid.New()

	require.ErrorIs(t, r.UpdateRating(u, 3), ErrRatingNotFound)

	require.NoError(t, r.AddRating(u, 1))
	require.NoError(t, r.UpdateRating(u, 3))
	assert.Equal(t, float64(3), r.Ratings[0].Rating)
}

func TestRecipe_AverageRating(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []float64
		wantNil   bool
		wantAvg   float64
		wantCount int
	}{
		{name: "no ratings", wantNil: true},
		{name: "single", ratings: []float64{2}, wantAvg: 2, wantCount: 1},
		{name: "three and five", ratings: []float64{3, 5}, wantAvg: 4, wantCount: 2},
		{name: "fractional", ratings: []float64{1, 2}, wantAvg: 1.5, wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Recipe{}
			for _, v := range tt.ratings {
				require.NoError(t, r.AddRating(uuid.New(), v))
			}

			got := r.AverageRating()
			assert.Equal(t, tt.wantCount, got.Count)
			if tt.wantNil {
				assert.Nil(t, got.Average)
				return
			}
			require.NotNil(t, got.Average)
			assert.InDelta(t, tt.wantAvg, *got.Average, 1e-9)
		})
	}
}

func TestRecipe_Apply(t *testing.T) {
	base := func() *Recipe {
		return &Recipe{
			Title:        "Pancakes",
			Ingredients:  []string{"flour", "milk"},
			Instructions: []string{"mix", "fry"},
			IsPublic:     true,
			RecipeType:   "breakfast",
		}
	}

	t.Run("empty update keeps everything", func(t *testing.T) {
		r := base()
		r.Apply(RecipeUpdate{})
		assert.Equal(t, base(), r)
	})

	t.Run("empty strings are ignored", func(t *testing.T) {
		r := base()
		r.Apply(RecipeUpdate{Title: strPtr(""), RecipeType: strPtr("")})
		assert.Equal(t, "Pancakes", r.Title)
		assert.Equal(t, "breakfast", r.RecipeType)
	})

	t.Run("false is applied to isPublic", func(t *testing.T) {
		r := base()
		f := false
		r.Apply(RecipeUpdate{IsPublic: &f})
		assert.False(t, r.IsPublic)
	})

	t.Run("empty slice replaces", func(t *testing.T) {
		r := base()
		empty := []string{}
		r.Apply(RecipeUpdate{Ingredients: &empty})
		assert.Empty(t, r.Ingredients)
		assert.Equal(t, []string{"mix", "fry"}, r.Instructions)
	})

	t.Run("full replace", func(t *testing.T) {
		r := base()
		ing := []string{"eggs"}
		ins := []string{"boil"}
		r.Apply(RecipeUpdate{
			Title:        strPtr("Eggs"),
			Ingredients:  &ing,
			Instructions: &ins,
			RecipeType:   strPtr("snack"),
		})
		assert.Equal(t, "Eggs", r.Title)
		assert.Equal(t, ing, r.Ingredients)
		assert.Equal(t, ins, r.Instructions)
		assert.Equal(t, "snack", r.RecipeType)
		assert.True(t, r.IsPublic)
	})
}

func TestRecipeFilter_Matches(t *testing.T) {
	owner := uuid.New()
	r := &Recipe{UserID: owner, IsPublic: true, RecipeType: "dessert"}

	yes, no := true, false
	dessert, soup := "dessert", "soup"
	other := uuid.New()

	assert.True(t, RecipeFilter{}.Matches(r))
	assert.True(t, RecipeFilter{IsPublic: &yes, RecipeType: &dessert}.Matches(r))
	assert.False(t, RecipeFilter{IsPublic: &no}.Matches(r))
	assert.False(t, RecipeFilter{RecipeType: &soup}.Matches(r))
	assert.True(t, RecipeFilter{UserID: &owner}.Matches(r))
	assert.False(t, RecipeFilter{UserID: &other}.Matches(r))
}

func TestRecipe_IsOwnedBy(t *testing.T) {
	owner := uuid.New()
	r := &Recipe{UserID: owner}
	assert.True(t, r.IsOwnedBy(owner))
	assert.False(t, r.IsOwnedBy(uuid.New()))
}
