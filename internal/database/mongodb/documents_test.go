package mongodb

import (
	"testing"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRecipeFilter(t *testing.T) {
	owner := uuid.New()
	yes, no := true, false
	dessert := "dessert"

	assert.Equal(t, bson.M{}, recipeFilter(domain.RecipeFilter{}))
	assert.Equal(t, bson.M{"is_public": true}, recipeFilter(domain.RecipeFilter{IsPublic: &yes}))
	assert.Equal(t,
		bson.M{"is_public": false, "user": owner.String()},
		recipeFilter(domain.RecipeFilter{IsPublic: &no, UserID: &owner}),
	)
	assert.Equal(t,
		bson.M{"is_public": true, "recipe_type": "dessert"},
		recipeFilter(domain.RecipeFilter{IsPublic: &yes, RecipeType: &dessert}),
	)
}

func TestRecipeDocument_BSONShape(t *testing.T) {
	r := &domain.Recipe{
		ID:       uuid.New(),
		Title:    "Cake",
		UserID:   uuid.New(),
		IsPublic: true,
		Ratings:  []domain.Rating{{UserID: uuid.New(), Rating: 4}},
		ImageKey: "recipes/x/y.png",
	}

	raw, err := bson.Marshal(toRecipeDocument(r))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))

	assert.Equal(t, r.ID.String(), m["_id"])
	assert.Equal(t, r.UserID.String(), m["user"])
	ingredients, ok := m["ingredients"].(bson.A)
	require.True(t, ok, "ingredients stored as array, not null")
	assert.Empty(t, ingredients)
	assert.Equal(t, "recipes/x/y.png", m["image_key"])
	assert.NotContains(t, m, "image_url")

	ratings, ok := m["ratings"].(bson.A)
	require.True(t, ok)
	require.Len(t, ratings, 1)
}

func TestRecipeDocument_ToDomain(t *testing.T) {
	doc := recipeDocument{
		ID:        uuid.NewString(),
		Title:     "Cake",
		UserID:    uuid.NewString(),
		Ratings:   []ratingDocument{{UserID: uuid.NewString(), Rating: 3}},
		CreatedAt: time.Now().UTC(),
	}

	r, err := doc.toDomain()
	require.NoError(t, err)
	assert.NotNil(t, r.Ingredients)
	assert.NotNil(t, r.Instructions)
	require.Len(t, r.Ratings, 1)
	assert.Equal(t, float64(3), r.Ratings[0].Rating)

	doc.UserID = "not-a-uuid"
	_, err = doc.toDomain()
	assert.Error(t, err)
}

func TestAddRatingQuery(t *testing.T) {
	recipeID, userID := uuid.New(), uuid.New()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	filter, update := addRatingQuery(recipeID, domain.Rating{UserID: userID, Rating: 4.5}, now)

	assert.Equal(t, bson.M{
		"_id":          recipeID.String(),
		"ratings.user": bson.M{"$ne": userID.String()},
	}, filter)
	assert.Equal(t, bson.M{
		"$push": bson.M{"ratings": ratingDocument{UserID: userID.String(), Rating: 4.5}},
		"$set":  bson.M{"updated_at": now},
	}, update)

	// оценка пишется теми же полями, что читает recipeDocument
	raw, err := bson.Marshal(update)
	require.NoError(t, err)
	pushed := bson.Raw(raw).Lookup("$push", "ratings")
	assert.Equal(t, userID.String(), pushed.Document().Lookup("user").StringValue())
	assert.Equal(t, 4.5, pushed.Document().Lookup("rating").Double())
}

func TestUpdateRatingQuery(t *testing.T) {
	recipeID, userID := uuid.New(), uuid.New()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	filter, update := updateRatingQuery(recipeID, domain.Rating{UserID: userID, Rating: 1}, now)

	assert.Equal(t, bson.M{"_id": recipeID.String(), "ratings.user": userID.String()}, filter)
	assert.Equal(t, bson.M{"$set": bson.M{
		"ratings.$.rating": 1.0,
		"updated_at":       now,
	}}, update)
}
