package mongodb

import (
	"time"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Идентификаторы хранятся строками UUID в поле _id.

type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type ratingDocument struct {
	UserID string  `bson:"user"`
	Rating float64 `bson:"rating"`
}

type recipeDocument struct {
	ID           string           `bson:"_id"`
	Title        string           `bson:"title"`
	Ingredients  []string         `bson:"ingredients"`
	Instructions []string         `bson:"instructions"`
	IsPublic     bool             `bson:"is_public"`
	UserID       string           `bson:"user"`
	RecipeType   string           `bson:"recipe_type"`
	ImageURL     string           `bson:"image_url,omitempty"`
	ImageKey     string           `bson:"image_key,omitempty"`
	Ratings      []ratingDocument `bson:"ratings"`
	CreatedAt    time.Time        `bson:"created_at"`
	UpdatedAt    time.Time        `bson:"updated_at"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d *userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           id,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func toRecipeDocument(r *domain.Recipe) recipeDocument {
	ratings := make([]ratingDocument, 0, len(r.Ratings))
	for _, rt := range r.Ratings {
		ratings = append(ratings, ratingDocument{UserID: rt.UserID.String(), Rating: rt.Rating})
	}
	return recipeDocument{
		ID:           r.ID.String(),
		Title:        r.Title,
		Ingredients:  nonNil(r.Ingredients),
		Instructions: nonNil(r.Instructions),
		IsPublic:     r.IsPublic,
		UserID:       r.UserID.String(),
		RecipeType:   r.RecipeType,
		ImageURL:     r.ImageURL,
		ImageKey:     r.ImageKey,
		Ratings:      ratings,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (d *recipeDocument) toDomain() (*domain.Recipe, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, err
	}

	ratings := make([]domain.Rating, 0, len(d.Ratings))
	for _, rt := range d.Ratings {
		uid, err := uuid.Parse(rt.UserID)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, domain.Rating{UserID: uid, Rating: rt.Rating})
	}

	return &domain.Recipe{
		ID:           id,
		Title:        d.Title,
		Ingredients:  nonNil(d.Ingredients),
		Instructions: nonNil(d.Instructions),
		IsPublic:     d.IsPublic,
		UserID:       owner,
		RecipeType:   d.RecipeType,
		ImageURL:     d.ImageURL,
		ImageKey:     d.ImageKey,
		Ratings:      ratings,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

// recipeFilter переводит domain.RecipeFilter в запрос MongoDB
func recipeFilter(f domain.RecipeFilter) bson.M {
	q := bson.M{}
	if f.IsPublic != nil {
		q["is_public"] = *f.IsPublic
	}
	if f.UserID != nil {
		q["user"] = f.UserID.String()
	}
	if f.RecipeType != nil {
		q["recipe_type"] = *f.RecipeType
	}
	return q
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// addRatingQuery строит условный $push: фильтр не совпадает с документом,
// в котором уже есть оценка этого пользователя
func addRatingQuery(recipeID uuid.UUID, rating domain.Rating, now time.Time) (bson.M, bson.M) {
	userID := rating.UserID.String()
	filter := bson.M{"_id": recipeID.String(), "ratings.user": bson.M{"$ne": userID}}
	update := bson.M{
		"$push": bson.M{"ratings": ratingDocument{UserID: userID, Rating: rating.Rating}},
		"$set":  bson.M{"updated_at": now},
	}
	return filter, update
}

// updateRatingQuery меняет оценку через позиционный оператор $,
// который указывает на элемент, совпавший с фильтром по ratings.user
func updateRatingQuery(recipeID uuid.UUID, rating domain.Rating, now time.Time) (bson.M, bson.M) {
	filter := bson.M{"_id": recipeID.String(), "ratings.user": rating.UserID.String()}
	update := bson.M{"$set": bson.M{
		"ratings.$.rating": rating.Rating,
		"updated_at":       now,
	}}
	return filter, update
}
