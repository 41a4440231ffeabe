package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 0
	MaxRating = 5
)

// Recipe представляет модель рецепта в системе.
// Оценки хранятся вместе с рецептом: не больше одной оценки на пользователя.
type Recipe struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	IsPublic     bool      `json:"isPublic"`
	UserID       uuid.UUID `json:"user"`
	RecipeType   string    `json:"recipeType,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	ImageKey     string    `json:"-"`
	Ratings      []Rating  `json:"ratings"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Rating оценка рецепта пользователем, значение в диапазоне [0,5]
type Rating struct {
	UserID uuid.UUID `json:"user"`
	Rating float64   `json:"rating"`
}

// RecipeUpdate описывает частичное обновление рецепта.
// nil означает "поле не передано".
type RecipeUpdate struct {
	Title        *string
	Ingredients  *[]string
	Instructions *[]string
	IsPublic     *bool
	RecipeType   *string
}

// RecipeFilter задает условия выборки рецептов
type RecipeFilter struct {
	IsPublic   *bool
	UserID     *uuid.UUID
	RecipeType *string
}

// RatingSummary результат подсчета средней оценки.
// Average равен nil, если оценок нет.
type RatingSummary struct {
	Average *float64 `json:"averageRating"`
	Count   int      `json:"count"`
}

// IsOwnedBy сравнивает владельца рецепта с пользователем
func (r *Recipe) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID.String() == userID.String()
}

// Apply применяет частичное обновление. Пустые строки не затирают значения,
// переданный массив (даже пустой) заменяет старый, IsPublic применяется всегда, если передан.
func (r *Recipe) Apply(u RecipeUpdate) {
	if u.Title != nil && *u.Title != "" {
		r.Title = *u.Title
	}
	if u.Ingredients != nil {
		r.Ingredients = *u.Ingredients
	}
	if u.Instructions != nil {
		r.Instructions = *u.Instructions
	}
	if u.IsPublic != nil {
		r.IsPublic = *u.IsPublic
	}
	if u.RecipeType != nil && *u.RecipeType != "" {
		r.RecipeType = *u.RecipeType
	}
}

// FindRating возвращает индекс оценки пользователя или -1
func (r *Recipe) FindRating(userID uuid.UUID) int {
	for i, rt := range r.Ratings {
		if rt.UserID == userID {
			return i
		}
	}
	return -1
}

// AddRating добавляет оценку, если пользователь еще не оценивал рецепт.
func (r *Recipe) AddRating(userID uuid.UUID, value float64) error {
	if err := ValidateRating(value); err != nil {
		return err
	}
	if r.FindRating(userID) >= 0 {
		return ErrAlreadyRated
	}
	r.Ratings = append(r.Ratings, Rating{UserID: userID, Rating: value})
	return nil
}

// UpdateRating перезаписывает существующую оценку пользователя.
func (r *Recipe) UpdateRating(userID uuid.UUID, value float64) error {
	if err := ValidateRating(value); err != nil {
		return err
	}
	i := r.FindRating(userID)
	if i < 0 {
		return ErrRatingNotFound
	}
	r.Ratings[i].Rating = value
	return nil
}

// AverageRating считает среднее арифметическое оценок
func (r *Recipe) AverageRating() RatingSummary {
	if len(r.Ratings) == 0 {
		return RatingSummary{}
	}
	var sum float64
	for _, rt := range r.Ratings {
		sum += rt.Rating
	}
	avg := sum / float64(len(r.Ratings))
	return RatingSummary{Average: &avg, Count: len(r.Ratings)}
}

// Matches проверяет рецепт на соответствие фильтру (используется in-memory хранилищем)
func (f RecipeFilter) Matches(r *Recipe) bool {
	if f.IsPublic != nil && r.IsPublic != *f.IsPublic {
		return false
	}
	if f.UserID != nil && r.UserID != *f.UserID {
		return false
	}
	if f.RecipeType != nil && r.RecipeType != *f.RecipeType {
		return false
	}
	return true
}

func ValidateRating(value float64) error {
	if value < MinRating || value > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
