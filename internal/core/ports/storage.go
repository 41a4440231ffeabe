package ports

import (
	"context"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
)

// RecipeStorage определяет методы для взаимодействия с хранилищем рецептов.
// Не найденный рецепт возвращается как domain.ErrRecipeNotFound.
type RecipeStorage interface {
	SaveRecipe(ctx context.Context, recipe *domain.Recipe) error
	GetRecipeByID(ctx context.Context, id uuid.UUID) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, error)
	// UpdateRecipe перезаписывает поля рецепта, оценки не затрагиваются
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, id uuid.UUID) error

	// AddRating атомарно добавляет оценку, если ее еще нет (domain.ErrAlreadyRated)
	AddRating(ctx context.Context, recipeID uuid.UUID, rating domain.Rating) error
	// UpdateRating атомарно меняет существующую оценку (domain.ErrRatingNotFound)
	UpdateRating(ctx context.Context, recipeID uuid.UUID, rating domain.Rating) error
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	// CreateUser возвращает domain.ErrEmailTaken при повторной регистрации email
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Pinger проверяет доступность хранилища (используется health check)
type Pinger interface {
	Ping(ctx context.Context) error
}
