package usecase

import (
	"context"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
)

// TokenIssuer выпускает токены доступа для пользователя
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID) (string, error)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult токен и данные пользователя без хэша пароля
type LoginResult struct {
	Token string
	User  *domain.User
}

// UserUseCase определяет регистрацию, вход и загрузку пользователя
type UserUseCase interface {
	// Register возвращает domain.ErrEmailTaken, если email уже занят
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login возвращает domain.ErrInvalidCredentials и для неизвестного email, и для неверного пароля
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
