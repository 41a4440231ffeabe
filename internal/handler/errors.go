package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
)

// statusFor переводит доменную ошибку в HTTP статус.
// fallback используется для всего, что не является известной ошибкой.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAlreadyRated),
		errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrRatingNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrImagesDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		// совпадает с ответом middleware.Timeout
		return http.StatusGatewayTimeout
	default:
		return fallback
	}
}

// messageFor возвращает текст ответа для известных ошибок
func messageFor(err error, fallback string) string {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		return "Recipe not found"
	case errors.Is(err, domain.ErrRatingNotFound):
		return "Rating by user not found"
	case errors.Is(err, domain.ErrAlreadyRated):
		return "User has already rated this recipe"
	case errors.Is(err, domain.ErrInvalidRating):
		return "Rating must be a number between 0 and 5"
	case errors.Is(err, usecase.ErrImagesDisabled):
		return "Image storage is not configured"
	default:
		return fallback
	}
}
