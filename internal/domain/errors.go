package domain

import (
	"errors"
	"fmt"
)

var (
	// not found
	ErrUserNotFound   = errors.New("user not found")
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrRatingNotFound = errors.New("rating by user not found")

	// conflicts
	ErrEmailTaken   = errors.New("email already registered")
	ErrAlreadyRated = errors.New("user has already rated this recipe")

	// auth
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("user not authorized")

	// validation
	ErrValidation    = errors.New("validation error")
	ErrInvalidRating = fmt.Errorf("%w: rating must be between 0 and 5", ErrValidation)
)
