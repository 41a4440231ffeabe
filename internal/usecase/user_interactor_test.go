package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/GoArmGo/RecipeApp/internal/auth"
	"github.com/GoArmGo/RecipeApp/internal/database/memory"
	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUserUseCase(t *testing.T) (UserUseCase, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	return NewUserUseCase(memory.NewStorage(), tokens, discardLogger()), tokens
}

func TestUserUseCase_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc, tokens := newUserUseCase(t)

	user, err := uc.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "pw123"})
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", user.PasswordHash)

	res, err := uc.Login(ctx, "ann@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	id, err := tokens.GetUserIDFromToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	got, err := uc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Username)
}

func TestUserUseCase_LoginFailures(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserUseCase(t)

	_, err := uc.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "pw123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, "ann@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, "bob@example.com", "pw123")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserUseCase_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserUseCase(t)

	_, err := uc.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "a"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, RegisterInput{Username: "other", Email: "ann@example.com", Password: "b"})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserUseCase_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserUseCase(t)

	cases := []RegisterInput{
		{Email: "a@example.com", Password: "x"},
		{Username: "a", Password: "x"},
		{Username: "a", Email: "a@example.com"},
		{Username: "  ", Email: "a@example.com", Password: "x"},
	}
	for _, in := range cases {
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}
