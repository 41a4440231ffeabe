package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.GetUserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenService_ClaimsShape(t *testing.T) {
	svc, err := NewTokenService("secret", 30*24*time.Hour)
	require.NoError(t, err)

	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Contains(t, claims, "id")
	assert.Equal(t, float64(fixed.Unix()), claims["iat"])
	assert.Equal(t, float64(fixed.Add(30*24*time.Hour).Unix()), claims["exp"])
}

func TestTokenService_Expired(t *testing.T) {
	svc, err := NewTokenService("secret", time.Minute)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.GetUserIDFromToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	a, err := NewTokenService("secret-a", time.Hour)
	require.NoError(t, err)
	b, err := NewTokenService("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := a.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = b.GetUserIDFromToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Garbage(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := svc.GetUserIDFromToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: uuid.NewString()})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.GetUserIDFromToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RequiresExpiry(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	// корректная подпись, но без exp
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())},
		UserID:           uuid.NewString(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.GetUserIDFromToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}
