package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
)

type contextKey string

const contextKeyUser contextKey = "user"

// TokenParser проверяет токен и возвращает id пользователя
type TokenParser interface {
	GetUserIDFromToken(token string) (uuid.UUID, error)
}

// UserLoader загружает пользователя по id
type UserLoader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Authenticate возвращает middleware, требующее заголовок Authorization: Bearer <token>.
// Найденный пользователь кладется в контекст запроса.
func Authenticate(tokens TokenParser, users UserLoader, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "Not authorized, no token", logger)
				return
			}

			userID, err := tokens.GetUserIDFromToken(token)
			if err != nil {
				logger.Warn("token rejected", "path", r.URL.Path, "error", err)
				respondWithError(w, http.StatusUnauthorized, "Not authorized, token failed", logger)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				logger.Warn("token user not loaded", "user_id", userID, "error", err)
				respondWithError(w, http.StatusUnauthorized, "Not authorized, token failed", logger)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext возвращает пользователя, положенного Authenticate
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(contextKeyUser).(*domain.User)
	return u, ok && u != nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}
