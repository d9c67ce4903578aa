// Package middleware содержит HTTP middleware сервиса SwipeRight.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/swiperight/swiperight-system/internal/auth"
)

type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware выполняет проверку аутентификации пользователя по bearer-токену.
type AuthMiddleware struct {
	tokens *auth.TokenService
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным сервисом токенов.
func NewAuthMiddleware(tokens *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Middleware проверяет заголовок Authorization и добавляет идентификатор
// пользователя в контекст запроса. Без корректного токена запрос отклоняется.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.userIDFromRequest(r)
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalMiddleware добавляет идентификатор пользователя в контекст, если
// корректный токен присутствует, и пропускает запрос дальше в любом случае.
// Используется рекомендациями: анонимный запрос остаётся допустимым.
func (a *AuthMiddleware) OptionalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := a.userIDFromRequest(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *AuthMiddleware) userIDFromRequest(r *http.Request) (int64, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, false
	}

	tokenStr, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenStr == "" {
		return 0, false
	}

	userID, err := a.tokens.ParseToken(tokenStr)
	if err != nil {
		return 0, false
	}

	return userID, true
}

// GetUserIDFromContext извлекает идентификатор пользователя из контекста запроса.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
