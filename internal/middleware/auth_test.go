package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/swiperight/swiperight-system/internal/auth"
)

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *auth.TokenService) {
	t.Helper()

	tokens := auth.NewTokenService("test-secret")
	return NewAuthMiddleware(tokens), tokens
}

func TestAuthMiddleware_WithValidToken(t *testing.T) {
	m, tokens := newTestMiddleware(t)

	token, err := tokens.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		id, ok := GetUserIDFromContext(r.Context())
		if !ok {
			t.Fatalf("user id not in context")
		}
		if id != 42 {
			t.Fatalf("user id from context = %d, want 42", id)
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	m.Middleware(next).ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAuthMiddleware_WithoutHeader(t *testing.T) {
	m, _ := newTestMiddleware(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)

	m.Middleware(next).ServeHTTP(w, r)

	if res := w.Result(); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	m, _ := newTestMiddleware(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.Header.Set("Authorization", "Token abcdef")

	m.Middleware(next).ServeHTTP(w, r)

	if res := w.Result(); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
}

func TestOptionalMiddleware_AnonymousPassesThrough(t *testing.T) {
	m, _ := newTestMiddleware(t)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		if _, ok := GetUserIDFromContext(r.Context()); ok {
			t.Fatalf("anonymous request must not carry a user id")
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/recommend", nil)
	m.OptionalMiddleware(next).ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestOptionalMiddleware_WithToken(t *testing.T) {
	m, tokens := newTestMiddleware(t)

	token, err := tokens.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserIDFromContext(r.Context())
		if !ok || id != 7 {
			t.Fatalf("user id from context = %d (ok=%v), want 7", id, ok)
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/recommend", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	m.OptionalMiddleware(next).ServeHTTP(httptest.NewRecorder(), r)
}
