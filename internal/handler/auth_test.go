package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/swiperight/swiperight-system/internal/auth"
	"github.com/swiperight/swiperight-system/internal/service"
)

func TestRegister_Success(t *testing.T) {
	svc := &stubService{registerUser: testUser()}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(registerRequest{Email: "user@example.com", Password: "password1"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var resp authResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "test-token" {
		t.Fatalf("token = %q, want test-token", resp.Token)
	}
	if resp.User.Email != "user@example.com" {
		t.Fatalf("email = %q, want user@example.com", resp.User.Email)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &stubService{registerErr: service.ErrEmailTaken}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(registerRequest{Email: "user@example.com", Password: "password1"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := &stubService{registerErr: service.ErrInvalidEmail}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(registerRequest{Email: "bad", Password: "password1"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubService{loginErr: service.ErrInvalidCredentials}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(loginRequest{Email: "user@example.com", Password: "wrong"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLogin_SocialAccount(t *testing.T) {
	svc := &stubService{loginErr: service.ErrProviderMismatch}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(loginRequest{Email: "user@example.com", Password: "password1"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestOAuth_BadProvider(t *testing.T) {
	svc := &stubService{oauthErr: service.ErrBadProvider}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(oauthRequest{Provider: "github", ProviderID: "ext-1", Email: "user@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/oauth", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.OAuth(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestOAuth_MissingProviderID(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	body, _ := json.Marshal(oauthRequest{Provider: "google", Email: "user@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/oauth", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.OAuth(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestVerify_NoToken(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	rec := httptest.NewRecorder()

	h.Verify(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestVerify_InvalidToken(t *testing.T) {
	svc := &stubService{verifyErr: auth.ErrInvalidToken}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	h.Verify(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestForgotPassword_NeutralMessage(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	body, _ := json.Marshal(forgotPasswordRequest{Email: "nobody@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.ForgotPassword(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp messageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message == "" {
		t.Fatal("expected neutral message in response")
	}
}

func TestResetPassword_InvalidToken(t *testing.T) {
	svc := &stubService{resetErr: service.ErrResetTokenInvalid}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(resetPasswordRequest{Token: "bad", Password: "new-password"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.ResetPassword(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
