package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/swiperight/swiperight-system/internal/auth"
	"github.com/swiperight/swiperight-system/internal/model"
	"github.com/swiperight/swiperight-system/internal/repository"
	"github.com/swiperight/swiperight-system/internal/validation"
)

const resetTokenTTL = time.Hour

// Register регистрирует пользователя с парольной аутентификацией и возвращает
// его вместе с токеном сессии.
func (s *Service) Register(ctx context.Context, email, password string, firstName, lastName *string) (*model.User, string, error) {
	if !validation.IsValidEmail(email) {
		return nil, "", ErrInvalidEmail
	}
	if !validation.IsValidPassword(password) {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, hash, firstName, lastName)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	return s.finishLogin(ctx, user)
}

// Login проверяет учётные данные пользователя и возвращает его вместе с токеном.
// Аккаунты, созданные через OAuth-провайдера, паролем не аутентифицируются.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if user.AuthProvider != model.AuthProviderEmail || len(user.PasswordHash) == 0 {
		return nil, "", ErrProviderMismatch
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	return s.finishLogin(ctx, user)
}

// OAuthLogin находит или создаёт пользователя по паре (провайдер, внешний
// идентификатор). У существующего пользователя обновляются только переданные
// поля профиля.
func (s *Service) OAuthLogin(ctx context.Context, provider model.AuthProvider, providerID, email string, name, picture *string) (*model.User, string, error) {
	if provider != model.AuthProviderGoogle && provider != model.AuthProviderApple {
		return nil, "", ErrBadProvider
	}

	user, err := s.repo.GetUserByProvider(ctx, provider, providerID)
	switch {
	case err == nil:
		user, err = s.repo.UpdateOAuthProfile(ctx, user.ID, name, picture)
		if err != nil {
			return nil, "", err
		}
	case errors.Is(err, repository.ErrUserNotFound):
		if !validation.IsValidEmail(email) {
			return nil, "", ErrInvalidEmail
		}
		user, err = s.repo.CreateOAuthUser(ctx, email, provider, providerID, name, picture)
		if err != nil {
			if errors.Is(err, repository.ErrUserExists) {
				return nil, "", ErrEmailTaken
			}
			return nil, "", err
		}
	default:
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// VerifyToken проверяет токен сессии и возвращает актуальную запись пользователя.
func (s *Service) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

// ForgotPassword создаёт токен сброса пароля для существующего аккаунта с
// парольной аутентификацией. Отсутствие аккаунта не является ошибкой, чтобы
// не раскрывать зарегистрированные адреса.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}

	if user.AuthProvider != model.AuthProviderEmail {
		return ErrProviderMismatch
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}

	return s.repo.CreateResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL))
}

// ResetPassword устанавливает новый пароль по токену сброса. Неизвестный,
// использованный или просроченный токен возвращает ErrResetTokenInvalid.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !validation.IsValidPassword(newPassword) {
		return ErrWeakPassword
	}

	rt, err := s.repo.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if rt.Used || time.Now().After(rt.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, rt.UserID, hash); err != nil {
		return err
	}

	return s.repo.MarkResetTokenUsed(ctx, token)
}

func (s *Service) finishLogin(ctx context.Context, user *model.User) (*model.User, string, error) {
	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, "", err
	}
	now := time.Now()
	user.LastLogin = &now

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
