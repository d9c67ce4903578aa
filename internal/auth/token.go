// Package auth содержит выпуск и проверку подписанных токенов сессии.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL задаёт срок жизни токена сессии.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken возвращается при любом структурном дефекте, неверной подписи
// или истёкшем сроке действия токена.
var ErrInvalidToken = errors.New("invalid token")

// TokenService выпускает и проверяет JWT-токены с идентификатором пользователя.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenService создаёт сервис токенов с указанным секретным ключом.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		ttl:       TokenTTL,
	}
}

// GenerateToken выпускает подписанный токен для указанного идентификатора пользователя.
func (s *TokenService) GenerateToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken проверяет подпись и срок действия токена и возвращает идентификатор пользователя.
func (s *TokenService) ParseToken(tokenStr string) (int64, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}

	userID := int64(idFloat)
	if userID <= 0 {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
