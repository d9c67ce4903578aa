// Package validation содержит функции валидации входных данных.
package validation

import "regexp"

// MinPasswordLength задаёт минимально допустимую длину пароля.
const MinPasswordLength = 8

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail проверяет корректность формата адреса электронной почты.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword проверяет минимальную длину пароля.
func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLength
}
