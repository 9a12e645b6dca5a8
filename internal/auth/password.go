package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength - минимальная длина пароля при регистрации и сбросе.
const MinPasswordLength = 6

// HashPassword создает bcrypt хеш пароля (cost 10)
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
