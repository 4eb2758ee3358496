package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt hash of the password. Cost below
// bcrypt's minimum falls back to the library default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plain password matches the stored
// hash. A mismatch and a malformed hash both read as false; neither the
// password nor the hash is ever logged.
func VerifyPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}
