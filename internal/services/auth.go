package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"taskhub/backend/internal/apperrors"
	"taskhub/backend/internal/models"
)

// AuthService authenticates users and registers new accounts. Tokens are
// stateless: login leaves no session record behind. Repeated failed
// logins are not throttled here.
type AuthService interface {
	Login(email, password string) (string, error)
	Register(email, password, fullName string) (*models.User, error)
}

type AuthServiceImpl struct {
	db         *gorm.DB
	codec      *TokenCodec
	bcryptCost int
}

func NewAuthService(db *gorm.DB, codec *TokenCodec, bcryptCost int) *AuthServiceImpl {
	return &AuthServiceImpl{db: db, codec: codec, bcryptCost: bcryptCost}
}

// Login validates the credentials and issues an access token. An unknown
// email fails with ErrUserNotFound before the password is ever checked; a
// known email with the wrong password fails with ErrInvalidCredentials.
func (s *AuthServiceImpl) Login(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("login failed: user not found", "email", email)
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		slog.Warn("login failed: password mismatch", "email", email)
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, time.Now())
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	slog.Info("user authenticated", "user_id", user.ID, "email", email)
	return token, nil
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AuthServiceImpl) Register(email, password, fullName string) (*models.User, error) {
	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{Email: email, PasswordHash: hash, FullName: fullName}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", email)
	return &user, nil
}
