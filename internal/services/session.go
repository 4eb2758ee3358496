package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskhub/backend/internal/apperrors"
	"taskhub/backend/internal/models"
)

// SessionResolver turns an inbound bearer token into the authenticated
// user for the current request. The token subject is only a lookup key:
// the user is re-read from the store on every call, so a token does not
// outlive its account.
type SessionResolver struct {
	db    *gorm.DB
	codec *TokenCodec
}

func NewSessionResolver(db *gorm.DB, codec *TokenCodec) *SessionResolver {
	return &SessionResolver{db: db, codec: codec}
}

func (r *SessionResolver) Resolve(tokenString string, now time.Time) (*models.User, error) {
	userID, err := r.codec.Decode(tokenString, now)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}
	return &user, nil
}
