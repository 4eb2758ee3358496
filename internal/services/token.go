package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskhub/backend/internal/apperrors"
	"taskhub/backend/internal/config"
)

// TokenCodec issues and validates the signed access tokens. Secret,
// issuer tag and TTL are fixed per deployment; tokens carry nothing but
// the subject, which callers re-validate against the live user store.
type TokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenCodec(cfg config.AuthConfig) *TokenCodec {
	return &TokenCodec{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTokenTTL,
	}
}

// Issue signs an HS256 token with subject = userID expiring at now + TTL.
func (tc *TokenCodec) Issue(userID uint, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tc.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Decode verifies signature, signing method, issuer and expiry against
// the supplied clock and returns the subject user id. Expiry failures
// surface as ErrExpiredToken; every other defect is ErrMalformedToken.
func (tc *TokenCodec) Decode(tokenString string, now time.Time) (uint, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tc.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.ErrExpiredToken
		}
		return 0, apperrors.ErrMalformedToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, apperrors.ErrMalformedToken
	}
	return uint(userID), nil
}
