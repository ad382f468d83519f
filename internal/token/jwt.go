package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/davidldv/taskforge/internal/model"
)

// Claims represents JWT claims carrying the user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// JWT implements model.TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
}

// NewJWT creates a new JWT token manager with the provided secret key and
// token lifetime.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	return &JWT{secretKey: secretKey, ttl: ttl}
}

var _ model.TokenManager = (*JWT)(nil)

// Issue creates a signed identity assertion for the given user.
func (j *JWT) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: userID,
	})

	tokenString, err := tok.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Parse validates signature and expiry and extracts the user ID. Every
// failure collapses into model.ErrInvalidToken so callers cannot tell a bad
// signature from an expired token.
func (j *JWT) Parse(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, model.ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, model.ErrInvalidToken
	}

	return claims.UserID, nil
}
