package utils // package utils provides helpers for issuing and verifying session tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidSession is returned when a session token cannot be verified.
var ErrInvalidSession = errors.New("invalid session token")

// SessionToken is a signed JWT identifying one dashboard session.  ID is
// the random session id carried in the subject claim.
type SessionToken struct {
	Token string    // the serialized JWT string
	ID    string    // session id (sub)
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a fresh session id.
func NewSessionToken(secret string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	id := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, ID: id, Exp: exp}, nil
}

// ParseSessionToken verifies raw and returns its session id.  Tokens
// signed with another algorithm, expired, or without a subject are
// rejected.
func ParseSessionToken(secret, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidSession
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
