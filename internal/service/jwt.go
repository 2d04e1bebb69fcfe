package service

import (
	"crypto/rand"
	"errors"
	"time"

	"montyhall/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// SessionTokenTTL bounds how long a token can address a session. The
// session itself may expire earlier when idle.
const SessionTokenTTL = 24 * time.Hour

// InitJWT sets the signing secret. An empty secret is replaced with random
// bytes, which invalidates tokens across restarts (sessions do not survive
// a restart anyway).
func InitJWT(secret string) {
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			panic("session secret: " + err.Error())
		}
		logger.Warn("SESSION_SECRET is not set, using a random per-process secret")
		jwtSecret = b
		return
	}
	jwtSecret = []byte(secret)
}

func GenerateSessionToken(sessionID string) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("session secret not initialized")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": now.Add(SessionTokenTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseSessionToken validates the token and returns its session id.
func ParseSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidToken
	}
	return sid, nil
}
