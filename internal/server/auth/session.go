// Package auth verifies session tokens issued by the external
// authentication collaborator and extracts the caller's identity from them.
// Token issuance is not handled here.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/roomreel/roomreel/internal/common"
)

// Session identifies an authenticated caller bound to a room.
type Session struct {
	Email    string
	RoomName string
}

// Claims are the JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	RoomName string `json:"roomName"`
}

// GenerateToken signs a session token for the given identity. Used by tests
// and local tooling; production tokens come from the auth collaborator
// sharing the same secret.
func GenerateToken(email, roomName string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Email:    email,
		RoomName: roomName,
	})

	return token.SignedString(secretKey)
}

// GetSessionFromToken parses and verifies a session token. A session is only
// returned when the token is valid and carries both the email and the room
// binding.
func GetSessionFromToken(tokenString string, secretKey []byte) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.Email == "" || claims.RoomName == "" {
		return nil, common.ErrInvalidToken
	}

	return &Session{Email: claims.Email, RoomName: claims.RoomName}, nil
}
