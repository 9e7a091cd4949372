package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Secret Key (overridden from JWT_SECRET at startup)
var jwtKey = []byte("change_me_khata_pos_secret")

// TokenTTL is how long a counter session stays signed in.
var TokenTTL = 12 * time.Hour

// SetSecret replaces the signing key.
func SetSecret(secret string) {
	if secret != "" {
		jwtKey = []byte(secret)
	}
}

// Claims defines what is inside the token (The "ID Card")
type Claims struct {
	Role    Role   `json:"role"`
	Station string `json:"station"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a role at a station
func GenerateToken(role Role, station string) (string, error) {
	expirationTime := time.Now().Add(TokenTTL)

	claims := &Claims{
		Role:    role,
		Station: station,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateToken checks if a token is fake or expired
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
