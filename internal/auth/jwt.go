package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenVerifier resolves bearer credentials to user claims.
type TokenVerifier struct {
	secretKey []byte
}

func NewTokenVerifier(secretKey []byte) *TokenVerifier {
	return &TokenVerifier{secretKey: secretKey}
}

// Verify parses and validates a bearer token, returning the identity it
// carries. Any parse, signature, or expiry problem comes back as an error;
// callers disclose nothing beyond "Unauthorized".
func (v *TokenVerifier) Verify(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := (*claims)["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("missing or invalid sub claim")
	}

	email, _ := (*claims)["email"].(string)

	expFloat, ok := (*claims)["exp"].(float64)
	if !ok {
		return nil, errors.New("missing or invalid exp claim")
	}
	if time.Now().After(time.Unix(int64(expFloat), 0)) {
		return nil, errors.New("token expired")
	}

	return &JWTClaims{
		UserUUID:   sub,
		EmailValue: email,
	}, nil
}

// Mint signs a bearer token for a user identity.
func (v *TokenVerifier) Mint(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"jti":   uuid.New().String(),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(v.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
