package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthService verifies the bearer tokens issued by the account service.
// Tokens carry the owner id in "user_id", older ones only in "sub".
type AuthService struct {
	jwtSecret string
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: jwtSecret}
}

// GenerateJWT signs a token for owner. Used by tooling and tests.
func (s *AuthService) GenerateJWT(owner string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": owner,
		"exp":     time.Now().Add(expiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Owner verifies tokenString and returns the owner id it names
func (s *AuthService) Owner(tokenString string) (string, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return "", err
	}

	if owner, ok := claims["user_id"].(string); ok && owner != "" {
		return owner, nil
	}
	if owner, ok := claims["sub"].(string); ok && owner != "" {
		return owner, nil
	}

	return "", fmt.Errorf("%w: no owner claim", ErrInvalidToken)
}
