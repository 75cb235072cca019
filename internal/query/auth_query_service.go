package query

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/cqrs"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/middleware"
)

var (
	jwtSecretOnce sync.Once
	jwtSecretVal  []byte
)

func jwtSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			panic("JWT_SECRET environment variable is not set")
		}
		jwtSecretVal = []byte(secret)
	})
	return jwtSecretVal
}

// AuthQueryService handles device login and token refresh. There is no
// credential store: the gateway is configured with a single bcrypt hash of
// the device passcode, and all authority over customer data stays upstream.
type AuthQueryService struct {
	passcodeHash string
}

func NewAuthQueryService(passcodeHash string) *AuthQueryService {
	return &AuthQueryService{passcodeHash: passcodeHash}
}

func (s *AuthQueryService) Login(cmd cqrs.LoginCommand) (string, error) {
	if cmd.DeviceID == "" || s.passcodeHash == "" {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passcodeHash), []byte(cmd.Passcode)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	return s.generateToken(cmd.DeviceID)
}

func (s *AuthQueryService) RefreshToken(cmd cqrs.RefreshTokenCommand) (string, error) {
	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(cmd.Token, claims, func(token *jwt.Token) (any, error) {
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return s.generateToken(claims.DeviceID)
}

func (s *AuthQueryService) generateToken(deviceID string) (string, error) {
	claims := middleware.Claims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}
