package jwt

import (
	"time"
)

// Service is a wrapper for JWT operations bound to one secret and expiry,
// typically sourced from the secrets manager rather than the environment
type Service struct {
	secretKey string
	expiry    time.Duration
}

// NewService creates a new JWT service
func NewService(secretKey string, expiry time.Duration) *Service {
	if secretKey == "" {
		secretKey = getSecretKey()
	}

	if expiry == 0 {
		expiry = 24 * time.Hour // Default to 24 hours
	}

	return &Service{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

// GenerateToken generates a JWT token for a user
func (s *Service) GenerateToken(userID uint, email string) (string, error) {
	return generate(s.secretKey, s.expiry, userID, email, string(RoleUser))
}

// GenerateTokenWithRole generates a JWT token carrying an explicit role
func (s *Service) GenerateTokenWithRole(userID uint, email string, role Role) (string, error) {
	return generate(s.secretKey, s.expiry, userID, email, string(role))
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return validate(s.secretKey, tokenString)
}
