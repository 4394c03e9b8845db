package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
)

const bearerPrefix = "Bearer "

// Service handles Bearer token authentication for partner requests
type Service struct {
	logger      *logrus.Logger
	bearerToken string
}

// NewService creates a new authentication service. An empty token
// means authentication rejects all requests.
func NewService(logger *logrus.Logger, cfg *domain.AuthConfig) *Service {
	if cfg.BearerToken == "" {
		logger.Warn("No bearer token configured - authentication will reject all requests")
	}
	return &Service{
		logger:      logger,
		bearerToken: cfg.BearerToken,
	}
}

// ValidateToken validates a bearer token against the configured token
func (s *Service) ValidateToken(token string) bool {
	if s.bearerToken == "" {
		s.logger.Warn("Authentication attempted but no bearer token configured")
		return false
	}
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.bearerToken)) == 1
}

// ExtractToken extracts the bearer token from an Authorization header
// value. It returns a ValidationError when the header is missing or
// malformed.
func (s *Service) ExtractToken(authorizationHeader string) (string, error) {
	if authorizationHeader == "" {
		return "", domain.NewValidationError("authorization", "Authorization header is required", authorizationHeader)
	}
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return "", domain.NewValidationError("authorization", "Invalid authorization header format. Expected 'Bearer <token>'", authorizationHeader)
	}

	token := strings.TrimSpace(authorizationHeader[len(bearerPrefix):])
	if token == "" {
		return "", domain.NewValidationError("authorization", "Bearer token is required", authorizationHeader)
	}
	return token, nil
}

// Authenticate validates an Authorization header end to end
func (s *Service) Authenticate(authorizationHeader string) error {
	token, err := s.ExtractToken(authorizationHeader)
	if err != nil {
		s.logger.Info("Authentication failed: invalid Authorization header")
		return err
	}

	if !s.ValidateToken(token) {
		s.logger.Info("Authentication failed: invalid bearer token")
		return domain.NewValidationError("authorization", "Invalid bearer token", "")
	}

	s.logger.Debug("Authentication successful")
	return nil
}
