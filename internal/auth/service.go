package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenPair is the response to an anonymous registration.
type TokenPair struct {
	DeviceID    string    `json:"deviceId"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWT    *JWTService
	Logger zerolog.Logger
}

// Service issues and validates anonymous device identities.
type Service struct {
	jwt    *JWTService
	logger zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		jwt:    cfg.JWT,
		logger: cfg.Logger,
	}
}

// RegisterAnonymous mints a fresh device identity and its token.
func (s *Service) RegisterAnonymous() (*TokenPair, error) {
	deviceID := uuid.NewString()

	token, expiresAt, err := s.jwt.GenerateDeviceToken(deviceID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("device_id", deviceID).Msg("anonymous device registered")

	return &TokenPair{
		DeviceID:    deviceID,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Validate checks a bearer token and returns the device ID.
func (s *Service) Validate(token string) (string, error) {
	claims, err := s.jwt.ValidateDeviceToken(token)
	if err != nil {
		return "", err
	}
	return claims.DeviceID, nil
}
