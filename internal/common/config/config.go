package config

import (
	"fmt"
	"os"
	"time"

	commonerrors "github.com/deep-thoughts/backend/internal/common/errors"
)

type APIConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
}

type SeedConfig struct {
	DatabaseURL string
}

// LoadAPIConfig reads the API service configuration from the environment.
// The signing secret is always injected here, never hard-coded; token
// issuance and verification receive it as a constructor parameter.
func LoadAPIConfig() (APIConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return APIConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return APIConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return APIConfig{}, err
	}

	return APIConfig{
		HTTPPort:       getEnv("API_HTTP_PORT", "8080"),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		TokenTTL:       getDurationEnv("TOKEN_TTL", 2*time.Hour),
		RequestTimeout: getDurationEnv("API_REQUEST_TIMEOUT", 5*time.Second),
	}, nil
}

func LoadSeedConfig() (SeedConfig, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return SeedConfig{}, err
	}

	return SeedConfig{DatabaseURL: databaseURL}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < 32 {
		return fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
