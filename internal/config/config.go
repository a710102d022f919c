// Package config loads process configuration from environment variables.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage architectures for song payloads. Selected once at startup.
type StorageArchitecture string

const (
	StorageGridFS     StorageArchitecture = "gridfs"
	StorageCloudinary StorageArchitecture = "cloudinary"
	StorageServerless StorageArchitecture = "serverless"
)

// Runtime environments. Test runs prefix every collection name so they
// never clobber production data.
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvDevelopment Environment = "dev"
	EnvTest        Environment = "test"
)

const defaultTokenTTL = 30 * time.Minute

type Config struct {
	MongoURL     string
	DatabaseName string
	Port         string

	JWTSecret      string
	JWTAlgorithm   string
	JWKSPath       string
	PrivateKeyPath string
	TokenTTL       time.Duration

	Storage              StorageArchitecture
	CloudinaryURL        string
	StreamingFunctionURL string

	Environment Environment
}

// Load reads the configuration from the environment. A .env file is
// loaded first when present. Mandatory values that are missing or
// invalid make startup fail.
func Load() (*Config, error) {
	// A missing .env file is fine; env vars may be set externally.
	godotenv.Load()

	cfg := &Config{
		MongoURL:             os.Getenv("MONGODB_URL"),
		DatabaseName:         getEnv("DB_NAME", "sonora"),
		Port:                 getEnv("PORT", "8080"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTAlgorithm:         getEnv("JWT_ALGORITHM", "HS256"),
		JWKSPath:             os.Getenv("JWKS_PATH"),
		PrivateKeyPath:       os.Getenv("JWT_PRIVATE_KEY_PATH"),
		TokenTTL:             defaultTokenTTL,
		Storage:              StorageArchitecture(getEnv("STORAGE_ARCHITECTURE", string(StorageGridFS))),
		CloudinaryURL:        os.Getenv("CLOUDINARY_URL"),
		StreamingFunctionURL: os.Getenv("STREAMING_FUNCTION_URL"),
		Environment:          Environment(getEnv("APP_ENV", string(EnvDevelopment))),
	}

	if ttl := os.Getenv("TOKEN_TTL_MINUTES"); ttl != "" {
		minutes, err := strconv.Atoi(ttl)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: %q", ttl)
		}
		cfg.TokenTTL = time.Duration(minutes) * time.Minute
	}

	if cfg.MongoURL == "" {
		return nil, fmt.Errorf("MONGODB_URL environment variable is not set")
	}

	switch cfg.JWTAlgorithm {
	case "HS256":
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET must be set for HS256")
		}
	case "RS256":
		if cfg.JWKSPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("JWKS_PATH and JWT_PRIVATE_KEY_PATH must be set for RS256")
		}
	default:
		return nil, fmt.Errorf("unsupported JWT_ALGORITHM: %q", cfg.JWTAlgorithm)
	}

	switch cfg.Storage {
	case StorageGridFS:
	case StorageCloudinary:
		if cfg.CloudinaryURL == "" {
			return nil, fmt.Errorf("CLOUDINARY_URL must be set for the cloudinary architecture")
		}
	case StorageServerless:
		if cfg.StreamingFunctionURL == "" {
			return nil, fmt.Errorf("STREAMING_FUNCTION_URL must be set for the serverless architecture")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_ARCHITECTURE: %q", cfg.Storage)
	}

	switch cfg.Environment {
	case EnvProduction, EnvDevelopment, EnvTest:
	default:
		return nil, fmt.Errorf("unsupported APP_ENV: %q", cfg.Environment)
	}

	return cfg, nil
}

// CollectionPrefix returns the prefix applied to every collection name
// for this environment.
func (c *Config) CollectionPrefix() string {
	if c.Environment == EnvTest {
		return "test."
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
