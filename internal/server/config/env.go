package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first, if present; real environment
// variables win over it.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfPresent := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setIfPresent("ADDRESS", &config.EndpointAddr)
	setIfPresent("DATABASE_DSN", &config.DatabaseDSN)
	setIfPresent("SECRET_KEY", &config.SecretKey)
	setIfPresent("S3_ROOT_USER", &config.S3RootUser)
	setIfPresent("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setIfPresent("S3_BUCKET", &config.S3Bucket)
	setIfPresent("S3_REGION", &config.S3Region)
	setIfPresent("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v := os.Getenv("PRESIGN_EXPIRY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.PresignExpiry = d
		}
	}
}
