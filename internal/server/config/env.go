package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from the process environment. A .env file
// in the working directory is loaded first if present; a missing file is
// not an error.
//
// Recognized variables:
//
//	SERVER_ADDR    HTTP bind address
//	DATABASE_URL   PostgreSQL DSN
//	SECRET_KEY     JWT HMAC secret
//	S3_ACCESS_KEY / S3_SECRET_KEY / S3_BUCKET / S3_REGION / S3_ENDPOINT
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfPresent(&config.EndpointAddr, "SERVER_ADDR")
	setIfPresent(&config.DatabaseDSN, "DATABASE_URL")
	setIfPresent(&config.SecretKey, "SECRET_KEY")
	setIfPresent(&config.S3AccessKey, "S3_ACCESS_KEY")
	setIfPresent(&config.S3SecretKey, "S3_SECRET_KEY")
	setIfPresent(&config.S3Bucket, "S3_BUCKET")
	setIfPresent(&config.S3Region, "S3_REGION")
	setIfPresent(&config.S3BaseEndpoint, "S3_ENDPOINT")
}

func setIfPresent(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
