// Package config handles configuration for the server component, including
// defaults, environment overlay (.env aware), JSON overlay, and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the FoamDesk server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Left empty when unconfigured; the
//     application then degrades to no-op persistence instead of exiting.
//   - SecretKey: HMAC secret for signing session JWTs (HS256).
//   - TokenValidityDuration: session token lifetime.
//   - S3AccessKey / S3SecretKey / S3Bucket / S3Region / S3BaseEndpoint:
//     optional S3-compatible storage for snapshot backups. An empty bucket
//     disables snapshot uploads.
type Config struct {
	EndpointAddr          string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	S3AccessKey           string
	S3SecretKey           string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
}

// LoadDefaults populates Config with development defaults. The database DSN
// deliberately stays empty: it must come from the environment, a JSON file,
// or a flag.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 12 * time.Hour
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the process environment (including an optional .env file), an
// optional JSON file, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
