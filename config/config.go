// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is everything the process reads from the environment,
// loaded once in main and passed down explicitly.
type Config struct {
	Port         string
	DatabaseDSN  string
	JWTSecret    string
	UploadDir    string
	BroadcastURL string

	// GCS bucket for attachments; empty means local disk storage.
	GCSBucket string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// absence of .env is fine in deployed environments
	}

	cfg := &Config{
		Port:         getenv("PORT", "5000"),
		DatabaseDSN:  os.Getenv("DB_DSN"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		UploadDir:    getenv("UPLOAD_DIR", "./uploads"),
		BroadcastURL: getenv("BROADCAST_URL", ""),
		GCSBucket:    os.Getenv("GCS_BUCKET"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		SMTPFrom:     getenv("SMTP_FROM", "no-reply@recycling.local"),
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		cfg.SMTPPort = n
	} else {
		cfg.SMTPPort = 587
	}

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.BroadcastURL == "" {
		cfg.BroadcastURL = fmt.Sprintf("http://localhost:%s/broadcast", cfg.Port)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
