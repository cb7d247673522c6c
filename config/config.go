package config

import (
	"errors"
	"os"
	"strings"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPass        string
	DBName        string
	Port          string
	SessionSecret string
	SessionDir    string
	AWSRegion     string
	AWSAccessKey  string
	AWSSecretKey  string
	S3Bucket      string
	Superusers    []string
	LogLevel      string
}

func NewConfigFromEnv() (*Config, error) {
	cfg := &Config{
		DBHost:        getenv("DB_HOST", "127.0.0.1"),
		DBPort:        getenv("DB_PORT", "3306"),
		DBUser:        getenv("DB_USER", "root"),
		DBPass:        getenv("DB_PASSWORD", ""),
		DBName:        getenv("DB_NAME", "outreach"),
		Port:          getenv("PORT", "8000"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionDir:    getenv("SESSION_DIR", ""),
		AWSRegion:     getenv("AWS_REGION", "us-east-1"),
		AWSAccessKey:  os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:  os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Bucket:      getenv("S3_BUCKET", "outreach-profile-pictures"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}

	// Superusers are granted the manager privilege by configuration, not by
	// a username comparison scattered through handlers.
	for _, name := range strings.Split(os.Getenv("SUPERUSERS"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			cfg.Superusers = append(cfg.Superusers, name)
		}
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	return cfg, nil
}

func (c *Config) IsSuperuser(username string) bool {
	for _, name := range c.Superusers {
		if name == username {
			return true
		}
	}
	return false
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
