package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	Env                string
	MongoURI           string
	MongoDBName        string
	RedisAddr          string
	JWTSecret          string
	JWTExpiry          time.Duration
	SessionTTL         time.Duration
	AdminToken         string
	SendGridAPIKey     string
	SendGridTemplateID string
	FromEmail          string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		MongoURI:           getEnv("MONGO_URI", ""),
		MongoDBName:        getEnv("MONGO_DB_NAME", "bookxchange"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:          getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTExpiry:          getDurationEnv("JWT_EXPIRES_IN_HOURS", 24) * time.Hour,
		SessionTTL:         getDurationEnv("SESSION_TTL_HOURS", 24) * time.Hour,
		AdminToken:         getEnv("ADMIN_TOKEN", ""),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		SendGridTemplateID: getEnv("SENDGRID_TEMPLATE_ID", ""),
		FromEmail:          getEnv("BXC_EMAIL_ACCOUNT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultHours int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if hours, err := strconv.Atoi(value); err == nil {
			return time.Duration(hours)
		}
	}
	return time.Duration(defaultHours)
}
