package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Persisted collections store: "file", "redis" or "postgres"
	StoreBackend string
	DataDir      string
	RedisURL     string
	DatabaseURL  string

	// Admin gate (single trusted operator, not a real auth system)
	AdminPassword string
	JWTSecret     string
	AdminTokenTTL time.Duration

	// Media storage for uploaded images: "inline" (data URI, default),
	// "local" or "s3"
	MediaMode    string
	MediaDir     string
	MediaBaseURL string

	// S3 / R2 media backend
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string

	// Gemini description service
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	// CORS
	AllowedOrigins []string

	// Logging
	LogLevel string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Store
		StoreBackend: getEnv("STORE_BACKEND", "file"),
		DataDir:      getEnv("DATA_DIR", "./data"),
		RedisURL:     getEnv("REDIS_URL", ""),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		// Admin gate. "1234" mirrors the owner's original secret key; it
		// guards convenience features, not anything sensitive.
		AdminPassword: getEnv("ADMIN_PASSWORD", "1234"),
		JWTSecret:     getEnv("JWT_SECRET", "super-secret-key-change-me"),
		AdminTokenTTL: parseDuration(getEnv("ADMIN_TOKEN_TTL", "24h"), 24*time.Hour),

		// Media
		MediaMode:    getEnv("MEDIA_MODE", "inline"),
		MediaDir:     getEnv("MEDIA_DIR", "./media"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", "http://localhost:8080/media"),

		// S3 / R2
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "auto"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "elhabassi-portfolio"),

		// Gemini
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),

		// CORS
		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	// Simple split by comma
	var result []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if start < i {
				result = append(result, s[start:i])
			}
			start = i + 1
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
