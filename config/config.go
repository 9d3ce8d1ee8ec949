package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	JWTSecret            string
	JWTAccessExpiration  time.Duration
	JWTRefreshExpiration time.Duration
	GoogleClientID       string
	GoogleClientSecret   string
	FrontendURL          string
	MongoDBURI           string
	MongoDBDatabase      string
	GeminiAPIKey         string
	GeminiModel          string
	AITimeout            time.Duration
	ReconcileInterval    time.Duration
}

func Load() *Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	accessExp, _ := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION", "15m"))
	refreshExp, _ := time.ParseDuration(getEnv("JWT_REFRESH_EXPIRATION", "168h"))
	aiTimeout, _ := time.ParseDuration(getEnv("AI_TIMEOUT", "15s"))
	reconcile, _ := time.ParseDuration(getEnv("RECONCILE_INTERVAL", "10m"))

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiration:  accessExp,
		JWTRefreshExpiration: refreshExp,
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:3000"),
		MongoDBURI:           getEnv("MONGODB_URI", ""),
		MongoDBDatabase:      getEnv("MONGODB_DATABASE", "mental_wellness"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		AITimeout:            aiTimeout,
		ReconcileInterval:    reconcile,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
