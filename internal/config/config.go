package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingMongoURI  = errors.New("MONGODB_URI is required (e.g. mongodb://localhost:27017)")
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required")
)

type Config struct {
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	JWTExpiry     time.Duration
	ServerPort    string
	Environment   string
	StaticDir     string

	// Rate limiting on register/login. Disabled when RedisURL is empty.
	RedisURL             string
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
}

func Load() *Config {
	// Containers inject the environment directly, a missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	return &Config{
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DB", "movieland"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiry:     getEnvAsDuration("JWT_EXPIRE", "720h"),
		ServerPort:    getEnv("PORT", "3000"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		StaticDir:     getEnv("STATIC_DIR", "public"),

		RedisURL:             os.Getenv("REDIS_URL"),
		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 20),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
	}
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return ErrMissingMongoURI
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}
