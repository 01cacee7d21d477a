package config

import (
	"fmt"     // Error wrapping
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/google/uuid"   // Account identifier parsing
	"github.com/joho/godotenv" // For loading .env files
)

const (
	DefaultAccountID        = "12345678-1234-5678-9abc-123456789012" // Fixed account served by the ledger
	DefaultAccountReference = "ES9121000418450200051332"             // IBAN of the fixed account
	DefaultRedisChannel     = "ledger:transactions"                  // Pub/sub channel for recorded transactions
)

// Config holds the application configuration
type Config struct {
	AppPort          string    // Application port
	IsProd           bool      // Is production environment
	LogLevel         string    // Logrus level name
	LogFormat        string    // text or json
	AccountID        uuid.UUID // Account served by this process
	AccountReference string    // IBAN-like account reference
	RedisAddr        string    // Redis server address, empty disables publishing
	RedisPass        string    // Redis password
	RedisDB          int       // Redis database number
	RedisChannel     string    // Redis pub/sub channel
	DBUser           string    // Database user
	DBPassword       string    // Database password
	DBHost           string    // Database host, empty disables the journal
	DBPort           string    // Database port
	DBName           string    // Database name
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	accountID, err := uuid.Parse(getEnv("ACCOUNT_ID", DefaultAccountID))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCOUNT_ID: %w", err) // Account id must be a UUID
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err) // Redis database must be numeric
	}

	return &Config{
		AppPort:          getEnv("APP_PORT", "8080"),                           // Application port
		IsProd:           os.Getenv("IS_PROD") == "true",                       // Is production environment
		LogLevel:         getEnv("LOG_LEVEL", "info"),                          // Log level
		LogFormat:        getEnv("LOG_FORMAT", "text"),                         // Log format
		AccountID:        accountID,                                            // Account ID
		AccountReference: getEnv("ACCOUNT_REFERENCE", DefaultAccountReference), // Account reference
		RedisAddr:        os.Getenv("REDIS_ADDR"),                              // Redis server address
		RedisPass:        os.Getenv("REDIS_PASS"),                              // Redis password
		RedisDB:          redisDB,                                              // Redis database number
		RedisChannel:     getEnv("REDIS_CHANNEL", DefaultRedisChannel),         // Redis channel
		DBUser:           os.Getenv("DB_USER"),                                 // Database user
		DBPassword:       os.Getenv("DB_PASSWORD"),                             // Database password
		DBHost:           os.Getenv("DB_HOST"),                                 // Database host
		DBPort:           getEnv("DB_PORT", "3306"),                            // Database port
		DBName:           os.Getenv("DB_NAME"),                                 // Database name
	}, nil
}

// DSN builds the MySQL Data Source Name for the journal database
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// getEnv returns the environment variable or a fallback when it is unset or empty
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value // Use the configured value
	}
	return fallback // Fall back to default
}
