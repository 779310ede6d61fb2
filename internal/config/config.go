package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	LogLevel string
	Database DatabaseConfig
	Security SecurityConfig
	Cron     CronConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// SecurityConfig holds token and lockout settings.
// It is built once by Load and passed by value to the components that need it.
type SecurityConfig struct {
	JWTSecret        string
	Issuer           string
	TokenTTL         time.Duration
	MaxLoginAttempts int
	LockDuration     time.Duration
	BcryptCost       int
	GuestUsername    string
	GuestPassword    string
	AdminUsername    string
	AdminPassword    string
	AdminEmail       string
}

// CronConfig holds background job schedules
type CronConfig struct {
	SecurityDigest string
}

const minProdSecretLength = 32

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	security, err := loadSecurityConfig(appMode)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: loadDatabaseConfig(appMode),
		Security: security,
		Cron: CronConfig{
			SecurityDigest: getEnv("CRON_SECURITY_DIGEST", "0 3 * * *"),
		},
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "realestate_management"),
	}
}

// loadSecurityConfig loads JWT and lockout settings based on mode
func loadSecurityConfig(mode string) (SecurityConfig, error) {
	prefix := modePrefix(mode)

	ttlSeconds, err := getEnvInt("JWT_EXPIRATION_SECONDS", 3600)
	if err != nil {
		return SecurityConfig{}, err
	}
	maxAttempts, err := getEnvInt("SECURITY_MAX_LOGIN_ATTEMPTS", 5)
	if err != nil {
		return SecurityConfig{}, err
	}
	lockMinutes, err := getEnvInt("SECURITY_ACCOUNT_LOCK_MINUTES", 30)
	if err != nil {
		return SecurityConfig{}, err
	}
	cost, err := getEnvInt("BCRYPT_COST", 12)
	if err != nil {
		return SecurityConfig{}, err
	}

	sec := SecurityConfig{
		JWTSecret:        getEnv(prefix+"JWT_SECRET", "dev_secret_key_change_me_0123456789abcdef"),
		Issuer:           getEnv("JWT_ISSUER", "realestate-management"),
		TokenTTL:         time.Duration(ttlSeconds) * time.Second,
		MaxLoginAttempts: maxAttempts,
		LockDuration:     time.Duration(lockMinutes) * time.Minute,
		BcryptCost:       cost,
		GuestUsername:    getEnv("GUEST_USERNAME", "guest"),
		GuestPassword:    getEnv("GUEST_PASSWORD", "guest123"),
		AdminUsername:    getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:    getEnv(prefix+"ADMIN_PASSWORD", "admin123456"),
		AdminEmail:       getEnv("ADMIN_EMAIL", "admin@example.com"),
	}

	if err := sec.Validate(mode); err != nil {
		return SecurityConfig{}, err
	}
	return sec, nil
}

// Validate checks the security settings for values the services cannot work with
func (s SecurityConfig) Validate(mode string) error {
	if s.TokenTTL <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_SECONDS must be positive")
	}
	if s.MaxLoginAttempts < 1 {
		return fmt.Errorf("SECURITY_MAX_LOGIN_ATTEMPTS must be at least 1")
	}
	if s.LockDuration <= 0 {
		return fmt.Errorf("SECURITY_ACCOUNT_LOCK_MINUTES must be positive")
	}
	if s.JWTSecret == "" {
		return fmt.Errorf("JWT secret is empty")
	}
	if mode == "prod" && len(s.JWTSecret) < minProdSecretLength {
		return fmt.Errorf("PROD_JWT_SECRET must be at least %d bytes", minProdSecretLength)
	}
	return nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", key, raw)
	}
	return v, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
