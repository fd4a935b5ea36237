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
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Email    EmailConfig
	Booking  BookingConfig

	// Payment provider configuration
	PayPal PayPalConfig
	Stripe StripeConfig
	TwoC2P TwoC2PConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// IsProduction reports whether the server runs with the production flag set.
// Insecure provider fallbacks are refused outright in this mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration for the staff API
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// EmailConfig holds SMTP configuration for booking receipts.
// Mode "dev" logs mail instead of sending it.
type EmailConfig struct {
	Mode        string // "dev" or "production"
	SMTPHost    string
	SMTPPort    string
	Username    string
	Password    string
	FromAddress string
	AgencyEmail string // agency copy of every booking notification
}

// BookingConfig holds booking pipeline configuration
type BookingConfig struct {
	Currency string // ISO currency code used for provider charges
}

// PayPalConfig holds PayPal REST API credentials.
// The base URL defaults to the sandbox; production must set it explicitly.
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

// Configured reports whether client credentials are present.
func (p PayPalConfig) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// StripeConfig holds the Stripe secret key and API base URL.
type StripeConfig struct {
	SecretKey string
	BaseURL   string
}

// TwoC2PConfig holds 2C2P merchant credentials and the redirect endpoint.
type TwoC2PConfig struct {
	MerchantID string
	SecretKey  string
	APIURL     string
}

// Configured reports whether merchant credentials are present.
func (t TwoC2PConfig) Configured() bool {
	return t.MerchantID != "" && t.SecretKey != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			AccessTokenExpiry: time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Email: EmailConfig{
			Mode:        getEnv("EMAIL_MODE", "dev"),
			SMTPHost:    getEnv("SMTP_HOST", ""),
			SMTPPort:    getEnv("SMTP_PORT", "587"),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromAddress: getEnv("EMAIL_FROM", "bookings@albanianalps.example"),
			AgencyEmail: getEnv("AGENCY_EMAIL", ""),
		},
		Booking: BookingConfig{
			Currency: getEnv("BOOKING_CURRENCY", "EUR"),
		},
		PayPal: PayPalConfig{
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
			BaseURL:      getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			BaseURL:   getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
		},
		TwoC2P: TwoC2PConfig{
			MerchantID: getEnv("TWOC2P_MERCHANT_ID", ""),
			SecretKey:  getEnv("TWOC2P_SECRET_KEY", ""),
			APIURL:     getEnv("TWOC2P_API_URL", "https://demo2.2c2p.com/2C2PFrontEnd/RedirectV3/payment"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Server.IsProduction() {
		// A production build must not run on the insecure verification fallbacks.
		if !c.PayPal.Configured() {
			return fmt.Errorf("PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET are required in production mode")
		}
		if c.Stripe.SecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required in production mode")
		}
		if c.PayPal.BaseURL == "https://api-m.sandbox.paypal.com" {
			return fmt.Errorf("PAYPAL_BASE_URL must be set explicitly in production mode")
		}
		if c.Email.Mode == "production" {
			if c.Email.SMTPHost == "" {
				return fmt.Errorf("SMTP_HOST is required when EMAIL_MODE is production")
			}
			if c.Email.AgencyEmail == "" {
				return fmt.Errorf("AGENCY_EMAIL is required when EMAIL_MODE is production")
			}
		}
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
