package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the terminal service.
// Following 12-factor app principles, all config is loaded from environment variables.
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	Backoffice BackofficeConfig
	Terminal   TerminalConfig
	LogLevel   string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for terminal clients
}

// BackofficeConfig points the terminal at the tenant's back-office API.
type BackofficeConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout int // seconds, per upstream request
}

// TerminalConfig identifies this terminal within the tenant.
type TerminalConfig struct {
	TenantID     string
	BranchID     string
	CurrencyCode string
	MinorUnits   int // decimal places of the tenant currency
	ReceiptWidth int // columns of the receipt printer
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			APIKeys: getEnvAsSlice("API_KEYS", []string{"apitest"}),
		},
		Backoffice: BackofficeConfig{
			BaseURL:        getEnv("BACKOFFICE_URL", "http://localhost:9090"),
			APIKey:         getEnv("BACKOFFICE_API_KEY", ""),
			RequestTimeout: getEnvAsInt("BACKOFFICE_TIMEOUT", 30),
		},
		Terminal: TerminalConfig{
			TenantID:     getEnv("TENANT_ID", ""),
			BranchID:     getEnv("BRANCH_ID", ""),
			CurrencyCode: getEnv("CURRENCY_CODE", "IDR"),
			MinorUnits:   getEnvAsInt("CURRENCY_MINOR_UNITS", 0),
			ReceiptWidth: getEnvAsInt("RECEIPT_WIDTH", 40),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	if c.Backoffice.BaseURL == "" {
		return fmt.Errorf("BACKOFFICE_URL is required")
	}

	if c.Terminal.TenantID == "" {
		return fmt.Errorf("TENANT_ID is required")
	}

	if c.Terminal.BranchID == "" {
		return fmt.Errorf("BRANCH_ID is required")
	}

	if c.Terminal.MinorUnits < 0 || c.Terminal.MinorUnits > 4 {
		return fmt.Errorf("CURRENCY_MINOR_UNITS must be between 0 and 4")
	}

	if c.Terminal.ReceiptWidth < 24 {
		return fmt.Errorf("RECEIPT_WIDTH must be at least 24 columns")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
