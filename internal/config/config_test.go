package config

import (
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TENANT_ID", "t-1")
	t.Setenv("BRANCH_ID", "b-1")
}

func TestLoad(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Terminal.CurrencyCode != "IDR" {
		t.Errorf("default currency = %s, want IDR", cfg.Terminal.CurrencyCode)
	}
	if cfg.Terminal.ReceiptWidth != 40 {
		t.Errorf("default receipt width = %d, want 40", cfg.Terminal.ReceiptWidth)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level = %s, want info", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("CURRENCY_CODE", "USD")
	t.Setenv("CURRENCY_MINOR_UNITS", "2")
	t.Setenv("API_KEYS", "key1,key2")
	t.Setenv("BACKOFFICE_URL", "https://backoffice.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("port = %s, want 9999", cfg.Server.Port)
	}
	if cfg.Terminal.MinorUnits != 2 {
		t.Errorf("minor units = %d, want 2", cfg.Terminal.MinorUnits)
	}
	if len(cfg.Auth.APIKeys) != 2 {
		t.Errorf("api keys = %d, want 2", len(cfg.Auth.APIKeys))
	}
	if cfg.Backoffice.BaseURL != "https://backoffice.example.com" {
		t.Errorf("backoffice url = %s", cfg.Backoffice.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing tenant",
			mutate:  func(c *Config) { c.Terminal.TenantID = "" },
			wantErr: true,
		},
		{
			name:    "missing branch",
			mutate:  func(c *Config) { c.Terminal.BranchID = "" },
			wantErr: true,
		},
		{
			name:    "missing backoffice url",
			mutate:  func(c *Config) { c.Backoffice.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "no api keys",
			mutate:  func(c *Config) { c.Auth.APIKeys = nil },
			wantErr: true,
		},
		{
			name:    "negative minor units",
			mutate:  func(c *Config) { c.Terminal.MinorUnits = -1 },
			wantErr: true,
		},
		{
			name:    "minor units above 4",
			mutate:  func(c *Config) { c.Terminal.MinorUnits = 5 },
			wantErr: true,
		},
		{
			name:    "receipt width too narrow",
			mutate:  func(c *Config) { c.Terminal.ReceiptWidth = 10 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() unexpected error = %v", err)
			}

			tt.mutate(cfg)

			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
