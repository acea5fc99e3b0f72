package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Athlete.MaxHR != 172 {
		t.Errorf("Athlete.MaxHR = %v, want 172", cfg.Athlete.MaxHR)
	}
	if cfg.Athlete.RestingHR != 0 {
		t.Errorf("Athlete.RestingHR = %v, want 0 (use wearable)", cfg.Athlete.RestingHR)
	}
	if cfg.Display.DistanceUnit != "km" {
		t.Errorf("Display.DistanceUnit = %q, want %q", cfg.Display.DistanceUnit, "km")
	}

	// Credentials should be empty by default
	if cfg.Strava.ClientID != "" || cfg.Strava.ClientSecret != "" {
		t.Error("Strava credentials should be empty by default")
	}
	if cfg.Whoop.ClientID != "" || cfg.Whoop.ClientSecret != "" {
		t.Error("Whoop credentials should be empty by default")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := StravaConfig{ClientID: "12345", ClientSecret: "abc123secret"}

	tests := []struct {
		name        string
		config      Config
		expectError bool
		errContains string
	}{
		{
			name:        "valid config",
			config:      Config{Strava: valid},
			expectError: false,
		},
		{
			name: "valid config with whoop",
			config: Config{
				Strava: valid,
				Whoop:  WhoopConfig{ClientID: "w-id", ClientSecret: "w-secret"},
			},
			expectError: false,
		},
		{
			name:        "empty client ID",
			config:      Config{Strava: StravaConfig{ClientSecret: "abc123secret"}},
			expectError: true,
			errContains: "client_id",
		},
		{
			name: "placeholder client ID",
			config: Config{
				Strava: StravaConfig{ClientID: "YOUR_CLIENT_ID", ClientSecret: "abc123secret"},
			},
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "empty client secret",
			config:      Config{Strava: StravaConfig{ClientID: "12345"}},
			expectError: true,
			errContains: "client_secret",
		},
		{
			name: "placeholder client secret",
			config: Config{
				Strava: StravaConfig{ClientID: "12345", ClientSecret: "YOUR_CLIENT_SECRET"},
			},
			expectError: true,
			errContains: "client_secret",
		},
		{
			name: "whoop id without secret",
			config: Config{
				Strava: valid,
				Whoop:  WhoopConfig{ClientID: "w-id"},
			},
			expectError: true,
			errContains: "whoop",
		},
		{
			name: "bad distance unit",
			config: Config{
				Strava:  valid,
				Display: DisplayConfig{DistanceUnit: "furlongs"},
			},
			expectError: true,
			errContains: "distance_unit",
		},
		{
			name: "resting above max",
			config: Config{
				Strava:  valid,
				Athlete: AthleteConfig{RestingHR: 180, MaxHR: 172},
			},
			expectError: true,
			errContains: "resting_hr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestWhoopConfigured(t *testing.T) {
	cfg := Config{}
	if cfg.WhoopConfigured() {
		t.Error("empty config should not report Whoop as configured")
	}

	cfg.Whoop = WhoopConfig{ClientID: "w-id", ClientSecret: "w-secret"}
	if !cfg.WhoopConfigured() {
		t.Error("config with both Whoop credentials should report configured")
	}
}
