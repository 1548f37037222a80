// ABOUTME: Application configuration: defaults, TOML file, .env and environment overrides
// ABOUTME: Holds record store credentials that are passed explicitly to the gateway
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	AppName = "reicrm"

	DefaultAPIURL       = "https://api.airtable.com"
	DefaultAddr         = ":8080"
	DefaultGatewayURL   = "http://localhost:8080"
	DefaultEmulatorAddr = ":8787"
	DefaultTimeout      = 30 * time.Second
)

type Config struct {
	Airtable AirtableConfig `toml:"airtable"`
	Server   ServerConfig   `toml:"server"`
	Client   ClientConfig   `toml:"client"`
	Log      LogConfig      `toml:"log"`
	Resolver ResolverConfig `toml:"resolver"`
	Emulator EmulatorConfig `toml:"emulator"`
}

// AirtableConfig holds record store credentials. PublicBaseID is the copy of
// the base id that may be exposed to browser-side code.
type AirtableConfig struct {
	APIURL         string `toml:"api_url"`
	BaseID         string `toml:"base_id"`
	Token          string `toml:"token"`
	PublicBaseID   string `toml:"public_base_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the upstream request timeout.
func (c AirtableConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	Mode string `toml:"mode"`
}

// ClientConfig points CLI commands at a running gateway.
type ClientConfig struct {
	GatewayURL string `toml:"gateway_url"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ResolverConfig controls contact find-or-create failure handling.
// When StrictContactLinking is false a failed lookup counts as "no match" and
// a failed contact create leaves the property unlinked.
type ResolverConfig struct {
	StrictContactLinking bool `toml:"strict_contact_linking"`
}

type EmulatorConfig struct {
	Addr   string `toml:"addr"`
	DBPath string `toml:"db_path"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Airtable: AirtableConfig{APIURL: DefaultAPIURL},
		Server:   ServerConfig{Addr: DefaultAddr, Mode: "release"},
		Client:   ClientConfig{GatewayURL: DefaultGatewayURL},
		Log:      LogConfig{Level: "info", Format: "text"},
		Emulator: EmulatorConfig{
			Addr:   DefaultEmulatorAddr,
			DBPath: filepath.Join(xdg.DataHome, AppName, "emulator.db"),
		},
	}
}

// DefaultPath returns the XDG config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// Load builds the configuration. path may be empty, in which case the XDG
// config file is used when present. A .env file in the working directory is
// loaded without overriding variables already set in the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Airtable.APIURL, "AIRTABLE_API_URL")
	setString(&cfg.Airtable.BaseID, "AIRTABLE_BASE_ID")
	setString(&cfg.Airtable.Token, "AIRTABLE_PERSONAL_ACCESS_TOKEN")
	// The older NEXT_PUBLIC_ name is still honoured; the current name wins.
	setString(&cfg.Airtable.PublicBaseID, "NEXT_PUBLIC_AIRTABLE_BASE_ID")
	setString(&cfg.Airtable.PublicBaseID, "PUBLIC_AIRTABLE_BASE_ID")
	setString(&cfg.Server.Addr, "REICRM_ADDR")
	setString(&cfg.Client.GatewayURL, "REICRM_GATEWAY_URL")
	setString(&cfg.Log.Level, "REICRM_LOG_LEVEL")
	setString(&cfg.Log.Format, "REICRM_LOG_FORMAT")
	setString(&cfg.Emulator.Addr, "REICRM_EMULATOR_ADDR")
	setString(&cfg.Emulator.DBPath, "REICRM_EMULATOR_DB")

	if v := os.Getenv("REICRM_STRICT_CONTACT_LINKING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Resolver.StrictContactLinking = b
		}
	}
	if v := os.Getenv("AIRTABLE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Airtable.TimeoutSeconds = n
		}
	}

	if cfg.Airtable.PublicBaseID == "" {
		cfg.Airtable.PublicBaseID = cfg.Airtable.BaseID
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// ValidateGateway checks the settings the record gateway cannot run without.
func (c Config) ValidateGateway() error {
	var missing []string
	if c.Airtable.BaseID == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if c.Airtable.Token == "" {
		missing = append(missing, "AIRTABLE_PERSONAL_ACCESS_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("record store credentials not configured: set %s", strings.Join(missing, " and "))
	}
	return nil
}
