// Package config manages the CLI configuration file and the environment
// variables that feed the connection probes.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ConfigDir returns the active configuration directory path.
// The path depends on the build mode (dev/prod) and can be overridden
// with the TRACE_CONFIG_DIR environment variable.
func ConfigDir() (string, error) {
	return configDir()
}

// UIConfig controls the progress indicator.
type UIConfig struct {
	Style    string        `yaml:"style" mapstructure:"style"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// MySQLConfig holds MySQL connection parameters.
type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Database string `yaml:"database" mapstructure:"database"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
}

// RedshiftConfig holds Redshift connection parameters.
type RedshiftConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Database string `yaml:"database" mapstructure:"database"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Schema   string `yaml:"schema" mapstructure:"schema"`
}

// StripeConfig holds Stripe REST API parameters.
type StripeConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// EnvConfig locates the dotenv file loaded at startup.
type EnvConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// KeyringConfig controls the kernel keyring cache for the env-file passphrase.
type KeyringConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	TTL     int  `yaml:"ttl" mapstructure:"ttl"`
}

// Config is the top-level configuration structure.
type Config struct {
	UI       UIConfig       `yaml:"ui" mapstructure:"ui"`
	MySQL    MySQLConfig    `yaml:"mysql" mapstructure:"mysql"`
	Redshift RedshiftConfig `yaml:"redshift" mapstructure:"redshift"`
	Stripe   StripeConfig   `yaml:"stripe" mapstructure:"stripe"`
	Env      EnvConfig      `yaml:"env" mapstructure:"env"`
	Keyring  KeyringConfig  `yaml:"keyring" mapstructure:"keyring"`
}

// envBindings maps config keys to the conventional environment variables.
var envBindings = map[string]string{
	"mysql.host":        "MYSQL_HOST",
	"mysql.port":        "MYSQL_PORT",
	"mysql.database":    "MYSQL_DATABASE",
	"mysql.user":        "MYSQL_USER",
	"mysql.password":    "MYSQL_PASSWORD",
	"redshift.host":     "REDSHIFT_HOST",
	"redshift.port":     "REDSHIFT_PORT",
	"redshift.database": "REDSHIFT_DATABASE",
	"redshift.user":     "REDSHIFT_USER",
	"redshift.password": "REDSHIFT_PASSWORD",
	"redshift.schema":   "REDSHIFT_SCHEMA",
	"stripe.api_key":    "STRIPE_API_KEY",
	"ui.style":          "TRACE_SPINNER_STYLE",
}

// SetDefaults registers the default configuration values in viper and binds
// the connection environment variables.
// Must be called before viper.ReadInConfig so that defaults are applied
// when a key is absent from the config file.
func SetDefaults() {
	viper.SetDefault("ui.style", "braille")
	viper.SetDefault("ui.interval", "100ms")
	viper.SetDefault("mysql.port", 3306)
	viper.SetDefault("redshift.port", 5439)
	viper.SetDefault("redshift.schema", "tracedb")
	viper.SetDefault("stripe.base_url", "https://api.stripe.com")
	viper.SetDefault("env.file", ".env")
	viper.SetDefault("keyring.enabled", true)
	viper.SetDefault("keyring.ttl", 600)

	for key, name := range envBindings {
		// BindEnv only fails when called without a key.
		_ = viper.BindEnv(key, name)
	}
}

// Load reads the active viper configuration and returns a Config struct.
// SetDefaults must have been called before this function.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
