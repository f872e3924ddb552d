package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envAliases maps legacy environment variable names onto configuration keys
var envAliases = map[string]string{
	"imap.username":    "YOUR_EMAIL",
	"imap.password":    "YOUR_PASSWORD",
	"opsgenie.api_key": "OPS_GENIE_API_KEY",
}

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewWithFile("")
}

// NewWithFile creates a new configuration instance. A non-empty path is read
// instead of searching the standard locations.
func NewWithFile(path string) (*Config, error) {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/alert-report/")
		v.AddConfigPath("$HOME/.alert-report")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("ALERT_REPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := bindAliases(v); err != nil {
		return nil, err
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// bindAliases binds each key to both its prefixed name and its legacy name
func bindAliases(v *viper.Viper) error {
	for key, legacy := range envAliases {
		prefixed := "ALERT_REPORT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Mailbox defaults
	v.SetDefault("imap.address", "imap.gmail.com:993")
	v.SetDefault("imap.username", "")
	v.SetDefault("imap.password", "")
	v.SetDefault("imap.mailbox", "[Gmail]/All Mail")
	v.SetDefault("imap.subject", "Opsgenie Alert")
	v.SetDefault("imap.use_tls", true)
	v.SetDefault("imap.timeout", "30s")

	// Opsgenie defaults
	v.SetDefault("opsgenie.api_key", "")
	v.SetDefault("opsgenie.base_url", "https://api.opsgenie.com")
	v.SetDefault("opsgenie.timeout", "30s")
	v.SetDefault("opsgenie.max_attempts", 3)
	v.SetDefault("opsgenie.backoff_factor", 2.0)
	v.SetDefault("opsgenie.backoff_unit", "1s")
	v.SetDefault("opsgenie.network_pause", "2s")
	v.SetDefault("opsgenie.breaker_failures", 5)
	v.SetDefault("opsgenie.breaker_timeout", "30s")

	// Cache defaults
	v.SetDefault("cache.scope", "batch")
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "0s")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "/data/alert_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/alert_report")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)

	// Report defaults
	v.SetDefault("report.concurrency", 0)
	v.SetDefault("report.allowed_senders", []string{})

	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:5000")
	v.SetDefault("server.cors_origins", "*")

	// Notifier defaults
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.smtp_address", "localhost:25")
	v.SetDefault("notify.username", "")
	v.SetDefault("notify.password", "")
	v.SetDefault("notify.from", "alert-report@localhost")
	v.SetDefault("notify.to", []string{})
	v.SetDefault("notify.max_body_size", 65536)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
