package config

import "time"

// IMAPConfig represents the configuration for the alert mailbox
type IMAPConfig struct {
	Address  string
	Username string
	Password string
	Mailbox  string
	Subject  string
	UseTLS   bool
	Timeout  time.Duration
}

// OpsgenieConfig represents the configuration for the Opsgenie alert API
type OpsgenieConfig struct {
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	MaxAttempts     int
	BackoffFactor   float64
	BackoffUnit     time.Duration
	NetworkPause    time.Duration
	BreakerFailures int
	BreakerTimeout  time.Duration
}

// CacheConfig represents the configuration for the alert detail cache
type CacheConfig struct {
	Scope            string
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
}

// ReportConfig represents the configuration for a report run
type ReportConfig struct {
	Concurrency    int
	AllowedSenders []string
}

// ServerConfig represents the configuration for the HTTP front end
type ServerConfig struct {
	ListenAddress string
	CORSOrigins   string
}

// NotifyConfig represents the configuration for the report mailer
type NotifyConfig struct {
	Enabled     bool
	SMTPAddress string
	Username    string
	Password    string
	From        string
	To          []string
	MaxBodySize int
}

// GetIMAP returns the mailbox configuration
func (c *Config) GetIMAP() IMAPConfig {
	return IMAPConfig{
		Address:  c.GetString("imap.address"),
		Username: c.GetString("imap.username"),
		Password: c.GetString("imap.password"),
		Mailbox:  c.GetString("imap.mailbox"),
		Subject:  c.GetString("imap.subject"),
		UseTLS:   c.GetBool("imap.use_tls"),
		Timeout:  c.v.GetDuration("imap.timeout"),
	}
}

// GetOpsgenie returns the Opsgenie configuration
func (c *Config) GetOpsgenie() OpsgenieConfig {
	return OpsgenieConfig{
		APIKey:          c.GetString("opsgenie.api_key"),
		BaseURL:         c.GetString("opsgenie.base_url"),
		Timeout:         c.v.GetDuration("opsgenie.timeout"),
		MaxAttempts:     c.GetInt("opsgenie.max_attempts"),
		BackoffFactor:   c.GetFloat64("opsgenie.backoff_factor"),
		BackoffUnit:     c.v.GetDuration("opsgenie.backoff_unit"),
		NetworkPause:    c.v.GetDuration("opsgenie.network_pause"),
		BreakerFailures: c.GetInt("opsgenie.breaker_failures"),
		BreakerTimeout:  c.v.GetDuration("opsgenie.breaker_timeout"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Scope:            c.GetString("cache.scope"),
		Type:             c.GetString("cache.type"),
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              c.v.GetDuration("cache.ttl"),
		CleanupFrequency: c.v.GetDuration("cache.cleanup_frequency"),
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
		RedisAddr:        c.GetString("cache.redis_addr"),
		RedisPassword:    c.GetString("cache.redis_password"),
		RedisDB:          c.GetInt("cache.redis_db"),
	}
}

// GetReport returns the report run configuration
func (c *Config) GetReport() ReportConfig {
	return ReportConfig{
		Concurrency:    c.GetInt("report.concurrency"),
		AllowedSenders: c.GetStringSlice("report.allowed_senders"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		CORSOrigins:   c.GetString("server.cors_origins"),
	}
}

// GetNotify returns the report mailer configuration
func (c *Config) GetNotify() NotifyConfig {
	return NotifyConfig{
		Enabled:     c.GetBool("notify.enabled"),
		SMTPAddress: c.GetString("notify.smtp_address"),
		Username:    c.GetString("notify.username"),
		Password:    c.GetString("notify.password"),
		From:        c.GetString("notify.from"),
		To:          c.GetStringSlice("notify.to"),
		MaxBodySize: c.GetInt("notify.max_body_size"),
	}
}
