package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	// Server
	Port     int    `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"` // development | production
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Storage
	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	MongoURI      string `mapstructure:"MONGODB_URI"`
	MongoDatabase string `mapstructure:"MONGODB_DATABASE"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	CORSOrigins        string `mapstructure:"CORS_ORIGINS"`

	// Jobs
	Timezone    string `mapstructure:"TIMEZONE"`
	ReconcileAt string `mapstructure:"RECONCILE_AT"`
	ReportAt    string `mapstructure:"REPORT_AT"`

	// Cache
	RedisURL        string `mapstructure:"REDIS_URL"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`

	GoogleScriptURL string `mapstructure:"GOOGLE_SCRIPT_URL"`

	// SMTP
	SMTPHost        string `mapstructure:"SMTP_HOST"`
	SMTPPort        int    `mapstructure:"SMTP_PORT"`
	SMTPUser        string `mapstructure:"SMTP_USER"`
	SMTPPassword    string `mapstructure:"SMTP_PASSWORD"`
	ReportEmailFrom string `mapstructure:"REPORT_EMAIL_FROM"`
	ReportEmailTo   string `mapstructure:"REPORT_EMAIL_TO"`

	// Backups
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`

	MetricsAllowCIDR string `mapstructure:"METRICS_ALLOW_CIDR"`
}

var keys = []string{
	"PORT", "APP_ENV", "LOG_LEVEL",
	"STORE_DRIVER", "MONGODB_URI", "MONGODB_DATABASE",
	"JWT_SECRET", "JWT_EXPIRATION_HOURS", "CORS_ORIGINS",
	"TIMEZONE", "RECONCILE_AT", "REPORT_AT",
	"REDIS_URL", "CACHE_TTL_SECONDS", "GOOGLE_SCRIPT_URL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "REPORT_EMAIL_FROM", "REPORT_EMAIL_TO",
	"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_USE_SSL",
	"METRICS_ALLOW_CIDR",
}

// Load reads the process environment, then .env.local and .env for anything
// still unset. Both files are optional.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	v.SetDefault("PORT", 3001)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_DATABASE", "powergest")
	v.SetDefault("JWT_EXPIRATION_HOURS", 12)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("TIMEZONE", "America/Argentina/Buenos_Aires")
	v.SetDefault("RECONCILE_AT", "03:00")
	v.SetDefault("REPORT_AT", "21:00")
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("S3_BUCKET", "powergest-backups")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required with STORE_DRIVER=%s", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	for name, at := range map[string]string{"RECONCILE_AT": c.ReconcileAt, "REPORT_AT": c.ReportAt} {
		if _, err := time.Parse("15:04", at); err != nil {
			return fmt.Errorf("invalid %s %q, expected HH:MM", name, at)
		}
	}
	if c.MetricsAllowCIDR != "" {
		if _, _, err := net.ParseCIDR(c.MetricsAllowCIDR); err != nil {
			return fmt.Errorf("invalid METRICS_ALLOW_CIDR: %w", err)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location returns the configured timezone; Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) ReportRecipients() []string {
	var out []string
	for _, to := range strings.Split(c.ReportEmailTo, ",") {
		if to = strings.TrimSpace(to); to != "" {
			out = append(out, to)
		}
	}
	return out
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && len(c.ReportRecipients()) > 0
}

func (c *Config) BackupsEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
