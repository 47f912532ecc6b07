package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverMemory)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REPORT_EMAIL_TO", "a@example.com, b@example.com")
	t.Setenv("CORS_ORIGINS", "https://panel.example.com,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "powergest", cfg.MongoDatabase)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL())
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Location().String())
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.ReportRecipients())
	assert.Equal(t, []string{"https://panel.example.com", "https://admin.example.com"}, cfg.Origins())
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.BackupsEnabled())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverMemory)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreDriver:        DriverMongo,
			MongoURI:           "mongodb://localhost:27017",
			JWTSecret:          "s3cret",
			JWTExpirationHours: 12,
			Timezone:           "UTC",
			ReconcileAt:        "03:00",
			ReportAt:           "21:00",
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"missing uri":     func(c *Config) { c.MongoURI = "" },
		"unknown driver":  func(c *Config) { c.StoreDriver = "sqlite" },
		"bad timezone":    func(c *Config) { c.Timezone = "Mars/Olympus" },
		"bad hour":        func(c *Config) { c.ReportAt = "9pm" },
		"bad cidr":        func(c *Config) { c.MetricsAllowCIDR = "10.0.0.0" },
		"zero expiration": func(c *Config) { c.JWTExpirationHours = 0 },
		"empty secret":    func(c *Config) { c.JWTSecret = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
