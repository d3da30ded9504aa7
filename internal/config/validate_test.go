package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Database.Primary.DSN = "postgres://localhost/tracker"
	cfg.Classification.ConfidenceThreshold = 0.4
	cfg.Duplicates.Threshold = 0.7
	cfg.Duplicates.MaxCandidates = 100
	cfg.Worker.Concurrency = 10
	cfg.Worker.Queues = map[string]int{"default": 1}
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"missing dsn",
			func(c *Config) { c.Database.Primary.DSN = "" },
			"database.primary.dsn",
		},
		{
			"threshold above one",
			func(c *Config) { c.Classification.ConfidenceThreshold = 1.5 },
			"confidence_threshold",
		},
		{
			"negative threshold",
			func(c *Config) { c.Classification.ConfidenceThreshold = -0.1 },
			"confidence_threshold",
		},
		{
			"async without redis",
			func(c *Config) { c.Classification.Async = true },
			"redis.address",
		},
		{
			"bad duplicates threshold",
			func(c *Config) { c.Duplicates.Threshold = 2 },
			"duplicates.threshold",
		},
		{
			"zero max candidates",
			func(c *Config) { c.Duplicates.MaxCandidates = 0 },
			"max_candidates",
		},
		{
			"zero concurrency",
			func(c *Config) { c.Worker.Concurrency = 0 },
			"worker.concurrency",
		},
		{
			"zero queue priority",
			func(c *Config) { c.Worker.Queues = map[string]int{"critical": 0} },
			"must be positive",
		},
		{
			"email enabled without host",
			func(c *Config) {
				c.Email.Enabled = true
				c.Email.Port = 587
				c.Email.From = "noreply@issuetracker.com"
			},
			"email.host",
		},
		{
			"email enabled without from",
			func(c *Config) {
				c.Email.Enabled = true
				c.Email.Host = "smtp.example.com"
				c.Email.Port = 587
			},
			"email.from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
