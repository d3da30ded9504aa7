package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Primary struct {
			DSN string `mapstructure:"dsn"`
		} `mapstructure:"primary"`
	} `mapstructure:"database"`

	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Classification struct {
		// Suggestions below this confidence are discarded. Caller policy,
		// not a property of the classifier itself.
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
		// When false, issues are classified inline at creation instead of
		// through the worker queue.
		Async bool `mapstructure:"async"`
	} `mapstructure:"classification"`

	Duplicates struct {
		Threshold     float64 `mapstructure:"threshold"`
		MaxCandidates int     `mapstructure:"max_candidates"`
	} `mapstructure:"duplicates"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency     int            `mapstructure:"concurrency"`
		Queues          map[string]int `mapstructure:"queues"`
		OverdueSchedule string         `mapstructure:"overdue_schedule"`
	} `mapstructure:"worker"`

	Email struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"email"`
}

// LoadConfig reads config.yaml from the working directory, with environment
// variables taking precedence. A missing config file is fine; defaults and
// env vars carry the rest.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.BindEnv("database.primary.dsn", "TRACKER_DATABASE_DSN")
	viper.BindEnv("redis.address", "TRACKER_REDIS_ADDR")
	viper.BindEnv("email.password", "TRACKER_SMTP_PASSWORD")

	viper.SetDefault("server.addr", "localhost")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("classification.confidence_threshold", 0.4)
	viper.SetDefault("classification.async", true)
	viper.SetDefault("duplicates.threshold", 0.7)
	viper.SetDefault("duplicates.max_candidates", 100)
	viper.SetDefault("worker.concurrency", 10)
	viper.SetDefault("worker.queues", map[string]int{"default": 1})
	viper.SetDefault("worker.overdue_schedule", "@hourly")
	viper.SetDefault("email.from", "noreply@issuetracker.com")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
