package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Database.Primary.DSN == "" {
		return errors.New("database.primary.dsn is required")
	}

	if c.Classification.ConfidenceThreshold < 0 || c.Classification.ConfidenceThreshold > 1 {
		return fmt.Errorf("classification.confidence_threshold must be in [0,1], got %v", c.Classification.ConfidenceThreshold)
	}
	if c.Classification.Async && c.Redis.Address == "" {
		return errors.New("redis.address is required when classification.async is true")
	}

	if c.Duplicates.Threshold < 0 || c.Duplicates.Threshold > 1 {
		return fmt.Errorf("duplicates.threshold must be in [0,1], got %v", c.Duplicates.Threshold)
	}
	if c.Duplicates.MaxCandidates <= 0 {
		return errors.New("duplicates.max_candidates must be positive")
	}

	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}

	if c.Email.Enabled {
		if c.Email.Host == "" {
			return errors.New("email.host is required when email is enabled")
		}
		if c.Email.Port <= 0 {
			return errors.New("email.port must be positive when email is enabled")
		}
		if c.Email.From == "" {
			return errors.New("email.from is required when email is enabled")
		}
	}

	return nil
}
