package config

import (
	"fmt"
	"strings"
)

const minProductionSecretLength = 32

// ValidateConfig checks the configuration against the rules of the current
// environment and reports every problem at once.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errors []string

	if cfg.Server.Port == "" {
		errors = append(errors, "server port is required")
	}
	if cfg.Database.Host == "" || cfg.Database.Name == "" {
		errors = append(errors, "database host and name are required")
	}
	if cfg.JWT.Secret == "" {
		if env == CI {
			errors = append(errors, "JWT_SECRET or TEST_JWT_SECRET is required in CI environment")
		} else {
			errors = append(errors, "jwt_secret secret or JWT_SECRET is required")
		}
	}
	if cfg.JWT.TTL <= 0 {
		errors = append(errors, "jwt ttl must be positive")
	}

	switch env {
	case CI:
		if cfg.Database.Password == "" {
			errors = append(errors, "DB_PASSWORD or TEST_DB_PASSWORD is required in CI environment")
		}
	case Production:
		if cfg.Database.Password == "" {
			errors = append(errors, "db_password secret is required")
		}
		if len(cfg.JWT.Secret) < minProductionSecretLength {
			errors = append(errors, fmt.Sprintf("jwt secret must be at least %d characters in production", minProductionSecretLength))
		}
		for _, origin := range cfg.CORS.Origins {
			if origin == "*" {
				errors = append(errors, "wildcard CORS origin is not allowed in production")
			}
		}
	}

	if cfg.Recommend.CandidatePoolSize <= 0 {
		errors = append(errors, "recommend candidate_pool_size must be positive")
	}
	if cfg.Recommend.DefaultLimit <= 0 || cfg.Recommend.DefaultLimit > 50 {
		errors = append(errors, "recommend default_limit must be between 1 and 50")
	}
	if cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0 {
		errors = append(errors, "rate limit window and requests must be positive")
	}
	if (cfg.S3.Bucket == "") != (cfg.S3.Region == "") {
		errors = append(errors, "s3 bucket and region must be set together")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
