package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/tailor-go/pkg/errors"
)

// Environment variables recognized as overrides. File values lose to
// the environment; the API key additionally falls back to the
// provider's conventional variable.
const (
	EnvAPIKey    = "TAILOR_API_KEY"
	EnvModel     = "TAILOR_MODEL"
	EnvStorePath = "TAILOR_STORE_PATH"
	EnvLogLevel  = "TAILOR_LOG_LEVEL"

	envAnthropicKey = "ANTHROPIC_API_KEY"
)

var validate = validator.New()

// Load reads configuration from path, merged over defaults and the
// environment. An empty path skips the file and uses defaults only.
// A named file that does not exist is an error; silently running on
// defaults would mask a typo.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.InvalidInput, "reading config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.InvalidInput, "parsing config file")
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Service.APIKey = v
	} else if cfg.Service.APIKey == "" {
		cfg.Service.APIKey = os.Getenv(envAnthropicKey)
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Service.Model = v
	}
	if v := os.Getenv(EnvStorePath); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks field constraints and cross-field consistency.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "invalid configuration"),
				errors.Fields{"field": first.Namespace(), "constraint": first.Tag()})
		}
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}
	if c.Store.Backend == "sqlite" && c.Store.Path == "" {
		return errors.New(errors.ValidationFailed, "store.path is required for the sqlite backend")
	}
	if c.Service.Timeout < 0 {
		return errors.New(errors.ValidationFailed, "service.timeout must not be negative")
	}
	if c.Service.Timeout == 0 {
		c.Service.Timeout = 90 * time.Second
	}
	return nil
}
