// Package config loads the dispatcher configuration: an optional YAML file,
// then environment variables, which always win. Defaults come from the
// envDefault tags and fill whatever is still zero.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/mailform/pkg/logger"
	"github.com/dmitrymomot/mailform/pkg/mailer/resend"
	"github.com/dmitrymomot/mailform/pkg/mailer/ses"
)

// Provider names.
const (
	ProviderResend = "resend"
	ProviderSES    = "ses"
	ProviderLog    = "log"
)

// Config holds the complete application configuration.
type Config struct {
	HTTP   HTTPConfig    `yaml:"http"`
	Mailer MailerConfig  `yaml:"mailer"`
	Resend resend.Config `yaml:"resend"`
	SES    ses.Config    `yaml:"ses"`
	Log    logger.Config `yaml:"log"`
}

// HTTPConfig holds the HTTP server settings.
type HTTPConfig struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" envDefault:":8080"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// MailerConfig selects and tunes the delivery provider.
type MailerConfig struct {
	// Provider is resend, ses or log. Empty picks the first one with
	// credentials, falling back to log.
	Provider    string `yaml:"provider" env:"MAILER_PROVIDER"`
	DefaultFrom string `yaml:"default_from" env:"MAILER_DEFAULT_FROM" envDefault:"info@ejm.services"`
	// MaxUploadBytes caps the request body. Defaults to 25 MiB.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"MAILER_MAX_UPLOAD_BYTES" envDefault:"26214400"`
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables are used.
func Load(path string) (*Config, error) {
	return load(path, nil)
}

// load reads environ instead of the process environment when it is non-nil.
func load(path string, environ map[string]string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{
		Environment:                  environ,
		SetDefaultsForZeroValuesOnly: true,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.normalize()
	cfg.resolveProvider()

	return cfg, nil
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	switch c.Mailer.Provider {
	case ProviderResend:
		if c.Resend.APIKey == "" {
			errs = append(errs, errors.New("config: resend provider requires RESEND_API_KEY"))
		}
	case ProviderSES:
		if c.SES.Region == "" {
			errs = append(errs, errors.New("config: ses provider requires SES_REGION"))
		}
	case ProviderLog:
	default:
		errs = append(errs, fmt.Errorf("config: unknown mailer provider %q", c.Mailer.Provider))
	}

	if c.Mailer.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("config: max upload bytes must be positive"))
	}
	if c.HTTP.Address == "" {
		errs = append(errs, errors.New("config: http address is empty"))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c *Config) normalize() {
	for i, o := range c.HTTP.AllowedOrigins {
		c.HTTP.AllowedOrigins[i] = strings.TrimSpace(o)
	}
	c.HTTP.AllowedOrigins = slices.DeleteFunc(c.HTTP.AllowedOrigins, func(o string) bool { return o == "" })
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = nil
	}

	c.Mailer.Provider = strings.ToLower(strings.TrimSpace(c.Mailer.Provider))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

func (c *Config) resolveProvider() {
	if c.Mailer.Provider != "" {
		return
	}
	switch {
	case c.Resend.APIKey != "":
		c.Mailer.Provider = ProviderResend
	case c.SES.Region != "":
		c.Mailer.Provider = ProviderSES
	default:
		c.Mailer.Provider = ProviderLog
	}
}
