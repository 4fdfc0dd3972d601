// Package config loads runtime settings from SPRINTDESK_* environment
// variables and an optional YAML rate card.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/sprintdesk/internal/agreement"
	"github.com/alexanderramin/sprintdesk/internal/llm"
	"github.com/alexanderramin/sprintdesk/internal/notify"
	"github.com/alexanderramin/sprintdesk/internal/pricing"
)

// Prefix is prepended to every environment variable name.
const Prefix = "SPRINTDESK_"

type Config struct {
	DBPath           string        `env:"DB_PATH" envDefault:"sprintdesk.db"`
	HTTPAddr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"auto"`
	MaxDocumentBytes int           `env:"MAX_DOCUMENT_BYTES" envDefault:"100000"`
	PricingFile      string        `env:"PRICING_FILE"`
	NotifyTo         string        `env:"NOTIFY_TO"`
	NotifyTimeout    time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"20s"`

	LLM      llm.Config            `envPrefix:"LLM_"`
	SendGrid notify.SendGridConfig `envPrefix:"SENDGRID_"`
	Studio   agreement.StudioInfo  `envPrefix:"STUDIO_"`

	// Pricing is loaded from PricingFile, not the environment.
	Pricing pricing.Config `env:"-"`
}

// ParseEnv loads configuration from prefixed environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment and the pricing file it names.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	p, err := LoadPricing(cfg.PricingFile)
	if err != nil {
		return Config{}, err
	}
	cfg.Pricing = p
	return cfg, nil
}

// LoadPricing reads a YAML rate card over pricing.DefaultConfig. An empty
// path returns the defaults. Unknown keys are rejected.
func LoadPricing(path string) (pricing.Config, error) {
	cfg := pricing.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("reading pricing file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return pricing.Config{}, fmt.Errorf("parsing pricing file %s: %w", path, err)
	}
	if err := ValidatePricing(cfg); err != nil {
		return pricing.Config{}, fmt.Errorf("pricing file %s: %w", path, err)
	}
	return cfg, nil
}

// ValidatePricing rejects rate cards that would produce nonsense amounts.
func ValidatePricing(c pricing.Config) error {
	var errs []error
	if c.HoursPerPoint <= 0 {
		errs = append(errs, fmt.Errorf("hours_per_point must be positive"))
	}
	if c.PricePerPoint <= 0 {
		errs = append(errs, fmt.Errorf("price_per_point must be positive"))
	}
	if c.DefaultUpfront < 0 || c.DefaultUpfront > 1 {
		errs = append(errs, fmt.Errorf("default_upfront must be within [0,1]"))
	}
	if c.ZeroEpsilon < 0 || c.ZeroEpsilon >= 1 {
		errs = append(errs, fmt.Errorf("zero_epsilon must be within [0,1)"))
	}
	return errors.Join(errs...)
}
