package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "STOREFRONT"

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Commerce CommerceConfig
	Checkout CheckoutConfig
	Catalog  CatalogConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
}

// CommerceConfig points at the upstream commerce API.
type CommerceConfig struct {
	BaseURL string        `envconfig:"COMMERCE_API_URL"`
	Timeout time.Duration `envconfig:"COMMERCE_TIMEOUT" default:"10s"`
	// LoginURL is handed to clients alongside auth failures so they know
	// where to establish a session.
	LoginURL string `envconfig:"LOGIN_URL"`
}

// CheckoutConfig controls the payment flow.
type CheckoutConfig struct {
	// PaymentReturnURL is where the gateway sends the customer after a
	// payment attempt.
	PaymentReturnURL string `envconfig:"PAYMENT_RETURN_URL"`
}

// CatalogConfig controls catalog behaviour.
type CatalogConfig struct {
	// FallbackFile is a YAML category hierarchy served when the commerce API
	// cannot provide one. Optional.
	FallbackFile string `envconfig:"CATALOG_FALLBACK_FILE"`
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Load reads configuration from the environment under the STOREFRONT_ prefix
// and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.Server.Port = strings.TrimSpace(cfg.Server.Port)
	cfg.Commerce.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Commerce.BaseURL), "/")
	cfg.Commerce.LoginURL = strings.TrimSpace(cfg.Commerce.LoginURL)
	cfg.Checkout.PaymentReturnURL = strings.TrimSpace(cfg.Checkout.PaymentReturnURL)
	cfg.Catalog.FallbackFile = strings.TrimSpace(cfg.Catalog.FallbackFile)

	var missing []string
	if cfg.Server.Port == "" {
		missing = append(missing, "server.port")
	}
	if cfg.Commerce.BaseURL == "" {
		missing = append(missing, "commerce.base_url")
	}
	if cfg.Checkout.PaymentReturnURL == "" {
		missing = append(missing, "checkout.payment_return_url")
	}
	if len(missing) > 0 {
		return Config{}, &ValidationError{fields: missing}
	}
	return cfg, nil
}
