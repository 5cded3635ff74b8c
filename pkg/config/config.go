// Package config loads the identity gate service configuration from a YAML
// file.
package config

import (
	"fmt"
	"os"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/commonsource/go-identity-gate/pkg/certificates"
	"github.com/commonsource/go-identity-gate/pkg/defs"
	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Gate    GateConfig    `yaml:"gate"`
	Storage StorageConfig `yaml:"storage"`
	Tokens  TokenConfig   `yaml:"tokens"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// GateConfig defines the age verification parameters.
type GateConfig struct {
	TrustedIssuer            string   `yaml:"trusted_issuer"`
	IdentityCertificateTypes []string `yaml:"identity_certificate_types"`
	DIDCertificateTypes      []string `yaml:"did_certificate_types"`
	MinimumAge               int      `yaml:"minimum_age"`
	DisclosureField          string   `yaml:"disclosure_field"`
}

// StorageConfig defines the database location.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// TokenConfig defines session token issuance.
type TokenConfig struct {
	SigningKey string        `yaml:"signing_key"`
	Issuer     string        `yaml:"issuer"`
	TTL        time.Duration `yaml:"ttl"`
}

// LoggingConfig defines log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Load reads, validates and defaults the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config.setDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if len(c.Gate.IdentityCertificateTypes) == 0 {
		c.Gate.IdentityCertificateTypes = []string{certificates.IdentityType}
	}
	if c.Gate.MinimumAge == 0 {
		c.Gate.MinimumAge = 18
	}
	if c.Gate.DisclosureField == "" {
		c.Gate.DisclosureField = "age"
	}
	if c.Storage.DSN == "" {
		c.Storage.DSN = ":memory:"
	}
	if c.Tokens.Issuer == "" {
		c.Tokens.Issuer = "identity-gate"
	}
	if c.Tokens.TTL == 0 {
		c.Tokens.TTL = time.Hour
	}
	if c.Logging.Level == "" {
		c.Logging.Level = string(defs.LogLevelInfo)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = string(defs.JSONHandler)
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Gate.TrustedIssuer == "" {
		return fmt.Errorf("gate.trusted_issuer is required")
	}
	if _, err := ec.PublicKeyFromString(c.Gate.TrustedIssuer); err != nil {
		return fmt.Errorf("gate.trusted_issuer is not a valid public key: %w", err)
	}
	if c.Gate.MinimumAge <= 0 {
		return fmt.Errorf("gate.minimum_age must be positive")
	}
	if _, err := defs.ParseLogLevelStr(c.Logging.Level); err != nil {
		return err
	}
	if _, err := defs.ParseHandlerTypeStr(c.Logging.Format); err != nil {
		return err
	}
	return nil
}
