package agegate

import (
	"fmt"
	"log/slog"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/commonsource/go-identity-gate/pkg/certificates"
)

const (
	// DefaultMinimumAge is the age requirement applied when none is
	// configured.
	DefaultMinimumAge = 18

	// DefaultDisclosureField is the certificate field disclosed by default.
	DefaultDisclosureField = "age"

	// DefaultListLimit caps how many candidates a single lookup may return.
	DefaultListLimit = 10

	// DefaultIdentityCertificateType is the certificate type requested from
	// the wallet when none is configured.
	DefaultIdentityCertificateType = certificates.IdentityType
)

// Config carries the tunable parts of a verification pass.
type Config struct {
	// IdentityCertificateTypes are the certificate types for the direct
	// identity lookup path.
	IdentityCertificateTypes []string

	// DIDCertificateTypes are the certificate types for the DID-linked lookup
	// path. When empty, the DID-linked path is skipped.
	DIDCertificateTypes []string

	// MinimumAge is the requirement for ClaimAge verdicts.
	MinimumAge int

	// DisclosureField is the single certificate field revealed per candidate.
	DisclosureField string

	// Claim selects how the disclosed value is interpreted.
	Claim ClaimKind

	// ListLimit caps candidates per lookup path.
	ListLimit int

	// Logger receives debug output; nil discards.
	Logger *slog.Logger

	// Metrics records verdict counters and pass durations; nil disables.
	Metrics *Metrics

	// Clock is the time source used for expiry checks.
	Clock func() time.Time
}

// WithIdentityCertificateTypes overrides the direct lookup type filter.
func WithIdentityCertificateTypes(types ...string) func(*Config) {
	return func(c *Config) {
		c.IdentityCertificateTypes = types
	}
}

// WithDIDCertificateTypes enables the DID-linked lookup path for the given
// certificate types.
func WithDIDCertificateTypes(types ...string) func(*Config) {
	return func(c *Config) {
		c.DIDCertificateTypes = types
	}
}

// WithMinimumAge overrides the age requirement.
func WithMinimumAge(age int) func(*Config) {
	return func(c *Config) {
		c.MinimumAge = age
	}
}

// WithDisclosureField selects the field to disclose and how to interpret it.
func WithDisclosureField(field string, claim ClaimKind) func(*Config) {
	return func(c *Config) {
		c.DisclosureField = field
		c.Claim = claim
	}
}

// WithListLimit caps how many candidates each lookup path may return.
func WithListLimit(limit int) func(*Config) {
	return func(c *Config) {
		c.ListLimit = limit
	}
}

// WithLogger attaches a logger to the verifier.
func WithLogger(logger *slog.Logger) func(*Config) {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics attaches prometheus collectors to the verifier.
func WithMetrics(metrics *Metrics) func(*Config) {
	return func(c *Config) {
		c.Metrics = metrics
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) func(*Config) {
	return func(c *Config) {
		c.Clock = now
	}
}

func (c *Config) validate(trustedIssuer string) error {
	if _, err := ec.PublicKeyFromString(trustedIssuer); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidIssuerKey, err)
	}
	if c.MinimumAge <= 0 {
		return fmt.Errorf("%w: minimum age must be positive", ErrInvalidConfig)
	}
	if c.DisclosureField == "" {
		return fmt.Errorf("%w: disclosure field must not be empty", ErrInvalidConfig)
	}
	if c.Claim != ClaimAge && c.Claim != ClaimOverThreshold {
		return fmt.Errorf("%w: unknown claim kind %q", ErrInvalidConfig, c.Claim)
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("%w: list limit must be positive", ErrInvalidConfig)
	}
	return nil
}
