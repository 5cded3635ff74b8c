// Package authentication decides whether a subject is authenticated by an
// identity certificate, looking in the wallet first and falling back to a
// pluggable secondary store. Certificates are classified once at ingestion
// as either W3C-credential-shaped or legacy flat-field, then verified
// structurally and reduced to a uniform claim bundle.
package authentication

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/commonsource/go-identity-gate/pkg/certificates"
	"github.com/commonsource/go-identity-gate/pkg/internal/logging"
	"github.com/commonsource/go-identity-gate/pkg/wallet"
	"github.com/go-softwarelab/common/pkg/to"
)

// AuthSource tags which lookup produced the authenticating certificate.
type AuthSource string

const (
	// SourceWallet marks a certificate found in the subject's wallet.
	SourceWallet AuthSource = "wallet"

	// SourceFallback marks a certificate found in the secondary store.
	SourceFallback AuthSource = "fallback"
)

// AuthResult is the outcome of an authentication attempt.
type AuthResult struct {
	Success     bool                   `json:"success"`
	Source      AuthSource             `json:"source,omitempty"`
	Certificate *ClassifiedCertificate `json:"-"`
	Verified    bool                   `json:"verified"`
	Claims      *IdentityClaims        `json:"claims,omitempty"`
	Token       string                 `json:"token,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// FallbackStore is the pluggable secondary certificate lookup consulted when
// the wallet holds no usable certificate.
type FallbackStore interface {
	CertificateForSubject(ctx context.Context, subject string) (*wallet.Certificate, error)
}

// Config carries the tunable parts of the authentication service.
type Config struct {
	// CertificateTypes are the wallet certificate types accepted for
	// authentication.
	CertificateTypes []string

	// Fallback is the secondary lookup; nil disables it.
	Fallback FallbackStore

	// Resolver resolves subject DIDs during credential verification; nil
	// skips resolution.
	Resolver DIDResolver

	// Tokens mints session tokens on success; nil disables issuance.
	Tokens *TokenService

	// ListLimit caps candidates per wallet lookup.
	ListLimit int

	// Logger receives debug output; nil discards.
	Logger *slog.Logger

	// Clock is the time source used for expiry checks.
	Clock func() time.Time
}

// WithCertificateTypes overrides the accepted certificate types.
func WithCertificateTypes(types ...string) func(*Config) {
	return func(c *Config) {
		c.CertificateTypes = types
	}
}

// WithFallback plugs in a secondary certificate lookup.
func WithFallback(fallback FallbackStore) func(*Config) {
	return func(c *Config) {
		c.Fallback = fallback
	}
}

// WithResolver enables subject DID resolution during verification.
func WithResolver(resolver DIDResolver) func(*Config) {
	return func(c *Config) {
		c.Resolver = resolver
	}
}

// WithTokens enables session token issuance.
func WithTokens(tokens *TokenService) func(*Config) {
	return func(c *Config) {
		c.Tokens = tokens
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger *slog.Logger) func(*Config) {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) func(*Config) {
	return func(c *Config) {
		c.Clock = now
	}
}

// Service is the authentication orchestrator.
type Service struct {
	store     wallet.CertificateStore
	validator *certificates.Validator
	issuer    string
	config    Config
	logger    *slog.Logger
}

// NewService creates an authentication service trusting certificates from
// trustedIssuer.
func NewService(store wallet.CertificateStore, trustedIssuer string, opts ...func(*Config)) (*Service, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if _, err := ec.PublicKeyFromString(trustedIssuer); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIssuerKey, err)
	}

	config := to.OptionsWithDefault(Config{
		CertificateTypes: []string{certificates.IdentityType},
		ListLimit:        10,
		Clock:            time.Now,
	}, opts...)

	return &Service{
		store:     store,
		validator: certificates.NewValidator(trustedIssuer, certificates.WithClock(config.Clock)),
		issuer:    trustedIssuer,
		config:    config,
		logger:    logging.Child(logging.DiscardIfNil(config.Logger), "Authentication"),
	}, nil
}

// Authenticate looks for a usable identity certificate for the subject:
// wallet first, then the fallback store. The first usable certificate is
// classified, structurally verified, and reduced to claims.
func (s *Service) Authenticate(ctx context.Context, subjectKey string) *AuthResult {
	cert, source, err := s.lookup(ctx, subjectKey)
	if err != nil {
		return &AuthResult{Error: err.Error()}
	}
	if cert == nil {
		return &AuthResult{Error: "no certificate found for subject"}
	}

	classified := Classify(cert)
	verification := VerifyCredential(ctx, classified, s.config.Resolver, s.config.Clock())

	result := &AuthResult{
		Success:     true,
		Source:      source,
		Certificate: classified,
		Verified:    verification.Valid,
		Claims:      verification.Claims,
	}
	if !verification.Valid {
		result.Error = verification.Error
		return result
	}

	if s.config.Tokens != nil {
		token, err := s.config.Tokens.Issue(subjectKey, result.Claims)
		if err != nil {
			s.logger.Warn("session token issuance failed", logging.Error(err))
		} else {
			result.Token = token
		}
	}
	return result
}

// VerifyCertificate classifies and structurally verifies a submitted
// certificate, the way the verify-certificate endpoint consumes it.
func (s *Service) VerifyCertificate(ctx context.Context, cert *wallet.Certificate) VerificationResult {
	return VerifyCredential(ctx, Classify(cert), s.config.Resolver, s.config.Clock())
}

func (s *Service) lookup(ctx context.Context, subjectKey string) (*wallet.Certificate, AuthSource, error) {
	result, err := s.store.ListCertificates(ctx, wallet.ListCertificatesArgs{
		Types:      s.config.CertificateTypes,
		Certifiers: []string{s.issuer},
		Limit:      s.config.ListLimit,
	})
	if err != nil {
		return nil, "", fmt.Errorf("wallet certificate lookup failed: %w", err)
	}

	for i := range result.Certificates {
		cert := &result.Certificates[i]
		if s.validator.Usable(cert) {
			return cert, SourceWallet, nil
		}
	}

	if s.config.Fallback == nil {
		return nil, "", nil
	}

	cert, err := s.config.Fallback.CertificateForSubject(ctx, subjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("fallback certificate lookup failed: %w", err)
	}
	if cert == nil || !s.validator.Usable(cert) {
		return nil, "", nil
	}
	return cert, SourceFallback, nil
}
