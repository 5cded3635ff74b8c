// Package certificates holds the pure validity predicates applied to a
// certificate before it may be used for disclosure: structural completeness,
// issuer trust and expiry. Invalid certificates are skipped by callers, never
// treated as fatal.
package certificates

import (
	"log/slog"
	"time"

	"github.com/commonsource/go-identity-gate/pkg/internal/logging"
	"github.com/commonsource/go-identity-gate/pkg/wallet"
)

// IdentityType is the wallet certificate type under which user identity
// attestations are issued (base64 of the type descriptor).
const IdentityType = "Q29tbW9uU291cmNlIHVzZXIgaWRlbnRpdHk="

// ValidateStructure reports whether the certificate carries every required
// attribute: type, serial number, subject, certifier and signature.
func ValidateStructure(cert *wallet.Certificate) bool {
	if cert == nil {
		return false
	}
	return cert.Type != "" &&
		cert.SerialNumber != "" &&
		cert.Subject != "" &&
		cert.Certifier != "" &&
		cert.Signature != ""
}

// ValidateIssuer reports whether the certificate was issued by the trusted
// issuer. The comparison is an exact, case-sensitive match on the public-key
// encoding.
func ValidateIssuer(cert *wallet.Certificate, trustedIssuer string) bool {
	if cert == nil || cert.Certifier == "" {
		return false
	}
	return cert.Certifier == trustedIssuer
}

// ValidateNotExpired reports whether the certificate is usable at the given
// time. An absent expiration date means the certificate does not expire; an
// unparseable one makes the certificate unusable.
func ValidateNotExpired(cert *wallet.Certificate, now time.Time) bool {
	if cert == nil {
		return false
	}
	if cert.ExpirationDate == "" {
		return true
	}

	expiry, err := parseTimestamp(cert.ExpirationDate)
	if err != nil {
		return false
	}
	return expiry.After(now)
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", value)
}

// Validator conjoins the three predicates against a configured trusted issuer.
type Validator struct {
	trustedIssuer string
	now           func() time.Time
	logger        *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

// WithLogger attaches a logger to the validator.
func WithLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logging.Child(logger, "CertificateValidator")
	}
}

// NewValidator creates a validator trusting certificates from the given
// issuer public key.
func NewValidator(trustedIssuer string, opts ...ValidatorOption) *Validator {
	v := &Validator{
		trustedIssuer: trustedIssuer,
		now:           time.Now,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Usable reports whether the certificate passes structure, issuer and expiry
// checks. No certificate should be used for disclosure unless this holds.
func (v *Validator) Usable(cert *wallet.Certificate) bool {
	if !ValidateStructure(cert) {
		v.logger.Debug("certificate rejected: incomplete structure")
		return false
	}
	if !ValidateIssuer(cert, v.trustedIssuer) {
		v.logger.Debug("certificate rejected: untrusted certifier",
			slog.String("certifier", cert.Certifier))
		return false
	}
	if !ValidateNotExpired(cert, v.now()) {
		v.logger.Debug("certificate rejected: expired",
			slog.String("expirationDate", cert.ExpirationDate))
		return false
	}
	return true
}
