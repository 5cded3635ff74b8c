// Package disclosure extracts single field values from wallet certificates
// through selective disclosure: a verifier keyring is derived for exactly one
// field, that field alone is decrypted, and nothing else leaves the wallet.
package disclosure

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/commonsource/go-identity-gate/pkg/internal/logging"
	"github.com/commonsource/go-identity-gate/pkg/wallet"
)

// Extractor performs single-field selective disclosure against a certificate
// store.
type Extractor struct {
	store  wallet.CertificateStore
	logger *slog.Logger
}

// NewExtractor creates an extractor over the given store. A nil logger
// discards output.
func NewExtractor(store wallet.CertificateStore, logger *slog.Logger) *Extractor {
	return &Extractor{
		store:  store,
		logger: logging.Child(logging.DiscardIfNil(logger), "SelectiveDisclosure"),
	}
}

// ExtractField reveals the named field of the certificate to the verifier and
// returns its decrypted value. Only the requested field is derived and
// decrypted; no other field value is surfaced by this call.
func (e *Extractor) ExtractField(ctx context.Context, cert *wallet.Certificate, verifier, field string) (string, error) {
	if cert == nil || len(cert.Fields) == 0 || len(cert.Keyring) == 0 {
		return "", ErrMissingCertificateData
	}
	if _, ok := cert.Fields[field]; !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldNotPresent, field)
	}

	keyring, err := e.store.CreateVerifierKeyring(ctx, wallet.CreateVerifierKeyringArgs{
		Certifier:      cert.Certifier,
		Verifier:       verifier,
		Fields:         cert.Fields,
		FieldsToReveal: []string{field},
		MasterKeyring:  cert.Keyring,
		SerialNumber:   cert.SerialNumber,
	})
	if err != nil {
		e.logger.Debug("keyring derivation failed",
			slog.String("field", field), logging.Error(err))
		return "", fmt.Errorf("%w: %w", ErrSelectiveDisclosureFailed, err)
	}

	// The decryption view carries only the requested field, so even a
	// misbehaving store cannot widen the disclosure.
	view := map[string]any{field: cert.Fields[field]}

	decrypted, err := e.store.DecryptFields(ctx, wallet.DecryptFieldsArgs{
		Keyring:   keyring,
		Fields:    view,
		Certifier: cert.Certifier,
	})
	if err != nil {
		e.logger.Debug("field decryption failed",
			slog.String("field", field), logging.Error(err))
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	value, ok := decrypted[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldNotPresent, field)
	}
	return value, nil
}

// ExtractAge reveals the named field and interprets it as an age in years.
// Values outside the plausible range (exclusive 0..150) are treated as not
// disclosable.
func (e *Extractor) ExtractAge(ctx context.Context, cert *wallet.Certificate, verifier, field string) (int, error) {
	value, err := e.ExtractField(ctx, cert, verifier, field)
	if err != nil {
		return 0, err
	}

	age, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", ErrFieldNotPresent, field)
	}
	if age <= 0 || age >= 150 {
		return 0, fmt.Errorf("%w: implausible age value", ErrFieldNotPresent)
	}
	return age, nil
}

// ExtractBool reveals the named field and interprets it as a boolean
// attestation such as an over-age flag.
func (e *Extractor) ExtractBool(ctx context.Context, cert *wallet.Certificate, verifier, field string) (bool, error) {
	value, err := e.ExtractField(ctx, cert, verifier, field)
	if err != nil {
		return false, err
	}

	switch value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s is not a boolean attestation", ErrFieldNotPresent, field)
	}
}

// AgeFromBirthdate computes completed years between the birthdate and now.
// The birthdate may be RFC 3339 or a bare calendar date.
func AgeFromBirthdate(birthdate string, now time.Time) (int, error) {
	born, err := time.Parse(time.RFC3339, birthdate)
	if err != nil {
		born, err = time.Parse("2006-01-02", birthdate)
		if err != nil {
			return 0, fmt.Errorf("%w: unparseable birthdate", ErrFieldNotPresent)
		}
	}

	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age <= 0 || age >= 150 {
		return 0, fmt.Errorf("%w: implausible birthdate", ErrFieldNotPresent)
	}
	return age, nil
}
