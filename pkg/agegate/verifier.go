package agegate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commonsource/go-identity-gate/pkg/certificates"
	"github.com/commonsource/go-identity-gate/pkg/disclosure"
	"github.com/commonsource/go-identity-gate/pkg/internal/logging"
	"github.com/commonsource/go-identity-gate/pkg/wallet"
	"github.com/go-softwarelab/common/pkg/to"
)

// Verifier runs verification passes. It holds no per-pass state: every call
// to Verify re-lists and re-discloses from scratch, so a revoked or expired
// certificate never decides from a stale cache.
type Verifier struct {
	store     wallet.CertificateStore
	validator *certificates.Validator
	extractor *disclosure.Extractor
	issuer    string
	config    Config
	logger    *slog.Logger
}

// NewVerifier creates a verifier trusting certificates from trustedIssuer.
func NewVerifier(store wallet.CertificateStore, trustedIssuer string, opts ...func(*Config)) (*Verifier, error) {
	if store == nil {
		return nil, ErrNoStore
	}

	config := to.OptionsWithDefault(Config{
		IdentityCertificateTypes: []string{DefaultIdentityCertificateType},
		MinimumAge:               DefaultMinimumAge,
		DisclosureField:          DefaultDisclosureField,
		Claim:                    ClaimAge,
		ListLimit:                DefaultListLimit,
		Clock:                    time.Now,
	}, opts...)

	if err := config.validate(trustedIssuer); err != nil {
		return nil, err
	}

	logger := logging.DiscardIfNil(config.Logger)

	return &Verifier{
		store:     store,
		validator: certificates.NewValidator(trustedIssuer, certificates.WithClock(config.Clock)),
		extractor: disclosure.NewExtractor(store, config.Logger),
		issuer:    trustedIssuer,
		config:    config,
		logger:    logging.Child(logger, "AgeGate"),
	}, nil
}

// Verify runs one full verification pass and returns its terminal verdict.
func (v *Verifier) Verify(ctx context.Context) *Verdict {
	started := time.Now()
	v.logger.Debug("verification pass started", slog.String("state", string(StateChecking)))

	verdict := v.run(ctx)

	v.config.Metrics.observe(verdict.State, time.Since(started))
	v.logger.Debug("verification pass finished",
		slog.String("state", string(verdict.State)),
		slog.String("reason", verdict.Reason))
	return verdict
}

func (v *Verifier) run(ctx context.Context) *Verdict {
	if err := v.store.WaitForAuthentication(ctx); err != nil {
		return &Verdict{State: StateError, Reason: fmt.Sprintf("wallet authentication failed: %s", err)}
	}

	identity, err := v.store.GetPublicKey(ctx, wallet.GetPublicKeyArgs{IdentityKey: true})
	if err != nil {
		return &Verdict{State: StateError, Reason: fmt.Sprintf("cannot resolve verifier identity key: %s", err)}
	}

	candidates, err := v.collectCandidates(ctx)
	if err != nil {
		return &Verdict{State: StateError, Reason: err.Error()}
	}
	if len(candidates) == 0 {
		return &Verdict{State: StateNoCertificate, Reason: "no certificates found"}
	}

	// First-match in list order; candidates that fail validation or
	// disclosure are skipped, never fatal.
	for _, cand := range candidates {
		if !v.validator.Usable(&cand.cert) {
			continue
		}
		if verdict, decided := v.disclose(ctx, &cand.cert, identity.PublicKey, cand.source); decided {
			return verdict
		}
	}

	return &Verdict{State: StateNoCertificate, Reason: "no disclosable age/threshold field found"}
}

type candidate struct {
	cert   wallet.Certificate
	source Source
}

// collectCandidates merges both lookup paths into one ordered list:
// DID-linked certificates first, directly typed identity certificates second,
// wallet listing order within each path.
func (v *Verifier) collectCandidates(ctx context.Context) ([]candidate, error) {
	paths := []struct {
		types  []string
		source Source
	}{
		{types: v.config.DIDCertificateTypes, source: SourceDIDLinkedCertificate},
		{types: v.config.IdentityCertificateTypes, source: SourceIdentityCertificate},
	}

	var candidates []candidate
	for _, path := range paths {
		if len(path.types) == 0 {
			continue
		}

		result, err := v.store.ListCertificates(ctx, wallet.ListCertificatesArgs{
			Types:      path.types,
			Certifiers: []string{v.issuer},
			Limit:      v.config.ListLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
		}

		for _, cert := range result.Certificates {
			candidates = append(candidates, candidate{cert: cert, source: path.source})
		}
	}
	return candidates, nil
}

func (v *Verifier) disclose(ctx context.Context, cert *wallet.Certificate, verifier string, source Source) (*Verdict, bool) {
	switch v.config.Claim {
	case ClaimOverThreshold:
		over, err := v.extractor.ExtractBool(ctx, cert, verifier, v.config.DisclosureField)
		if err != nil {
			v.skip(cert, err)
			return nil, false
		}
		if !over {
			return &Verdict{
				State:  StateDenied,
				Source: source,
				Reason: "threshold attestation is negative",
			}, true
		}
		return &Verdict{
			State:        StateVerified,
			Source:       source,
			SerialNumber: cert.SerialNumber,
			Reason:       "threshold attestation verified",
		}, true

	default:
		age, err := v.extractAge(ctx, cert, verifier)
		if err != nil {
			v.skip(cert, err)
			return nil, false
		}
		if age < v.config.MinimumAge {
			return &Verdict{
				State:  StateDenied,
				Source: source,
				Age:    age,
				Reason: fmt.Sprintf("minimum age of %d not met", v.config.MinimumAge),
			}, true
		}
		return &Verdict{
			State:        StateVerified,
			Source:       source,
			Age:          age,
			SerialNumber: cert.SerialNumber,
			Reason:       fmt.Sprintf("age verified: %d years old", age),
		}, true
	}
}

var birthdateFields = []string{"birthdate", "dateOfBirth"}

// extractAge discloses the configured field as an age. When the field is the
// conventional "age" and absent, a birthdate field may be disclosed instead;
// the fallback is a separate single-field extraction, never a widened reveal.
func (v *Verifier) extractAge(ctx context.Context, cert *wallet.Certificate, verifier string) (int, error) {
	age, err := v.extractor.ExtractAge(ctx, cert, verifier, v.config.DisclosureField)
	if err == nil {
		return age, nil
	}
	if v.config.DisclosureField != "age" || !errors.Is(err, disclosure.ErrFieldNotPresent) {
		return 0, err
	}

	for _, field := range birthdateFields {
		if _, ok := cert.Fields[field]; !ok {
			continue
		}
		birthdate, ferr := v.extractor.ExtractField(ctx, cert, verifier, field)
		if ferr != nil {
			continue
		}
		return disclosure.AgeFromBirthdate(birthdate, v.config.Clock())
	}
	return 0, err
}

func (v *Verifier) skip(cert *wallet.Certificate, err error) {
	v.logger.Debug("candidate skipped",
		slog.String("certifier", cert.Certifier),
		logging.Error(err))
}
