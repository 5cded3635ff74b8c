package agegate

import "errors"

var (
	// ErrNoStore is returned when a verifier is constructed without a
	// certificate store.
	ErrNoStore = errors.New("certificate store is required")

	// ErrInvalidIssuerKey is returned when the trusted issuer is not a valid
	// compressed public key.
	ErrInvalidIssuerKey = errors.New("trusted issuer is not a valid public key")

	// ErrInvalidConfig is returned when the verifier configuration is
	// inconsistent.
	ErrInvalidConfig = errors.New("invalid verifier configuration")

	// ErrLookupFailed marks a failure of the certificate listing call itself,
	// as opposed to a listing that returned zero results.
	ErrLookupFailed = errors.New("certificate lookup failed")
)
