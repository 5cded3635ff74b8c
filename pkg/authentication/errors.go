package authentication

import "errors"

var (
	// ErrNoStore is returned when a service is constructed without a wallet
	// certificate store.
	ErrNoStore = errors.New("certificate store is required")

	// ErrInvalidIssuerKey is returned when the trusted issuer is not a valid
	// compressed public key.
	ErrInvalidIssuerKey = errors.New("trusted issuer is not a valid public key")

	// ErrInvalidToken is returned when a session token fails signature or
	// claims validation.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrTokenExpired is returned when a session token is past its expiry.
	ErrTokenExpired = errors.New("session token expired")
)
