package wallet

import "errors"

var (
	// ErrUnknownField is returned when a keyring derivation asks to reveal a
	// field the certificate does not carry.
	ErrUnknownField = errors.New("field to reveal is not present in the certificate fields")

	// ErrUnknownCertificate is returned when an operation references a
	// certificate the store does not hold.
	ErrUnknownCertificate = errors.New("certificate not held by this store")

	// ErrNotAuthenticated is returned when the wallet is not connected.
	ErrNotAuthenticated = errors.New("wallet is not authenticated")
)
