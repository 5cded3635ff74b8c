package wallet

import (
	"context"
)

// CertificateStore is the wallet-side collaborator the verification flow is
// built against. Implementations wrap a wallet SDK; the in-memory store in
// this package backs demos and tests.
type CertificateStore interface {
	// ListCertificates returns the certificates matching the filter, in the
	// wallet's stable listing order.
	ListCertificates(ctx context.Context, args ListCertificatesArgs) (*ListCertificatesResult, error)

	// CreateVerifierKeyring derives a keyring scoped to args.FieldsToReveal,
	// encrypted to args.Verifier. It fails if FieldsToReveal contains a name
	// absent from args.Fields.
	CreateVerifierKeyring(ctx context.Context, args CreateVerifierKeyringArgs) (Keyring, error)

	// DecryptFields decrypts the given field view. The result contains
	// cleartext only for field names present in args.Fields.
	DecryptFields(ctx context.Context, args DecryptFieldsArgs) (map[string]string, error)

	// GetPublicKey returns a wallet public key.
	GetPublicKey(ctx context.Context, args GetPublicKeyArgs) (*GetPublicKeyResult, error)

	// WaitForAuthentication blocks until the wallet is connected and
	// authenticated, or the context is done.
	WaitForAuthentication(ctx context.Context) error
}
