package disclosure

import "errors"

var (
	// ErrMissingCertificateData is returned when the certificate lacks the
	// fields or master keyring required for disclosure.
	ErrMissingCertificateData = errors.New("certificate has no fields or keyring")

	// ErrFieldNotPresent is returned when the requested field is not carried
	// by the certificate, or its decrypted value is unusable.
	ErrFieldNotPresent = errors.New("requested field is not disclosable from this certificate")

	// ErrSelectiveDisclosureFailed is returned when the wallet refuses to
	// derive a verifier keyring for the requested field.
	ErrSelectiveDisclosureFailed = errors.New("selective disclosure keyring derivation failed")

	// ErrDecryptionFailed is returned when the derived keyring cannot decrypt
	// the requested field.
	ErrDecryptionFailed = errors.New("field decryption failed")
)
