package wallet

// Keyring maps a certificate field name to the decryption key for that field.
// On a held certificate the keys are encrypted to the subject; on a derived
// verifier keyring they are encrypted to a single verifier.
type Keyring map[string]string

// Certificate is a signed, field-encrypted attestation of claims about a
// subject, issued by a certifier and held in the subject's wallet.
type Certificate struct {
	// Type is an opaque category identifier (base64-encoded semantic tag).
	Type string `json:"type"`
	// SerialNumber uniquely identifies the certificate per issuer.
	SerialNumber string `json:"serialNumber"`
	// Subject is the holder's public key.
	Subject string `json:"subject"`
	// Certifier is the issuer's public key.
	Certifier string `json:"certifier"`
	// ExpirationDate is an RFC 3339 timestamp after which the certificate is
	// unusable. Empty means the certificate does not expire.
	ExpirationDate string `json:"expirationDate,omitempty"`
	// RevocationOutpoint is the on-chain revocation reference, if any.
	RevocationOutpoint string `json:"revocationOutpoint,omitempty"`
	// Fields maps claim names to their values: ciphertext blobs for
	// wallet-held certificates, structured credential payloads for
	// certificates submitted over HTTP.
	Fields map[string]any `json:"fields"`
	// Keyring holds the per-field decryption keys, encrypted to the subject.
	Keyring Keyring `json:"keyring,omitempty"`
	// Signature is the certifier's signature over the certificate.
	Signature string `json:"signature"`
}

// ListCertificatesArgs filters a certificate listing. The filter is a
// conjunction: a certificate matches when its type is in Types AND its
// certifier is in Certifiers. A nil slice means no restriction.
type ListCertificatesArgs struct {
	Types      []string `json:"types,omitempty"`
	Certifiers []string `json:"certifiers,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

// ListCertificatesResult is the result of a certificate listing.
type ListCertificatesResult struct {
	TotalCertificates int           `json:"totalCertificates"`
	Certificates      []Certificate `json:"certificates"`
}

// CreateVerifierKeyringArgs describes a verifier keyring derivation.
type CreateVerifierKeyringArgs struct {
	// Certifier is the issuer public key of the source certificate.
	Certifier string `json:"certifier"`
	// Verifier is the public key the derived keys are encrypted to.
	Verifier string `json:"verifier"`
	// Fields are the source certificate's (encrypted) fields.
	Fields map[string]any `json:"fields"`
	// FieldsToReveal names the fields the verifier may decrypt. Every name
	// must exist in Fields.
	FieldsToReveal []string `json:"fieldsToReveal"`
	// MasterKeyring is the source certificate's keyring.
	MasterKeyring Keyring `json:"masterKeyring"`
	// SerialNumber of the source certificate.
	SerialNumber string `json:"serialNumber"`
}

// DecryptFieldsArgs describes a field decryption request. Cleartext is
// returned only for field names present in Fields.
type DecryptFieldsArgs struct {
	// Keyring holds the per-field decryption keys.
	Keyring Keyring `json:"keyring"`
	// Fields is the (possibly scoped) field view to decrypt.
	Fields map[string]any `json:"fields"`
	// Certifier is the issuer public key of the source certificate.
	Certifier string `json:"certifier"`
}

// GetPublicKeyArgs defines parameters for GetPublicKey.
type GetPublicKeyArgs struct {
	// IdentityKey requests the wallet's identity public key.
	IdentityKey bool `json:"identityKey"`
}

// GetPublicKeyResult carries a requested public key.
type GetPublicKeyResult struct {
	PublicKey string `json:"publicKey"`
}
