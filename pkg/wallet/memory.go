package wallet

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore is an in-memory CertificateStore for demos and tests. Field
// values are "encrypted" into opaque blobs on insert and recovered through
// the keyring on DecryptFields, so disclosure behaviour matches a real
// wallet: no cleartext is reachable without a key for the field.
type MemoryStore struct {
	mu            sync.Mutex
	identityKey   string
	authenticated bool
	certificates  []Certificate
	cleartext     map[string]string // ciphertext blob -> cleartext value
}

// NewMemoryStore creates an authenticated in-memory store for the given
// identity key.
func NewMemoryStore(identityKey string) *MemoryStore {
	return &MemoryStore{
		identityKey:   identityKey,
		authenticated: true,
		cleartext:     make(map[string]string),
	}
}

// AddCertificate stores a certificate whose field values are given in
// cleartext. The stored record carries ciphertext blobs and a keyring entry
// per field; the returned certificate is the stored form.
func (s *MemoryStore) AddCertificate(cert Certificate, fields map[string]string) Certificate {
	s.mu.Lock()
	defer s.mu.Unlock()

	cert.Fields = make(map[string]any, len(fields))
	cert.Keyring = make(Keyring, len(fields))
	for name, value := range fields {
		blob := randomBlob()
		s.cleartext[blob] = value
		cert.Fields[name] = blob
		cert.Keyring[name] = "key-" + randomBlob()
	}

	s.certificates = append(s.certificates, cert)
	return cert
}

// SetAuthenticated toggles the simulated wallet connection state.
func (s *MemoryStore) SetAuthenticated(authenticated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = authenticated
}

// ListCertificates returns held certificates matching the filter, in
// insertion order.
func (s *MemoryStore) ListCertificates(_ context.Context, args ListCertificatesArgs) (*ListCertificatesResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Certificate
	for _, cert := range s.certificates {
		if args.Types != nil && !slices.Contains(args.Types, cert.Type) {
			continue
		}
		if args.Certifiers != nil && !slices.Contains(args.Certifiers, cert.Certifier) {
			continue
		}
		matched = append(matched, cert)
		if args.Limit > 0 && len(matched) == args.Limit {
			break
		}
	}

	return &ListCertificatesResult{
		TotalCertificates: len(matched),
		Certificates:      matched,
	}, nil
}

// CreateVerifierKeyring derives a keyring covering exactly args.FieldsToReveal.
func (s *MemoryStore) CreateVerifierKeyring(_ context.Context, args CreateVerifierKeyringArgs) (Keyring, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	derived := make(Keyring, len(args.FieldsToReveal))
	for _, name := range args.FieldsToReveal {
		if _, ok := args.Fields[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		masterKey, ok := args.MasterKeyring[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		derived[name] = "verifier-" + args.Verifier + "-" + masterKey
	}

	return derived, nil
}

// DecryptFields recovers cleartext for the field names present in the view.
func (s *MemoryStore) DecryptFields(_ context.Context, args DecryptFieldsArgs) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decrypted := make(map[string]string, len(args.Fields))
	for name, value := range args.Fields {
		if _, ok := args.Keyring[name]; !ok {
			continue
		}
		blob, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("field %s is not an encrypted blob", name)
		}
		cleartext, ok := s.cleartext[blob]
		if !ok {
			return nil, fmt.Errorf("%w: cannot decrypt field %s", ErrUnknownCertificate, name)
		}
		decrypted[name] = cleartext
	}

	return decrypted, nil
}

// GetPublicKey returns the store's identity key.
func (s *MemoryStore) GetPublicKey(_ context.Context, args GetPublicKeyArgs) (*GetPublicKeyResult, error) {
	if !args.IdentityKey {
		return nil, fmt.Errorf("only identity key requests are supported")
	}
	return &GetPublicKeyResult{PublicKey: s.identityKey}, nil
}

// WaitForAuthentication reports the simulated connection state.
func (s *MemoryStore) WaitForAuthentication(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return ErrNotAuthenticated
	}
	return nil
}

func randomBlob() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}
