package authentication_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/commonsource/go-identity-gate/pkg/authentication"
	"github.com/commonsource/go-identity-gate/pkg/did"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// stubResolver returns a canned document or error for every identifier.
type stubResolver struct {
	doc *did.Document
	err error
}

func (r *stubResolver) Resolve(context.Context, string) (*did.Document, error) {
	return r.doc, r.err
}

func resolvableDocument() *did.Document {
	return &did.Document{
		Context: []string{did.ContextDIDV1},
		ID:      "did:bsv:identity:abc123",
		VerificationMethod: []did.VerificationMethod{{
			ID:         "did:bsv:identity:abc123#key-1",
			Type:       "JsonWebKey2020",
			Controller: "did:bsv:identity:abc123",
		}},
	}
}

func TestVerifyCredential_Legacy(t *testing.T) {
	t.Run("complete legacy certificate is valid", func(t *testing.T) {
		result := authentication.VerifyCredential(context.Background(),
			authentication.Classify(legacyCertificate()), nil, testNow)

		assert.True(t, result.Valid)
		assert.Equal(t, authentication.FormatLegacy, result.Format)
		require.NotNil(t, result.Claims)
		assert.Equal(t, "alice", result.Claims.Username)
	})

	t.Run("incomplete legacy certificate is invalid", func(t *testing.T) {
		cert := legacyCertificate()
		cert.Signature = ""

		result := authentication.VerifyCredential(context.Background(),
			authentication.Classify(cert), nil, testNow)

		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "required attributes")
	})
}

func TestVerifyCredential_Credential(t *testing.T) {
	t.Run("complete credential is valid", func(t *testing.T) {
		result := authentication.VerifyCredential(context.Background(),
			authentication.Classify(credentialCertificate()), nil, testNow)

		assert.True(t, result.Valid)
		assert.Equal(t, authentication.FormatCredential, result.Format)
		require.NotNil(t, result.Claims)
		assert.Equal(t, 29, result.Claims.Age)
	})

	requiredFields := []string{"id", "issuer", "issuanceDate", "credentialSubject"}
	for _, field := range requiredFields {
		t.Run("missing "+field+" is invalid", func(t *testing.T) {
			cert := credentialCertificate()
			delete(cert.Fields, field)

			result := authentication.VerifyCredential(context.Background(),
				authentication.Classify(cert), nil, testNow)

			assert.False(t, result.Valid)
			assert.Contains(t, result.Error, field)
		})
	}

	t.Run("expired credential is invalid", func(t *testing.T) {
		cert := credentialCertificate()
		cert.Fields["expirationDate"] = "2026-01-01T00:00:00Z"

		result := authentication.VerifyCredential(context.Background(),
			authentication.Classify(cert), nil, testNow)

		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "expired")
	})

	t.Run("future expiration stays valid", func(t *testing.T) {
		cert := credentialCertificate()
		cert.Fields["expirationDate"] = "2030-01-01T00:00:00Z"

		result := authentication.VerifyCredential(context.Background(),
			authentication.Classify(cert), nil, testNow)

		assert.True(t, result.Valid)
	})

	t.Run("no certificate at all", func(t *testing.T) {
		result := authentication.VerifyCredential(context.Background(), nil, nil, testNow)

		assert.False(t, result.Valid)
		assert.NotEmpty(t, result.Error)
	})
}

func TestVerifyCredential_DIDResolution(t *testing.T) {
	t.Run("resolvable subject DID keeps the credential valid", func(t *testing.T) {
		resolver := &stubResolver{doc: resolvableDocument()}

		result := authentication.VerifyCredential(context.Background(),
			authentication.Classify(credentialCertificate()), resolver, testNow)

		assert.True(t, result.Valid)
	})

	t.Run("unknown subject DID invalidates the credential", func(t *testing.T) {
		resolver := &stubResolver{}

		result := authentication.VerifyCredential(context.Background(),
			authentication.Classify(credentialCertificate()), resolver, testNow)

		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "could not be resolved")
	})

	t.Run("resolver failure invalidates the credential", func(t *testing.T) {
		resolver := &stubResolver{err: errors.New("resolver unavailable")}

		result := authentication.VerifyCredential(context.Background(),
			authentication.Classify(credentialCertificate()), resolver, testNow)

		assert.False(t, result.Valid)
		assert.Contains(t, result.Error, "resolver unavailable")
	})

	t.Run("non-DID subject id skips resolution", func(t *testing.T) {
		cert := credentialCertificate()
		cert.Fields["credentialSubject"] = map[string]any{"id": "user-42", "username": "alice"}
		resolver := &stubResolver{err: errors.New("must not be called")}

		result := authentication.VerifyCredential(context.Background(),
			authentication.Classify(cert), resolver, testNow)

		assert.True(t, result.Valid)
	})
}

func TestBuildIdentityCredential(t *testing.T) {
	// given:
	subject := authentication.IdentityAttributes{
		SubjectDID: "did:bsv:identity:abc123",
		Username:   "alice",
		Email:      "alice@example.com",
		Age:        29,
	}

	// when:
	cred := authentication.BuildIdentityCredential(trustedIssuer, subject, testNow, 365*24*time.Hour)

	// then:
	assert.Equal(t, []string{authentication.ContextCredentialsV1, authentication.ContextIdentityV1}, cred.Context)
	assert.Equal(t, []string{authentication.TypeVerifiableCredential, authentication.TypeIdentityCredential}, cred.Type)
	assert.Regexp(t, "^urn:uuid:", cred.ID)
	assert.Equal(t, trustedIssuer, cred.Issuer)
	assert.Equal(t, "2026-06-01T12:00:00Z", cred.IssuanceDate)
	assert.Equal(t, "2027-06-01T12:00:00Z", cred.ExpirationDate)
	assert.Equal(t, "did:bsv:identity:abc123", cred.CredentialSubject.ID)
	assert.Equal(t, 29, cred.CredentialSubject.Age)

	t.Run("zero validity means no expiration", func(t *testing.T) {
		cred := authentication.BuildIdentityCredential(trustedIssuer, subject, testNow, 0)

		assert.Empty(t, cred.ExpirationDate)
	})

	t.Run("distinct calls get distinct ids", func(t *testing.T) {
		other := authentication.BuildIdentityCredential(trustedIssuer, subject, testNow, 0)

		assert.NotEqual(t, cred.ID, other.ID)
	})
}
