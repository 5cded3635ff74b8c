package authentication_test

import (
	"testing"

	"github.com/commonsource/go-identity-gate/pkg/authentication"
	"github.com/commonsource/go-identity-gate/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	trustedIssuer = "02f4403c1eecce28c8c82aab508ecdb763b8d924d4a235350c4e805d4e2d7f8819"
	subjectKey    = "03aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899"
)

func legacyCertificate() *wallet.Certificate {
	return &wallet.Certificate{
		Type:         "identity",
		SerialNumber: "serial-1",
		Subject:      subjectKey,
		Certifier:    trustedIssuer,
		Signature:    "sig",
		Fields: map[string]any{
			"username":  "alice",
			"email":     "alice@example.com",
			"residence": "Lisbon",
			"age":       "29",
			"work":      "engineer",
		},
	}
}

func credentialCertificate() *wallet.Certificate {
	return &wallet.Certificate{
		Type:         "identity",
		SerialNumber: "serial-2",
		Subject:      subjectKey,
		Certifier:    trustedIssuer,
		Signature:    "sig",
		Fields: map[string]any{
			"@context":     []any{authentication.ContextCredentialsV1, authentication.ContextIdentityV1},
			"id":           "urn:uuid:0b7e9a90-1111-2222-3333-444455556666",
			"type":         []any{authentication.TypeVerifiableCredential, authentication.TypeIdentityCredential},
			"issuer":       trustedIssuer,
			"issuanceDate": "2026-01-01T00:00:00Z",
			"credentialSubject": map[string]any{
				"id":       "did:bsv:identity:abc123",
				"username": "alice",
				"email":    "alice@example.com",
				"age":      float64(29),
			},
		},
	}
}

func TestClassify(t *testing.T) {
	t.Run("flat fields classify as legacy", func(t *testing.T) {
		classified := authentication.Classify(legacyCertificate())

		require.NotNil(t, classified)
		assert.Equal(t, authentication.FormatLegacy, classified.Format)
		assert.Nil(t, classified.Credential)
	})

	t.Run("credential-shaped fields classify as vc and decode", func(t *testing.T) {
		classified := authentication.Classify(credentialCertificate())

		require.NotNil(t, classified)
		assert.Equal(t, authentication.FormatCredential, classified.Format)
		require.NotNil(t, classified.Credential)
		assert.Equal(t, trustedIssuer, classified.Credential.Issuer)
		assert.Equal(t, "alice", classified.Credential.CredentialSubject.Username)
	})

	t.Run("context without credential type marker stays legacy", func(t *testing.T) {
		cert := legacyCertificate()
		cert.Fields["@context"] = []any{"https://example.com/context"}

		classified := authentication.Classify(cert)

		assert.Equal(t, authentication.FormatLegacy, classified.Format)
	})

	t.Run("type as plain string is recognized", func(t *testing.T) {
		cert := credentialCertificate()
		cert.Fields["type"] = authentication.TypeVerifiableCredential

		classified := authentication.Classify(cert)

		assert.Equal(t, authentication.FormatCredential, classified.Format)
	})

	t.Run("nil certificate classifies to nil", func(t *testing.T) {
		assert.Nil(t, authentication.Classify(nil))
	})
}

func TestExtractClaims(t *testing.T) {
	t.Run("legacy fields map directly", func(t *testing.T) {
		claims := authentication.ExtractClaims(authentication.Classify(legacyCertificate()))

		require.NotNil(t, claims)
		assert.Equal(t, authentication.FormatLegacy, claims.Format)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "alice@example.com", claims.Email)
		assert.Equal(t, "Lisbon", claims.Residence)
		assert.Equal(t, 29, claims.Age)
		assert.Equal(t, "engineer", claims.Work)
	})

	t.Run("credential subject maps through", func(t *testing.T) {
		claims := authentication.ExtractClaims(authentication.Classify(credentialCertificate()))

		require.NotNil(t, claims)
		assert.Equal(t, authentication.FormatCredential, claims.Format)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, 29, claims.Age)
		assert.Equal(t, "did:bsv:identity:abc123", claims.DID)
	})

	t.Run("structural mismatch yields nil, not a panic", func(t *testing.T) {
		assert.Nil(t, authentication.ExtractClaims(nil))

		empty := authentication.Classify(&wallet.Certificate{})
		assert.Nil(t, authentication.ExtractClaims(empty))
	})

	t.Run("unreadable age coerces to zero", func(t *testing.T) {
		cert := legacyCertificate()
		cert.Fields["age"] = "not-a-number"

		claims := authentication.ExtractClaims(authentication.Classify(cert))

		require.NotNil(t, claims)
		assert.Zero(t, claims.Age)
	})
}
