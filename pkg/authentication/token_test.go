package authentication_test

import (
	"testing"
	"time"

	"github.com/commonsource/go-identity-gate/pkg/authentication"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signingKey = "test-signing-key-0123456789abcdef"

func TestTokenService_RoundTrip(t *testing.T) {
	// given:
	tokens := authentication.NewTokenService(signingKey, "identity-gate", time.Hour)
	claims := &authentication.IdentityClaims{
		Username: "alice",
		Age:      29,
		Format:   authentication.FormatCredential,
	}

	// when:
	token, err := tokens.Issue(subjectKey, claims)

	// then:
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, subjectKey, parsed.Subject)
	assert.Equal(t, "identity-gate", parsed.Issuer)
	assert.Equal(t, authentication.FormatCredential, parsed.Format)
	assert.NotEmpty(t, parsed.SessionID)
	assert.NotEmpty(t, parsed.ClaimDigest)

	t.Run("same claims produce the same digest", func(t *testing.T) {
		second, err := tokens.Issue(subjectKey, claims)
		require.NoError(t, err)

		secondParsed, err := tokens.Validate(second)
		require.NoError(t, err)
		assert.Equal(t, parsed.ClaimDigest, secondParsed.ClaimDigest)
		assert.NotEqual(t, parsed.SessionID, secondParsed.SessionID)
	})
}

func TestTokenService_Validate(t *testing.T) {
	t.Run("token signed with another key is rejected", func(t *testing.T) {
		// given:
		tokens := authentication.NewTokenService(signingKey, "identity-gate", time.Hour)
		other := authentication.NewTokenService("another-key", "identity-gate", time.Hour)

		token, err := other.Issue(subjectKey, nil)
		require.NoError(t, err)

		// when:
		_, err = tokens.Validate(token)

		// then:
		assert.ErrorIs(t, err, authentication.ErrInvalidToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		tokens := authentication.NewTokenService(signingKey, "identity-gate", time.Hour)

		_, err := tokens.Validate("not.a.token")

		assert.ErrorIs(t, err, authentication.ErrInvalidToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		tokens := authentication.NewTokenService(signingKey, "identity-gate", -time.Hour)

		token, err := tokens.Issue(subjectKey, nil)
		require.NoError(t, err)

		_, err = tokens.Validate(token)

		assert.ErrorIs(t, err, authentication.ErrTokenExpired)
	})

	t.Run("token from a different issuer is rejected", func(t *testing.T) {
		tokens := authentication.NewTokenService(signingKey, "identity-gate", time.Hour)
		other := authentication.NewTokenService(signingKey, "someone-else", time.Hour)

		token, err := other.Issue(subjectKey, nil)
		require.NoError(t, err)

		_, err = tokens.Validate(token)

		assert.ErrorIs(t, err, authentication.ErrInvalidToken)
	})
}
