package authentication

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the JWT claims carried by session tokens minted after a
// successful authentication.
type SessionClaims struct {
	SessionID   string `json:"sid"`
	Format      Format `json:"format,omitempty"`
	ClaimDigest string `json:"claimDigest,omitempty"`
	jwt.RegisteredClaims
}

// TokenService mints and validates session tokens, so callers hold a signed
// session reference instead of re-reading certificate state on every request.
type TokenService struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	clock      func() time.Time
}

// NewTokenService creates a token service signing with the given key.
func NewTokenService(signingKey, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
		clock:      time.Now,
	}
}

// Issue mints a session token for the subject key. The token carries a
// digest of the extracted claims rather than the claims themselves.
func (s *TokenService) Issue(subject string, claims *IdentityClaims) (string, error) {
	now := s.clock()

	sessionClaims := SessionClaims{
		SessionID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	if claims != nil {
		sessionClaims.Format = claims.Format
		digest, err := claimDigest(claims)
		if err != nil {
			return "", fmt.Errorf("cannot digest claims: %w", err)
		}
		sessionClaims.ClaimDigest = digest
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("cannot sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a session token.
func (s *TokenService) Validate(tokenString string) (*SessionClaims, error) {
	claims := new(SessionClaims)

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("%w: unexpected signing algorithm", ErrInvalidToken)
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.clock), jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func claimDigest(claims *IdentityClaims) (string, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(raw)
	return hex.EncodeToString(digest[:]), nil
}
