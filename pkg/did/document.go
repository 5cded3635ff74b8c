package did

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"slices"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// ContextDIDV1 is the required entry of a DID document's @context.
const ContextDIDV1 = "https://www.w3.org/ns/did/v1"

// JWK is a JSON Web Key for a secp256k1 verification method.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// VerificationMethod describes one way to verify control of a DID.
type VerificationMethod struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Controller   string `json:"controller"`
	PublicKeyJWK *JWK   `json:"publicKeyJwk,omitempty"`
}

// Document is a DID document in the shape returned by the resolver.
type Document struct {
	Context            []string             `json:"@context"`
	ID                 string               `json:"id"`
	VerificationMethod []VerificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication,omitempty"`
}

// Validate checks the fields every usable DID document must carry.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if !slices.Contains(d.Context, ContextDIDV1) {
		return fmt.Errorf("%w: @context must include %s", ErrInvalidDocument, ContextDIDV1)
	}
	if d.ID == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidDocument)
	}
	if len(d.VerificationMethod) == 0 {
		return fmt.Errorf("%w: no verification methods", ErrInvalidDocument)
	}
	return nil
}

// NewDocument builds a did:bsv document for the subject key under the given
// topic. The identifier's id part is derived from the subject key plus random
// material, so repeated calls for the same subject produce distinct DIDs.
func NewDocument(topic string, subjectKey *ec.PublicKey) (*Document, error) {
	if topic == "" {
		return nil, fmt.Errorf("%w: empty topic", ErrInvalidFormat)
	}
	if subjectKey == nil {
		return nil, fmt.Errorf("%w: nil subject key", ErrInvalidDocument)
	}

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("cannot generate DID serial: %w", err)
	}
	digest := sha256.Sum256(append([]byte(subjectKey.ToDERHex()), nonce...))
	serial := hex.EncodeToString(digest[:16])

	identifier := DID{Topic: topic, ID: serial}
	keyID := identifier.String() + "#key-1"

	x := base64.RawURLEncoding.EncodeToString(subjectKey.X.FillBytes(make([]byte, 32)))
	y := base64.RawURLEncoding.EncodeToString(subjectKey.Y.FillBytes(make([]byte, 32)))

	return &Document{
		Context: []string{ContextDIDV1},
		ID:      identifier.String(),
		VerificationMethod: []VerificationMethod{{
			ID:         keyID,
			Type:       "JsonWebKey2020",
			Controller: identifier.String(),
			PublicKeyJWK: &JWK{
				Kty: "EC",
				Crv: "secp256k1",
				X:   x,
				Y:   y,
			},
		}},
		Authentication: []string{keyID},
	}, nil
}
