package authentication

import (
	"context"
	"fmt"
	"time"

	"github.com/commonsource/go-identity-gate/pkg/certificates"
	"github.com/commonsource/go-identity-gate/pkg/did"
)

// DIDResolver resolves a decentralized identifier to its document. A nil
// document with a nil error means the identifier is unknown.
type DIDResolver interface {
	Resolve(ctx context.Context, identifier string) (*did.Document, error)
}

// VerificationResult is the outcome of a structural certificate verification,
// in the shape returned by the verify-certificate endpoint.
type VerificationResult struct {
	Valid  bool            `json:"valid"`
	Format Format          `json:"format"`
	Claims *IdentityClaims `json:"claims,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// VerifyCredential checks a classified certificate's structure for its
// format. The check is structural only; cryptographic proof is the wallet
// SDK's responsibility. The resolver is optional: when given and the subject
// carries a DID, the DID document is resolved and validated too.
func VerifyCredential(ctx context.Context, classified *ClassifiedCertificate, resolver DIDResolver, now time.Time) VerificationResult {
	if classified == nil || classified.Certificate == nil {
		return VerificationResult{Error: "no certificate provided"}
	}

	if classified.Format == FormatLegacy {
		if !certificates.ValidateStructure(classified.Certificate) {
			return VerificationResult{
				Format: FormatLegacy,
				Error:  "certificate is missing required attributes",
			}
		}
		return VerificationResult{
			Valid:  true,
			Format: FormatLegacy,
			Claims: ExtractClaims(classified),
		}
	}

	cred := classified.Credential
	if cred == nil {
		return VerificationResult{
			Format: FormatCredential,
			Error:  "certificate payload is not a decodable credential",
		}
	}
	if missing := missingCredentialField(classified); missing != "" {
		return VerificationResult{
			Format: FormatCredential,
			Error:  fmt.Sprintf("credential is missing required field %s", missing),
		}
	}

	if cred.ExpirationDate != "" {
		expiry, err := time.Parse(time.RFC3339, cred.ExpirationDate)
		if err != nil {
			return VerificationResult{Format: FormatCredential, Error: "credential expiration date is unparseable"}
		}
		if !expiry.After(now) {
			return VerificationResult{Format: FormatCredential, Error: "credential expired"}
		}
	}

	if resolver != nil && cred.CredentialSubject.ID != "" {
		if _, err := did.Parse(cred.CredentialSubject.ID); err == nil {
			doc, err := resolver.Resolve(ctx, cred.CredentialSubject.ID)
			if err != nil {
				return VerificationResult{
					Format: FormatCredential,
					Error:  fmt.Sprintf("subject DID resolution failed: %s", err),
				}
			}
			if doc == nil {
				return VerificationResult{
					Format: FormatCredential,
					Error:  "subject DID could not be resolved",
				}
			}
		}
	}

	return VerificationResult{
		Valid:  true,
		Format: FormatCredential,
		Claims: ExtractClaims(classified),
	}
}

func missingCredentialField(classified *ClassifiedCertificate) string {
	cred := classified.Credential
	switch {
	case len(cred.Context) == 0:
		return "@context"
	case cred.ID == "":
		return "id"
	case len(cred.Type) == 0:
		return "type"
	case cred.Issuer == "":
		return "issuer"
	case cred.IssuanceDate == "":
		return "issuanceDate"
	}
	if _, ok := classified.Certificate.Fields["credentialSubject"]; !ok {
		return "credentialSubject"
	}
	return ""
}
