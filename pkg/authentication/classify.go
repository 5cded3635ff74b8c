package authentication

import (
	"encoding/json"

	"github.com/commonsource/go-identity-gate/pkg/wallet"
)

// Format tags the structural shape of a certificate's field payload.
type Format string

const (
	// FormatCredential marks a W3C-credential-shaped certificate.
	FormatCredential Format = "vc"

	// FormatLegacy marks a flat-field certificate.
	FormatLegacy Format = "legacy"
)

// ClassifiedCertificate is a certificate tagged with its format exactly once
// at ingestion. Downstream code switches on Format instead of re-probing the
// field shape. Credential is decoded only for FormatCredential and may be nil
// when the payload advertises the credential shape but does not decode.
type ClassifiedCertificate struct {
	Format      Format
	Certificate *wallet.Certificate
	Credential  *Credential
}

// Classify inspects the certificate's fields and tags its format. A payload
// is credential-shaped when it carries an @context and its type list includes
// the VerifiableCredential marker.
func Classify(cert *wallet.Certificate) *ClassifiedCertificate {
	if cert == nil {
		return nil
	}
	if !credentialShaped(cert.Fields) {
		return &ClassifiedCertificate{Format: FormatLegacy, Certificate: cert}
	}
	return &ClassifiedCertificate{
		Format:      FormatCredential,
		Certificate: cert,
		Credential:  decodeCredential(cert.Fields),
	}
}

func credentialShaped(fields map[string]any) bool {
	if _, ok := fields["@context"]; !ok {
		return false
	}
	return typeIncludes(fields["type"], TypeVerifiableCredential)
}

func typeIncludes(value any, marker string) bool {
	switch v := value.(type) {
	case string:
		return v == marker
	case []string:
		for _, item := range v {
			if item == marker {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == marker {
				return true
			}
		}
	}
	return false
}

func decodeCredential(fields map[string]any) *Credential {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	var cred Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil
	}
	return &cred
}
