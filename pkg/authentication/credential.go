package authentication

import (
	"time"

	"github.com/google/uuid"
)

// W3C credential contexts and types carried by identity credentials.
const (
	ContextCredentialsV1 = "https://www.w3.org/2018/credentials/v1"
	ContextIdentityV1    = "https://commonsource.io/contexts/identity/v1"

	TypeVerifiableCredential = "VerifiableCredential"
	TypeIdentityCredential   = "CommonSourceIdentityCredential"
)

// Credential is the W3C-credential-shaped payload carried in certificate
// fields.
type Credential struct {
	Context           []string          `json:"@context"`
	ID                string            `json:"id"`
	Type              []string          `json:"type"`
	Issuer            string            `json:"issuer"`
	IssuanceDate      string            `json:"issuanceDate"`
	ExpirationDate    string            `json:"expirationDate,omitempty"`
	CredentialSubject CredentialSubject `json:"credentialSubject"`
}

// CredentialSubject holds the identity claims about the credential's subject.
// Age is kept loosely typed because issuers encode it as either a number or a
// string.
type CredentialSubject struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Residence string `json:"residence,omitempty"`
	Age       any    `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Work      string `json:"work,omitempty"`
}

// IdentityAttributes are the inputs to BuildIdentityCredential.
type IdentityAttributes struct {
	SubjectDID string
	Username   string
	Email      string
	Residence  string
	Age        int
	Gender     string
	Work       string
}

// BuildIdentityCredential constructs an identity credential issued by the
// given issuer key. A zero validity produces a non-expiring credential.
func BuildIdentityCredential(issuer string, subject IdentityAttributes, issuedAt time.Time, validity time.Duration) *Credential {
	cred := &Credential{
		Context:      []string{ContextCredentialsV1, ContextIdentityV1},
		ID:           "urn:uuid:" + uuid.NewString(),
		Type:         []string{TypeVerifiableCredential, TypeIdentityCredential},
		Issuer:       issuer,
		IssuanceDate: issuedAt.UTC().Format(time.RFC3339),
		CredentialSubject: CredentialSubject{
			ID:        subject.SubjectDID,
			Username:  subject.Username,
			Email:     subject.Email,
			Residence: subject.Residence,
			Gender:    subject.Gender,
			Work:      subject.Work,
		},
	}
	if subject.Age > 0 {
		cred.CredentialSubject.Age = subject.Age
	}
	if validity > 0 {
		cred.ExpirationDate = issuedAt.Add(validity).UTC().Format(time.RFC3339)
	}
	return cred
}
