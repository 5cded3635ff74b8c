// Package agegate runs privacy-preserving age verification passes against a
// wallet: it lists candidate certificates from the trusted issuer, discloses a
// single age or over-threshold field from the first usable candidate, and
// produces a terminal verdict.
package agegate

// State is the verification state machine state. A pass starts in
// StateChecking and ends in exactly one of the terminal states.
type State string

const (
	// StateChecking is the initial, in-progress state of a pass.
	StateChecking State = "checking"

	// StateVerified means a disclosed claim satisfied the age requirement.
	StateVerified State = "verified"

	// StateDenied means a claim was disclosed but did not satisfy the
	// requirement. Distinct from StateNoCertificate: the subject proved an
	// insufficient value, they are not missing a certificate.
	StateDenied State = "denied"

	// StateNoCertificate means no candidate yielded a disclosable claim.
	StateNoCertificate State = "no-certificate"

	// StateError means the pass itself failed, e.g. the certificate listing
	// call errored. The subject's eligibility is unknown.
	StateError State = "error"
)

// Source tags where the deciding certificate came from.
type Source string

const (
	// SourceIdentityCertificate marks a directly typed identity certificate.
	SourceIdentityCertificate Source = "identity-certificate"

	// SourceDIDLinkedCertificate marks a certificate found through the
	// DID-linked lookup path.
	SourceDIDLinkedCertificate Source = "did-linked-certificate"
)

// ClaimKind selects how the disclosed field value is interpreted.
type ClaimKind string

const (
	// ClaimAge interprets the disclosed value as an age in years, compared
	// against the configured minimum.
	ClaimAge ClaimKind = "age"

	// ClaimOverThreshold interprets the disclosed value as a boolean
	// attestation that the subject meets the threshold.
	ClaimOverThreshold ClaimKind = "over-threshold"
)

// Verdict is the terminal outcome of a verification pass. SerialNumber is set
// only on verified verdicts; denied subjects are never told which certificate
// decided against them.
type Verdict struct {
	State        State  `json:"state"`
	Source       Source `json:"source,omitempty"`
	Age          int    `json:"age,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Reason       string `json:"reason"`
}
