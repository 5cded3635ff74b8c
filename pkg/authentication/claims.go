package authentication

import "strconv"

// IdentityClaims is the uniform claim bundle extracted from either
// certificate format.
type IdentityClaims struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Residence string `json:"residence,omitempty"`
	Age       int    `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Work      string `json:"work,omitempty"`
	DID       string `json:"did,omitempty"`
	Format    Format `json:"format"`
}

// ExtractClaims produces a uniform claim record from a classified
// certificate. It never panics; a structural mismatch yields nil.
func ExtractClaims(classified *ClassifiedCertificate) *IdentityClaims {
	if classified == nil || classified.Certificate == nil {
		return nil
	}

	switch classified.Format {
	case FormatCredential:
		if classified.Credential == nil {
			return nil
		}
		subject := classified.Credential.CredentialSubject
		return &IdentityClaims{
			Username:  subject.Username,
			Email:     subject.Email,
			Residence: subject.Residence,
			Age:       coerceAge(subject.Age),
			Gender:    subject.Gender,
			Work:      subject.Work,
			DID:       subject.ID,
			Format:    FormatCredential,
		}

	default:
		fields := classified.Certificate.Fields
		if len(fields) == 0 {
			return nil
		}
		return &IdentityClaims{
			Username:  fieldString(fields, "username"),
			Email:     fieldString(fields, "email"),
			Residence: fieldString(fields, "residence"),
			Age:       coerceAge(fields["age"]),
			Gender:    fieldString(fields, "gender"),
			Work:      fieldString(fields, "work"),
			DID:       fieldString(fields, "did"),
			Format:    FormatLegacy,
		}
	}
}

func fieldString(fields map[string]any, name string) string {
	value, _ := fields[name].(string)
	return value
}

// coerceAge accepts the numeric and string encodings issuers use for ages.
func coerceAge(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		age, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return age
	default:
		return 0
	}
}
