// Package did handles did:bsv decentralized identifiers: parsing, document
// construction and validation, and an HTTP resolver client.
package did

import (
	"errors"
	"fmt"
	"strings"
)

// Method is the DID method handled by this package.
const Method = "bsv"

var (
	// ErrInvalidFormat is returned when a string does not match the
	// did:bsv:<topic>:<id> shape.
	ErrInvalidFormat = errors.New("identifier does not match did:bsv:<topic>:<id>")

	// ErrInvalidDocument is returned when a resolved DID document lacks a
	// required field.
	ErrInvalidDocument = errors.New("DID document is missing required fields")
)

// DID is a parsed did:bsv identifier.
type DID struct {
	Topic string
	ID    string
}

// Parse splits a did:bsv identifier into its topic and id parts.
func Parse(value string) (*DID, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 4 || parts[0] != "did" || parts[1] != Method {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	if parts[2] == "" || parts[3] == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}
	return &DID{Topic: parts[2], ID: parts[3]}, nil
}

// String renders the identifier in its canonical form.
func (d *DID) String() string {
	return "did:" + Method + ":" + d.Topic + ":" + d.ID
}
