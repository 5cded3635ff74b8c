package did

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/commonsource/go-identity-gate/pkg/internal/logging"
	"github.com/go-resty/resty/v2"
)

// Resolver resolves did:bsv identifiers against a resolver service's
// POST /api/resolve-did endpoint.
type Resolver struct {
	client *resty.Client
	logger *slog.Logger
}

// NewResolver creates a resolver client for the service at baseURL.
func NewResolver(baseURL string, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: resty.New().SetBaseURL(baseURL),
		logger: logging.Child(logging.DiscardIfNil(logger), "DIDResolver"),
	}
}

type resolveRequest struct {
	DID string `json:"did"`
}

type resolveResponse struct {
	DIDDocument *Document `json:"didDocument"`
	Resolved    bool      `json:"resolved"`
}

// Resolve fetches and validates the DID document for the given identifier.
// An unknown DID resolves to (nil, nil); malformed identifiers fail locally
// without a network round trip.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*Document, error) {
	if _, err := Parse(identifier); err != nil {
		return nil, err
	}

	var result resolveResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(resolveRequest{DID: identifier}).
		SetResult(&result).
		Post("/api/resolve-did")
	if err != nil {
		return nil, fmt.Errorf("DID resolution request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("DID resolution failed with status %d", resp.StatusCode())
	}

	if !result.Resolved || result.DIDDocument == nil {
		r.logger.Debug("DID not found", slog.String("did", identifier))
		return nil, nil
	}

	if err := result.DIDDocument.Validate(); err != nil {
		return nil, err
	}
	return result.DIDDocument, nil
}
