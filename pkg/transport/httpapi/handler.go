// Package httpapi exposes certificate verification and DID resolution over
// HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/commonsource/go-identity-gate/pkg/authentication"
	"github.com/commonsource/go-identity-gate/pkg/did"
	"github.com/commonsource/go-identity-gate/pkg/internal/logging"
	"github.com/commonsource/go-identity-gate/pkg/wallet"
	"github.com/go-chi/chi/v5"
)

// Error codes returned in JSON error responses.
const (
	ErrCodeMissingCertificate = "ERR_MISSING_CERTIFICATE"
	ErrCodeMalformedRequest   = "ERR_MALFORMED_REQUEST"
	ErrCodeMalformedDID       = "ERR_MALFORMED_DID"
	ErrCodeResolverFailure    = "ERR_RESOLVER_FAILURE"
)

var (
	// ErrNoAuthenticationService is returned when a handler is constructed
	// without an authentication service.
	ErrNoAuthenticationService = errors.New("authentication service is required")

	// ErrNoDocumentStore is returned when a handler is constructed without a
	// DID document store.
	ErrNoDocumentStore = errors.New("DID document store is required")
)

// DocumentStore is the lookup behind the resolve-did endpoint. An unknown
// identifier yields (nil, nil).
type DocumentStore interface {
	DIDDocument(ctx context.Context, identifier string) (*did.Document, error)
}

// Handler serves the certificate verification and DID resolution endpoints.
type Handler struct {
	auth      *authentication.Service
	documents DocumentStore
	logger    *slog.Logger
}

// New creates an HTTP handler over the given collaborators.
func New(auth *authentication.Service, documents DocumentStore, logger *slog.Logger) (*Handler, error) {
	if auth == nil {
		return nil, ErrNoAuthenticationService
	}
	if documents == nil {
		return nil, ErrNoDocumentStore
	}
	return &Handler{
		auth:      auth,
		documents: documents,
		logger:    logging.Child(logging.DiscardIfNil(logger), "HTTPAPI"),
	}, nil
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/verify-certificate", h.verifyCertificate)
	r.Post("/api/resolve-did", h.resolveDID)
}

type verifyCertificateRequest struct {
	Certificate *wallet.Certificate `json:"certificate"`
}

func (h *Handler) verifyCertificate(w http.ResponseWriter, r *http.Request) {
	var req verifyCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrCodeMalformedRequest,
			"Request body is not valid JSON")
		return
	}
	if req.Certificate == nil {
		respondWithError(w, http.StatusBadRequest, ErrCodeMissingCertificate,
			"Request is missing the certificate to verify")
		return
	}

	result := h.auth.VerifyCertificate(r.Context(), req.Certificate)
	respondWithJSON(w, http.StatusOK, result)
}

type resolveDIDRequest struct {
	DID string `json:"did"`
}

type resolveDIDResponse struct {
	DIDDocument *did.Document `json:"didDocument"`
	Resolved    bool          `json:"resolved"`
}

func (h *Handler) resolveDID(w http.ResponseWriter, r *http.Request) {
	var req resolveDIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrCodeMalformedRequest,
			"Request body is not valid JSON")
		return
	}
	if _, err := did.Parse(req.DID); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrCodeMalformedDID, err.Error())
		return
	}

	doc, err := h.documents.DIDDocument(r.Context(), req.DID)
	if err != nil {
		h.logger.Error("DID document lookup failed",
			slog.String("did", req.DID), logging.Error(err))
		respondWithError(w, http.StatusInternalServerError, ErrCodeResolverFailure,
			"DID document lookup failed")
		return
	}

	respondWithJSON(w, http.StatusOK, resolveDIDResponse{
		DIDDocument: doc,
		Resolved:    doc != nil,
	})
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondWithError creates a standardized error response
func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, map[string]any{
		"status":      "error",
		"code":        code,
		"description": message,
	})
}
