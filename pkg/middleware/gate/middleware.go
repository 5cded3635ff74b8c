// Package gate is an HTTP middleware that runs an age verification pass per
// request and only lets verified subjects through.
package gate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/commonsource/go-identity-gate/pkg/agegate"
	"github.com/commonsource/go-identity-gate/pkg/internal/logging"
)

// Error codes returned in JSON error responses.
const (
	ErrCodeAgeRestricted      = "ERR_AGE_RESTRICTED"
	ErrCodeNoCertificate      = "ERR_NO_CERTIFICATE"
	ErrCodeVerificationFailed = "ERR_VERIFICATION_FAILED"
)

// ErrNoVerifier is returned when the middleware is constructed without a
// verifier.
var ErrNoVerifier = errors.New("age gate verifier is required")

type contextKey string

// VerdictKey is the context key under which the verdict is stored for
// downstream handlers.
const VerdictKey contextKey = "agegate_verdict"

// Options for the gate middleware.
type Options struct {
	// Verifier runs the verification pass. Required.
	Verifier *agegate.Verifier

	// Logger receives debug output; nil discards.
	Logger *slog.Logger
}

// Middleware is the age gate middleware handler.
type Middleware struct {
	verifier *agegate.Verifier
	logger   *slog.Logger
}

// New creates a new gate middleware.
func New(opts Options) (*Middleware, error) {
	if opts.Verifier == nil {
		return nil, ErrNoVerifier
	}
	return &Middleware{
		verifier: opts.Verifier,
		logger:   logging.Child(logging.DiscardIfNil(opts.Logger), "GateMiddleware"),
	}, nil
}

// Handler returns a middleware handler function. Denied and no-certificate
// outcomes are distinct responses: the first is a hard refusal, the second
// tells the client a certificate must be acquired first.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		verdict := m.verifier.Verify(r.Context())

		switch verdict.State {
		case agegate.StateVerified:
			ctx := context.WithValue(r.Context(), VerdictKey, verdict)
			next.ServeHTTP(w, r.WithContext(ctx))

		case agegate.StateDenied:
			respondWithError(w, http.StatusForbidden, ErrCodeAgeRestricted,
				"Age requirement not met.")

		case agegate.StateNoCertificate:
			respondWithError(w, http.StatusForbidden, ErrCodeNoCertificate,
				"No age certificate available. Acquire one to access this content.")

		default:
			m.logger.Error("verification pass failed", slog.String("reason", verdict.Reason))
			respondWithError(w, http.StatusBadGateway, ErrCodeVerificationFailed,
				"Age verification could not be completed.")
		}
	})
}

// GetVerdictFromContext returns the verdict stored by the middleware.
func GetVerdictFromContext(ctx context.Context) (*agegate.Verdict, bool) {
	verdict, ok := ctx.Value(VerdictKey).(*agegate.Verdict)
	return verdict, ok
}

// respondWithError creates a standardized error response
func respondWithError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":      "error",
		"code":        code,
		"description": message,
	})
}
