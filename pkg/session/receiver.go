package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/commonsource/go-identity-gate/pkg/certificates"
	"github.com/commonsource/go-identity-gate/pkg/internal/logging"
	"github.com/commonsource/go-identity-gate/pkg/wallet"
)

// Receiver consumes CertificateReceived events, validates each certificate
// and files the usable ones into the matching session store. It performs no
// network calls, so the transport pushing events is never blocked on IO.
type Receiver struct {
	validator *certificates.Validator
	events    chan CertificateReceived
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Store
}

// NewReceiver creates a receiver validating with the given validator. A nil
// logger discards output.
func NewReceiver(validator *certificates.Validator, logger *slog.Logger) *Receiver {
	return &Receiver{
		validator: validator,
		events:    make(chan CertificateReceived, 16),
		logger:    logging.Child(logging.DiscardIfNil(logger), "SessionReceiver"),
		sessions:  make(map[string]*Store),
	}
}

// Events is the channel the transport pushes receipt events onto.
func (r *Receiver) Events() chan<- CertificateReceived {
	return r.events
}

// StartSession creates and registers a store for the session.
func (r *Receiver) StartSession(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	store := NewStore(sessionID)
	r.sessions[sessionID] = store
	return store
}

// EndSession ends and unregisters the session's store.
func (r *Receiver) EndSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.sessions[sessionID]; ok {
		store.End()
		delete(r.sessions, sessionID)
	}
}

// Session returns the store for the session, or nil if none is registered.
func (r *Receiver) Session(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionID]
}

// Run consumes events until the context is done.
func (r *Receiver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-r.events:
			r.handle(event)
		}
	}
}

func (r *Receiver) handle(event CertificateReceived) {
	store := r.Session(event.SessionID)
	if store == nil {
		r.logger.Debug("event for unknown session dropped",
			slog.String("sessionID", event.SessionID))
		return
	}

	var usable []wallet.Certificate
	for _, cert := range event.Certificates {
		if !r.validator.Usable(&cert) {
			r.logger.Debug("received certificate rejected",
				slog.String("sessionID", event.SessionID),
				slog.String("sender", event.Sender))
			continue
		}
		usable = append(usable, cert)
	}
	if len(usable) == 0 {
		return
	}

	if err := store.Add(usable...); err != nil {
		r.logger.Debug("cannot file certificates", logging.Error(err))
	}
}
