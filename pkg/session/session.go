// Package session tracks certificates received during an authentication
// session. Each session owns its own store with an explicit lifecycle, and
// receipt is event-driven: transport layers push CertificateReceived events
// onto a channel instead of mutating shared state from callbacks.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/commonsource/go-identity-gate/pkg/wallet"
)

// ErrSessionEnded is returned when certificates are added to an ended
// session.
var ErrSessionEnded = errors.New("session has ended")

// CertificateReceived is emitted by the transport whenever a peer hands over
// certificates during a session.
type CertificateReceived struct {
	SessionID    string
	Sender       string
	Certificates []wallet.Certificate
	ReceivedAt   time.Time
}

// Store holds the certificates received within one session. It is created at
// session start and discarded at session end; nothing outlives the session.
type Store struct {
	mu           sync.Mutex
	id           string
	certificates []wallet.Certificate
	ended        bool
}

// NewStore creates an empty store for the given session.
func NewStore(sessionID string) *Store {
	return &Store{id: sessionID}
}

// ID returns the session identifier.
func (s *Store) ID() string {
	return s.id
}

// Add appends certificates to the session.
func (s *Store) Add(certs ...wallet.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return ErrSessionEnded
	}
	s.certificates = append(s.certificates, certs...)
	return nil
}

// Certificates returns a copy of the received certificates in arrival order.
func (s *Store) Certificates() []wallet.Certificate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]wallet.Certificate, len(s.certificates))
	copy(out, s.certificates)
	return out
}

// End closes the session and releases its certificates.
func (s *Store) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ended = true
	s.certificates = nil
}
