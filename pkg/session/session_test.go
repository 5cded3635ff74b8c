package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/commonsource/go-identity-gate/pkg/certificates"
	"github.com/commonsource/go-identity-gate/pkg/session"
	"github.com/commonsource/go-identity-gate/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trustedIssuer = "02f4403c1eecce28c8c82aab508ecdb763b8d924d4a235350c4e805d4e2d7f8819"

func validCertificate(serial string) wallet.Certificate {
	return wallet.Certificate{
		Type:         "identity",
		SerialNumber: serial,
		Subject:      "03holder",
		Certifier:    trustedIssuer,
		Signature:    "sig",
	}
}

func TestStore_Lifecycle(t *testing.T) {
	// given:
	store := session.NewStore("session-1")
	assert.Equal(t, "session-1", store.ID())

	// when:
	require.NoError(t, store.Add(validCertificate("serial-1"), validCertificate("serial-2")))

	// then:
	certs := store.Certificates()
	require.Len(t, certs, 2)
	assert.Equal(t, "serial-1", certs[0].SerialNumber)

	t.Run("ending the session releases its certificates", func(t *testing.T) {
		store.End()

		assert.Empty(t, store.Certificates())
		assert.ErrorIs(t, store.Add(validCertificate("serial-3")), session.ErrSessionEnded)
	})
}

func TestReceiver(t *testing.T) {
	newReceiver := func() *session.Receiver {
		return session.NewReceiver(certificates.NewValidator(trustedIssuer), nil)
	}

	waitForCertificates := func(t *testing.T, store *session.Store, count int) []wallet.Certificate {
		t.Helper()
		require.Eventually(t, func() bool {
			return len(store.Certificates()) == count
		}, time.Second, 5*time.Millisecond)
		return store.Certificates()
	}

	t.Run("usable certificates are filed into the session", func(t *testing.T) {
		// given:
		receiver := newReceiver()
		store := receiver.StartSession("session-1")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go receiver.Run(ctx)

		// when:
		receiver.Events() <- session.CertificateReceived{
			SessionID:    "session-1",
			Sender:       "03peer",
			Certificates: []wallet.Certificate{validCertificate("serial-1")},
			ReceivedAt:   time.Now(),
		}

		// then:
		certs := waitForCertificates(t, store, 1)
		assert.Equal(t, "serial-1", certs[0].SerialNumber)
	})

	t.Run("invalid certificates are dropped", func(t *testing.T) {
		// given:
		receiver := newReceiver()
		store := receiver.StartSession("session-1")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go receiver.Run(ctx)

		untrusted := validCertificate("serial-bad")
		untrusted.Certifier = "02aaaa"

		// when: one usable and one untrusted certificate arrive together
		receiver.Events() <- session.CertificateReceived{
			SessionID:    "session-1",
			Sender:       "03peer",
			Certificates: []wallet.Certificate{untrusted, validCertificate("serial-good")},
		}

		// then:
		certs := waitForCertificates(t, store, 1)
		assert.Equal(t, "serial-good", certs[0].SerialNumber)
	})

	t.Run("events for unknown sessions are dropped", func(t *testing.T) {
		// given:
		receiver := newReceiver()
		store := receiver.StartSession("session-1")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go receiver.Run(ctx)

		// when:
		receiver.Events() <- session.CertificateReceived{
			SessionID:    "other-session",
			Certificates: []wallet.Certificate{validCertificate("serial-1")},
		}
		receiver.Events() <- session.CertificateReceived{
			SessionID:    "session-1",
			Certificates: []wallet.Certificate{validCertificate("serial-2")},
		}

		// then: only the known session received anything
		certs := waitForCertificates(t, store, 1)
		assert.Equal(t, "serial-2", certs[0].SerialNumber)
	})

	t.Run("ended sessions are unregistered", func(t *testing.T) {
		receiver := newReceiver()
		receiver.StartSession("session-1")

		receiver.EndSession("session-1")

		assert.Nil(t, receiver.Session("session-1"))
	})
}
