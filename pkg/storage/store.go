// Package storage persists DID documents and issued certificates in a
// relational database. The certificate side doubles as the authentication
// orchestrator's fallback lookup.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commonsource/go-identity-gate/pkg/did"
	"github.com/commonsource/go-identity-gate/pkg/internal/logging"
	"github.com/commonsource/go-identity-gate/pkg/wallet"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DIDDocumentRecord is the persisted form of a resolved DID document.
type DIDDocumentRecord struct {
	ID        uint   `gorm:"primaryKey"`
	DID       string `gorm:"column:did;uniqueIndex;not null"`
	Subject   string `gorm:"index"`
	Document  []byte `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets the table for DID document records.
func (DIDDocumentRecord) TableName() string {
	return "did_documents"
}

// CertificateRecord is the persisted form of an issued certificate.
type CertificateRecord struct {
	ID           uint   `gorm:"primaryKey"`
	SerialNumber string `gorm:"uniqueIndex;not null"`
	Subject      string `gorm:"index;not null"`
	Certifier    string `gorm:"index"`
	Type         string `gorm:"index"`
	Certificate  []byte `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName sets the table for certificate records.
func (CertificateRecord) TableName() string {
	return "certificates"
}

// Store wraps the database behind the resolve-did endpoint and the fallback
// certificate lookup.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects to the sqlite database at dsn (":memory:" for tests and
// demos), migrates the schema, and returns a ready store.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return New(db, logger)
}

// New builds a store over an existing database handle and migrates the
// schema.
func New(db *gorm.DB, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if err := db.AutoMigrate(&DIDDocumentRecord{}, &CertificateRecord{}); err != nil {
		return nil, fmt.Errorf("cannot migrate schema: %w", err)
	}
	return &Store{
		db:     db,
		logger: logging.Child(logging.DiscardIfNil(logger), "Storage"),
	}, nil
}

// SaveDIDDocument upserts the document keyed by its DID.
func (s *Store) SaveDIDDocument(ctx context.Context, doc *did.Document, subject string) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("cannot encode DID document: %w", err)
	}

	record := DIDDocumentRecord{DID: doc.ID, Subject: subject, Document: raw}
	result := s.db.WithContext(ctx).
		Where(DIDDocumentRecord{DID: doc.ID}).
		Assign(map[string]any{"document": raw, "subject": subject}).
		FirstOrCreate(&record)
	if result.Error != nil {
		return fmt.Errorf("cannot save DID document: %w", result.Error)
	}
	return nil
}

// DIDDocument loads the document for the identifier. An unknown identifier
// yields (nil, nil).
func (s *Store) DIDDocument(ctx context.Context, identifier string) (*did.Document, error) {
	var record DIDDocumentRecord
	result := s.db.WithContext(ctx).Where("did = ?", identifier).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot query DID document: %w", result.Error)
	}

	var doc did.Document
	if err := json.Unmarshal(record.Document, &doc); err != nil {
		return nil, fmt.Errorf("cannot decode stored DID document: %w", err)
	}
	return &doc, nil
}

// SaveCertificate upserts the certificate keyed by its serial number.
func (s *Store) SaveCertificate(ctx context.Context, cert *wallet.Certificate) error {
	if cert == nil || cert.SerialNumber == "" || cert.Subject == "" {
		return errors.New("certificate with serial number and subject is required")
	}

	raw, err := json.Marshal(cert)
	if err != nil {
		return fmt.Errorf("cannot encode certificate: %w", err)
	}

	record := CertificateRecord{
		SerialNumber: cert.SerialNumber,
		Subject:      cert.Subject,
		Certifier:    cert.Certifier,
		Type:         cert.Type,
		Certificate:  raw,
	}
	result := s.db.WithContext(ctx).
		Where(CertificateRecord{SerialNumber: cert.SerialNumber}).
		Assign(map[string]any{"certificate": raw}).
		FirstOrCreate(&record)
	if result.Error != nil {
		return fmt.Errorf("cannot save certificate: %w", result.Error)
	}
	return nil
}

// CertificateForSubject loads the most recently stored certificate for the
// subject. It satisfies the authentication fallback contract: an unknown
// subject yields (nil, nil).
func (s *Store) CertificateForSubject(ctx context.Context, subject string) (*wallet.Certificate, error) {
	var record CertificateRecord
	result := s.db.WithContext(ctx).
		Where("subject = ?", subject).
		Order("created_at DESC").
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot query certificates: %w", result.Error)
	}

	var cert wallet.Certificate
	if err := json.Unmarshal(record.Certificate, &cert); err != nil {
		return nil, fmt.Errorf("cannot decode stored certificate: %w", err)
	}
	return &cert, nil
}
