// Package store persists parsed receipts in a local BoltDB file.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/billscan/billscan/pkg/parser"
)

const bucketName = "receipts"

var (
	// ErrDuplicate is returned when a receipt with the same fingerprint
	// has already been imported.
	ErrDuplicate = errors.New("receipt already imported")

	// ErrNotFound is returned when no receipt has the requested ID.
	ErrNotFound = errors.New("receipt not found")
)

// Receipt is a parsed receipt as persisted in the store. ID is the
// fingerprint of the raw OCR text, so importing the same upload twice is
// detected regardless of file name.
type Receipt struct {
	ID         string            `json:"id"`
	Source     string            `json:"source,omitempty"`
	Locale     string            `json:"locale"`
	Date       parser.Date       `json:"date"`
	Items      []parser.LineItem `json:"items"`
	ImportedAt time.Time         `json:"imported_at"`
}

// Fingerprint returns the store ID for a raw OCR text: the hex encoded
// SHA-256 of the text.
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Store defines the interface for receipt persistence.
type Store interface {
	// Save persists a receipt, rejecting duplicates with ErrDuplicate.
	Save(receipt *Receipt) error

	// Get retrieves a receipt by ID.
	Get(id string) (*Receipt, error)

	// List returns all receipts.
	List() ([]*Receipt, error)

	// Delete removes a receipt from the store.
	Delete(id string) error

	// Close closes the underlying database.
	Close() error
}

// BoltStore implements Store using BoltDB.
type BoltStore struct {
	db *bbolt.DB
}

// Open opens or creates the receipt database at path.
func Open(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening receipt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Save persists a receipt. A receipt whose ID is already present is not
// overwritten; the caller decides whether a duplicate upload is an error
// or merely skipped.
func (s *BoltStore) Save(receipt *Receipt) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket.Get([]byte(receipt.ID)) != nil {
			return fmt.Errorf("%w: %s", ErrDuplicate, receipt.ID)
		}
		data, err := json.Marshal(receipt)
		if err != nil {
			return fmt.Errorf("marshaling receipt: %w", err)
		}
		return bucket.Put([]byte(receipt.ID), data)
	})
}

// Get retrieves a receipt by ID.
func (s *BoltStore) Get(id string) (*Receipt, error) {
	var receipt *Receipt
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// List returns all receipts in key order.
func (s *BoltStore) List() ([]*Receipt, error) {
	receipts := make([]*Receipt, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var receipt Receipt
			if err := json.Unmarshal(v, &receipt); err != nil {
				return fmt.Errorf("unmarshaling receipt: %w", err)
			}
			receipts = append(receipts, &receipt)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// Delete removes a receipt. Deleting an absent ID is not an error.
func (s *BoltStore) Delete(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		return bucket.Delete([]byte(id))
	})
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
