// Package bboltstore implements contracts.Store on top of an embedded
// go.etcd.io/bbolt database: one bucket per sheet, keyed by canonical cell
// id, holding the raw formula text as its value.
package bboltstore

import (
	"fmt"
	"strings"

	"github.com/berejant/sheetengine/contracts"
	"go.etcd.io/bbolt"
)

// Store is a contracts.Store backed by a single bbolt database shared
// across every sheet.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the bbolt database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func bucketName(sheet string) []byte {
	return []byte(strings.ToLower(sheet))
}

// ReadFormulas returns every persisted (cellId, formula) pair for sheet. A
// sheet with no bucket yet (never written to) returns an empty slice, not
// an error — an unseen sheet is simply an empty one.
func (s *Store) ReadFormulas(sheet string) ([]contracts.CellFormula, error) {
	var formulas []contracts.CellFormula

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName(sheet))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			formulas = append(formulas, contracts.CellFormula{
				CellId:  string(k),
				Formula: string(v),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return formulas, nil
}

// UpdateCell persists a single cell's formula text, creating the sheet's
// bucket on first write.
func (s *Store) UpdateCell(sheet, cellId, formula string) error {
	return s.db.Batch(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName(sheet))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(cellId), []byte(formula))
	})
}

// Delete removes a single cell's persisted formula. Deleting from a sheet
// with no bucket, or a cellId absent from it, is a no-op.
func (s *Store) Delete(sheet, cellId string) error {
	return s.db.Batch(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName(sheet))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(cellId))
	})
}

// Clear removes every persisted formula for sheet by dropping its bucket.
func (s *Store) Clear(sheet string) error {
	return s.db.Batch(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket(bucketName(sheet))
		if err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		return nil
	})
}

// Close releases the underlying bbolt database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
