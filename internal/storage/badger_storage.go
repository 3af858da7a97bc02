package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/suggester/internal/search"
)

// ErrStoreClosed is returned when the badger store has been closed
var ErrStoreClosed = errors.New("catalog store is closed")

const entryPrefix = "entry/"

// BadgerStore keeps the catalog in a BadgerDB database.
// Records are stored under zero-padded sequence keys so iteration
// returns them in catalog order.
type BadgerStore struct {
	db     *badger.DB
	logger *logrus.Entry
}

// OpenBadgerStore opens or creates a store at dir. With inMemory set, dir is ignored.
func OpenBadgerStore(dir string, inMemory bool, logger *logrus.Entry) (*BadgerStore, error) {
	logger = logger.WithField("component", "badger_store")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	return &BadgerStore{
		db:     db,
		logger: logger,
	}, nil
}

// Save replaces the stored catalog with records
func (s *BadgerStore) Save(ctx context.Context, records []search.Record) error {
	if s.db.IsClosed() {
		return ErrStoreClosed
	}

	stale, err := s.keysFrom(len(records))
	if err != nil {
		return fmt.Errorf("failed to scan catalog: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		value, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal record %d: %w", i, err)
		}
		if err := wb.Set(entryKey(i), value); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to flush catalog: %w", err)
	}

	s.logger.WithField("entries", len(records)).Info("Catalog saved")
	return nil
}

// Load reads every stored record in catalog order
func (s *BadgerStore) Load(ctx context.Context) ([]search.Record, error) {
	if s.db.IsClosed() {
		return nil, ErrStoreClosed
	}

	var raw []map[string]any
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var m map[string]any
			if err := json.Unmarshal(value, &m); err != nil {
				return fmt.Errorf("failed to unmarshal %s: %w", it.Item().Key(), err)
			}
			raw = append(raw, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return search.RecordsFromMaps(raw)
}

// Count returns the number of stored records
func (s *BadgerStore) Count() (int, error) {
	if s.db.IsClosed() {
		return 0, ErrStoreClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Close closes the underlying database
func (s *BadgerStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}

// keysFrom returns the stored keys at or after sequence n
func (s *BadgerStore) keysFrom(n int) ([][]byte, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(entryKey(n)); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

func entryKey(i int) []byte {
	return []byte(fmt.Sprintf("%s%08d", entryPrefix, i))
}
