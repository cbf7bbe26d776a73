package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/suisend/suisend/internal/log"
)

// BadgerDB implements DB using Badger.
type BadgerDB struct {
	db *badger.DB
}

// badgerLogger forwards Badger's own messages to the storage logger.
// Badger is chatty at info level, so info is demoted to debug.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(f string, v ...interface{}) {
	b.l.Error().Msg(strings.TrimSpace(fmt.Sprintf(f, v...)))
}
func (b badgerLogger) Warningf(f string, v ...interface{}) {
	b.l.Warn().Msg(strings.TrimSpace(fmt.Sprintf(f, v...)))
}
func (b badgerLogger) Infof(f string, v ...interface{}) {
	b.l.Debug().Msg(strings.TrimSpace(fmt.Sprintf(f, v...)))
}
func (b badgerLogger) Debugf(f string, v ...interface{}) {
	b.l.Trace().Msg(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

// NewBadger opens (or creates) a Badger database at the given path.
func NewBadger(path string) (*BadgerDB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{l: log.Storage}).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "Cannot acquire directory lock") ||
			strings.Contains(errMsg, "resource temporarily unavailable") {
			return nil, fmt.Errorf("journal at %s is locked by another process (is another suisend running?): %w", path, err)
		}
		return nil, fmt.Errorf("open database at %s: %w", path, err)
	}
	log.Storage.Debug().Str("path", path).Msg("Journal opened")
	return &BadgerDB{db: db}, nil
}

// Get retrieves a value by key.
func (b *BadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return val, nil
}

// Put stores a key-value pair.
func (b *BadgerDB) Put(key, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	return nil
}

// Delete removes a key.
func (b *BadgerDB) Delete(key []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

// Has checks if a key exists.
func (b *BadgerDB) Has(key []byte) (bool, error) {
	_, err := b.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ForEach iterates over all keys with the given prefix.
func (b *BadgerDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(key, val); err != nil {
				return err
			}
		}
		return nil
	})
}

// NewBatch returns a batch committed in one Badger transaction.
func (b *BadgerDB) NewBatch() Batch {
	return &badgerBatch{db: b.db}
}

// Close closes the database.
func (b *BadgerDB) Close() error {
	return b.db.Close()
}

type badgerBatch struct {
	db  *badger.DB
	ops []batchOp
}

func (bb *badgerBatch) Put(key, value []byte) error {
	bb.ops = append(bb.ops, newOp(key, value, false))
	return nil
}

func (bb *badgerBatch) Delete(key []byte) error {
	bb.ops = append(bb.ops, newOp(key, nil, true))
	return nil
}

func (bb *badgerBatch) Commit() error {
	err := bb.db.Update(func(txn *badger.Txn) error {
		for _, op := range bb.ops {
			var err error
			if op.value == nil {
				err = txn.Delete(op.key)
			} else {
				err = txn.Set(op.key, op.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger batch: %w", err)
	}
	bb.ops = nil
	return nil
}
