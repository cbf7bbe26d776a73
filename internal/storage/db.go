// Package storage provides the key-value stores behind the transfer journal.
package storage

import "errors"

// ErrNotFound is returned by Get when a key does not exist.
var ErrNotFound = errors.New("key not found")

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix in ascending
	// key order. The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// Batch buffers writes and applies them together on Commit.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// Batcher is implemented by stores that can commit a Batch atomically.
type Batcher interface {
	NewBatch() Batch
}

// NewBatch returns an atomic batch when db supports one and a sequential
// fallback otherwise.
func NewBatch(db DB) Batch {
	if b, ok := db.(Batcher); ok {
		return b.NewBatch()
	}
	return &fallbackBatch{db: db}
}

type batchOp struct {
	key   []byte
	value []byte // nil means delete
}

func newOp(key, value []byte, del bool) batchOp {
	op := batchOp{key: append([]byte(nil), key...)}
	if !del {
		op.value = append([]byte{}, value...)
	}
	return op
}

// fallbackBatch applies buffered writes one by one.
type fallbackBatch struct {
	db  DB
	ops []batchOp
}

func (fb *fallbackBatch) Put(key, value []byte) error {
	fb.ops = append(fb.ops, newOp(key, value, false))
	return nil
}

func (fb *fallbackBatch) Delete(key []byte) error {
	fb.ops = append(fb.ops, newOp(key, nil, true))
	return nil
}

func (fb *fallbackBatch) Commit() error {
	for _, op := range fb.ops {
		var err error
		if op.value == nil {
			err = fb.db.Delete(op.key)
		} else {
			err = fb.db.Put(op.key, op.value)
		}
		if err != nil {
			return err
		}
	}
	fb.ops = nil
	return nil
}
