// Package journal records transfer runs and their per-recipient outcomes.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/suisend/suisend/internal/log"
	"github.com/suisend/suisend/internal/storage"
)

// Key namespaces inside the journal database.
var (
	prefixRuns    = []byte("run/")
	prefixRecords = []byte("rec/")
)

// ErrRunNotFound is returned for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// Status is the outcome of one transfer attempt.
type Status string

// Transfer outcomes.
const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusDryRun  Status = "dry-run"
)

// Run summarises one batch.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Network    string    `json:"network"`
	Sender     string    `json:"sender"`
	AmountMist uint64    `json:"amount_mist"`
	Recipients int       `json:"recipients"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Finished reports whether FinishRun was recorded for the run.
func (r *Run) Finished() bool { return !r.FinishedAt.IsZero() }

// Record is the outcome of sending to one recipient.
type Record struct {
	RunID      uuid.UUID `json:"run_id"`
	Index      int       `json:"index"`
	Recipient  string    `json:"recipient"`
	AmountMist uint64    `json:"amount_mist"`
	Status     Status    `json:"status"`
	Digest     string    `json:"digest,omitempty"`
	Error      string    `json:"error,omitempty"`
	GasMist    uint64    `json:"gas_mist,omitempty"`
	Time       time.Time `json:"time"`
}

// Journal persists runs and records in a storage.DB.
type Journal struct {
	db      storage.DB
	runs    *storage.PrefixDB
	records *storage.PrefixDB
}

// New wraps db. The journal takes ownership and closes it on Close.
func New(db storage.DB) *Journal {
	return &Journal{
		db:      db,
		runs:    storage.NewPrefixDB(db, prefixRuns),
		records: storage.NewPrefixDB(db, prefixRecords),
	}
}

// Open opens a Badger-backed journal in dir.
func Open(dir string) (*Journal, error) {
	db, err := storage.NewBadger(dir)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// StartRun stores a new run, assigning an id and start time when unset.
func (j *Journal) StartRun(run *Run) error {
	if run.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("run id: %w", err)
		}
		run.ID = id
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	if err := j.putRun(j.db, run); err != nil {
		return err
	}
	log.Storage.Debug().Str("run", run.ID.String()).Int("recipients", run.Recipients).Msg("Run started")
	return nil
}

// Append stores rec and updates its run's counters in one batch.
func (j *Journal) Append(rec Record) error {
	run, err := j.Run(rec.RunID)
	if err != nil {
		return err
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}
	switch rec.Status {
	case StatusSuccess, StatusDryRun:
		run.Succeeded++
	default:
		run.Failed++
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	batch := storage.NewBatch(j.db)
	if err := batch.Put(withPrefix(prefixRecords, recordKey(rec.RunID, rec.Index)), data); err != nil {
		return err
	}
	if err := j.putRun(batch, run); err != nil {
		return err
	}
	return batch.Commit()
}

// FinishRun stamps the run's finish time.
func (j *Journal) FinishRun(id uuid.UUID) error {
	run, err := j.Run(id)
	if err != nil {
		return err
	}
	run.FinishedAt = time.Now().UTC()
	return j.putRun(j.db, run)
}

// Run loads one run.
func (j *Journal) Run(id uuid.UUID) (*Run, error) {
	data, err := j.runs.Get([]byte(id.String()))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &run, nil
}

// Runs returns up to limit runs, newest first. limit <= 0 returns all.
func (j *Journal) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := j.runs.ForEach(nil, func(key, value []byte) error {
		var run Run
		if err := json.Unmarshal(value, &run); err != nil {
			return fmt.Errorf("decode run %s: %w", key, err)
		}
		runs = append(runs, run)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].StartedAt.After(runs[b].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Records returns the records of a run in send order.
func (j *Journal) Records(id uuid.UUID) ([]Record, error) {
	var recs []Record
	err := j.records.ForEach([]byte(id.String()+"/"), func(key, value []byte) error {
		var rec Record
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("decode record %s: %w", key, err)
		}
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

// Clear deletes every run and record.
func (j *Journal) Clear() error {
	if err := j.records.DeleteAll(); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	if err := j.runs.DeleteAll(); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	log.Storage.Info().Msg("Transfer journal cleared")
	return nil
}

// recordKey orders records by index within a run.
func recordKey(id uuid.UUID, index int) []byte {
	return []byte(fmt.Sprintf("%s/%08d", id, index))
}

// putter is satisfied by both storage.DB and storage.Batch.
type putter interface {
	Put(key, value []byte) error
}

func (j *Journal) putRun(dst putter, run *Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	return dst.Put(withPrefix(prefixRuns, []byte(run.ID.String())), data)
}

func withPrefix(prefix, key []byte) []byte {
	return append(append([]byte{}, prefix...), key...)
}
