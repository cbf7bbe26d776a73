// Package activity keeps the user-facing log of what the tool is doing.
package activity

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is how many entries a Log keeps before dropping the oldest.
const DefaultCapacity = 500

// Kind classifies an entry.
type Kind string

// Entry kinds.
const (
	KindInfo       Kind = "info"
	KindSuccess    Kind = "success"
	KindError      Kind = "error"
	KindProcessing Kind = "processing"
	KindWarning    Kind = "warning"
)

// Symbol returns the glyph shown next to entries of this kind.
func (k Kind) Symbol() string {
	switch k {
	case KindSuccess:
		return "✅"
	case KindError:
		return "❌"
	case KindProcessing:
		return "⏳"
	case KindWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// Entry is one line of the activity log.
type Entry struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// String renders the entry as "15:04:05 ✅ message".
func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s", e.Time.Format("15:04:05"), e.Kind.Symbol(), e.Message)
}

// Sink receives every entry as it is added.
type Sink interface {
	Write(Entry)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Entry)

// Write calls f(e).
func (f SinkFunc) Write(e Entry) { f(e) }

// Log is a bounded, newest-first activity log. It is safe for concurrent use.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry // oldest first; reversed on read
	capacity int
	sinks    []Sink
	now      func() time.Time
}

// New creates a log holding up to capacity entries (DefaultCapacity if <= 0).
func New(capacity int, sinks ...Sink) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity, sinks: sinks, now: time.Now}
}

// AddSink registers another sink for future entries.
func (l *Log) AddSink(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// Add appends an entry and fans it out to the sinks.
func (l *Log) Add(kind Kind, msg string) Entry {
	e := Entry{ID: uuid.New(), Kind: kind, Message: msg, Time: l.now()}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
	sinks := append([]Sink(nil), l.sinks...)
	l.mu.Unlock()

	for _, s := range sinks {
		s.Write(e)
	}
	return e
}

// Info logs an informational entry.
func (l *Log) Info(format string, args ...interface{}) {
	l.Add(KindInfo, fmt.Sprintf(format, args...))
}

// Success logs a success entry.
func (l *Log) Success(format string, args ...interface{}) {
	l.Add(KindSuccess, fmt.Sprintf(format, args...))
}

// Error logs an error entry.
func (l *Log) Error(format string, args ...interface{}) {
	l.Add(KindError, fmt.Sprintf(format, args...))
}

// Processing logs an in-progress entry.
func (l *Log) Processing(format string, args ...interface{}) {
	l.Add(KindProcessing, fmt.Sprintf(format, args...))
}

// Warning logs a warning entry.
func (l *Log) Warning(format string, args ...interface{}) {
	l.Add(KindWarning, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(out)-1-i] = e
	}
	return out
}

// Len returns the number of entries held.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops all entries. Sinks are kept.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
