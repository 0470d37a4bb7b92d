// Package memory owns the append-only conversation log. Records are only
// ever added (or wiped wholesale by Clear); insertion order is the
// conversation timeline.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type Record struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// document is the on-disk layout.
type document struct {
	History []Record `json:"history"`
}

type Log struct {
	mu      sync.RWMutex
	path    string
	records []Record
}

// Open loads the log document at path; a missing or corrupt file yields
// an empty log rather than an error.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure memory dir: %w", err)
	}
	l := &Log{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return l, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return l, nil
	}
	l.records = doc.History
	return l, nil
}

// Append adds one record with a timestamp assigned now. Timestamps are
// kept non-decreasing even if the wall clock steps backwards. The record
// is held in memory only; callers persist via Save.
func (l *Log) Append(role, content string) Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now()
	if n := len(l.records); n > 0 && ts.Before(l.records[n-1].Timestamp) {
		ts = l.records[n-1].Timestamp
	}
	rec := Record{Role: role, Content: content, Timestamp: ts}
	l.records = append(l.records, rec)
	return rec
}

// All returns a copy of the full log.
func (l *Log) All() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Recent returns a copy of the last n records in original order.
func (l *Log) Recent(n int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]Record, n)
	copy(out, l.records[len(l.records)-n:])
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Save persists the full log synchronously (temp file + rename).
func (l *Log) Save() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saveLocked()
}

// Clear wipes the log and persists the empty document immediately.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	return l.saveLocked()
}

func (l *Log) saveLocked() error {
	recs := l.records
	if recs == nil {
		recs = []Record{}
	}
	data, err := json.MarshalIndent(document{History: recs}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write memory: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("commit memory: %w", err)
	}
	return nil
}
