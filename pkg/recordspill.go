// Package pkg provides small reusable utilities for gnaw.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// RecordSpill is a disk-backed append-only log of records of type T. gnaw
// uses it as the trial aggregation sink so a run over a large catalog never
// holds every outcome record in memory. Appends are serialized; one append
// per completed trial.
type RecordSpill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	Range(f func(index uint64, item T) error) error
	Close() error
}

type recordSpillImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// NewRecordSpill creates a RecordSpill backed by a fresh temp file.
func NewRecordSpill[T any]() (RecordSpill[T], error) {
	file, err := os.CreateTemp("", "gnaw-spill-*.gob")
	if err != nil {
		slog.Error("failed to create spill file", "error", err)
		return nil, fmt.Errorf("failed to create spill file: %w", err)
	}

	slog.Debug("created record spill", "path", file.Name())

	return &recordSpillImpl[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Append serializes one record to the end of the log.
func (r *recordSpillImpl[T]) Append(item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.encoder.Encode(item); err != nil {
		slog.Error("failed to encode record", "path", r.path, "index", r.length, "error", err)
		return fmt.Errorf("failed to encode record: %w", err)
	}

	r.length++

	return nil
}

// Len returns the number of records appended so far.
func (r *recordSpillImpl[T]) Len() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.length
}

// Path returns the backing file location.
func (r *recordSpillImpl[T]) Path() string {
	return r.path
}

// Range replays every record in append order until fn returns an error.
func (r *recordSpillImpl[T]) Range(fn func(index uint64, item T) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := os.Open(r.path)
	if err != nil {
		slog.Error("failed to open spill for range", "path", r.path, "error", err)
		return fmt.Errorf("failed to open spill file: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spill file", "path", r.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	for i := range r.length {
		// A fresh zero value per record: gob omits zero-valued fields on
		// encode, so decoding into a reused variable would leak field
		// values from the previous record.
		var item T

		if err := decoder.Decode(&item); err != nil {
			return fmt.Errorf("failed to decode record at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// Close closes and deletes the backing file.
func (r *recordSpillImpl[T]) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}

	if err := r.file.Close(); err != nil {
		slog.Error("failed to close spill file", "path", r.path, "error", err)
		return err
	}

	r.file = nil

	return os.Remove(r.path)
}
