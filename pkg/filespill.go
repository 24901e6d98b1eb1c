// Package pkg provides shared utilities for oxmut.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// FileSpill stores a sequence of items of type T on disk so large work
// lists don't have to stay resident in memory.
type FileSpill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Get(index uint64) (T, error)
	Range(f func(index uint64, item T) error) error
	Close() error
}

type fileSpillImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// Append implements FileSpill.
func (f *fileSpillImpl[T]) Append(item T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.encoder.Encode(item); err != nil {
		slog.Error("failed to encode item", "path", f.path, "index", f.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	f.length++

	return nil
}

// Path implements FileSpill.
func (f *fileSpillImpl[T]) Path() string {
	return f.path
}

// AppendBatch implements FileSpill.
func (f *fileSpillImpl[T]) AppendBatch(items []T) error {
	for _, item := range items {
		if err := f.Append(item); err != nil {
			return err
		}
	}

	return nil
}

// Close implements FileSpill.
func (f *fileSpillImpl[T]) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file != nil {
		if err := f.file.Close(); err != nil {
			slog.Error("failed to close spill file", "path", f.path, "error", err)
			return err
		}

		slog.Debug("closed spill", "path", f.path, "length", f.length)
	}

	return nil
}

// Get implements FileSpill. Access is sequential under the hood, so Get is
// linear in index; prefer Range for full traversals.
func (f *fileSpillImpl[T]) Get(index uint64) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index >= f.length {
		var zero T

		return zero, fmt.Errorf("index %d out of bounds (length %d)", index, f.length)
	}

	file, err := os.Open(f.path)
	if err != nil {
		var zero T

		return zero, fmt.Errorf("failed to open spill file: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spill file", "path", f.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := uint64(0); i <= index; i++ {
		if err := decoder.Decode(&item); err != nil {
			var zero T

			return zero, fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}
	}

	return item, nil
}

// Len implements FileSpill.
func (f *fileSpillImpl[T]) Len() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.length
}

// Range implements FileSpill.
func (f *fileSpillImpl[T]) Range(fn func(index uint64, item T) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("failed to open spill file: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spill file", "path", f.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := range f.length {
		if err := decoder.Decode(&item); err != nil {
			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// NewFileSpill creates a new FileSpill for items of type T backed by a
// temporary file.
func NewFileSpill[T any]() (FileSpill[T], error) {
	file, err := os.CreateTemp("", "oxmut-spill-*.gob")
	if err != nil {
		return nil, fmt.Errorf("failed to create spill file: %w", err)
	}

	slog.Debug("created spill", "path", file.Name())

	return &fileSpillImpl[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
		length:  0,
	}, nil
}
