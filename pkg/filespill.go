// Package pkg provides shared utilities for the sema CLI.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// spillDirName is created under the system temp directory on first use.
const spillDirName = "sema-spill"

// FileSpill buffers a stream of records on disk so analysis runs over large
// unit trees keep a flat memory profile. Records are append-only; reads
// decode the backing file sequentially.
type FileSpill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Get(index uint64) (T, error)
	Range(f func(index uint64, item T) error) error
	Close() error
}

type fileSpill[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// NewFileSpill creates a disk-backed spill for records of type T.
func NewFileSpill[T any]() (FileSpill[T], error) {
	dir := filepath.Join(os.TempDir(), spillDirName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create spill directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, "records-*.gob")
	if err != nil {
		return nil, fmt.Errorf("create spill file in %s: %w", dir, err)
	}

	slog.Debug("created spill", "path", file.Name())

	return &fileSpill[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Path returns the backing file's location.
func (f *fileSpill[T]) Path() string {
	return f.path
}

// Len returns the number of records appended so far.
func (f *fileSpill[T]) Len() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.length
}

// Append encodes one record to the backing file.
func (f *fileSpill[T]) Append(item T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.encoder.Encode(item); err != nil {
		return fmt.Errorf("encode record %d in %s: %w", f.length, f.path, err)
	}

	f.length++

	return nil
}

// AppendBatch encodes records one after another, stopping at the first
// failure.
func (f *fileSpill[T]) AppendBatch(items []T) error {
	for _, item := range items {
		if err := f.Append(item); err != nil {
			return err
		}
	}

	return nil
}

// Get decodes the record at index. Gob streams have no random access, so
// this reads the file from the start; Range is the cheap way to visit all
// records.
func (f *fileSpill[T]) Get(index uint64) (T, error) {
	var item T

	f.mu.Lock()
	defer f.mu.Unlock()

	if index >= f.length {
		return item, fmt.Errorf("index %d out of bounds (length %d)", index, f.length)
	}

	err := f.decodeSequential(index+1, func(_ uint64, decoded T) error {
		item = decoded
		return nil
	})

	return item, err
}

// Range decodes every record in append order and hands it to fn. The first
// error from fn stops the iteration.
func (f *fileSpill[T]) Range(fn func(index uint64, item T) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.decodeSequential(f.length, fn)
}

// Close releases the write handle. The backing file stays readable until the
// process exits.
func (f *fileSpill[T]) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}

	err := f.file.Close()
	f.file = nil

	if err != nil {
		return fmt.Errorf("close spill %s: %w", f.path, err)
	}

	return nil
}

// decodeSequential replays the first count records. Callers must hold the
// mutex.
func (f *fileSpill[T]) decodeSequential(count uint64, fn func(index uint64, item T) error) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("open spill %s: %w", f.path, err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("Failed to close spill", "path", f.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := uint64(0); i < count; i++ {
		if err := decoder.Decode(&item); err != nil {
			return fmt.Errorf("decode record %d in %s: %w", i, f.path, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}
