/*
Copyright © 2025 Logicos Software

atomic.go implements atomic file write operations.

This module provides safe file writing by:
  - Writing to a temporary file in the same directory
  - Using atomic rename to replace the target file
  - Cleaning up temporary files on failure
  - Preserving the previous output on any error

A merge that stops on a malformed digit or an interrupt therefore never
leaves a half-written output file behind.
*/
package cmd

import (
	"os"
	"path/filepath"
)

// outputPerm is the mode of files written by nibblemerge.
const outputPerm = 0o644

// AtomicWriter provides atomic file write operations.
// It writes to a temporary file and atomically renames on Commit.
type AtomicWriter struct {
	targetPath string
	tempPath   string
	tempFile   *os.File
	written    int64
	committed  bool
}

// NewAtomicWriter creates a new AtomicWriter for the given target path.
// The file will be written to a temporary location and atomically
// renamed to the target path when Commit() is called.
//
// The temporary file is created in the same directory as the target
// to ensure atomic rename is possible (same filesystem).
//
// If the target file already exists and allowOverwrite is false,
// returns an error.
func NewAtomicWriter(targetPath string, allowOverwrite bool) (*AtomicWriter, error) {
	// Check if target exists
	if !allowOverwrite {
		if _, err := os.Stat(targetPath); err == nil {
			return nil, ErrFileAlreadyExists(targetPath)
		}
	}

	dir := filepath.Dir(targetPath)
	base := filepath.Base(targetPath)

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ErrFilePermission(dir, err)
	}

	tempPath := filepath.Join(dir, "."+base+".tmp")
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, outputPerm)
	if err != nil {
		return nil, ErrFilePermission(tempPath, err)
	}

	return &AtomicWriter{
		targetPath: targetPath,
		tempPath:   tempPath,
		tempFile:   tempFile,
	}, nil
}

// Write implements io.Writer.
func (w *AtomicWriter) Write(p []byte) (n int, err error) {
	n, err = w.tempFile.Write(p)
	w.written += int64(n)
	return n, err
}

// Written returns the number of bytes written so far.
func (w *AtomicWriter) Written() int64 {
	return w.written
}

// Commit atomically renames the temp file to the target.
// An empty file is committed as well: zero merged bytes is a valid result.
func (w *AtomicWriter) Commit() error {
	if w.committed {
		return nil
	}

	// Sync to ensure all data is on disk
	if err := w.tempFile.Sync(); err != nil {
		w.Abort()
		return err
	}

	// Close the temp file before rename
	if err := w.tempFile.Close(); err != nil {
		os.Remove(w.tempPath)
		return err
	}

	// Atomic rename
	if err := os.Rename(w.tempPath, w.targetPath); err != nil {
		os.Remove(w.tempPath)
		return ErrAtomicWriteFailed(w.targetPath, err)
	}

	w.committed = true
	return nil
}

// Abort cancels the write operation and removes the temp file.
// It is a no-op after a successful Commit, so it is safe to defer.
func (w *AtomicWriter) Abort() {
	if w.committed {
		return
	}
	w.tempFile.Close()
	os.Remove(w.tempPath)
}

// WriteFileAtomic writes data to a file atomically.
func WriteFileAtomic(path string, data []byte, allowOverwrite bool) error {
	writer, err := NewAtomicWriter(path, allowOverwrite)
	if err != nil {
		return err
	}
	defer writer.Abort() // Clean up on failure

	if _, err := writer.Write(data); err != nil {
		return err
	}

	return writer.Commit()
}
