/*
Copyright © 2025 Logicos Software

errors.go implements structured error types for better UX.

This module provides:
  - Categorized error types (Input, File, Format, Config)
  - User-friendly error messages with troubleshooting hints
  - Error wrapping with context preservation
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"nibblemerge/internal/merger"
)

// ErrorCategory represents the type of error for classification.
type ErrorCategory int

const (
	// ErrCategoryUnknown for unclassified errors.
	ErrCategoryUnknown ErrorCategory = iota
	// ErrCategoryInput for command-line input errors.
	ErrCategoryInput
	// ErrCategoryFile for file system errors.
	ErrCategoryFile
	// ErrCategoryFormat for malformed hex input.
	ErrCategoryFormat
	// ErrCategoryConfig for configuration file errors.
	ErrCategoryConfig
)

// String returns a human-readable category name.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryInput:
		return "Input"
	case ErrCategoryFile:
		return "File"
	case ErrCategoryFormat:
		return "Format"
	case ErrCategoryConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

// MergeError is a structured error with category, message, and hint.
type MergeError struct {
	Category ErrorCategory
	Message  string
	Hint     string
	Cause    error
}

// Error implements the error interface.
func (e *MergeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *MergeError) Unwrap() error {
	return e.Cause
}

// FullError returns the error with hint if available.
func (e *MergeError) FullError() string {
	var b strings.Builder
	b.WriteString(e.Error())
	if e.Hint != "" {
		b.WriteString("\n\nHint: ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// ErrNoInputFile indicates the input path argument is missing.
func ErrNoInputFile() *MergeError {
	return &MergeError{
		Category: ErrCategoryInput,
		Message:  "No file provided",
		Hint:     "Pass the hex text file to convert, e.g. 'nibblemerge image.txt'.",
	}
}

// ErrFileNotFound indicates the file doesn't exist.
func ErrFileNotFound(path string, cause error) *MergeError {
	return &MergeError{
		Category: ErrCategoryFile,
		Message:  fmt.Sprintf("file not found: %s", path),
		Hint:     "Check that the file path is correct and the file exists.",
		Cause:    cause,
	}
}

// ErrFilePermission indicates permission denied.
func ErrFilePermission(path string, cause error) *MergeError {
	return &MergeError{
		Category: ErrCategoryFile,
		Message:  fmt.Sprintf("permission denied: %s", path),
		Hint:     "Check that you have read/write permissions for this file and its directory.",
		Cause:    cause,
	}
}

// ErrFileAlreadyExists indicates the output file already exists.
func ErrFileAlreadyExists(path string) *MergeError {
	return &MergeError{
		Category: ErrCategoryFile,
		Message:  fmt.Sprintf("output file already exists: %s", path),
		Hint:     "Use --force to overwrite it, or choose a different output path.",
	}
}

// ErrAtomicWriteFailed indicates atomic write operation failed.
func ErrAtomicWriteFailed(path string, cause error) *MergeError {
	return &MergeError{
		Category: ErrCategoryFile,
		Message:  fmt.Sprintf("atomic write failed for: %s", path),
		Hint:     "The temporary file could not be renamed to the final path. Check disk space and permissions.",
		Cause:    cause,
	}
}

// ErrInvalidHexDigit indicates a character that is not 0-9, A-F or the delimiter.
func ErrInvalidHexDigit(cause *merger.InvalidDigitError) *MergeError {
	hint := "Only 0-9 and uppercase A-F are accepted between delimiters."
	if cause.Char >= 'a' && cause.Char <= 'f' {
		hint = "Lowercase hex digits are not accepted. Convert the input to uppercase first."
	}
	return &MergeError{
		Category: ErrCategoryFormat,
		Message:  "malformed input",
		Hint:     hint,
		Cause:    cause,
	}
}

// ErrInvalidConfig indicates the configuration could not be loaded.
func ErrInvalidConfig(cause error) *MergeError {
	return &MergeError{
		Category: ErrCategoryConfig,
		Message:  "invalid configuration",
		Hint:     "Run 'nibblemerge config init' to write a valid default configuration.",
		Cause:    cause,
	}
}

// ErrInterrupted indicates the run was cancelled before completion.
func ErrInterrupted(cause error) *MergeError {
	return &MergeError{
		Category: ErrCategoryUnknown,
		Message:  "interrupted",
		Hint:     "No output file was written.",
		Cause:    cause,
	}
}

// fileError classifies an error from opening or reading path.
func fileError(path string, err error) *MergeError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrFileNotFound(path, err)
	case errors.Is(err, fs.ErrPermission):
		return ErrFilePermission(path, err)
	}
	return &MergeError{
		Category: ErrCategoryFile,
		Message:  fmt.Sprintf("cannot read: %s", path),
		Cause:    err,
	}
}

// ClassifyError attempts to categorize a generic error into a MergeError.
func ClassifyError(err error) *MergeError {
	if err == nil {
		return nil
	}

	// Check if it's already a MergeError
	var me *MergeError
	if errors.As(err, &me) {
		return me
	}

	// Malformed hex input
	var ide *merger.InvalidDigitError
	if errors.As(err, &ide) {
		return ErrInvalidHexDigit(ide)
	}

	if errors.Is(err, context.Canceled) {
		return ErrInterrupted(err)
	}

	// Check for file errors
	if errors.Is(err, fs.ErrNotExist) {
		return ErrFileNotFound("", err)
	}
	if errors.Is(err, fs.ErrPermission) {
		return ErrFilePermission("", err)
	}

	// Return a generic wrapped error
	return &MergeError{
		Category: ErrCategoryUnknown,
		Message:  err.Error(),
	}
}

// PrintClassifiedError writes a classified error with its hint to w.
func PrintClassifiedError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, "error:", ClassifyError(err).FullError())
}

// ExitWithClassifiedError prints a classified error with hints and exits.
func ExitWithClassifiedError(err error) {
	if err == nil {
		return
	}
	PrintClassifiedError(os.Stderr, err)
	os.Exit(1)
}
