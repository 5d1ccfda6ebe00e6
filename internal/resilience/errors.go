// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorType represents the category of a stage failure
type ErrorType int

const (
	ErrorTypeUnknown       ErrorType = iota
	ErrorTypeFileAccess              // File missing, unreadable, corrupt or not a PDF
	ErrorTypeMetadata                // Missing or unexpected metadata dictionary
	ErrorTypeRasterization           // Rasterizer missing or page render failure
	ErrorTypeBarcodeDecode           // Barcode region could not be decoded
)

// String returns a short label for the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeFileAccess:
		return "file_access"
	case ErrorTypeMetadata:
		return "metadata"
	case ErrorTypeRasterization:
		return "rasterization"
	case ErrorTypeBarcodeDecode:
		return "barcode_decode"
	default:
		return "unknown"
	}
}

// ErrNoMetadata is returned when a document carries no Info dictionary at all
var ErrNoMetadata = errors.New("document has no metadata dictionary")

// StageError wraps an error raised by one extraction stage.
// Error() is the bare underlying message so it can be printed after "Error: ".
type StageError struct {
	Stage string
	Type  ErrorType
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return e.Stage + " failed"
	}
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a stage error with an explicit type
func NewStageError(stage string, errType ErrorType, err error) *StageError {
	return &StageError{
		Stage: stage,
		Type:  errType,
		Err:   err,
	}
}

// ClassifyError categorizes an error raised by stage.
// Errors that are already StageErrors are returned unchanged.
func ClassifyError(stage string, err error) *StageError {
	if err == nil {
		return nil
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr
	}

	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return NewStageError(stage, ErrorTypeFileAccess, err)
	}

	if errors.Is(err, ErrNoMetadata) {
		return NewStageError(stage, ErrorTypeMetadata, err)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "no such file") || strings.Contains(errStr, "not a pdf") ||
		strings.Contains(errStr, "malformed") || strings.Contains(errStr, "corrupt"):
		return NewStageError(stage, ErrorTypeFileAccess, err)
	case strings.Contains(errStr, "render") || strings.Contains(errStr, "mupdf"):
		return NewStageError(stage, ErrorTypeRasterization, err)
	}

	return NewStageError(stage, ErrorTypeUnknown, err)
}

// TypeOf returns the error type carried by err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Type
	}
	return ErrorTypeUnknown
}

// PanicError converts a recovered panic value into an error
func PanicError(stage string, recovered any) *StageError {
	if err, ok := recovered.(error); ok {
		return ClassifyError(stage, fmt.Errorf("%s panicked: %w", stage, err))
	}
	return NewStageError(stage, ErrorTypeUnknown, fmt.Errorf("%s panicked: %v", stage, recovered))
}
