// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeerr defines the error taxonomy shared by the publishing
// pipeline. Every failure surfaced across a component boundary is an
// *Error tagged with a Kind, so callers can branch on the failure class
// without string matching, and log with enough context (stage, file,
// document) to be useful.
package pipeerr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	// KindValidation marks request or image policy violations. The caller
	// can recover by correcting its input; never retried.
	KindValidation Kind = "validation"

	// KindProcessing marks codec or transform failures (metadata
	// extraction, optimization, conversion, watermarking).
	KindProcessing Kind = "processing"

	// KindAssetUpload marks remote asset upload/delete failures.
	KindAssetUpload Kind = "asset_upload"

	// KindDocument marks remote document create/patch/delete failures.
	KindDocument Kind = "document"

	// KindConfiguration marks missing or invalid store credentials.
	// Fatal at construction time.
	KindConfiguration Kind = "configuration"
)

// Error is the single error type used across the pipeline. Only the
// fields relevant to the Kind are populated.
type Error struct {
	Kind     Kind
	Message  string
	Stage    string // processing stage or document operation name
	FileName string // offending file, for processing/upload errors
	DocType  string // document type, for document errors
	DocID    string // document id, for document errors
	Err      error  // underlying cause, if any
}

// Error renders the kind, context, and cause in a single line.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Stage != "" && e.FileName != "":
		return fmt.Sprintf("%s: %s (%s): %s", e.Kind, e.Stage, e.FileName, msg)
	case e.Stage != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Stage, msg)
	case e.FileName != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.FileName, msg)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
}

// Unwrap exposes the underlying cause to errors.Is/errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// Validation creates a validation error for a request or policy violation.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Processing wraps a codec/transform failure with its stage and file name.
func Processing(stage, fileName string, err error) *Error {
	return &Error{Kind: KindProcessing, Stage: stage, FileName: fileName, Err: err}
}

// Upload wraps a remote asset failure with the offending file name.
func Upload(fileName string, err error) *Error {
	return &Error{Kind: KindAssetUpload, FileName: fileName, Err: err}
}

// Document wraps a remote document failure with the operation, document
// type, and id when known.
func Document(op, docType, docID string, err error) *Error {
	return &Error{Kind: KindDocument, Stage: op, DocType: docType, DocID: docID, Err: err}
}

// Config creates a configuration error. These are fatal at construction
// time and never recovered.
func Config(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) is a pipeline Error
// of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
