// Package common holds the marker table, error taxonomy, bit-level
// primitives, and numeric helpers shared by jpeg/baseline and jpeg/bmp.
package common

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies why a decode failed. See spec.md §7.
type Kind int

const (
	// IOFailure means the underlying byte source could not be read.
	IOFailure Kind = iota
	// StructuralError means the marker-delimited framing itself is broken:
	// missing SOI/EOI, a marker out of place, an SOS before any SOF.
	StructuralError
	// LengthMismatch means a segment's declared length disagrees with its
	// parsed contents.
	LengthMismatch
	// UnsupportedFeature means the file is well-formed JPEG but uses a
	// feature this decoder deliberately does not implement (§1 Non-goals).
	UnsupportedFeature
	// InvalidReference means a component points at a quantization or
	// Huffman table that was never defined, or a table id is out of range.
	InvalidReference
	// BitstreamError means the entropy-coded payload itself is corrupt:
	// ran past the end, an undecodable Huffman code, or an amplitude
	// category outside its legal bound.
	BitstreamError
)

func (k Kind) String() string {
	switch k {
	case IOFailure:
		return "IOFailure"
	case StructuralError:
		return "StructuralError"
	case LengthMismatch:
		return "LengthMismatch"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case InvalidReference:
		return "InvalidReference"
	case BitstreamError:
		return "BitstreamError"
	default:
		return "UnknownError"
	}
}

// Error is the single failure type every decode stage returns. It carries
// a Kind, the operation that raised it, human-readable context, the
// decode session that produced it, and an optional wrapped cause.
type Error struct {
	Kind      Kind
	Op        string
	Context   string
	SessionID uuid.UUID
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (session %s): %v", e.Op, e.Kind, e.Context, e.SessionID, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s (session %s)", e.Op, e.Kind, e.Context, e.SessionID)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError constructs an Error. cause may be nil for a leaf failure.
func NewError(session uuid.UUID, op string, kind Kind, context string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Context: context, SessionID: session, Err: cause}
}
