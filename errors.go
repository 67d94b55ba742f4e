package cif

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Severity is the collection-vs-raise threshold from spec.md §4.B:
// {1: recoverable, 2: invalid-but-parseable, 3: ambiguous}.
type Severity int

const (
	SeverityRecoverable Severity = 1
	SeverityInvalid     Severity = 2
	SeverityAmbiguous   Severity = 3
)

// ParseErrorKind is the error taxonomy emitted by the parser FSM,
// spec.md §4.B.
type ParseErrorKind int

const (
	ErrBlockCodeDuplicate ParseErrorKind = iota
	ErrBlockCodeEmpty
	ErrFrameCodeDuplicate
	ErrFrameCodeEmpty
	ErrDataNameEmpty
	ErrDataNameMissingCategory
	ErrDataNameDuplicate
	ErrLoopNamed
	ErrTableIncomplete
	ErrTokenBad
	ErrTokenReserved
	ErrTokenUnexpected
	ErrFileIncomplete
)

func (k ParseErrorKind) String() string {
	switch k {
	case ErrBlockCodeDuplicate:
		return "block_code_duplicate"
	case ErrBlockCodeEmpty:
		return "block_code_empty"
	case ErrFrameCodeDuplicate:
		return "frame_code_duplicate"
	case ErrFrameCodeEmpty:
		return "frame_code_empty"
	case ErrDataNameEmpty:
		return "data_name_empty"
	case ErrDataNameMissingCategory:
		return "data_name_missing_category"
	case ErrDataNameDuplicate:
		return "data_name_duplicate"
	case ErrLoopNamed:
		return "loop_named"
	case ErrTableIncomplete:
		return "table_incomplete"
	case ErrTokenBad:
		return "token_bad"
	case ErrTokenReserved:
		return "token_reserved"
	case ErrTokenUnexpected:
		return "token_unexpected"
	case ErrFileIncomplete:
		return "file_incomplete"
	default:
		return fmt.Sprintf("parse_error(%d)", int(k))
	}
}

// Severity classifies each error kind per spec.md §4.B. Duplicate names
// and malformed loops are "invalid but parseable" (2); genuinely
// ambiguous recovery (an unexpected token whose interpretation is a
// guess) is (3); everything structurally recoverable defaults to (1).
func (k ParseErrorKind) Severity() Severity {
	switch k {
	case ErrBlockCodeDuplicate, ErrFrameCodeDuplicate, ErrDataNameDuplicate,
		ErrTableIncomplete, ErrFileIncomplete:
		return SeverityInvalid
	case ErrTokenUnexpected, ErrTokenReserved:
		return SeverityAmbiguous
	default:
		return SeverityRecoverable
	}
}

// ParseError carries structured context for a single collected error:
// token index, byte range, parser state, logical address, and (for
// duplicates) the prior occurrence's location.
type ParseError struct {
	Kind       ParseErrorKind
	TokenIndex int
	Start, End int
	State      ParserState
	Block      string
	Frame      string
	Name       string

	HasPrior    bool
	PriorStart  int
	PriorEnd    int

	Message string
}

func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s at token %d [%d,%d): %s", e.Kind, e.TokenIndex, e.Start, e.End, e.Message)
	}
	return fmt.Sprintf("%s at token %d [%d,%d)", e.Kind, e.TokenIndex, e.Start, e.End)
}

// ParseErrors collects every error discovered during parsing, preserving
// discovery order (spec.md §5). It wraps hashicorp/go-multierror so
// callers who only want a single error value (e.g. to satisfy the `error`
// interface at the Read boundary) get sane formatting for free, while
// still exposing the structured []ParseError slice for programmatic
// inspection.
type ParseErrors struct {
	Errs []*ParseError
}

func (pe *ParseErrors) add(e *ParseError) {
	pe.Errs = append(pe.Errs, e)
}

// Empty reports whether no errors were collected.
func (pe *ParseErrors) Empty() bool { return pe == nil || len(pe.Errs) == 0 }

// MaxSeverity returns the highest severity among collected errors, or 0
// if there are none.
func (pe *ParseErrors) MaxSeverity() Severity {
	var max Severity
	for _, e := range pe.Errs {
		if s := e.Kind.Severity(); s > max {
			max = s
		}
	}
	return max
}

// AtOrAbove returns the subset of errors at or above the given severity,
// preserving discovery order. This is the "filter the returned error list
// by severity after a non-raising read" operation from
// original_source/test/test_reader.py, named explicitly in SPEC_FULL.md §6.3.
func (pe *ParseErrors) AtOrAbove(level Severity) []*ParseError {
	var out []*ParseError
	for _, e := range pe.Errs {
		if e.Kind.Severity() >= level {
			out = append(out, e)
		}
	}
	return out
}

// AsError converts the collected errors into a single Go error via
// hashicorp/go-multierror, or nil if none were collected.
func (pe *ParseErrors) AsError() error {
	if pe.Empty() {
		return nil
	}
	var merr *multierror.Error
	for _, e := range pe.Errs {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

// ReadError is raised by Read when the collected parse errors reach the
// caller's raise_level threshold (spec.md §7.1).
type ReadError struct {
	Errors *ParseErrors
}

func (re *ReadError) Error() string {
	return fmt.Sprintf("cif: read failed with %d parse error(s): %v", len(re.Errors.Errs), re.Errors.AsError())
}

func (re *ReadError) Unwrap() error { return re.Errors.AsError() }
