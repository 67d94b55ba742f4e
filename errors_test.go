package cif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorKindSeverity(t *testing.T) {
	assert.Equal(t, SeverityInvalid, ErrBlockCodeDuplicate.Severity())
	assert.Equal(t, SeverityInvalid, ErrFrameCodeDuplicate.Severity())
	assert.Equal(t, SeverityInvalid, ErrDataNameDuplicate.Severity())
	assert.Equal(t, SeverityInvalid, ErrTableIncomplete.Severity())
	assert.Equal(t, SeverityInvalid, ErrFileIncomplete.Severity())
	assert.Equal(t, SeverityAmbiguous, ErrTokenUnexpected.Severity())
	assert.Equal(t, SeverityAmbiguous, ErrTokenReserved.Severity())
	assert.Equal(t, SeverityRecoverable, ErrBlockCodeEmpty.Severity())
}

func TestParseErrorKindString(t *testing.T) {
	assert.Equal(t, "block_code_duplicate", ErrBlockCodeDuplicate.String())
	assert.Equal(t, "token_bad", ErrTokenBad.String())
	assert.Contains(t, ParseErrorKind(999).String(), "parse_error")
}

func TestParseErrorsEmpty(t *testing.T) {
	var pe *ParseErrors
	assert.True(t, pe.Empty())

	pe = &ParseErrors{}
	assert.True(t, pe.Empty())
	pe.add(&ParseError{Kind: ErrBlockCodeEmpty})
	assert.False(t, pe.Empty())
}

func TestParseErrorsMaxSeverity(t *testing.T) {
	pe := &ParseErrors{}
	assert.Equal(t, Severity(0), pe.MaxSeverity())

	pe.add(&ParseError{Kind: ErrBlockCodeEmpty})
	assert.Equal(t, SeverityRecoverable, pe.MaxSeverity())

	pe.add(&ParseError{Kind: ErrTokenUnexpected})
	assert.Equal(t, SeverityAmbiguous, pe.MaxSeverity())

	pe.add(&ParseError{Kind: ErrBlockCodeDuplicate})
	assert.Equal(t, SeverityAmbiguous, pe.MaxSeverity())
}

func TestParseErrorsAtOrAbove(t *testing.T) {
	pe := &ParseErrors{}
	pe.add(&ParseError{Kind: ErrBlockCodeEmpty})      // recoverable
	pe.add(&ParseError{Kind: ErrBlockCodeDuplicate})  // invalid
	pe.add(&ParseError{Kind: ErrTokenUnexpected})     // ambiguous

	invalidOrAbove := pe.AtOrAbove(SeverityInvalid)
	require.Len(t, invalidOrAbove, 2)
	assert.Equal(t, ErrBlockCodeDuplicate, invalidOrAbove[0].Kind)
	assert.Equal(t, ErrTokenUnexpected, invalidOrAbove[1].Kind)

	all := pe.AtOrAbove(SeverityRecoverable)
	assert.Len(t, all, 3)

	none := pe.AtOrAbove(Severity(99))
	assert.Empty(t, none)
}

func TestParseErrorsAsError(t *testing.T) {
	pe := &ParseErrors{}
	assert.Nil(t, pe.AsError())

	pe.add(&ParseError{Kind: ErrBlockCodeEmpty, TokenIndex: 3, Start: 0, End: 5})
	err := pe.AsError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block_code_empty")
}

func TestParseErrorMessageFormatting(t *testing.T) {
	e := &ParseError{Kind: ErrTokenBad, TokenIndex: 2, Start: 4, End: 9}
	assert.Equal(t, "token_bad at token 2 [4,9)", e.Error())

	e2 := &ParseError{Kind: ErrTokenBad, TokenIndex: 2, Start: 4, End: 9, Message: "unterminated text field"}
	assert.Equal(t, "token_bad at token 2 [4,9): unterminated text field", e2.Error())
}

func TestReadErrorUnwrapAndMessage(t *testing.T) {
	pe := &ParseErrors{}
	pe.add(&ParseError{Kind: ErrDataNameDuplicate, TokenIndex: 1, Start: 0, End: 3})
	re := &ReadError{Errors: pe}

	assert.Contains(t, re.Error(), "1 parse error")
	require.NotNil(t, re.Unwrap())
	assert.Contains(t, re.Unwrap().Error(), "data_name_duplicate")
}
