package cif

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasic(t *testing.T) {
	src := []byte("data_1CTF\n_entry.id 1ctf\n_entry.name 'andrew''s pet'\n")
	toks := Tokenize(src)

	require.NotEmpty(t, toks)
	assert.Equal(t, KindBlockCode, toks[0].Kind)
	assert.Equal(t, "1CTF", toks[0].Text)
	assert.Equal(t, KindName, toks[1].Kind)
	assert.Equal(t, "entry.id", toks[1].Text)
	assert.Equal(t, KindValue, toks[2].Kind)
	assert.Equal(t, "1ctf", toks[2].Text)
	assert.Equal(t, KindName, toks[3].Kind)
	assert.Equal(t, "entry.name", toks[3].Text)
	assert.Equal(t, KindValueQuoted, toks[4].Kind)
	assert.Equal(t, "andrew''s pet", toks[4].Text)
}

func TestTokenizeEmbeddedQuoteRequiresBoundary(t *testing.T) {
	// An apostrophe immediately followed by a non-blank character is not a
	// closing quote (spec.md §4.A rule 3): "it's" stays inside the value.
	toks := Tokenize([]byte("_x 'it's ok'\n"))
	require.Len(t, toks, 2)
	assert.Equal(t, KindValueQuoted, toks[1].Kind)
	assert.Equal(t, "it's ok", toks[1].Text)
}

func TestTokenizeTextField(t *testing.T) {
	src := []byte("_x\n;line one\nline two  \n;\n")
	toks := Tokenize(src)
	require.Len(t, toks, 2)
	assert.Equal(t, KindValueField, toks[1].Kind)
	assert.Equal(t, "line one\nline two", toks[1].Text)
}

func TestTokenizeUnterminatedTextFieldIsBad(t *testing.T) {
	toks := Tokenize([]byte(";unterminated\nstill going"))
	require.NotEmpty(t, toks)
	assert.Equal(t, KindBad, toks[0].Kind)
}

func TestTokenizeComment(t *testing.T) {
	toks := Tokenize([]byte("# a comment\ndata_x\n"))
	require.Len(t, toks, 2)
	assert.Equal(t, KindComment, toks[0].Kind)
	assert.Equal(t, " a comment", toks[0].Text)
	assert.Equal(t, KindBlockCode, toks[1].Kind)
}

func TestTokenizeReservedWords(t *testing.T) {
	toks := Tokenize([]byte("loop_ stop_ global_\n"))
	require.Len(t, toks, 3)
	assert.Equal(t, KindLoop, toks[0].Kind)
	assert.Equal(t, KindStop, toks[1].Kind)
	assert.Equal(t, KindGlobal, toks[2].Kind)
}

func TestTokenizeFrameCodeAndTerminator(t *testing.T) {
	toks := Tokenize([]byte("save_frame1\n_x 1\nsave_\n"))
	require.Len(t, toks, 4)
	assert.Equal(t, KindFrameCode, toks[0].Kind)
	assert.Equal(t, "frame1", toks[0].Text)
	assert.Equal(t, KindFrameEnd, toks[3].Kind)
	assert.Equal(t, "", toks[3].Text)
}

func TestTokenizeCRLFNormalized(t *testing.T) {
	toks := Tokenize([]byte("data_x\r\n_a 1\r\n"))
	require.Len(t, toks, 3)
	assert.Equal(t, KindBlockCode, toks[0].Kind)
	assert.Equal(t, KindName, toks[1].Kind)
	assert.Equal(t, KindValue, toks[2].Kind)
}

func TestTokenizeTotality(t *testing.T) {
	// Every byte is covered by a token or whitespace/comment (P2): building
	// the source back up from adjacent token spans plus the gaps between
	// them should reproduce it.
	src := []byte("data_x\n_a.b 'c d' \"e f\"\nloop_ _a _b\n1 2\n3 4\n")
	toks := Tokenize(src)
	prev := 0
	for _, tok := range toks {
		require.GreaterOrEqual(t, tok.End, tok.Start)
		require.GreaterOrEqual(t, tok.Start, prev)
		assert.Empty(t, strings.TrimSpace(string(src[prev:tok.Start])))
		prev = tok.End
	}
	assert.Empty(t, strings.TrimSpace(string(src[prev:])))
}

func TestTokenizeBracketsAndFrameRefAreReserved(t *testing.T) {
	toks := Tokenize([]byte("[bracketed] $frameref\n"))
	require.Len(t, toks, 2)
	assert.Equal(t, KindBrackets, toks[0].Kind)
	assert.Equal(t, KindFrameRef, toks[1].Kind)
	assert.Equal(t, "frameref", toks[1].Text)
}
