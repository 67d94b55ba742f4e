package cif

import "strings"

// Tokenize scans a CIF/mmCIF source blob into a token stream. Line
// endings are normalized to '\n' first (LF, CRLF, and bare CR are all
// accepted on input per spec.md §6.1); byte offsets on the returned
// tokens are relative to the normalized buffer, which is also what any
// caller reconstructing source spans from a ParseError should use.
//
// Every byte of the normalized input is covered by exactly one of:
// whitespace, a KindComment token, or exactly one other token (P2,
// spec.md §8). A span that matches no recognition rule becomes a single
// KindBad token covering that span.
func Tokenize(src []byte) []Token {
	norm := normalizeLineEndings(src)
	lx := &lexer{src: norm}
	var toks []Token

	for {
		lx.skipWhitespace()
		if lx.peek() == eof {
			break
		}
		start := lx.pos
		tok, matched := lx.scanOne()
		if !matched {
			// Recognition rule 11: nothing matched. Consume at least one
			// byte so the scan always makes progress, and prefer to
			// consume the rest of the malformed word if one is in
			// progress (e.g. an unterminated quote already advanced
			// lx.pos past `start`).
			if lx.pos == start {
				lx.next()
			}
			tok = Token{Kind: KindBad, Text: string(norm[start:lx.pos]), Start: start, End: lx.pos}
		}
		toks = append(toks, tok)
	}

	return postProcessFrameTerminators(toks)
}

func (lx *lexer) skipWhitespace() {
	for isWhiteSpace(lx.peek()) {
		lx.next()
	}
}

// scanOne applies the priority-ordered recognition rules of spec.md §4.A
// at the current position and returns the resulting token. ok is false
// only when no rule matched (including malformed quotes/text fields that
// could not find a valid closing delimiter).
func (lx *lexer) scanOne() (Token, bool) {
	start := lx.pos

	// Rule 1: text field, only legal at line start.
	if lx.atLineStart() && lx.peek() == ';' {
		lx.next() // consume leading ';'
		text, end, ok := lx.lexTextField()
		if !ok {
			lx.pos = end
			return Token{}, false
		}
		tokEnd := end
		lx.pos = tokEnd
		return Token{Kind: KindValueField, Text: text, Start: start, End: tokEnd}, true
	}

	// Rule 2: comment to end of line.
	if lx.peek() == '#' {
		lx.next()
		cstart := lx.pos
		for lx.peek() != '\n' && lx.peek() != eof {
			lx.next()
		}
		return Token{Kind: KindComment, Text: string(lx.src[cstart:lx.pos]), Start: start, End: lx.pos}, true
	}

	// Rule 3/4: quoted values.
	if lx.peek() == '\'' || lx.peek() == '"' {
		quote := lx.peek()
		lx.next()
		text, ok := lx.lexQuoted(quote)
		if !ok {
			return Token{}, false
		}
		kind := KindValueQuoted
		if quote == '"' {
			kind = KindValueDoubleQuoted
		}
		return Token{Kind: kind, Text: text, Start: start, End: lx.pos}, true
	}

	// Everything else is bounded by whitespace/EOF: read the whole word
	// and classify it (rules 5-10 all act on the run as a unit, since
	// data_/save_/loop_/stop_/global_ are only meaningful as the prefix
	// of a single unbroken token).
	if lx.peek() == '_' {
		lx.next()
		lx.ignore() // drop the leading '_' from Text
		word := lx.scanWord()
		return Token{Kind: KindName, Text: word, Start: start, End: lx.pos}, true
	}

	if isWordLeadChar(lx.peek()) {
		word := lx.scanWord()
		return classifyWord(word, start, lx.pos), true
	}

	return Token{}, false
}

// isWordLeadChar reports whether b may legally begin an unquoted value,
// a reserved keyword, or a bracket/frame-reference construct. Excluded:
// whitespace, '_', '#', quotes, and (implicitly, since it's handled by
// rule 1) a line-leading ';'. Words starting with '$', '[' or ']' are
// accepted here and classified as reserved tokens by classifyWord.
func isWordLeadChar(b int) bool {
	switch b {
	case eof, ' ', '\t', '\n', '_', '#', '\'', '"':
		return false
	}
	return true
}

// classifyWord applies recognition rules 6-10 to an already-scanned
// whitespace-delimited word.
func classifyWord(word string, start, end int) Token {
	switch {
	case hasFoldPrefix(word, "loop_"):
		return Token{Kind: KindLoop, Text: word, Start: start, End: end}
	case hasFoldPrefix(word, "data_"):
		return Token{Kind: KindBlockCode, Text: word[len("data_"):], Start: start, End: end}
	case hasFoldPrefix(word, "save_"):
		return Token{Kind: KindFrameCode, Text: word[len("save_"):], Start: start, End: end}
	case hasFoldPrefix(word, "stop_"):
		return Token{Kind: KindStop, Text: word, Start: start, End: end}
	case hasFoldPrefix(word, "global_"):
		return Token{Kind: KindGlobal, Text: word, Start: start, End: end}
	case strings.HasPrefix(word, "$"):
		return Token{Kind: KindFrameRef, Text: word[1:], Start: start, End: end}
	case strings.HasPrefix(word, "[") || strings.HasPrefix(word, "]"):
		return Token{Kind: KindBrackets, Text: word, Start: start, End: end}
	default:
		return Token{Kind: KindValue, Text: word, Start: start, End: end}
	}
}

// postProcessFrameTerminators rewrites the empty-text FrameCode tokens
// produced by the "save_" prefix match into FrameEnd tokens, per spec.md
// §3 ("save_X including the empty 'save_' terminator, distinguished in
// post-processing").
func postProcessFrameTerminators(toks []Token) []Token {
	for i, t := range toks {
		if t.Kind == KindFrameCode && t.Text == "" {
			toks[i].Kind = KindFrameEnd
		}
	}
	return toks
}

// normalizeLineEndings rewrites CRLF and bare-CR sequences to LF. Doing
// this once up front keeps the rest of the tokenizer (and every byte
// offset it reports) dealing with a single newline convention.
func normalizeLineEndings(src []byte) []byte {
	if !containsCR(src) {
		return src
	}
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '\r' {
			out = append(out, '\n')
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			continue
		}
		out = append(out, src[i])
	}
	return out
}

func containsCR(src []byte) bool {
	for _, b := range src {
		if b == '\r' {
			return true
		}
	}
	return false
}
