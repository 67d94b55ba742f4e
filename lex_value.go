package cif

import "strings"

// lexQuoted scans a value delimited by quote (' or "). The opening quote
// has already been consumed and ignored. An embedded quote is legal CIF
// ("andrew's pet" inside single quotes) as long as the character
// immediately following it is not whitespace and not end-of-input — the
// rule from spec.md §4.A(3,4), carried over from BurntSushi-cif's
// lexValueQuoted. A newline before a valid closing quote means the
// construct is malformed; the scan stops there and the caller emits a
// Bad token for what was consumed, leaving the newline to be picked up as
// whitespace on the next iteration (this keeps totality, P2, without
// letting one bad quote swallow the rest of the file).
func (lx *lexer) lexQuoted(quote int) (text string, ok bool) {
	start := lx.pos
	for {
		r := lx.peek()
		if r == '\n' {
			return string(lx.src[start:lx.pos]), false
		}
		if r == eof {
			return string(lx.src[start:lx.pos]), false
		}
		lx.next()
		if r == quote {
			after := lx.peek()
			if isBlankOrEOF(after) {
				return string(lx.src[start : lx.pos-1]), true
			}
		}
	}
}

// lexTextField scans a semicolon-delimited text field. lx.pos is
// positioned just after the opening ';' (already consumed and ignored by
// the caller). Per spec.md §4.A(1): the closing ';' must appear at the
// start of a line and be followed by whitespace or EOF; leading
// whitespace within lines is preserved, trailing whitespace on each line
// is elided.
func (lx *lexer) lexTextField() (text string, tokenEnd int, ok bool) {
	contentStart := lx.pos
	for {
		nl := indexByte(lx.src, '\n', lx.pos)
		if nl < 0 {
			// No more newlines: the field cannot be closed.
			return string(lx.src[contentStart:]), len(lx.src), false
		}
		lx.pos = nl + 1
		if lx.pos < len(lx.src) && lx.src[lx.pos] == ';' {
			after := eof
			if lx.pos+1 < len(lx.src) {
				after = int(lx.src[lx.pos+1])
			}
			if isBlankOrEOF(after) {
				content := lx.src[contentStart:nl]
				return stripTrailingPerLine(string(content)), lx.pos + 1, true
			}
		}
	}
}

func indexByte(b []byte, c byte, from int) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// stripTrailingPerLine elides trailing spaces/tabs from each line while
// preserving leading whitespace and the newlines between lines.
func stripTrailingPerLine(s string) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	return strings.Join(lines, "\n")
}

// scanWord consumes the run of non-whitespace bytes starting at the
// current position (the generic "token boundaries are whitespace or EOF"
// rule of spec.md §4.A) and returns it without consuming surrounding
// whitespace.
func (lx *lexer) scanWord() string {
	start := lx.pos
	for {
		r := lx.peek()
		if r == eof || isWhiteSpace(r) {
			break
		}
		lx.next()
	}
	return string(lx.src[start:lx.pos])
}

func hasFoldPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

func equalFold(a, b string) bool { return strings.EqualFold(a, b) }
