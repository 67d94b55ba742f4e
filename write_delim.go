package cif

import (
	"regexp"
	"strings"
)

// DelimiterKind names the three ways a string value may be wrapped,
// spec.md §4.E.
type DelimiterKind int

const (
	DelimSingle DelimiterKind = iota
	DelimDouble
	DelimSemicolon
)

var (
	numericLike1 = regexp.MustCompile(`^(\+|-)?[0-9]+(\.[0-9]*([eE](\+|-)?[0-9]+)?)?$`)
	numericLike2 = regexp.MustCompile(`^(\+|-)?\.[0-9]+([eE](\+|-)?[0-9]+)?$`)
)

// CIF-special leading characters that force delimiting even absent
// whitespace, spec.md §4.E.
const specialLead = "_#$'\"[]"

var reservedPrefixes = []string{"data_", "save_"}
var reservedWords = []string{"loop_", "stop_", "global_"}

func isMultiline(s string) bool { return strings.ContainsRune(s, '\n') }

// needsDelimiter reports whether s cannot be written unquoted, per
// spec.md §4.E's five triggers, plus the empty string and (matching BurntSushi-cif's
// formatStr convention) values that would otherwise read back as a
// number.
func needsDelimiter(s string) bool {
	if s == "" {
		return true
	}
	if isMultiline(s) {
		return true
	}
	if strings.ContainsAny(s, " \t\r") {
		return true
	}
	if strings.ContainsRune(specialLead, rune(s[0])) {
		return true
	}
	lower := strings.ToLower(s)
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	for _, w := range reservedWords {
		if lower == w {
			return true
		}
	}
	if numericLike1.MatchString(s) || numericLike2.MatchString(s) {
		return true
	}
	return false
}

// singleQuoteSafe reports whether s may be wrapped in '...': the value
// must contain no ' immediately followed by whitespace or end-of-string,
// spec.md §4.E.
func singleQuoteSafe(s string) bool { return quoteSafe(s, '\'') }

// doubleQuoteSafe is the analogous check for "...".
func doubleQuoteSafe(s string) bool { return quoteSafe(s, '"') }

func quoteSafe(s string, quote byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != quote {
			continue
		}
		if i+1 == len(s) {
			return false
		}
		switch s[i+1] {
		case ' ', '\t', '\r', '\n':
			return false
		}
	}
	return true
}

// semicolonSafe reports whether s may be wrapped as a semicolon text
// field: always safe except when some line begins with ';', which is
// structurally unrepresentable in CIF 1.1, spec.md §4.E/§7.
func semicolonSafe(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, ";") {
			return false
		}
	}
	return true
}

// chooseDelimiter picks the first delimiter in prefs whose safety
// predicate holds for s, honoring the rule that a multiline value always
// requires semicolon wrapping regardless of preference order. It returns
// ok=false if no preferred delimiter is safe (the writer then raises a
// WriteError, per spec.md §7's single writer raise point).
func chooseDelimiter(s string, prefs []DelimiterKind) (DelimiterKind, bool) {
	if isMultiline(s) {
		for _, k := range prefs {
			if k == DelimSemicolon {
				if semicolonSafe(s) {
					return DelimSemicolon, true
				}
				return 0, false
			}
		}
		return 0, false
	}
	for _, k := range prefs {
		switch k {
		case DelimSingle:
			if singleQuoteSafe(s) {
				return DelimSingle, true
			}
		case DelimDouble:
			if doubleQuoteSafe(s) {
				return DelimDouble, true
			}
		case DelimSemicolon:
			if semicolonSafe(s) {
				return DelimSemicolon, true
			}
		}
	}
	return 0, false
}

// formatStr renders s as a CIF string token: unquoted when safe, else
// delimited per chooseDelimiter's verdict. Adapted from
// BurntSushi-cif/write.go's formatStr, generalized from a fixed
// unquoted/single/double/text decision to an explicit, caller-configured
// delimiter preference order.
func (w *writer) formatStr(s string) string {
	if !needsDelimiter(s) {
		return s
	}
	kind, ok := chooseDelimiter(s, w.opts.DelimiterPreference)
	if !ok {
		w.errf("value %q has no safe delimiter among the configured preference %v", s, w.opts.DelimiterPreference)
	}
	switch kind {
	case DelimSingle:
		return "'" + s + "'"
	case DelimDouble:
		return "\"" + s + "\""
	default:
		return "\n;" + s + "\n;"
	}
}
