package ddl2

import (
	"regexp"
	"strings"
)

// normalizeERE rewrites a DDL2 dictionary's POSIX-ERE type_regex into a
// pattern Go's RE2-based regexp package accepts, spec.md §4.D rule 2:
// `[][` is legal ERE character-class syntax (a class containing `]` and
// `[`) but RE2 requires the `]` escaped, so occurrences of the literal
// substring `[][` are rewritten to `[\]\[`.
func normalizeERE(pattern string) string {
	return strings.ReplaceAll(pattern, "[][", `[\]\[`)
}

// compileConstruct compiles a dictionary type_regex as the anchored
// construct-check pattern `^(?:pattern)$`, spec.md §4.D rule 2.
func compileConstruct(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + normalizeERE(pattern) + ")$")
}
