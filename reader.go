package cif

// ReadOptions configures Read, spec.md §6.2. Path resolution, encoding
// auto-detection, and filesystem access are external-collaborator
// concerns (spec.md §1) and are deliberately not part of this type: Read
// only ever consumes an in-memory UTF-8 byte slice.
type ReadOptions struct {
	Variant           Variant
	RaiseLevel        Severity
	CaseNormalization CaseNormalization
}

// DefaultReadOptions matches the common case: mmCIF, lower-cased names,
// raising on anything severity 2 (invalid-but-parseable) or worse.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Variant:           VariantMMCIF,
		RaiseLevel:        SeverityInvalid,
		CaseNormalization: CaseLower,
	}
}

// Read tokenizes and parses src, building the structural File view over
// the result. If any collected parse error has severity at or above
// opts.RaiseLevel, Read returns a *ReadError wrapping the full error list
// (spec.md §7.1) and a nil *File. Otherwise it returns the File — which
// may still carry a non-empty, lower-severity error list retrievable via
// File.Errors() — for inspection.
func Read(src []byte, opts ReadOptions) (*File, error) {
	toks := Tokenize(src)
	table, errs := Parse(toks, ParseOptions{Variant: opts.Variant, CaseNormalization: opts.CaseNormalization})
	if errs.MaxSeverity() >= opts.RaiseLevel && !errs.Empty() {
		return nil, &ReadError{Errors: errs}
	}
	return NewFile(table, errs), nil
}

// ReadString is a convenience wrapper for Read over a string source.
func ReadString(src string, opts ReadOptions) (*File, error) {
	return Read([]byte(src), opts)
}
