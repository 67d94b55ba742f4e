/*
Package cif reads, validates, and writes Crystallographic Information
Files (CIF). Two dialects are supported: CIF 1.1 (flat data blocks) and
mmCIF (macromolecular, with category.keyword dotted names and save-frame
dictionaries).

The package is split into a tokenizer (lex.go, lex_value.go, lexer.go,
token.go), a finite-state parser that produces a normalized flat table
(parse.go, parse_fsm.go, errors.go), lazy structural views over that table
(structure.go, category.go), and a writer (write.go, write_delim.go).
DDL2 dictionary validation lives in the
sibling package ddl2, which operates on the flat table and structural
views this package exposes.

The package does not interpret crystallographic semantics, does not
perform cross-file linking, and does not provide an in-place CIF editing
API beyond whole-category replacement (see ddl2.Validator.ValidateCategory,
which installs typed columns on a category).
*/
package cif
