// Package cbs implements the parsing and cursor-context engine for the CBS
// curly-brace template language.
//
// A CBS expression is delimited by "{{" and "}}" and may nest arbitrarily:
//
//	{{replace::{{getvar::name}}::old::new}}
//
// The package exposes two families of entry points. Parse runs the full
// pipeline (Tokenize followed by BuildTree) and is used for diagnostics,
// formatting and folding. ResolveCursorContext, ResolveFunctionCall and
// ResolveHoverTarget answer questions about a single cursor position in a
// document that is usually incomplete.
//
// Every function in this package is pure: results are freshly allocated,
// inputs are never mutated, and all calls are safe for concurrent use.
// Offsets and columns count bytes of the UTF-8 input.
package cbs
