// Package indent routes line indentation to the active sub-language.
//
// Delimiter lines always indent at the host base column. Host lines
// delegate to the host indenter. Embedded lines re-use a brace-based
// indenter even though the region markers provide no braces: the
// coordinator temporarily inserts a synthetic open-brace line after the
// nearest open marker above and a close-brace line before the nearest
// close marker below, runs the embedded indenter, and removes both
// insertions on every exit path. An embedded indenter failure is discarded
// so cleanup always runs; the buffer never retains synthetic text.
package indent
