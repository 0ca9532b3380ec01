// Package buffer provides line-indexed text storage for the editing engine.
//
// A Buffer stores document text as a slice of lines and exposes both
// byte-offset and line/column addressing. Byte offsets (ByteOffset) are the
// fundamental position type; Point is the line/column view used by the
// renderer and the indenters.
//
// Buffers are safe for concurrent use, though the engine's editing model is
// logically single-threaded: one event loop owns all mutation. Edit
// observers exist so derived indexes (the region scanner's delimiter-count
// table) can invalidate incrementally from the first line an edit touches.
package buffer
