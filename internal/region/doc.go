// Package region decides which sub-language a buffer position belongs to.
//
// Documents mix a host netlist language with embedded action code bracketed
// by textual markers (an open pattern such as "MAIN_X CODE name" and the
// closing keyword "ENDCODE"). Membership is count-based: a position is
// inside an embedded region when more opens than closes precede it. The
// test assumes well-formed, non-overlapping regions; it does not validate
// them.
//
// Scanner caches per-line delimiter counts with prefix sums so the test is
// cheap enough to run on every cursor movement. The cache invalidates from
// the first line an edit touches and always produces the same result as a
// naive full rescan.
package region
