package region

import (
	"fmt"
	"regexp"
)

// Default delimiter grammar. Section headers name a fixed prefix, the CODE
// keyword, and the block's identifier; regions end at the ENDCODE keyword.
// The patterns are compiled in source; they are not runtime configuration.
const (
	DefaultOpenPattern  = `\b(?:INIT|MAIN|FINAL|CLOCK)_X[ \t]+CODE[ \t]+[A-Za-z_][A-Za-z0-9_]*`
	DefaultClosePattern = `\bENDCODE\b`
)

// DelimiterPair holds the compiled open and close region markers.
// Both patterns must match within a single line; a marker never spans a
// newline.
type DelimiterPair struct {
	Open  *regexp.Regexp
	Close *regexp.Regexp
}

// NewDelimiterPair compiles a delimiter pair from the given patterns.
func NewDelimiterPair(open, close string) (*DelimiterPair, error) {
	openRe, err := regexp.Compile(open)
	if err != nil {
		return nil, fmt.Errorf("compile open pattern: %w", err)
	}
	closeRe, err := regexp.Compile(close)
	if err != nil {
		return nil, fmt.Errorf("compile close pattern: %w", err)
	}
	return &DelimiterPair{Open: openRe, Close: closeRe}, nil
}

// DefaultPair returns the built-in delimiter grammar.
func DefaultPair() *DelimiterPair {
	return &DelimiterPair{
		Open:  regexp.MustCompile(DefaultOpenPattern),
		Close: regexp.MustCompile(DefaultClosePattern),
	}
}

// MatchesLine reports whether the line contains an open or close marker.
// Marker lines are host-language structural lines regardless of what the
// count-based test says about them.
func (p *DelimiterPair) MatchesLine(line string) bool {
	return p.Open.MatchString(line) || p.Close.MatchString(line)
}
