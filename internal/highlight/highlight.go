// Package highlight provides per-language keyword tables and a simple
// regex-based line tokenizer for the renderer. Each mode carries its own
// fixed table; switching modes swaps which table the front end consults.
package highlight

import (
	"regexp"
	"sort"
	"unicode"
)

// TokenType represents the semantic type of a token.
type TokenType uint8

const (
	TokenNone TokenType = iota
	TokenSection
	TokenTypeName
	TokenKeyword
	TokenNumber
	TokenString
	TokenComment
)

// Token is one classified span within a line. Start and End are byte
// columns, half-open.
type Token struct {
	Type  TokenType
	Start int
	End   int
}

type rule struct {
	re        *regexp.Regexp
	tokenType TokenType
}

// Table is a fixed keyword/pattern table for one language.
type Table struct {
	name     string
	keywords map[string]TokenType
	rules    []rule
}

// NewTable creates an empty table.
func NewTable(name string) *Table {
	return &Table{
		name:     name,
		keywords: make(map[string]TokenType),
	}
}

// Name returns the table's language name.
func (t *Table) Name() string {
	return t.name
}

// AddKeywords registers exact-word keywords with a token type.
func (t *Table) AddKeywords(tokenType TokenType, words ...string) *Table {
	for _, w := range words {
		t.keywords[w] = tokenType
	}
	return t
}

// AddRule registers a regex rule. Rules apply in registration order and
// earlier matches shade later overlapping ones.
func (t *Table) AddRule(pattern string, tokenType TokenType) *Table {
	t.rules = append(t.rules, rule{
		re:        regexp.MustCompile(pattern),
		tokenType: tokenType,
	})
	return t
}

// TokensForLine classifies one line of text.
func (t *Table) TokensForLine(line string) []Token {
	covered := make([]bool, len(line))
	var tokens []Token

	take := func(start, end int, tokenType TokenType) {
		for i := start; i < end; i++ {
			if covered[i] {
				return
			}
		}
		for i := start; i < end; i++ {
			covered[i] = true
		}
		tokens = append(tokens, Token{Type: tokenType, Start: start, End: end})
	}

	for _, r := range t.rules {
		for _, m := range r.re.FindAllStringIndex(line, -1) {
			take(m[0], m[1], r.tokenType)
		}
	}

	// Keyword pass over identifier words the rules did not claim.
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if tokenType, ok := t.keywords[line[start:end]]; ok {
			take(start, end, tokenType)
		}
		start = -1
	}
	for i, r := range line {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(line))

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Start < tokens[j].Start })
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// HostTable returns the fixed table for the netlist host language:
// section keywords and numeric type names.
func HostTable() *Table {
	return NewTable("host").
		AddRule(`--.*$`, TokenComment).
		AddRule(`"(?:[^"\\]|\\.)*"`, TokenString).
		AddRule(`\b(?:INIT|MAIN|FINAL|CLOCK)_X\b`, TokenSection).
		AddKeywords(TokenSection, "CODE", "ENDCODE").
		AddKeywords(TokenTypeName,
			"BIT", "BYTE", "WORD", "INT", "UINT", "REAL", "TIME").
		AddRule(`\b\d[\d_]*\b`, TokenNumber)
}

// EmbeddedTable returns the fixed table for the embedded action-code
// language.
func EmbeddedTable() *Table {
	return NewTable("embedded").
		AddRule(`//.*$`, TokenComment).
		AddRule(`"(?:[^"\\]|\\.)*"`, TokenString).
		AddKeywords(TokenKeyword,
			"if", "else", "for", "while", "do", "switch", "case",
			"break", "continue", "return").
		AddKeywords(TokenTypeName,
			"int", "uint", "bit", "byte", "real", "void").
		AddRule(`\b(?:0[xX][0-9a-fA-F]+|\d+(?:\.\d+)?)\b`, TokenNumber)
}
