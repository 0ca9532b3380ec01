package highlight

import "testing"

func tokenAt(tokens []Token, col int) TokenType {
	for _, tok := range tokens {
		if col >= tok.Start && col < tok.End {
			return tok.Type
		}
	}
	return TokenNone
}

func TestHostTable(t *testing.T) {
	table := HostTable()

	line := "MAIN_X CODE startup"
	tokens := table.TokensForLine(line)

	if got := tokenAt(tokens, 0); got != TokenSection {
		t.Errorf("MAIN_X token = %v, want TokenSection", got)
	}
	if got := tokenAt(tokens, 7); got != TokenSection {
		t.Errorf("CODE token = %v, want TokenSection", got)
	}
	if got := tokenAt(tokens, 12); got != TokenNone {
		t.Errorf("identifier token = %v, want TokenNone", got)
	}
}

func TestHostTableTypesAndNumbers(t *testing.T) {
	table := HostTable()
	line := `net BIT b = 42; -- wires`
	tokens := table.TokensForLine(line)

	if got := tokenAt(tokens, 4); got != TokenTypeName {
		t.Errorf("BIT token = %v, want TokenTypeName", got)
	}
	if got := tokenAt(tokens, 12); got != TokenNumber {
		t.Errorf("42 token = %v, want TokenNumber", got)
	}
	if got := tokenAt(tokens, 16); got != TokenComment {
		t.Errorf("comment token = %v, want TokenComment", got)
	}
}

func TestEmbeddedTable(t *testing.T) {
	table := EmbeddedTable()
	line := `if (x > 0x1F) return "done"; // ok`
	tokens := table.TokensForLine(line)

	if got := tokenAt(tokens, 0); got != TokenKeyword {
		t.Errorf("if token = %v, want TokenKeyword", got)
	}
	if got := tokenAt(tokens, 8); got != TokenNumber {
		t.Errorf("hex literal token = %v, want TokenNumber", got)
	}
	if got := tokenAt(tokens, 21); got != TokenString {
		t.Errorf("string token = %v, want TokenString", got)
	}
	if got := tokenAt(tokens, 29); got != TokenComment {
		t.Errorf("comment token = %v, want TokenComment", got)
	}
}

func TestCommentShadesKeywords(t *testing.T) {
	table := EmbeddedTable()
	tokens := table.TokensForLine("// if return")

	for _, tok := range tokens {
		if tok.Type != TokenComment {
			t.Errorf("token %+v inside comment, want only TokenComment", tok)
		}
	}
}

func TestTokensSortedByColumn(t *testing.T) {
	table := EmbeddedTable()
	tokens := table.TokensForLine(`while (n) { n = n - 1; }`)

	for i := 1; i < len(tokens); i++ {
		if tokens[i].Start < tokens[i-1].Start {
			t.Fatalf("tokens not sorted: %+v", tokens)
		}
	}
}
