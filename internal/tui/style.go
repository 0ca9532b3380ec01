package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/embedit/internal/highlight"
)

var (
	styleDefault = tcell.StyleDefault
	styleStatus  = tcell.StyleDefault.Reverse(true)

	tokenStyles = map[highlight.TokenType]tcell.Style{
		highlight.TokenSection:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		highlight.TokenTypeName: tcell.StyleDefault.Foreground(tcell.ColorTeal),
		highlight.TokenKeyword:  tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true),
		highlight.TokenNumber:   tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
		highlight.TokenString:   tcell.StyleDefault.Foreground(tcell.ColorGreen),
		highlight.TokenComment:  tcell.StyleDefault.Foreground(tcell.ColorGray),
	}
)

// styleFor returns the screen style for a token type.
func styleFor(t highlight.TokenType) tcell.Style {
	if s, ok := tokenStyles[t]; ok {
		return s
	}
	return styleDefault
}

// tokenTable is the slice of the highlight table the renderer needs.
type tokenTable interface {
	TokensForLine(line string) []highlight.Token
}

// lineStyles maps every byte of a line to its screen style.
func lineStyles(text string, table tokenTable) []tcell.Style {
	styles := make([]tcell.Style, len(text))
	for i := range styles {
		styles[i] = styleDefault
	}
	if table == nil {
		return styles
	}
	for _, tok := range table.TokensForLine(text) {
		s := styleFor(tok.Type)
		for i := tok.Start; i < tok.End && i < len(text); i++ {
			styles[i] = s
		}
	}
	return styles
}
