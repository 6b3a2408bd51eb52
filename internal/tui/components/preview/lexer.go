package preview

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/sst/lens/internal/tui/styles"
)

var lexer = chroma.MustNewLexer(
	&chroma.Config{
		Name:      "Lens expression",
		Aliases:   []string{"lens"},
		Filenames: []string{"*.lensexpr"},
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `\s+`, Type: chroma.TextWhitespace},
				{Pattern: `\|`, Type: chroma.Operator},
				{Pattern: `[{}]`, Type: chroma.Punctuation},
				{Pattern: `"(\\\\|\\"|[^"])*"`, Type: chroma.LiteralString},
				{Pattern: `-?[0-9]+(\.[0-9]+)?\b`, Type: chroma.LiteralNumber},
				{Pattern: `(true|false|null)\b`, Type: chroma.KeywordConstant},
				{Pattern: `([A-Za-z_][\w.]*)(=)`, Type: chroma.ByGroups(chroma.NameAttribute, chroma.Operator)},
				{Pattern: `[A-Za-z_][\w.]*`, Type: chroma.NameFunction},
				{Pattern: `.`, Type: chroma.Text},
			},
		}
	},
)

// chromaStyle builds a highlighting style from the theme's syntax colors.
func chromaStyle(t styles.Theme) *chroma.Style {
	return chroma.MustNewStyle("lens-"+t.Name, chroma.StyleEntries{
		chroma.Text:            string(t.Text),
		chroma.Operator:        string(t.Operator),
		chroma.Punctuation:     string(t.TextMuted),
		chroma.LiteralString:   string(t.String),
		chroma.LiteralNumber:   string(t.Number),
		chroma.KeywordConstant: string(t.Keyword),
		chroma.NameAttribute:   string(t.Secondary),
		chroma.NameFunction:    "bold " + string(t.Function),
	})
}
