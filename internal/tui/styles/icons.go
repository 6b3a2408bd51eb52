package styles

import "github.com/sst/lens/internal/lens"

const (
	LensIcon string = "◎"

	CheckIcon   string = "✓"
	ErrorIcon   string = "✖"
	WarningIcon string = "⚠"
	InfoIcon    string = "ℹ"
	LoadingIcon string = "⟳"
	StagedIcon  string = "●"
)

var chartGlyphs = map[lens.Icon]string{
	lens.IconBar:    "▁▃▅▇▃",
	lens.IconLine:   "╱╲╱‾╲",
	lens.IconArea:   "▂▄▆█▆",
	lens.IconTable:  "▦▦▦▦▦",
	lens.IconMetric: " 123 ",
}

// Glyph is the small drawing shown on a card whose preview is an icon.
// Empty icons draw nothing.
func Glyph(icon lens.Icon) string {
	if icon.IsEmpty() {
		return ""
	}
	if g, ok := chartGlyphs[icon]; ok {
		return g
	}
	return "?"
}
