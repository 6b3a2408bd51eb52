package layout

import (
	"strings"

	chAnsi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/sst/lens/internal/tui/util"
)

// Split a string into lines, additionally returning the size of the widest line.
func getLines(s string) (lines []string, widest int) {
	lines = strings.Split(s, "\n")
	for _, l := range lines {
		w := ansi.PrintableRuneWidth(l)
		if widest < w {
			widest = w
		}
	}
	return lines, widest
}

// PlaceOverlay places fg on top of bg with its top left corner at x, y.
func PlaceOverlay(x, y int, fg, bg string) string {
	fgLines, fgWidth := getLines(fg)
	bgLines, bgWidth := getLines(bg)
	bgHeight := len(bgLines)
	fgHeight := len(fgLines)

	if fgWidth >= bgWidth && fgHeight >= bgHeight {
		return fg
	}
	x = util.Clamp(x, 0, bgWidth-fgWidth)
	y = util.Clamp(y, 0, bgHeight-fgHeight)

	var b strings.Builder
	for i, bgLine := range bgLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i < y || i >= y+fgHeight {
			b.WriteString(bgLine)
			continue
		}

		pos := 0
		if x > 0 {
			left := truncate.String(bgLine, uint(x))
			pos = ansi.PrintableRuneWidth(left)
			b.WriteString(left)
			if pos < x {
				b.WriteString(strings.Repeat(" ", x-pos))
				pos = x
			}
		}

		fgLine := fgLines[i-y]
		b.WriteString(fgLine)
		pos += ansi.PrintableRuneWidth(fgLine)

		lineWidth := ansi.PrintableRuneWidth(bgLine)
		if pos < lineWidth {
			b.WriteString(chAnsi.Cut(bgLine, pos, lineWidth))
		}
	}
	return b.String()
}

// PlaceCenter places fg in the middle of bg.
func PlaceCenter(fg, bg string) string {
	_, fgWidth := getLines(fg)
	_, bgWidth := getLines(bg)
	fgHeight := strings.Count(fg, "\n") + 1
	bgHeight := strings.Count(bg, "\n") + 1
	return PlaceOverlay((bgWidth-fgWidth)/2, (bgHeight-fgHeight)/2, fg, bg)
}
