// Package preview renders assembled suggestion expressions into small,
// highlighted terminal previews.
package preview

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sst/lens/internal/expression"
	"github.com/sst/lens/internal/suggestion"
	"github.com/sst/lens/internal/tui/styles"
)

const (
	defaultWidth  = 28
	defaultHeight = 4
	tail          = "…"
	mergeFunction = "lens_merge_tables"
)

// Renderer is a suggestion.Renderer for the terminal. It shows the
// visualization part of the expression and the layers it merges.
type Renderer struct {
	width     int
	height    int
	plain     bool
	formatter string

	mu     sync.Mutex
	styles map[string]*chroma.Style
}

type Option func(*Renderer)

func WithSize(width, height int) Option {
	return func(r *Renderer) {
		r.width = max(width, 1)
		r.height = max(height, 1)
	}
}

// WithPlain disables highlighting.
func WithPlain() Option {
	return func(r *Renderer) {
		r.plain = true
	}
}

// WithFormatter picks the chroma terminal formatter, e.g. "terminal256".
func WithFormatter(name string) Option {
	return func(r *Renderer) {
		r.formatter = name
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:     defaultWidth,
		height:    defaultHeight,
		formatter: "terminal16m",
		styles:    make(map[string]*chroma.Style),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ suggestion.Renderer = (*Renderer)(nil)

func (r *Renderer) Render(req suggestion.RenderRequest) (string, error) {
	ast, err := expression.Parse(req.Expression)
	if err != nil {
		return "", fmt.Errorf("invalid preview expression: %w", err)
	}
	lines := r.layout(summarize(ast, req))
	if !r.plain {
		if lines, err = r.highlight(lines); err != nil {
			return "", err
		}
	}
	return strings.Join(r.fit(lines), "\n"), nil
}

// summarize keeps the functions after the table merge, one per line, and
// replaces the merge with the list of its layers.
func summarize(ast *expression.AST, req suggestion.RenderRequest) []string {
	var out []string
	if req.Frame.Query != "" {
		out = append(out, "query="+quote(req.Frame.Query))
	}
	for _, fn := range ast.Chain {
		if fn.Name != mergeFunction {
			continue
		}
		var layers []string
		for _, v := range fn.Arg("layerIds") {
			layers = append(layers, v.Str)
		}
		out = append(out, "layers="+quote(strings.Join(layers, ",")))
	}
	start := 0
	for i, fn := range ast.Chain {
		if fn.Name == mergeFunction {
			start = i + 1
		}
	}
	if start == 0 && len(ast.Chain) > 0 {
		start = len(ast.Chain) - 1
	}
	for _, fn := range ast.Chain[start:] {
		out = append(out, (&expression.AST{Chain: []expression.Function{fn}}).String())
	}
	return out
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func (r *Renderer) layout(lines []string) []string {
	var out []string
	for _, l := range lines {
		out = append(out, strings.Split(wordwrap.String(l, r.width), "\n")...)
	}
	return out
}

func (r *Renderer) highlight(lines []string) ([]string, error) {
	it, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("tokenising preview: %w", err)
	}
	f := formatters.Get(r.formatter)
	if f == nil {
		f = formatters.Fallback
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, r.style(), it); err != nil {
		return nil, fmt.Errorf("highlighting preview: %w", err)
	}
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), nil
}

func (r *Renderer) style() *chroma.Style {
	t := styles.CurrentTheme()
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.styles[t.Name]
	if !ok {
		s = chromaStyle(t)
		r.styles[t.Name] = s
	}
	return s
}

// fit caps the preview to the renderer's box. The last kept line ends with an
// ellipsis when lines were dropped.
func (r *Renderer) fit(lines []string) []string {
	clipped := len(lines) > r.height
	if clipped {
		lines = lines[:r.height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = r.truncate(l)
	}
	if clipped {
		last := len(out) - 1
		out[last] = r.truncate(strings.TrimRight(out[last], " ") + " " + tail)
	}
	return out
}

func (r *Renderer) truncate(line string) string {
	if r.plain {
		if runewidth.StringWidth(line) <= r.width {
			return line
		}
		return runewidth.Truncate(line, r.width, tail)
	}
	return truncate.StringWithTail(line, uint(r.width), tail)
}
