package suggestion

import (
	"log/slog"

	"github.com/sst/lens/internal/expression"
	"github.com/sst/lens/internal/lens"
)

// RenderRequest is what a renderer gets for one candidate.
type RenderRequest struct {
	Expression string
	Frame      lens.FrameContext
}

// Renderer turns an assembled expression into display output.
type Renderer interface {
	Render(req RenderRequest) (string, error)
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(req RenderRequest) (string, error)

func (f RendererFunc) Render(req RenderRequest) (string, error) {
	return f(req)
}

// Preview is what the panel shows for one candidate: a rendered expression,
// or its icon when there is nothing to render or rendering failed.
type Preview struct {
	Candidate
	Expression string
	Rendered   string
	RenderErr  error
}

// Rendering reports whether the preview shows rendered output.
func (p Preview) Rendering() bool {
	return p.Expression != "" && p.RenderErr == nil
}

// ShowIcon reports whether the preview falls back to a concrete icon.
func (p Preview) ShowIcon() bool {
	return !p.Rendering() && !p.Icon.IsEmpty()
}

// Previews assembles and renders every presented candidate. Render is called
// once per candidate with an expression and never for icon-only candidates.
func (c *Controller) Previews() []Preview {
	candidates := c.Candidates()
	out := make([]Preview, 0, len(candidates))
	for _, cand := range candidates {
		p := Preview{Candidate: cand, Expression: c.Expression(cand)}
		if p.Expression != "" && c.renderer != nil {
			p.Rendered, p.RenderErr = c.renderer.Render(RenderRequest{
				Expression: p.Expression,
				Frame:      c.props.Frame,
			})
			if p.RenderErr != nil {
				slog.Warn("preview render failed", "title", cand.Title, "error", p.RenderErr)
			}
		}
		out = append(out, p)
	}
	return out
}

// Expression is the full preview expression of a candidate, "" when it has
// none and should show its icon instead.
func (c *Controller) Expression(cand Candidate) string {
	fragment := c.fragment(cand)
	if fragment == "" {
		return ""
	}

	states := c.effective().datasourceStates
	filter := expression.LayerFilter{}
	if s := cand.Suggestion; s != nil && s.DatasourceID != "" {
		states = states.Clone()
		prev := states[s.DatasourceID]
		states[s.DatasourceID] = lens.DatasourceState{IsLoading: prev.IsLoading, State: s.DatasourceState}
		filter = expression.LayerFilter{DatasourceID: s.DatasourceID, Keep: s.KeptLayerIDs}
	}

	tables := expression.DatasourceTables(c.props.DatasourceMap, states, filter)
	expr, err := expression.Assemble(fragment, tables)
	if err != nil {
		slog.Warn("preview expression assembly failed", "title", cand.Title, "error", err)
		return ""
	}
	return expr
}

func (c *Controller) fragment(cand Candidate) string {
	if s := cand.Suggestion; s != nil && s.PreviewExpression != "" {
		return s.PreviewExpression
	}
	vis, ok := c.props.VisualizationMap[cand.VisualizationID]
	if !ok {
		return ""
	}
	return vis.ToPreviewExpression(cand.VisualizationState)
}
