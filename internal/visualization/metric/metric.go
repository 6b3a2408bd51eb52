// Package metric shows a single number.
package metric

import (
	"fmt"

	"github.com/sst/lens/internal/expression"
	"github.com/sst/lens/internal/lens"
	"github.com/vmihailenco/msgpack/v5"
)

const ID = "lnsMetric"

type State struct {
	LayerID  string `msgpack:"layerId"`
	Accessor string `msgpack:"accessor"`
	Title    string `msgpack:"title"`
}

type Visualization struct{}

func New() *Visualization {
	return &Visualization{}
}

func (v *Visualization) ID() string    { return ID }
func (v *Visualization) Title() string { return "Metric" }

func (v *Visualization) Description(state lens.State) lens.Description {
	if st, ok := state.(State); ok && st.Title != "" {
		return lens.Description{Label: st.Title, Icon: lens.IconMetric}
	}
	return lens.Description{Label: v.Title(), Icon: lens.IconMetric}
}

func (v *Visualization) ToExpression(state lens.State) string {
	return expressionFor(state, "full")
}

func (v *Visualization) ToPreviewExpression(state lens.State) string {
	return expressionFor(state, "reduced")
}

func expressionFor(state lens.State, mode string) string {
	st, ok := state.(State)
	if !ok || st.Accessor == "" {
		return ""
	}
	args := []expression.Arg{
		expression.Named("accessor", expression.String(st.Accessor)),
		expression.Named("mode", expression.String(mode)),
	}
	if mode == "full" && st.Title != "" {
		args = append(args, expression.Named("title", expression.String(st.Title)))
	}
	ast := &expression.AST{Chain: []expression.Function{expression.Call("lens_metric_chart", args...)}}
	return ast.String()
}

func (v *Visualization) GetSuggestions(req lens.SuggestionRequest) []lens.VisualizationSuggestion {
	st, ok := v.InitialState(req.Table.Table).(State)
	if !ok {
		return nil
	}
	if current, ok := req.State.(State); ok && current == st {
		return nil
	}
	return []lens.VisualizationSuggestion{{
		Title:       st.Title,
		Score:       0.5,
		State:       st,
		PreviewIcon: lens.IconMetric,
	}}
}

// InitialState charts a table of exactly one metric and no buckets.
func (v *Visualization) InitialState(table lens.TableDescription) lens.State {
	metrics := table.Metrics()
	if len(table.Buckets()) > 0 || len(metrics) != 1 {
		return nil
	}
	return State{LayerID: table.LayerID, Accessor: metrics[0].ID, Title: metrics[0].Label}
}

func (v *Visualization) DecodeState(raw []byte) (lens.State, error) {
	var st State
	if err := msgpack.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decoding metric state: %w", err)
	}
	return st, nil
}
