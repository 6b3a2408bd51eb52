// Package xy charts bucketed tables as bar, line or area series.
package xy

import (
	"fmt"

	"github.com/sst/lens/internal/expression"
	"github.com/sst/lens/internal/lens"
	"github.com/vmihailenco/msgpack/v5"
)

const ID = "lnsXY"

type SeriesType string

const (
	SeriesBar  SeriesType = "bar"
	SeriesLine SeriesType = "line"
	SeriesArea SeriesType = "area"
)

var seriesTypes = []SeriesType{SeriesBar, SeriesLine, SeriesArea}

func (s SeriesType) title() string {
	switch s {
	case SeriesLine:
		return "Line chart"
	case SeriesArea:
		return "Area chart"
	}
	return "Bar chart"
}

func (s SeriesType) icon() lens.Icon {
	switch s {
	case SeriesLine:
		return lens.IconLine
	case SeriesArea:
		return lens.IconArea
	}
	return lens.IconBar
}

// State is a single-layer xy chart.
type State struct {
	SeriesType    SeriesType `msgpack:"seriesType"`
	LayerID       string     `msgpack:"layerId"`
	XAccessor     string     `msgpack:"xAccessor"`
	SplitAccessor string     `msgpack:"splitAccessor,omitempty"`
	Accessors     []string   `msgpack:"accessors"`
}

type Visualization struct{}

func New() *Visualization {
	return &Visualization{}
}

func (v *Visualization) ID() string    { return ID }
func (v *Visualization) Title() string { return "XY chart" }

func (v *Visualization) Description(state lens.State) lens.Description {
	st, ok := asState(state)
	if !ok {
		return lens.Description{Label: v.Title(), Icon: lens.IconBar}
	}
	return lens.Description{Label: st.SeriesType.title(), Icon: st.SeriesType.icon()}
}

func (v *Visualization) ToExpression(state lens.State) string {
	return v.expression(state, false)
}

func (v *Visualization) ToPreviewExpression(state lens.State) string {
	return v.expression(state, true)
}

func (v *Visualization) expression(state lens.State, preview bool) string {
	st, ok := asState(state)
	if !ok || st.XAccessor == "" || len(st.Accessors) == 0 {
		return ""
	}
	accessors := make([]expression.Value, 0, len(st.Accessors))
	for _, a := range st.Accessors {
		accessors = append(accessors, expression.String(a))
	}
	args := []expression.Arg{
		expression.Named("seriesType", expression.String(string(st.SeriesType))),
		expression.Named("xAccessor", expression.String(st.XAccessor)),
	}
	if st.SplitAccessor != "" {
		args = append(args, expression.Named("splitAccessor", expression.String(st.SplitAccessor)))
	}
	args = append(args, expression.Named("accessors", accessors...))
	if preview {
		args = append(args, expression.Named("isPreview", expression.Bool(true)))
	} else {
		args = append(args, expression.Named("legend", expression.Bool(true)))
	}
	ast := &expression.AST{Chain: []expression.Function{expression.Call("lens_xy_chart", args...)}}
	return ast.String()
}

// GetSuggestions suggests the preferred series type for a fresh table, and the
// other series types when the table is the one already charted.
func (v *Visualization) GetSuggestions(req lens.SuggestionRequest) []lens.VisualizationSuggestion {
	table := req.Table.Table
	base, ok := fromTable(table)
	if !ok {
		return nil
	}

	if current, isCurrent := asState(req.State); isCurrent && table.ChangeType == lens.TableUnchanged {
		var out []lens.VisualizationSuggestion
		for _, s := range seriesTypes {
			if s == current.SeriesType {
				continue
			}
			next := current
			next.SeriesType = s
			out = append(out, suggestion(next, 0.4))
		}
		return out
	}

	score := 0.55
	if isDate(table, base.XAccessor) {
		score = 0.6
	}
	if table.ChangeType == lens.TableReduced {
		score -= 0.1
	}
	alt := base
	alt.SeriesType = SeriesBar
	if base.SeriesType == SeriesBar {
		alt.SeriesType = SeriesLine
	}
	return []lens.VisualizationSuggestion{
		suggestion(base, score),
		suggestion(alt, score/2),
	}
}

func (v *Visualization) InitialState(table lens.TableDescription) lens.State {
	st, ok := fromTable(table)
	if !ok {
		return nil
	}
	return st
}

func (v *Visualization) DecodeState(raw []byte) (lens.State, error) {
	var st State
	if err := msgpack.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decoding xy state: %w", err)
	}
	return st, nil
}

func suggestion(st State, score float64) lens.VisualizationSuggestion {
	return lens.VisualizationSuggestion{
		Title:       st.SeriesType.title(),
		Score:       score,
		State:       st,
		PreviewIcon: st.SeriesType.icon(),
	}
}

// fromTable picks a date bucket for the x axis when there is one, the next
// bucket as split, and every metric as a series.
func fromTable(table lens.TableDescription) (State, bool) {
	buckets := table.Buckets()
	metrics := table.Metrics()
	if len(buckets) == 0 || len(metrics) == 0 {
		return State{}, false
	}

	x := buckets[0]
	rest := buckets[1:]
	for i, b := range buckets {
		if b.DataType == lens.DataTypeDate {
			x = b
			rest = append(append([]lens.ColumnDescription{}, buckets[:i]...), buckets[i+1:]...)
			break
		}
	}

	st := State{
		SeriesType: SeriesBar,
		LayerID:    table.LayerID,
		XAccessor:  x.ID,
	}
	if x.DataType == lens.DataTypeDate {
		st.SeriesType = SeriesLine
	}
	if len(rest) > 0 {
		st.SplitAccessor = rest[0].ID
	}
	for _, m := range metrics {
		st.Accessors = append(st.Accessors, m.ID)
	}
	return st, true
}

func isDate(table lens.TableDescription, id string) bool {
	for _, c := range table.Columns {
		if c.ID == id {
			return c.DataType == lens.DataTypeDate
		}
	}
	return false
}

func asState(state lens.State) (State, bool) {
	switch st := state.(type) {
	case State:
		return st, true
	case *State:
		if st == nil {
			return State{}, false
		}
		return *st, true
	}
	return State{}, false
}
