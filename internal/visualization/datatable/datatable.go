// Package datatable shows a table as is.
package datatable

import (
	"fmt"

	"github.com/sst/lens/internal/expression"
	"github.com/sst/lens/internal/lens"
	"github.com/vmihailenco/msgpack/v5"
)

const ID = "lnsDatatable"

type State struct {
	LayerID string   `msgpack:"layerId"`
	Columns []string `msgpack:"columns"`
}

type Visualization struct{}

func New() *Visualization {
	return &Visualization{}
}

func (v *Visualization) ID() string    { return ID }
func (v *Visualization) Title() string { return "Table" }

func (v *Visualization) Description(lens.State) lens.Description {
	return lens.Description{Label: v.Title(), Icon: lens.IconTable}
}

func (v *Visualization) ToExpression(state lens.State) string {
	st, ok := asState(state)
	if !ok || len(st.Columns) == 0 {
		return ""
	}
	cols := make([]expression.Value, 0, len(st.Columns))
	for _, c := range st.Columns {
		cols = append(cols, expression.String(c))
	}
	ast := &expression.AST{Chain: []expression.Function{
		expression.Call("lens_datatable", expression.Named("columns", cols...)),
	}}
	return ast.String()
}

// ToPreviewExpression is the full expression; tables preview as themselves.
func (v *Visualization) ToPreviewExpression(state lens.State) string {
	return v.ToExpression(state)
}

func (v *Visualization) GetSuggestions(req lens.SuggestionRequest) []lens.VisualizationSuggestion {
	st, ok := v.InitialState(req.Table.Table).(State)
	if !ok {
		return nil
	}
	score := 0.3
	if len(req.Table.Table.Buckets()) > 1 {
		score = 0.45
	}
	return []lens.VisualizationSuggestion{{
		Title:       v.Title(),
		Score:       score,
		State:       st,
		PreviewIcon: lens.IconTable,
	}}
}

func (v *Visualization) InitialState(table lens.TableDescription) lens.State {
	if len(table.Columns) == 0 {
		return nil
	}
	st := State{LayerID: table.LayerID}
	for _, c := range table.Columns {
		st.Columns = append(st.Columns, c.ID)
	}
	return st
}

func (v *Visualization) DecodeState(raw []byte) (lens.State, error) {
	var st State
	if err := msgpack.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decoding datatable state: %w", err)
	}
	return st, nil
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
