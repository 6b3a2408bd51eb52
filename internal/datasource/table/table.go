// Package table is a datasource of aggregated tables over an index, one table
// per layer.
package table

import (
	"fmt"
	"strings"

	"github.com/sst/lens/internal/expression"
	"github.com/sst/lens/internal/lens"
	"github.com/vmihailenco/msgpack/v5"
)

const ID = "table"

// Column is one aggregation of a layer.
type Column struct {
	ID          string        `yaml:"id" msgpack:"id"`
	Label       string        `yaml:"label" msgpack:"label"`
	DataType    lens.DataType `yaml:"dataType" msgpack:"dataType"`
	Operation   string        `yaml:"operation" msgpack:"operation"`
	SourceField string        `yaml:"field,omitempty" msgpack:"field,omitempty"`
	IsBucketed  bool          `yaml:"bucketed" msgpack:"bucketed"`
}

// Layer is a table over one index.
type Layer struct {
	ID      string   `yaml:"id" msgpack:"id"`
	Index   string   `yaml:"index" msgpack:"index"`
	Columns []Column `yaml:"columns" msgpack:"columns"`
}

// State is the datasource state: an ordered list of layers.
type State struct {
	Layers []Layer `yaml:"layers" msgpack:"layers"`
}

// Layer returns the layer with id.
func (s State) Layer(id string) (Layer, bool) {
	for _, l := range s.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

func (l Layer) buckets() []Column {
	var out []Column
	for _, c := range l.Columns {
		if c.IsBucketed {
			out = append(out, c)
		}
	}
	return out
}

func (l Layer) metrics() []Column {
	var out []Column
	for _, c := range l.Columns {
		if !c.IsBucketed {
			out = append(out, c)
		}
	}
	return out
}

type Datasource struct{}

func New() *Datasource {
	return &Datasource{}
}

func (d *Datasource) ID() string {
	return ID
}

func (d *Datasource) GetLayers(state lens.State) []string {
	st, ok := asState(state)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(st.Layers))
	for _, l := range st.Layers {
		ids = append(ids, l.ID)
	}
	return ids
}

func (d *Datasource) ToExpression(state lens.State, layerID string) string {
	st, ok := asState(state)
	if !ok {
		return ""
	}
	layer, ok := st.Layer(layerID)
	if !ok || len(layer.Columns) == 0 {
		return ""
	}

	aggs := make([]expression.Value, 0, len(layer.Columns))
	idMap := make([]string, 0, len(layer.Columns))
	for _, c := range layer.Columns {
		aggs = append(aggs, expression.String(c.Operation+":"+c.SourceField))
		idMap = append(idMap, c.ID+"="+c.Label)
	}
	ast := &expression.AST{Chain: []expression.Function{
		expression.Call("esaggs",
			expression.Named("index", expression.String(layer.Index)),
			expression.Named("aggs", aggs...),
		),
		expression.Call("lens_rename_columns",
			expression.Named("idMap", expression.String(strings.Join(idMap, ","))),
		),
	}}
	return ast.String()
}

// GetTableSuggestions offers every layer as it is, a reduced table keeping
// the first bucket for layers with more than one bucket, and a single-metric
// table for layers that aggregate at all.
func (d *Datasource) GetTableSuggestions(state lens.State) []lens.TableSuggestion {
	st, ok := asState(state)
	if !ok {
		return nil
	}
	all := d.GetLayers(st)

	var out []lens.TableSuggestion
	for _, layer := range st.Layers {
		if len(layer.Columns) == 0 {
			continue
		}
		out = append(out, lens.TableSuggestion{
			State:        st,
			Table:        describe(layer, lens.TableUnchanged),
			KeptLayerIDs: all,
		})
	}
	for _, layer := range st.Layers {
		buckets := layer.buckets()
		if len(buckets) < 2 {
			continue
		}
		reduced := Layer{
			ID:      layer.ID,
			Index:   layer.Index,
			Columns: append([]Column{buckets[0]}, layer.metrics()...),
		}
		out = append(out, lens.TableSuggestion{
			State:        State{Layers: []Layer{reduced}},
			Table:        describe(reduced, lens.TableReduced),
			KeptLayerIDs: []string{layer.ID},
		})
	}
	for _, layer := range st.Layers {
		metrics := layer.metrics()
		if len(metrics) == 0 || len(layer.buckets()) == 0 {
			continue
		}
		single := Layer{ID: layer.ID, Index: layer.Index, Columns: metrics[:1]}
		out = append(out, lens.TableSuggestion{
			State:        State{Layers: []Layer{single}},
			Table:        describe(single, lens.TableReduced),
			KeptLayerIDs: []string{layer.ID},
		})
	}
	return out
}

// RemoveLayer returns state without the layer with layerID.
func (d *Datasource) RemoveLayer(state lens.State, layerID string) lens.State {
	st, ok := asState(state)
	if !ok {
		return state
	}
	next := State{Layers: make([]Layer, 0, len(st.Layers))}
	for _, l := range st.Layers {
		if l.ID != layerID {
			next.Layers = append(next.Layers, l)
		}
	}
	return next
}

func (d *Datasource) DecodeState(raw []byte) (lens.State, error) {
	var st State
	if err := msgpack.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decoding table state: %w", err)
	}
	return st, nil
}

func describe(layer Layer, change lens.TableChangeType) lens.TableDescription {
	cols := make([]lens.ColumnDescription, 0, len(layer.Columns))
	for _, c := range layer.Columns {
		cols = append(cols, lens.ColumnDescription{
			ID:         c.ID,
			Label:      c.Label,
			DataType:   c.DataType,
			IsBucketed: c.IsBucketed,
		})
	}
	return lens.TableDescription{
		LayerID:    layer.ID,
		Columns:    cols,
		IsMultiRow: len(layer.buckets()) > 0,
		ChangeType: change,
	}
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
