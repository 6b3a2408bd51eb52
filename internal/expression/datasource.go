package expression

import (
	"fmt"
	"slices"

	"github.com/sst/lens/internal/lens"
)

const (
	rootFunction   = "kibana"
	mergeFunction  = "lens_merge_tables"
	mergeLayerArg  = "layerIds"
	mergeTablesArg = "tables"
)

// LayerTable is the table expression of a single datasource layer.
type LayerTable struct {
	LayerID    string
	Expression string
}

// LayerFilter limits the layers of one datasource. A nil Keep keeps them all.
type LayerFilter struct {
	DatasourceID string
	Keep         []string
}

// DatasourceTables collects the table expression of every layer of every
// datasource, datasources ordered by id. Layers without an expression are
// skipped.
func DatasourceTables(datasources map[string]lens.Datasource, states lens.DatasourceStates, filter LayerFilter) []LayerTable {
	ids := make([]string, 0, len(datasources))
	for id := range datasources {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var tables []LayerTable
	for _, id := range ids {
		st, ok := states[id]
		if !ok {
			continue
		}
		ds := datasources[id]
		for _, layerID := range ds.GetLayers(st.State) {
			if id == filter.DatasourceID && len(filter.Keep) > 0 && !slices.Contains(filter.Keep, layerID) {
				continue
			}
			if expr := ds.ToExpression(st.State, layerID); expr != "" {
				tables = append(tables, LayerTable{LayerID: layerID, Expression: expr})
			}
		}
	}
	return tables
}

// PrependDatasource builds `kibana | lens_merge_tables ... | <fragment>`.
// It returns nil when there is no fragment or no table to merge.
func PrependDatasource(fragment string, tables []LayerTable) (*AST, error) {
	if fragment == "" || len(tables) == 0 {
		return nil, nil
	}

	layerIDs := make([]Value, 0, len(tables))
	subs := make([]Value, 0, len(tables))
	for _, t := range tables {
		sub, err := Parse(t.Expression)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", t.LayerID, err)
		}
		layerIDs = append(layerIDs, String(t.LayerID))
		subs = append(subs, Sub(sub))
	}

	vis, err := Parse(fragment)
	if err != nil {
		return nil, fmt.Errorf("visualization fragment: %w", err)
	}

	chain := []Function{
		Call(rootFunction),
		Call(mergeFunction, Named(mergeLayerArg, layerIDs...), Named(mergeTablesArg, subs...)),
	}
	return &AST{Chain: append(chain, vis.Chain...)}, nil
}

// Assemble is PrependDatasource printed; "" means nothing to render.
func Assemble(fragment string, tables []LayerTable) (string, error) {
	ast, err := PrependDatasource(fragment, tables)
	if err != nil || ast == nil {
		return "", err
	}
	return ast.String(), nil
}
