// Package suggest generates alternative visualization configurations from the
// current editor state.
package suggest

import (
	"slices"
	"sort"

	"github.com/sst/lens/internal/lens"
)

// Input is everything the generator looks at.
type Input struct {
	DatasourceMap         map[string]lens.Datasource
	DatasourceStates      lens.DatasourceStates
	VisualizationMap      map[string]lens.Visualization
	ActiveVisualizationID string
	VisualizationState    lens.State
}

// GetSuggestions asks every ready datasource for the tables it can produce and
// every visualization for ways to chart them. The result is ordered by
// descending score; ties keep discovery order.
func GetSuggestions(in Input) []lens.Suggestion {
	var out []lens.Suggestion

	for _, dsID := range sortedKeys(in.DatasourceMap) {
		st, ok := in.DatasourceStates[dsID]
		if !ok || st.IsLoading {
			continue
		}
		tables := in.DatasourceMap[dsID].GetTableSuggestions(st.State)

		for _, table := range tables {
			for _, visID := range sortedKeys(in.VisualizationMap) {
				vis := in.VisualizationMap[visID]
				req := lens.SuggestionRequest{
					Table:        table,
					KeptLayerIDs: table.KeptLayerIDs,
				}
				if visID == in.ActiveVisualizationID {
					req.State = in.VisualizationState
				}
				for _, vs := range vis.GetSuggestions(req) {
					out = append(out, lens.Suggestion{
						VisualizationID:    visID,
						VisualizationState: vs.State,
						DatasourceID:       dsID,
						DatasourceState:    table.State,
						Title:              vs.Title,
						PreviewIcon:        vs.PreviewIcon,
						Score:              vs.Score,
						KeptLayerIDs:       table.KeptLayerIDs,
						Hide:               vs.Hide,
					})
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
