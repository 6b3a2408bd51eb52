package frame

import (
	"testing"

	"github.com/sst/lens/internal/adapters"
	"github.com/sst/lens/internal/datasource/table"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/visualization/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoLayerState() lens.EditorState {
	st := tableEditorState()
	ds := st.DatasourceStates[table.ID].State.(table.State)
	ds.Layers = append(ds.Layers, table.Layer{
		ID:      "second",
		Index:   "metrics-*",
		Columns: []table.Column{{ID: "bytes", Label: "Bytes", DataType: lens.DataTypeNumber, Operation: "sum", SourceField: "bytes"}},
	})
	st.DatasourceStates = lens.DatasourceStates{table.ID: {State: ds}}
	return st
}

func layerIDs(t *testing.T, st lens.EditorState) []string {
	t.Helper()
	return table.New().GetLayers(st.DatasourceStates[table.ID].State)
}

func TestSelectionDropsLayersNotKept(t *testing.T) {
	t.Parallel()
	st := twoLayerState()
	r := Reducer{Datasources: adapters.Datasources()}

	next, err := r.Reduce(st, lens.SelectSuggestion{
		VisualizationID: metric.ID,
		DatasourceID:    table.ID,
		DatasourceState: st.DatasourceStates[table.ID].State,
		InitialState:    metric.State{LayerID: "second", Accessor: "bytes"},
		KeptLayerIDs:    []string{"second"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, layerIDs(t, next))

	require.NotNil(t, next.StagedPreview)
	assert.Equal(t, []string{"first", "second"}, table.New().GetLayers(next.StagedPreview.DatasourceStates[table.ID].State))

	back, err := r.Reduce(next, lens.RollbackSuggestion{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, layerIDs(t, back))
}

func TestSelectionKeepsLayersWithoutKeepList(t *testing.T) {
	t.Parallel()
	st := twoLayerState()

	for name, r := range map[string]Reducer{
		"no datasources": {},
		"empty keep":     {Datasources: adapters.Datasources()},
	} {
		next, err := r.Reduce(st, lens.SelectSuggestion{
			VisualizationID: metric.ID,
			DatasourceID:    table.ID,
			DatasourceState: st.DatasourceStates[table.ID].State,
			InitialState:    metric.State{LayerID: "second", Accessor: "bytes"},
		})
		require.NoError(t, err, name)
		assert.Equal(t, []string{"first", "second"}, layerIDs(t, next), name)
	}
}

func TestStoreDropsLayersNotKept(t *testing.T) {
	t.Parallel()
	st := twoLayerState()
	store := NewStore(t.Context(), st, WithDatasources(adapters.Datasources()))
	defer store.Shutdown()

	require.NoError(t, store.Apply(lens.SelectSuggestion{
		VisualizationID: metric.ID,
		DatasourceID:    table.ID,
		DatasourceState: st.DatasourceStates[table.ID].State,
		InitialState:    metric.State{LayerID: "first", Accessor: "count"},
		KeptLayerIDs:    []string{"first"},
	}))
	assert.Equal(t, []string{"first"}, layerIDs(t, store.State()))
	assert.Equal(t, []string{"first", "second"}, layerIDs(t, st), "input must not change")
}
