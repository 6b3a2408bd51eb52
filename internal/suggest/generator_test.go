package suggest

import (
	"testing"

	"github.com/sst/lens/internal/datasource/table"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/visualization/datatable"
	"github.com/sst/lens/internal/visualization/metric"
	"github.com/sst/lens/internal/visualization/xy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input() Input {
	return Input{
		DatasourceMap: map[string]lens.Datasource{table.ID: table.New()},
		DatasourceStates: lens.DatasourceStates{
			table.ID: {State: table.State{Layers: []table.Layer{{
				ID:    "first",
				Index: "logs-*",
				Columns: []table.Column{
					{ID: "day", Label: "Day", DataType: lens.DataTypeDate, Operation: "date_histogram", SourceField: "@timestamp", IsBucketed: true},
					{ID: "count", Label: "Count", DataType: lens.DataTypeNumber, Operation: "count"},
				},
			}}}},
		},
		VisualizationMap: map[string]lens.Visualization{
			xy.ID:        xy.New(),
			datatable.ID: datatable.New(),
			metric.ID:    metric.New(),
		},
	}
}

func TestGetSuggestionsOrderedByScore(t *testing.T) {
	t.Parallel()
	got := GetSuggestions(input())
	require.NotEmpty(t, got)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.Equal(t, xy.ID, got[0].VisualizationID)
	assert.Equal(t, "Line chart", got[0].Title)
	assert.Equal(t, table.ID, got[0].DatasourceID)
	assert.Equal(t, []string{"first"}, got[0].KeptLayerIDs)

	var metrics int
	for _, s := range got {
		if s.VisualizationID == metric.ID {
			metrics++
		}
	}
	assert.Equal(t, 1, metrics)
}

func TestGetSuggestionsPassesActiveState(t *testing.T) {
	t.Parallel()
	in := input()
	in.ActiveVisualizationID = xy.ID
	in.VisualizationState = xy.State{SeriesType: xy.SeriesLine, LayerID: "first", XAccessor: "day", Accessors: []string{"count"}}

	var titles []string
	for _, s := range GetSuggestions(in) {
		if s.VisualizationID == xy.ID {
			titles = append(titles, s.Title)
		}
	}
	assert.Equal(t, []string{"Bar chart", "Area chart"}, titles)
}

func TestGetSuggestionsSkipsLoadingDatasources(t *testing.T) {
	t.Parallel()
	in := input()
	st := in.DatasourceStates[table.ID]
	st.IsLoading = true
	in.DatasourceStates[table.ID] = st

	assert.Empty(t, GetSuggestions(in))
}
