package datatable

import (
	"testing"

	"github.com/sst/lens/internal/lens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSuggestions(t *testing.T) {
	t.Parallel()
	table := lens.TableDescription{
		LayerID: "first",
		Columns: []lens.ColumnDescription{
			{ID: "host", IsBucketed: true},
			{ID: "count"},
		},
	}
	got := New().GetSuggestions(lens.SuggestionRequest{Table: lens.TableSuggestion{Table: table}})
	require.Len(t, got, 1)
	assert.Equal(t, State{LayerID: "first", Columns: []string{"host", "count"}}, got[0].State)
	assert.InDelta(t, 0.3, got[0].Score, 1e-9)
	assert.Equal(t, lens.IconTable, got[0].PreviewIcon)

	assert.Empty(t, New().GetSuggestions(lens.SuggestionRequest{}))
}

func TestToExpression(t *testing.T) {
	t.Parallel()
	st := State{LayerID: "first", Columns: []string{"host", "count"}}
	assert.Equal(t, `lens_datatable columns="host" columns="count"`, New().ToExpression(st))
	assert.Equal(t, New().ToExpression(st), New().ToPreviewExpression(&st))
}
