package metric

import (
	"testing"

	"github.com/sst/lens/internal/lens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var single = lens.TableDescription{
	LayerID: "first",
	Columns: []lens.ColumnDescription{{ID: "count", Label: "Count", DataType: lens.DataTypeNumber}},
}

func TestGetSuggestions(t *testing.T) {
	t.Parallel()
	v := New()

	got := v.GetSuggestions(lens.SuggestionRequest{Table: lens.TableSuggestion{Table: single}})
	require.Len(t, got, 1)
	assert.Equal(t, "Count", got[0].Title)
	assert.Equal(t, State{LayerID: "first", Accessor: "count", Title: "Count"}, got[0].State)

	current := got[0].State
	assert.Empty(t, v.GetSuggestions(lens.SuggestionRequest{Table: lens.TableSuggestion{Table: single}, State: current}))

	bucketed := single
	bucketed.Columns = append([]lens.ColumnDescription{{ID: "host", IsBucketed: true}}, single.Columns...)
	assert.Empty(t, v.GetSuggestions(lens.SuggestionRequest{Table: lens.TableSuggestion{Table: bucketed}}))
}

func TestExpressions(t *testing.T) {
	t.Parallel()
	st := State{Accessor: "count", Title: "Count"}
	assert.Equal(t, `lens_metric_chart accessor="count" mode="reduced"`, New().ToPreviewExpression(st))
	assert.Equal(t, `lens_metric_chart accessor="count" mode="full" title="Count"`, New().ToExpression(st))
	assert.Empty(t, New().ToExpression(nil))
}
