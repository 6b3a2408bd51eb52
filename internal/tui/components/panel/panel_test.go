package panel

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sst/lens/internal/adapters"
	"github.com/sst/lens/internal/datasource/table"
	"github.com/sst/lens/internal/frame"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/suggestion"
	"github.com/sst/lens/internal/tui/components/preview"
	"github.com/sst/lens/internal/visualization/xy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *frame.Store
	panel *Panel
	copied []string
}

func (f *fixture) sync() {
	f.panel.SetProps(suggestion.PropsFromState(f.store.State(), adapters.Datasources(), adapters.Visualizations(), lens.FrameContext{}))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ds := table.State{Layers: []table.Layer{{
		ID:    "first",
		Index: "logs-*",
		Columns: []table.Column{
			{ID: "day", Label: "Day", DataType: lens.DataTypeDate, Operation: "date_histogram", SourceField: "@timestamp", IsBucketed: true},
			{ID: "host", Label: "Host", DataType: lens.DataTypeString, Operation: "terms", SourceField: "host", IsBucketed: true},
			{ID: "count", Label: "Count", DataType: lens.DataTypeNumber, Operation: "count"},
		},
	}}}
	initial := lens.EditorState{
		ActiveDatasourceID: table.ID,
		DatasourceStates:   lens.DatasourceStates{table.ID: {State: ds}},
		Visualization: lens.VisualizationRef{ActiveID: xy.ID, State: xy.State{
			SeriesType: xy.SeriesLine, LayerID: "first", XAccessor: "day", SplitAccessor: "host", Accessors: []string{"count"},
		}},
	}

	f := &fixture{store: frame.NewStore(context.Background(), initial)}
	ctrl := suggestion.New(
		suggestion.PropsFromState(initial, adapters.Datasources(), adapters.Visualizations(), lens.FrameContext{}),
		f.store,
		suggestion.WithRenderer(preview.New(preview.WithPlain())),
	)
	f.panel = New(ctrl, f.store,
		WithZoneManager(nil),
		WithClipboard(func(s string) error {
			f.copied = append(f.copied, s)
			return nil
		}),
	)
	return f
}

func press(p *Panel, k tea.KeyMsg) {
	p.Update(k)
}

func TestPanelPresentsCurrentFirst(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	previews := f.panel.Previews()
	require.Greater(t, len(previews), 1)
	assert.Equal(t, suggestion.CurrentTitle, previews[0].Title)
	assert.Contains(t, f.panel.View(), suggestion.CurrentTitle)
}

func TestPanelSelectRollbackAndApply(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	press(f.panel, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, f.panel.Focus())
	press(f.panel, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, f.store.State().IsStaged())
	f.sync()

	assert.True(t, f.panel.Previews()[1].Selected)
	assert.Contains(t, f.panel.View(), "+++ preview")

	press(f.panel, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, f.store.State().IsStaged())
	f.sync()
	assert.NotContains(t, f.panel.View(), "+++ preview")

	f.panel.Click(1)
	f.sync()
	require.True(t, f.store.State().IsStaged())
	press(f.panel, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.False(t, f.store.State().IsStaged())
}

func TestPanelApplyWhileIdleDoesNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	before := f.store.State()

	press(f.panel, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.Equal(t, before, f.store.State())
}

func TestPanelFocusWraps(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	press(f.panel, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, len(f.panel.Previews())-1, f.panel.Focus())
}

func TestPanelCopiesFocusedExpression(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	press(f.panel, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.Len(t, f.copied, 1)
	assert.Equal(t, f.panel.Previews()[0].Expression, f.copied[0])
	assert.Contains(t, f.copied[0], "lens_xy_chart")
}

func TestPanelCopyErrorKeepsGoing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.panel.copy = func(string) error { return errors.New("no clipboard") }

	press(f.panel, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.False(t, f.store.State().IsStaged())
}

func TestStagedDiff(t *testing.T) {
	t.Parallel()
	vis := adapters.Visualizations()
	before := xy.State{SeriesType: xy.SeriesLine, LayerID: "first", XAccessor: "day", Accessors: []string{"count"}}
	after := before
	after.SeriesType = xy.SeriesBar

	assert.Empty(t, StagedDiff(suggestion.Props{VisualizationMap: vis, ActiveVisualizationID: xy.ID, VisualizationState: before}))

	diff := StagedDiff(suggestion.Props{
		VisualizationMap:      vis,
		ActiveVisualizationID: xy.ID,
		VisualizationState:    after,
		StagedPreview: &lens.StagedPreview{
			Visualization: lens.VisualizationRef{ActiveID: xy.ID, State: before},
		},
	})
	assert.Contains(t, diff, `-lens_xy_chart seriesType="line"`)
	assert.Contains(t, diff, `+lens_xy_chart seriesType="bar"`)
}
