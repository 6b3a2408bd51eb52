package suggestion

import (
	"errors"
	"testing"

	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/suggest"
	"github.com/sst/lens/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDatasource struct {
	layers []string
	expr   string
}

func (m *mockDatasource) ID() string                     { return "mock" }
func (m *mockDatasource) GetLayers(lens.State) []string  { return m.layers }
func (m *mockDatasource) ToExpression(lens.State, string) string {
	return m.expr
}
func (m *mockDatasource) GetTableSuggestions(lens.State) []lens.TableSuggestion { return nil }
func (m *mockDatasource) DecodeState([]byte) (lens.State, error)               { return nil, nil }

type mockVisualization struct {
	id      string
	preview func(lens.State) string
	icon    lens.Icon
}

func (m *mockVisualization) ID() string    { return m.id }
func (m *mockVisualization) Title() string { return m.id }
func (m *mockVisualization) Description(lens.State) lens.Description {
	return lens.Description{Label: m.id, Icon: m.icon}
}
func (m *mockVisualization) ToExpression(lens.State) string { return "" }
func (m *mockVisualization) ToPreviewExpression(st lens.State) string {
	if m.preview == nil {
		return ""
	}
	return m.preview(st)
}
func (m *mockVisualization) GetSuggestions(lens.SuggestionRequest) []lens.VisualizationSuggestion {
	return nil
}
func (m *mockVisualization) InitialState(lens.TableDescription) lens.State { return nil }
func (m *mockVisualization) DecodeState([]byte) (lens.State, error)        { return nil, nil }

type countingGenerator struct {
	calls  int
	inputs []suggest.Input
	out    []lens.Suggestion
}

func (g *countingGenerator) generate(in suggest.Input) []lens.Suggestion {
	g.calls++
	g.inputs = append(g.inputs, in)
	return g.out
}

type recordingDispatcher struct {
	actions []lens.Action
}

func (d *recordingDispatcher) Dispatch(a lens.Action) {
	d.actions = append(d.actions, a)
}

type countingRenderer struct {
	requests []RenderRequest
	err      error
}

func (r *countingRenderer) Render(req RenderRequest) (string, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return "", r.err
	}
	return "rendered:" + req.Expression, nil
}

type visState struct {
	Name string
}

func sampleSuggestions() []lens.Suggestion {
	return []lens.Suggestion{
		{
			VisualizationID:    "vis",
			VisualizationState: visState{Name: "suggestion1"},
			DatasourceID:       "mock",
			DatasourceState:    "suggestion1_state",
			Title:              "Suggestion1",
			PreviewIcon:        lens.IconEmpty,
			Score:              0.5,
		},
		{
			VisualizationID:    "vis2",
			VisualizationState: visState{Name: "suggestion2"},
			DatasourceID:       "mock",
			DatasourceState:    "suggestion2_state",
			Title:              "Suggestion2",
			PreviewIcon:        lens.IconEmpty,
			Score:              0.5,
			KeptLayerIDs:       []string{"first"},
		},
	}
}

type fixture struct {
	props      Props
	gen        *countingGenerator
	dispatcher *recordingDispatcher
	renderer   *countingRenderer
	vis        *mockVisualization
	vis2       *mockVisualization
}

func newFixture() *fixture {
	vis := &mockVisualization{id: "vis", icon: lens.IconBar}
	vis2 := &mockVisualization{id: "vis2", icon: lens.IconLine}
	return &fixture{
		props: Props{
			ActiveDatasourceID: "mock",
			DatasourceMap:      map[string]lens.Datasource{"mock": &mockDatasource{layers: []string{"first"}, expr: "datasource_expression"}},
			DatasourceStates: lens.DatasourceStates{
				"mock": {State: "datasource_state"},
			},
			ActiveVisualizationID: "vis",
			VisualizationMap:      map[string]lens.Visualization{"vis": vis, "vis2": vis2},
			VisualizationState:    visState{Name: "current"},
		},
		gen:        &countingGenerator{out: sampleSuggestions()},
		dispatcher: &recordingDispatcher{},
		renderer:   &countingRenderer{},
		vis:        vis,
		vis2:       vis2,
	}
}

func (f *fixture) mount(opts ...Option) *Controller {
	opts = append([]Option{WithGenerator(f.gen.generate), WithRenderer(f.renderer)}, opts...)
	return New(f.props, f.dispatcher, opts...)
}

func staged(props Props) Props {
	props.StagedPreview = &lens.StagedPreview{
		DatasourceStates: props.DatasourceStates,
		Visualization:    lens.VisualizationRef{ActiveID: props.ActiveVisualizationID, State: props.VisualizationState},
	}
	return props
}

func titles(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Title)
	}
	return out
}

func selectedCount(cands []Candidate) int {
	n := 0
	for _, c := range cands {
		if c.Selected {
			n++
		}
	}
	return n
}

func TestPresentsCurrentFollowedBySuggestions(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	assert.Equal(t, 1, f.gen.calls)
	assert.Equal(t, []string{"Current", "Suggestion1", "Suggestion2"}, titles(c.Candidates()))
	assert.True(t, c.Candidates()[0].IsCurrent())
	assert.Equal(t, lens.IconBar, c.Candidates()[0].Icon)
}

func TestEmptyGeneratorPresentsOnlyCurrent(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.gen.out = nil
	c := f.mount()

	assert.Equal(t, []string{"Current"}, titles(c.Candidates()))
	c.Select(1)
	assert.Empty(t, f.dispatcher.actions)
}

func TestGeneratorGetsCommittedState(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.mount()

	require.Len(t, f.gen.inputs, 1)
	in := f.gen.inputs[0]
	assert.Equal(t, "vis", in.ActiveVisualizationID)
	assert.Equal(t, visState{Name: "current"}, in.VisualizationState)
	assert.Equal(t, f.props.DatasourceStates, in.DatasourceStates)
}

func TestPresentationFilters(t *testing.T) {
	t.Parallel()

	t.Run("hidden suggestions are dropped", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.gen.out[0].Hide = true
		assert.Equal(t, []string{"Current", "Suggestion2"}, titles(f.mount().Candidates()))
	})

	t.Run("suggestion equal to current is dropped", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		f.gen.out[0].VisualizationState = visState{Name: "current"}
		assert.Equal(t, []string{"Current", "Suggestion2"}, titles(f.mount().Candidates()))
	})

	t.Run("list is capped", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		assert.Equal(t, []string{"Current", "Suggestion1"}, titles(f.mount(WithMaxSuggestions(1)).Candidates()))
	})

	t.Run("zero means no cap", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		for range 10 {
			f.gen.out = append(f.gen.out, lens.Suggestion{VisualizationID: "vis2", VisualizationState: visState{Name: "x"}, Title: "More"})
		}
		assert.Len(t, f.mount(WithMaxSuggestions(0)).Candidates(), 13)
		assert.Len(t, f.mount().Candidates(), 1+DefaultMaxSuggestions)
	})
}

func TestGate(t *testing.T) {
	t.Parallel()

	t.Run("unrelated props do not regenerate", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		c := f.mount()

		next := f.props
		next.Frame = lens.FrameContext{Query: "host:a"}
		next.DatasourceStates = lens.DatasourceStates{"mock": {State: "datasource_state"}}
		assert.False(t, c.Update(next))
		assert.Equal(t, 1, f.gen.calls)
	})

	t.Run("watched field change regenerates once", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		c := f.mount()

		next := f.props
		next.VisualizationState = visState{Name: "changed"}
		assert.True(t, c.Update(next))
		assert.Equal(t, 2, f.gen.calls)
		assert.False(t, c.Update(next))
		assert.Equal(t, 2, f.gen.calls)

		next.ActiveVisualizationID = "vis2"
		assert.True(t, c.Update(next))
		next.DatasourceStates = lens.DatasourceStates{"mock": {State: "other"}}
		assert.True(t, c.Update(next))
		assert.Equal(t, 4, f.gen.calls)
	})

	t.Run("staged updates never regenerate", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		c := f.mount()

		next := staged(f.props)
		next.VisualizationState = visState{Name: "suggestion1"}
		assert.False(t, c.Update(next))

		again := staged(next)
		again.VisualizationState = visState{Name: "suggestion2"}
		assert.False(t, c.Update(again))
		assert.False(t, c.Update(again))
		assert.Equal(t, 1, f.gen.calls)
	})

	t.Run("clearing the staged preview regenerates once from committed state", func(t *testing.T) {
		t.Parallel()
		f := newFixture()
		c := f.mount()
		c.Update(staged(f.props))

		committed := f.props
		committed.ActiveVisualizationID = "vis2"
		committed.VisualizationState = visState{Name: "suggestion2"}
		assert.True(t, c.Update(committed))
		assert.False(t, c.Update(committed))

		require.Equal(t, 2, f.gen.calls)
		assert.Equal(t, "vis2", f.gen.inputs[1].ActiveVisualizationID)
		assert.Equal(t, visState{Name: "suggestion2"}, f.gen.inputs[1].VisualizationState)
	})
}

func TestStagedListIsFrozen(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()
	before := c.Candidates()

	f.gen.out = nil
	next := staged(f.props)
	next.ActiveVisualizationID = "vis2"
	next.VisualizationState = visState{Name: "suggestion2"}
	c.Update(next)

	assert.Equal(t, titles(before), titles(c.Candidates()))
	assert.Equal(t, "vis", c.Candidates()[0].VisualizationID)
	assert.Equal(t, visState{Name: "current"}, c.Candidates()[0].VisualizationState)
}

func TestSelectDispatchesSuggestion(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	c.Select(2)

	require.Len(t, f.dispatcher.actions, 1)
	assert.Equal(t, lens.SelectSuggestion{
		VisualizationID: "vis2",
		DatasourceID:    "mock",
		DatasourceState: "suggestion2_state",
		InitialState:    visState{Name: "suggestion2"},
		KeptLayerIDs:    []string{"first"},
	}, f.dispatcher.actions[0])
	assert.Equal(t, 2, c.SelectedIndex())
	assert.True(t, c.IsStaged())
}

func TestSelectionMarker(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	cands := c.Candidates()
	assert.Equal(t, 1, selectedCount(cands))
	assert.True(t, cands[0].Selected)

	for _, i := range []int{1, 2, 0, 2} {
		c.Select(i)
		cands = c.Candidates()
		assert.Equal(t, 1, selectedCount(cands), "after selecting %d", i)
		assert.True(t, cands[i].Selected, "after selecting %d", i)
	}
}

func TestReselectingKeepsSnapshotOnHost(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	c.Select(1)
	c.Update(staged(f.props))
	c.Select(2)

	require.Len(t, f.dispatcher.actions, 2)
	assert.IsType(t, lens.SelectSuggestion{}, f.dispatcher.actions[1])
	assert.Equal(t, 2, c.SelectedIndex())
	assert.Equal(t, 1, f.gen.calls)
}

func TestSelectingSelectedSuggestionIsNoop(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	c.Select(1)
	c.Select(1)

	assert.Len(t, f.dispatcher.actions, 1)
	assert.Equal(t, 1, c.SelectedIndex())
}

func TestCurrentRollsBack(t *testing.T) {
	t.Parallel()

	for _, index := range []int{1, 2} {
		f := newFixture()
		c := f.mount()

		c.Select(index)
		c.Update(staged(f.props))
		c.Select(0)

		require.Len(t, f.dispatcher.actions, 2)
		assert.Equal(t, lens.RollbackSuggestion{}, f.dispatcher.actions[1])
		assert.Equal(t, 0, c.SelectedIndex())
	}
}

func TestRepeatedRollbackBeforeHostEcho(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	c.Select(2)
	c.Update(staged(f.props))
	c.Select(0)
	c.Select(0)

	require.Len(t, f.dispatcher.actions, 2)
	assert.IsType(t, lens.SelectSuggestion{}, f.dispatcher.actions[0])
	assert.Equal(t, lens.RollbackSuggestion{}, f.dispatcher.actions[1])
	assert.False(t, c.IsStaged())
}

func TestSelectStagesBeforeHostEcho(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	c.Select(1)
	assert.True(t, c.IsStaged())

	c.Select(0)
	require.Len(t, f.dispatcher.actions, 2)
	assert.Equal(t, lens.RollbackSuggestion{}, f.dispatcher.actions[1])
}

func TestCurrentWhileIdleIsNoop(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	c.Select(0)
	assert.Empty(t, f.dispatcher.actions)
}

func TestOutOfRangeIsIgnored(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	c.Select(-1)
	c.Select(3)
	assert.Empty(t, f.dispatcher.actions)
}

func TestExternalCommitReturnsToIdle(t *testing.T) {
	t.Parallel()
	f := newFixture()
	c := f.mount()

	c.Select(1)
	c.Update(staged(f.props))
	require.True(t, c.IsStaged())

	committed := f.props
	committed.VisualizationState = visState{Name: "suggestion1"}
	assert.True(t, c.Update(committed))
	assert.False(t, c.IsStaged())
	assert.Equal(t, 0, c.SelectedIndex())
	assert.Equal(t, 2, f.gen.calls)
}

func TestTracksClicks(t *testing.T) {
	t.Parallel()
	f := newFixture()
	tracker := telemetry.NewService()
	defer tracker.Shutdown()
	c := f.mount(WithTracker(tracker))

	c.Select(2)
	c.Update(staged(f.props))
	c.Select(0)

	assert.Equal(t, 2, tracker.Count(telemetry.Event{Kind: telemetry.KindUI, Name: "suggestion_clicked"}))
	assert.Equal(t, 1, tracker.Count(telemetry.Event{Kind: telemetry.KindSuggestion, Name: "position_2_of_2"}))
	assert.Equal(t, 1, tracker.Count(telemetry.Event{Kind: telemetry.KindSuggestion, Name: "back_to_current"}))
}

func TestPreviewExpressionAssembly(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.vis2.preview = func(lens.State) string { return "test | expression" }
	c := f.mount()

	previews := c.Previews()

	require.Len(t, f.renderer.requests, 1)
	assert.Equal(t, "kibana\n| lens_merge_tables layerIds=\"first\" tables={datasource_expression}\n| test\n| expression", f.renderer.requests[0].Expression)
	assert.True(t, previews[2].Rendering())
	assert.False(t, previews[1].Rendering())
	assert.False(t, previews[1].ShowIcon())
}

func TestPrecomputedPreviewExpressionWins(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.vis.preview = func(lens.State) string { return "from_adapter" }
	f.gen.out[0].PreviewExpression = "precomputed"
	c := f.mount()

	assert.Contains(t, c.Expression(c.Candidates()[1]), "| precomputed")
	assert.Contains(t, c.Expression(c.Candidates()[0]), "| from_adapter")
}

func TestIconFallback(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.gen.out[0].PreviewIcon = lens.IconArea
	c := f.mount()

	previews := c.Previews()

	assert.Empty(t, f.renderer.requests)
	icons := 0
	for _, p := range previews {
		if p.ShowIcon() {
			icons++
		}
	}
	// current shows the active visualization's icon, suggestion 1 its own
	assert.Equal(t, 2, icons)
	assert.Equal(t, lens.IconArea, previews[1].Icon)
	assert.False(t, previews[2].ShowIcon())
}

func TestRenderErrorFallsBackToIcon(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.vis2.preview = func(lens.State) string { return "test" }
	f.gen.out[1].PreviewIcon = lens.IconLine
	f.renderer.err = errors.New("boom")
	c := f.mount()

	previews := c.Previews()
	require.Len(t, f.renderer.requests, 1)
	assert.Error(t, previews[2].RenderErr)
	assert.True(t, previews[2].ShowIcon())
}

func TestPreviewUsesSuggestionDatasourceStateAndKeptLayers(t *testing.T) {
	t.Parallel()
	f := newFixture()
	ds := &layeredDatasource{}
	f.props.DatasourceMap = map[string]lens.Datasource{"mock": ds}
	f.vis2.preview = func(lens.State) string { return "chart" }
	c := f.mount()

	expr := c.Expression(c.Candidates()[2])
	assert.Equal(t, "kibana\n| lens_merge_tables layerIds=\"first\" tables={table_first}\n| chart", expr)
	assert.Equal(t, []lens.State{"suggestion2_state"}, ds.seen)
}

func TestBrokenFragmentDegradesToIcon(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.vis2.preview = func(lens.State) string { return "broken {" }
	f.gen.out[1].PreviewIcon = lens.IconLine
	c := f.mount()

	previews := c.Previews()
	assert.Empty(t, f.renderer.requests)
	assert.True(t, previews[2].ShowIcon())
}

type layeredDatasource struct {
	mockDatasource
	seen []lens.State
}

func (d *layeredDatasource) GetLayers(st lens.State) []string {
	d.seen = append(d.seen, st)
	return []string{"first", "second"}
}

func (d *layeredDatasource) ToExpression(_ lens.State, layer string) string {
	return "table_" + layer
}
