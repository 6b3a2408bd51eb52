// Package suggestion is the suggestion panel controller. It decides when the
// generator runs, what the panel presents, and which action a click
// dispatches. It never changes editor state itself: the host owns that state,
// hands it in through Update and receives intents through its Dispatcher.
package suggestion

import (
	"fmt"

	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/suggest"
	"github.com/sst/lens/internal/telemetry"
)

const (
	// CurrentTitle labels the entry for the committed configuration.
	CurrentTitle = "Current"

	DefaultMaxSuggestions = 5

	noSelection = -1
)

// GeneratorFunc produces ordered suggestions for a state.
type GeneratorFunc func(in suggest.Input) []lens.Suggestion

// Props is the host state the panel reads.
type Props struct {
	ActiveDatasourceID    string
	DatasourceMap         map[string]lens.Datasource
	DatasourceStates      lens.DatasourceStates
	ActiveVisualizationID string
	VisualizationMap      map[string]lens.Visualization
	VisualizationState    lens.State
	StagedPreview         *lens.StagedPreview
	Frame                 lens.FrameContext
}

// PropsFromState reads Props out of an editor state.
func PropsFromState(st lens.EditorState, datasources map[string]lens.Datasource, visualizations map[string]lens.Visualization, frame lens.FrameContext) Props {
	return Props{
		ActiveDatasourceID:    st.ActiveDatasourceID,
		DatasourceMap:         datasources,
		DatasourceStates:      st.DatasourceStates,
		ActiveVisualizationID: st.Visualization.ActiveID,
		VisualizationMap:      visualizations,
		VisualizationState:    st.Visualization.State,
		StagedPreview:         st.StagedPreview,
		Frame:                 frame,
	}
}

// Candidate is one presented entry. Index 0 is the current configuration and
// has no Suggestion; index i maps to the i-th presented suggestion.
type Candidate struct {
	Index              int
	Title              string
	VisualizationID    string
	VisualizationState lens.State
	Icon               lens.Icon
	Suggestion         *lens.Suggestion
	Selected           bool
}

// IsCurrent reports whether the candidate is the committed configuration.
func (c Candidate) IsCurrent() bool {
	return c.Index == 0
}

type Option func(*Controller)

func WithGenerator(fn GeneratorFunc) Option {
	return func(c *Controller) {
		c.generate = fn
	}
}

func WithRenderer(r Renderer) Option {
	return func(c *Controller) {
		c.renderer = r
	}
}

func WithTracker(t telemetry.Tracker) Option {
	return func(c *Controller) {
		c.tracker = t
	}
}

// WithMaxSuggestions caps the presented suggestions; 0 means no cap.
func WithMaxSuggestions(n int) Option {
	return func(c *Controller) {
		if n >= 0 {
			c.max = n
		}
	}
}

type Controller struct {
	props      Props
	dispatcher lens.Dispatcher
	generate   GeneratorFunc
	renderer   Renderer
	tracker    telemetry.Tracker
	max        int

	suggestions []lens.Suggestion
	selected    int
	// staged follows the host until this controller dispatches a select or
	// a rollback, which take effect before the host echoes them back.
	staged bool
}

// New mounts a controller and runs the generator once.
func New(props Props, dispatcher lens.Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		props:      props,
		dispatcher: dispatcher,
		generate:   suggest.GetSuggestions,
		tracker:    telemetry.Nop{},
		max:        DefaultMaxSuggestions,
		selected:   noSelection,
		staged:     props.StagedPreview != nil,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.regenerate()
	return c
}

// Update hands in the next host state and reports whether the generator ran.
func (c *Controller) Update(next Props) bool {
	prev := c.props
	c.props = next
	c.staged = next.StagedPreview != nil

	if next.StagedPreview == nil {
		c.selected = noSelection
	}
	if !shouldRegenerate(prev, next) {
		return false
	}
	c.regenerate()
	return true
}

// Props returns the host state last handed in.
func (c *Controller) Props() Props {
	return c.props
}

// SelectedIndex is the presented index of the highlighted candidate.
func (c *Controller) SelectedIndex() int {
	return c.selected + 1
}

// IsStaged reports whether a suggestion is being previewed.
func (c *Controller) IsStaged() bool {
	return c.staged
}

// Suggestions are the presented suggestions, without the current entry.
func (c *Controller) Suggestions() []lens.Suggestion {
	return c.suggestions
}

// Candidates is the presented list: the current configuration followed by
// the filtered suggestions in generator order. Hidden suggestions and those
// equal to the current configuration are dropped, and the rest are capped at
// the configured maximum.
func (c *Controller) Candidates() []Candidate {
	eff := c.effective()
	out := make([]Candidate, 0, len(c.suggestions)+1)
	out = append(out, Candidate{
		Index:              0,
		Title:              CurrentTitle,
		VisualizationID:    eff.visualizationID,
		VisualizationState: eff.visualizationState,
		Icon:               c.currentIcon(eff),
		Selected:           c.selected == noSelection,
	})
	for i := range c.suggestions {
		s := &c.suggestions[i]
		out = append(out, Candidate{
			Index:              i + 1,
			Title:              s.Title,
			VisualizationID:    s.VisualizationID,
			VisualizationState: s.VisualizationState,
			Icon:               s.PreviewIcon,
			Suggestion:         s,
			Selected:           c.selected == i,
		})
	}
	return out
}

// Select handles a click on the presented candidate at index.
func (c *Controller) Select(index int) {
	if index < 0 || index > len(c.suggestions) {
		return
	}
	c.tracker.TrackUIEvent("suggestion_clicked")

	if index == 0 {
		if !c.IsStaged() {
			return
		}
		c.selected = noSelection
		c.staged = false
		c.tracker.TrackSuggestionEvent("back_to_current")
		c.dispatcher.Dispatch(lens.RollbackSuggestion{})
		return
	}

	if index-1 == c.selected {
		return
	}
	c.selected = index - 1
	c.staged = true
	s := c.suggestions[c.selected]
	c.tracker.TrackSuggestionEvent(fmt.Sprintf("position_%d_of_%d", index, len(c.suggestions)))
	c.dispatcher.Dispatch(lens.SelectSuggestion{
		VisualizationID: s.VisualizationID,
		DatasourceID:    s.DatasourceID,
		DatasourceState: s.DatasourceState,
		InitialState:    s.VisualizationState,
		KeptLayerIDs:    s.KeptLayerIDs,
	})
}

type effectiveState struct {
	datasourceStates   lens.DatasourceStates
	visualizationID    string
	visualizationState lens.State
}

// effective is the state the panel describes: the staged snapshot while a
// preview is pending, the committed state otherwise.
func (c *Controller) effective() effectiveState {
	if sp := c.props.StagedPreview; sp != nil {
		return effectiveState{
			datasourceStates:   sp.DatasourceStates,
			visualizationID:    sp.Visualization.ActiveID,
			visualizationState: sp.Visualization.State,
		}
	}
	return effectiveState{
		datasourceStates:   c.props.DatasourceStates,
		visualizationID:    c.props.ActiveVisualizationID,
		visualizationState: c.props.VisualizationState,
	}
}

func (c *Controller) currentIcon(eff effectiveState) lens.Icon {
	vis, ok := c.props.VisualizationMap[eff.visualizationID]
	if !ok {
		return lens.IconEmpty
	}
	return vis.Description(eff.visualizationState).Icon
}

func (c *Controller) regenerate() {
	eff := c.effective()
	all := c.generate(suggest.Input{
		DatasourceMap:         c.props.DatasourceMap,
		DatasourceStates:      eff.datasourceStates,
		VisualizationMap:      c.props.VisualizationMap,
		ActiveVisualizationID: eff.visualizationID,
		VisualizationState:    eff.visualizationState,
	})

	presented := make([]lens.Suggestion, 0, len(all))
	for _, s := range all {
		if s.Hide {
			continue
		}
		if s.VisualizationID == eff.visualizationID && equalState(s.VisualizationState, eff.visualizationState) {
			continue
		}
		presented = append(presented, s)
		if c.max > 0 && len(presented) == c.max {
			break
		}
	}
	c.suggestions = presented
}
