// Package lens holds the domain model shared by the editor frame, the
// suggestion panel and the datasource/visualization adapters.
package lens

// State is an opaque, adapter-owned state blob. Every datasource and
// visualization defines its own concrete type and type-asserts it; code that
// only routes states around never looks inside.
type State any

// Icon names a preview glyph. IconEmpty means "nothing to show".
type Icon string

const (
	IconEmpty Icon = "empty"

	IconBar    Icon = "bar"
	IconLine   Icon = "line"
	IconArea   Icon = "area"
	IconTable  Icon = "table"
	IconMetric Icon = "metric"
)

// IsEmpty reports whether the icon renders nothing.
func (i Icon) IsEmpty() bool {
	return i == "" || i == IconEmpty
}

// DatasourceState wraps a datasource's state with its loading flag.
type DatasourceState struct {
	IsLoading bool
	State     State
}

// DatasourceStates maps datasource ids to their states.
type DatasourceStates map[string]DatasourceState

// Clone returns a shallow copy so reducers never share the map.
func (d DatasourceStates) Clone() DatasourceStates {
	out := make(DatasourceStates, len(d))
	for id, st := range d {
		out[id] = st
	}
	return out
}

// VisualizationRef is the active visualization and its state.
type VisualizationRef struct {
	ActiveID string
	State    State
}

// StagedPreview is the committed state captured when the first suggestion
// was selected for preview. Rolling back restores it verbatim.
type StagedPreview struct {
	DatasourceStates DatasourceStates
	Visualization    VisualizationRef
}

// EditorState is the committed state owned by the host application.
type EditorState struct {
	Title              string
	ActiveDatasourceID string
	DatasourceStates   DatasourceStates
	Visualization      VisualizationRef
	StagedPreview      *StagedPreview
}

// IsStaged reports whether a preview is pending commit or rollback.
func (s EditorState) IsStaged() bool {
	return s.StagedPreview != nil
}

// Suggestion is a generator-produced alternative configuration.
type Suggestion struct {
	VisualizationID    string
	VisualizationState State
	DatasourceID       string
	DatasourceState    State
	Title              string
	PreviewIcon        Icon
	// PreviewExpression is an optional precomputed visualization fragment.
	PreviewExpression string
	Score             float64
	KeptLayerIDs      []string
	Hide              bool
}

// FrameContext is the search context handed to the expression renderer.
type FrameContext struct {
	Query   string
	Filters []string
}
