package lens

// ActionType identifies a state transition requested from the host.
type ActionType string

const (
	ActionSelectSuggestion         ActionType = "SELECT_SUGGESTION"
	ActionRollbackSuggestion       ActionType = "ROLLBACK_SUGGESTION"
	ActionSubmitSuggestion         ActionType = "SUBMIT_SUGGESTION"
	ActionSwitchVisualization      ActionType = "SWITCH_VISUALIZATION"
	ActionUpdateVisualizationState ActionType = "UPDATE_VISUALIZATION_STATE"
	ActionUpdateDatasourceState    ActionType = "UPDATE_DATASOURCE_STATE"
	ActionReset                    ActionType = "RESET"
)

// Action is a discrete intent handed to a Dispatcher.
type Action interface {
	Type() ActionType
}

// Dispatcher accepts actions. The host owns the state they mutate.
type Dispatcher interface {
	Dispatch(action Action)
}

// DispatchFunc adapts a function to a Dispatcher.
type DispatchFunc func(action Action)

func (f DispatchFunc) Dispatch(action Action) {
	f(action)
}

// SelectSuggestion previews a suggestion without committing it.
type SelectSuggestion struct {
	VisualizationID string
	DatasourceID    string
	DatasourceState State
	InitialState    State
	KeptLayerIDs    []string
}

func (SelectSuggestion) Type() ActionType { return ActionSelectSuggestion }

// RollbackSuggestion restores the state from before the first staged selection.
type RollbackSuggestion struct{}

func (RollbackSuggestion) Type() ActionType { return ActionRollbackSuggestion }

// SubmitSuggestion commits the staged preview.
type SubmitSuggestion struct{}

func (SubmitSuggestion) Type() ActionType { return ActionSubmitSuggestion }

// SwitchVisualization changes the active visualization.
type SwitchVisualization struct {
	VisualizationID    string
	InitialState       State
	DatasourceID       string
	DatasourceState    State
	ClearStagedPreview bool
}

func (SwitchVisualization) Type() ActionType { return ActionSwitchVisualization }

// UpdateVisualizationState replaces the active visualization's state.
type UpdateVisualizationState struct {
	VisualizationID    string
	State              State
	ClearStagedPreview bool
}

func (UpdateVisualizationState) Type() ActionType { return ActionUpdateVisualizationState }

// UpdateDatasourceState replaces one datasource's state.
type UpdateDatasourceState struct {
	DatasourceID       string
	State              State
	ClearStagedPreview bool
}

func (UpdateDatasourceState) Type() ActionType { return ActionUpdateDatasourceState }

// Reset replaces the whole editor state, e.g. after restoring a version.
type Reset struct {
	State EditorState
}

func (Reset) Type() ActionType { return ActionReset }
