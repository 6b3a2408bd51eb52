package frame

import (
	"errors"
	"fmt"

	"github.com/sst/lens/internal/lens"
)

var (
	ErrUnknownVisualization = errors.New("unknown visualization")
	ErrNoInitialState       = errors.New("visualization cannot chart the current table")
)

// SwitchTo builds the action that makes visID the active visualization over
// the unchanged table of the active datasource. The staged preview, if any,
// is dropped.
func SwitchTo(state lens.EditorState, datasources map[string]lens.Datasource, visualizations map[string]lens.Visualization, visID string) (lens.SwitchVisualization, error) {
	vis, ok := visualizations[visID]
	if !ok {
		return lens.SwitchVisualization{}, fmt.Errorf("%w: %q", ErrUnknownVisualization, visID)
	}
	ds, ok := datasources[state.ActiveDatasourceID]
	if !ok {
		return lens.SwitchVisualization{}, fmt.Errorf("%w: %q", ErrUnknownDatasource, state.ActiveDatasourceID)
	}
	for _, t := range ds.GetTableSuggestions(state.DatasourceStates[state.ActiveDatasourceID].State) {
		if t.Table.ChangeType != lens.TableUnchanged {
			continue
		}
		if initial := vis.InitialState(t.Table); initial != nil {
			return lens.SwitchVisualization{
				VisualizationID:    visID,
				InitialState:       initial,
				ClearStagedPreview: true,
			}, nil
		}
	}
	return lens.SwitchVisualization{}, fmt.Errorf("%w: %s", ErrNoInitialState, vis.Title())
}
