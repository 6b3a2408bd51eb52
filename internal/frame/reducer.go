// Package frame owns the committed editor state: a pure reducer and a store
// that applies dispatched actions and announces every new state.
package frame

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sst/lens/internal/lens"
)

var (
	ErrUnknownAction         = errors.New("unknown action")
	ErrVisualizationMismatch = errors.New("visualization is not active")
	ErrUnknownDatasource     = errors.New("unknown datasource")
)

// Reduce returns the state after applying action. It never modifies state.
// Selections keep every layer; use a Reducer with datasources to drop the
// layers a suggestion does not keep.
func Reduce(state lens.EditorState, action lens.Action) (lens.EditorState, error) {
	return Reducer{}.Reduce(state, action)
}

// Reducer reduces actions with access to the datasource adapters.
type Reducer struct {
	Datasources map[string]lens.Datasource
}

func (r Reducer) Reduce(state lens.EditorState, action lens.Action) (lens.EditorState, error) {
	next, err := reduce(state, action)
	if err != nil {
		return next, err
	}
	if a, ok := action.(lens.SelectSuggestion); ok {
		next.DatasourceStates = pruneLayers(next.DatasourceStates, r.Datasources, a.KeptLayerIDs)
	}
	return next, nil
}

func reduce(state lens.EditorState, action lens.Action) (lens.EditorState, error) {
	switch a := action.(type) {
	case lens.SelectSuggestion:
		next := state
		next.StagedPreview = state.StagedPreview
		if next.StagedPreview == nil {
			next.StagedPreview = &lens.StagedPreview{
				DatasourceStates: state.DatasourceStates,
				Visualization:    state.Visualization,
			}
		}
		next.DatasourceStates = withDatasource(state.DatasourceStates, a.DatasourceID, a.DatasourceState)
		next.Visualization = lens.VisualizationRef{ActiveID: a.VisualizationID, State: a.InitialState}
		return next, nil

	case lens.RollbackSuggestion:
		sp := state.StagedPreview
		if sp == nil {
			return state, nil
		}
		next := state
		next.DatasourceStates = sp.DatasourceStates
		next.Visualization = sp.Visualization
		next.StagedPreview = nil
		return next, nil

	case lens.SubmitSuggestion:
		next := state
		next.StagedPreview = nil
		return next, nil

	case lens.SwitchVisualization:
		next := state
		next.DatasourceStates = withDatasource(state.DatasourceStates, a.DatasourceID, a.DatasourceState)
		next.Visualization = lens.VisualizationRef{ActiveID: a.VisualizationID, State: a.InitialState}
		if a.ClearStagedPreview {
			next.StagedPreview = nil
		}
		return next, nil

	case lens.UpdateVisualizationState:
		if a.VisualizationID != state.Visualization.ActiveID {
			return state, fmt.Errorf("%w: %q (active %q)", ErrVisualizationMismatch, a.VisualizationID, state.Visualization.ActiveID)
		}
		next := state
		next.Visualization.State = a.State
		if a.ClearStagedPreview {
			next.StagedPreview = nil
		}
		return next, nil

	case lens.UpdateDatasourceState:
		if _, ok := state.DatasourceStates[a.DatasourceID]; !ok {
			return state, fmt.Errorf("%w: %q", ErrUnknownDatasource, a.DatasourceID)
		}
		next := state
		next.DatasourceStates = withDatasource(state.DatasourceStates, a.DatasourceID, a.State)
		if a.ClearStagedPreview {
			next.StagedPreview = nil
		}
		return next, nil

	case lens.Reset:
		return a.State, nil
	}

	if action == nil {
		return state, fmt.Errorf("%w: nil", ErrUnknownAction)
	}
	return state, fmt.Errorf("%w: %s", ErrUnknownAction, action.Type())
}

func withDatasource(states lens.DatasourceStates, id string, st lens.State) lens.DatasourceStates {
	if id == "" {
		return states
	}
	next := states.Clone()
	next[id] = lens.DatasourceState{State: st}
	return next
}

// pruneLayers removes, across every datasource, the layers not listed in keep.
// An empty keep list leaves the states alone.
func pruneLayers(states lens.DatasourceStates, datasources map[string]lens.Datasource, keep []string) lens.DatasourceStates {
	if len(keep) == 0 || len(datasources) == 0 {
		return states
	}
	next := states
	cloned := false
	for id, ds := range states {
		adapter, ok := datasources[id]
		if !ok {
			continue
		}
		remover, ok := adapter.(lens.LayerRemover)
		if !ok {
			continue
		}
		st := ds.State
		changed := false
		for _, layer := range adapter.GetLayers(st) {
			if slices.Contains(keep, layer) {
				continue
			}
			st = remover.RemoveLayer(st, layer)
			changed = true
		}
		if !changed {
			continue
		}
		if !cloned {
			next = states.Clone()
			cloned = true
		}
		ds.State = st
		next[id] = ds
	}
	return next
}
