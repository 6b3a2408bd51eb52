package suggestion

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// stateOptions compare opaque adapter states structurally, unexported fields
// included.
var stateOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateEmpty(),
}

func equalState(a, b any) bool {
	return cmp.Equal(a, b, stateOptions...)
}

// shouldRegenerate decides whether moving from prev to next needs a fresh
// generator call:
//   - a staged preview in next freezes the list, whatever prev had;
//   - clearing the staged preview regenerates once from next;
//   - otherwise only a change of a watched field regenerates.
func shouldRegenerate(prev, next Props) bool {
	if next.StagedPreview != nil {
		return false
	}
	if prev.StagedPreview != nil {
		return true
	}
	return watchedChanged(prev, next)
}

func watchedChanged(prev, next Props) bool {
	return prev.ActiveVisualizationID != next.ActiveVisualizationID ||
		!equalState(prev.VisualizationState, next.VisualizationState) ||
		!equalState(prev.DatasourceStates, next.DatasourceStates)
}
