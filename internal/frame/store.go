package frame

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sst/lens/internal/history"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/pubsub"
)

const EventStateUpdated pubsub.EventType = "frame_state_updated"

// Recorder persists committed states.
type Recorder interface {
	Record(ctx context.Context, state lens.EditorState) (history.Version, error)
}

// Store is the editor's Dispatcher. Actions are reduced one at a time; every
// accepted action publishes the resulting state.
type Store struct {
	*pubsub.Broker[lens.EditorState]

	ctx      context.Context
	mu       sync.Mutex
	state    lens.EditorState
	reducer  Reducer
	recorder Recorder
	onError  func(error)
}

type StoreOption func(*Store)

// WithRecorder records every commit of a staged preview.
func WithRecorder(r Recorder) StoreOption {
	return func(s *Store) {
		s.recorder = r
	}
}

// WithDatasources lets selections drop the layers a suggestion does not keep.
func WithDatasources(datasources map[string]lens.Datasource) StoreOption {
	return func(s *Store) {
		s.reducer.Datasources = datasources
	}
}

// WithErrorHandler is called with reducer and recorder errors.
func WithErrorHandler(fn func(error)) StoreOption {
	return func(s *Store) {
		s.onError = fn
	}
}

func NewStore(ctx context.Context, initial lens.EditorState, opts ...StoreOption) *Store {
	s := &Store{
		Broker: pubsub.NewBroker[lens.EditorState](),
		ctx:    ctx,
		state:  initial,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() lens.EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch implements lens.Dispatcher. Errors go to the error handler.
func (s *Store) Dispatch(action lens.Action) {
	if err := s.Apply(action); err != nil && s.onError != nil {
		s.onError(err)
	}
}

// Apply reduces action into the store and returns the reducer or recorder
// error, if any. A rejected action leaves the state untouched.
func (s *Store) Apply(action lens.Action) error {
	s.mu.Lock()
	prev := s.state
	next, err := s.reducer.Reduce(prev, action)
	if err != nil {
		s.mu.Unlock()
		slog.Warn("action rejected", "action", typeOf(action), "error", err)
		return err
	}
	s.state = next
	s.mu.Unlock()

	slog.Debug("action applied", "action", action.Type(), "staged", next.IsStaged())
	s.Publish(EventStateUpdated, next)

	if s.recorder != nil && isCommit(action, prev) {
		if _, err := s.recorder.Record(s.ctx, next); err != nil {
			slog.Error("recording version", "error", err)
			return err
		}
	}
	return nil
}

func isCommit(action lens.Action, prev lens.EditorState) bool {
	switch action.(type) {
	case lens.SubmitSuggestion:
		return prev.IsStaged()
	case lens.SwitchVisualization:
		return true
	}
	return false
}

func typeOf(action lens.Action) lens.ActionType {
	if action == nil {
		return ""
	}
	return action.Type()
}
