// Package telemetry counts UI and suggestion events. Counts stay in process
// and are flushed to the log on shutdown.
package telemetry

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/sst/lens/internal/pubsub"
)

type Kind string

const (
	KindUI         Kind = "ui"
	KindSuggestion Kind = "suggestion"
)

// Event is one tracked occurrence.
type Event struct {
	Kind Kind
	Name string
}

type Tracker interface {
	TrackUIEvent(name string)
	TrackSuggestionEvent(name string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) TrackUIEvent(string)         {}
func (Nop) TrackSuggestionEvent(string) {}

// Service is a Tracker that keeps per-event counts and publishes each event.
type Service struct {
	*pubsub.Broker[Event]

	mu     sync.Mutex
	counts map[Event]int
}

func NewService() *Service {
	return &Service{
		Broker: pubsub.NewBroker[Event](),
		counts: make(map[Event]int),
	}
}

func (s *Service) TrackUIEvent(name string) {
	s.track(Event{Kind: KindUI, Name: name})
}

func (s *Service) TrackSuggestionEvent(name string) {
	s.track(Event{Kind: KindSuggestion, Name: name})
}

func (s *Service) track(e Event) {
	s.mu.Lock()
	s.counts[e]++
	s.mu.Unlock()
	s.Publish(pubsub.EventTypeCreated, e)
}

// Count returns how many times e was tracked.
func (s *Service) Count(e Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[e]
}

// Flush logs every count and resets them.
func (s *Service) Flush() {
	s.mu.Lock()
	counts := s.counts
	s.counts = make(map[Event]int)
	s.mu.Unlock()

	keys := slices.SortedFunc(maps.Keys(counts), func(a, b Event) int {
		if a.Kind != b.Kind {
			if a.Kind < b.Kind {
				return -1
			}
			return 1
		}
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	for _, e := range keys {
		slog.Info("telemetry", "kind", e.Kind, "event", e.Name, "count", counts[e])
	}
}
