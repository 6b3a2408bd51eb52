package core

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sst/lens/internal/lens"
	"github.com/sst/lens/internal/pubsub"
	"github.com/sst/lens/internal/status"
	"github.com/stretchr/testify/assert"
)

func TestStatusShowsLatestMessage(t *testing.T) {
	t.Parallel()
	m := NewStatusCmp()
	m.Update(tea.WindowSizeMsg{Width: 100})
	now := time.Now()
	m.Update(pubsub.Event[status.StatusMessage]{Payload: status.StatusMessage{Level: status.LevelInfo, Message: "first", Timestamp: now, TTL: time.Second}})
	m.Update(pubsub.Event[status.StatusMessage]{Payload: status.StatusMessage{Level: status.LevelError, Message: "second", Timestamp: now, TTL: time.Second}})

	assert.Contains(t, m.View(), "second")
	assert.NotContains(t, m.View(), "first")
}

func TestStatusDropsExpiredMessages(t *testing.T) {
	t.Parallel()
	m := NewStatusCmp()
	m.Update(tea.WindowSizeMsg{Width: 100})
	now := time.Now()
	m.Update(pubsub.Event[status.StatusMessage]{Payload: status.StatusMessage{Level: status.LevelInfo, Message: "gone soon", Timestamp: now, TTL: time.Second}})

	_, cmd := m.Update(statusCleanupMsg{time: now.Add(2 * time.Second)})
	assert.NotNil(t, cmd)
	assert.NotContains(t, m.View(), "gone soon")
}

func TestStatusShowsStagedState(t *testing.T) {
	t.Parallel()
	m := NewStatusCmp()
	m.Update(tea.WindowSizeMsg{Width: 100})
	m.Update(pubsub.Event[lens.EditorState]{Payload: lens.EditorState{Title: "Requests", StagedPreview: &lens.StagedPreview{}}})

	view := m.View()
	assert.Contains(t, view, "Requests")
	assert.Contains(t, view, "previewing")
}
