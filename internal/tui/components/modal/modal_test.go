package modal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	msgs  []tea.Msg
	inits int
}

func (r *recorder) Init() tea.Cmd {
	r.inits++
	return nil
}

func (r *recorder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	r.msgs = append(r.msgs, msg)
	return r, nil
}

func (r *recorder) View() string { return "content" }

func TestToggleMountsLazily(t *testing.T) {
	t.Parallel()
	mounts := 0
	rec := &recorder{}
	m := New(func() tea.Model {
		mounts++
		return rec
	})

	assert.False(t, m.IsOpen())
	assert.Nil(t, m.Content())
	assert.Empty(t, m.View())
	assert.Equal(t, 0, mounts)

	m.Open()
	assert.True(t, m.IsOpen())
	assert.Equal(t, 1, mounts)
	assert.Equal(t, 1, rec.inits)
	assert.Contains(t, m.View(), "content")

	m.Close()
	assert.Empty(t, m.View())
	m.Open()
	assert.Equal(t, 1, mounts, "content is mounted once")
	assert.Equal(t, 1, rec.inits)
}

func TestToggleForwardsOnlyWhileOpen(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	m := New(func() tea.Model { return rec })

	m.Open()
	m.Close()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Empty(t, rec.msgs)

	m.Open()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Len(t, rec.msgs, 1)
}

func TestToggleEscapeCloses(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	m := New(func() tea.Model { return rec })
	m.Open()

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.IsOpen())
	assert.Empty(t, rec.msgs)

	m.Open()
	m.Update(CloseMsg{})
	assert.False(t, m.IsOpen())
}

func TestToggleSizesContentOnMount(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	m := New(func() tea.Model { return rec }, WithMaxWidth(40))

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m.Open()
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, tea.WindowSizeMsg{Width: 40, Height: 30}, rec.msgs[0])
}

func TestRenderClosedKeepsBackground(t *testing.T) {
	t.Parallel()
	m := New(func() tea.Model { return &recorder{} })
	assert.Equal(t, "background", m.Render("background"))
}
