package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceOverlay(t *testing.T) {
	t.Parallel()
	bg := strings.Join([]string{"..........", "..........", ".........."}, "\n")

	got := PlaceOverlay(2, 1, "ab\ncd", bg)
	assert.Equal(t, "..........\n..ab......\n..cd......", got)
}

func TestPlaceOverlayClampsToBackground(t *testing.T) {
	t.Parallel()
	bg := "....\n...."

	got := PlaceOverlay(10, 10, "xy", bg)
	assert.Equal(t, "....\n..xy", got)
}

func TestPlaceCenter(t *testing.T) {
	t.Parallel()
	bg := strings.Repeat(".....\n", 2) + "....."

	got := PlaceCenter("x", bg)
	assert.Equal(t, ".....\n..x..\n.....", got)
}

func TestPlaceOverlayLargerThanBackground(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "long line\nmore", PlaceOverlay(0, 0, "long line\nmore", "bg"))
}
