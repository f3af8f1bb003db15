package visual

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/domlocate/domlocate/internal/types"
)

const (
	vw = 1280.0
	vh = 720.0
)

func control(x, y, w, h float64) types.ElementDescriptor {
	return types.ElementDescriptor{
		TagName: "button",
		Visible: true,
		Opacity: 1,
		Box:     types.BoundingBox{X: x, Y: y, Width: w, Height: h},
	}
}

func TestScoreNotPresentIsZero(t *testing.T) {
	s := New(DefaultConfig())

	hidden := control(500, 300, 120, 40)
	hidden.Visible = false
	assert.Zero(t, s.Score(hidden, vw, vh))

	flat := control(500, 300, 0, 0)
	assert.Zero(t, s.Score(flat, vw, vh))

	faded := control(500, 300, 120, 40)
	faded.Opacity = 0.01
	assert.Zero(t, s.Score(faded, vw, vh))

	assert.Zero(t, s.Score(control(500, 300, 120, 40), 0, 0))
}

func TestScoreWellPlacedControl(t *testing.T) {
	s := New(DefaultConfig())
	// Control-sized, centered, above the fold, default stacking.
	score := s.Score(control(500, 300, 120, 40), vw, vh)
	assert.Greater(t, score, 0.8)
	assert.LessOrEqual(t, score, 1.0)
}

func TestScoreSidebarPenalized(t *testing.T) {
	s := New(DefaultConfig())
	centered := s.Score(control(560, 300, 120, 40), vw, vh)
	sidebar := s.Score(control(5, 300, 120, 40), vw, vh)
	assert.Greater(t, centered, sidebar)
}

func TestScoreOversizedContainerPenalized(t *testing.T) {
	s := New(DefaultConfig())
	button := s.Score(control(500, 300, 120, 40), vw, vh)
	container := s.Score(control(10, 10, 1260, 700), vw, vh)
	assert.Greater(t, button, container)
}

func TestScoreBelowFoldPenalized(t *testing.T) {
	s := New(DefaultConfig())
	above := s.Score(control(500, 300, 120, 40), vw, vh)
	below := s.Score(control(500, 1500, 120, 40), vw, vh)
	assert.Greater(t, above, below)
}

func TestScoreOverlayStackingPenalized(t *testing.T) {
	s := New(DefaultConfig())
	normal := control(500, 300, 120, 40)
	overlay := control(500, 300, 120, 40)
	overlay.ZIndex = 99999
	assert.Greater(t, s.Score(normal, vw, vh), s.Score(overlay, vw, vh))
}

func TestScoreStaysInUnitRange(t *testing.T) {
	s := New(DefaultConfig())
	for _, x := range []float64{0, 200, 640, 1200} {
		for _, y := range []float64{0, 100, 500, 900, 2000} {
			for _, w := range []float64{10, 120, 500, 1280} {
				el := control(x, y, w, 40)
				score := s.Score(el, vw, vh)
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 1.0)
			}
		}
	}
}

func TestNewFallsBackToDefaults(t *testing.T) {
	s := New(Config{SidebarMarginRatio: -1, HeaderBandRatio: 0.9, FooterBandRatio: 0})
	def := DefaultConfig()
	assert.Equal(t, def, s.cfg)
}

func TestBandScoreRamp(t *testing.T) {
	assert.Zero(t, bandScore(0, 80, 400))
	assert.Equal(t, 1.0, bandScore(80, 80, 400))
	assert.Equal(t, 1.0, bandScore(400, 80, 400))
	assert.Less(t, bandScore(40, 80, 400), 1.0)
	assert.Greater(t, bandScore(40, 80, 400), 0.0)
	assert.Less(t, bandScore(900, 80, 400), 1.0)
	assert.Equal(t, 0.25, bandScore(5000, 80, 400))
}
