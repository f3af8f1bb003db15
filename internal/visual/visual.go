// Package visual scores an element's plausibility as an interaction target
// from its geometry and visual layering within the viewport. Every sub-score
// is a pure function of the descriptor and the viewport dimensions.
package visual

import (
	"math"

	"github.com/domlocate/domlocate/internal/types"
)

// Preferred size band for interactive controls, in pixels. Elements inside
// the band score highest; oversized elements are penalized as likely layout
// containers rather than controls.
const (
	preferredMinWidth  = 80.0
	preferredMaxWidth  = 400.0
	preferredMinHeight = 25.0
	preferredMaxHeight = 80.0
)

// foldRatio is the fraction of the viewport height considered above the fold.
const foldRatio = 0.75

// minViableOpacity is the cascaded opacity below which an element is treated
// as not visually present at all.
const minViableOpacity = 0.05

// Sub-score combination weights; they sum to 1.0.
const (
	foldWeight       = 0.20
	primaryWeight    = 0.15
	prominenceWeight = 0.25
	centerWeight     = 0.10
	verticalWeight   = 0.15
	zIndexWeight     = 0.075
	opacityWeight    = 0.075
)

// hotspotBonus applies when an element is simultaneously in the primary
// content area, highly prominent, and above the fold.
const hotspotBonus = 0.10

// Config holds the layout bands the scorer treats as secondary page regions.
type Config struct {
	// SidebarMarginRatio is the fraction of viewport width on each side
	// treated as sidebar rather than primary content.
	SidebarMarginRatio float64
	// HeaderBandRatio / FooterBandRatio are the viewport-height fractions
	// treated as chrome bands and penalized.
	HeaderBandRatio float64
	FooterBandRatio float64
}

// DefaultConfig returns the layout bands used when none are configured.
func DefaultConfig() Config {
	return Config{
		SidebarMarginRatio: 0.15,
		HeaderBandRatio:    0.10,
		FooterBandRatio:    0.10,
	}
}

// Scorer scores visual proximity in [0,1].
type Scorer struct {
	cfg Config
}

// New creates a visual proximity scorer. Zero-valued config fields fall back
// to defaults.
func New(cfg Config) *Scorer {
	def := DefaultConfig()
	if cfg.SidebarMarginRatio <= 0 || cfg.SidebarMarginRatio >= 0.5 {
		cfg.SidebarMarginRatio = def.SidebarMarginRatio
	}
	if cfg.HeaderBandRatio <= 0 || cfg.HeaderBandRatio >= 0.5 {
		cfg.HeaderBandRatio = def.HeaderBandRatio
	}
	if cfg.FooterBandRatio <= 0 || cfg.FooterBandRatio >= 0.5 {
		cfg.FooterBandRatio = def.FooterBandRatio
	}
	return &Scorer{cfg: cfg}
}

// Score returns the visual proximity score for the element in [0,1].
// Invisible elements, zero-area boxes, and near-zero cascaded opacity all
// score 0.
func (s *Scorer) Score(el types.ElementDescriptor, viewportWidth, viewportHeight float64) float64 {
	if !el.Visible || viewportWidth <= 0 || viewportHeight <= 0 {
		return 0
	}
	if el.Box.Area() <= 0 {
		return 0
	}
	if el.Opacity < minViableOpacity {
		return 0
	}

	fold := s.aboveFoldScore(el.Box, viewportHeight)
	primary := s.primaryAreaScore(el.Box, viewportWidth)
	prominence := s.prominenceScore(el.Box, viewportWidth, viewportHeight)
	center := s.centerBiasScore(el.Box, viewportWidth)
	vertical := s.verticalPositionScore(el.Box, viewportHeight)
	z := s.zIndexScore(el.ZIndex)
	opacity := s.opacityScore(el.Opacity)

	score := foldWeight*fold +
		primaryWeight*primary +
		prominenceWeight*prominence +
		centerWeight*center +
		verticalWeight*vertical +
		zIndexWeight*z +
		opacityWeight*opacity

	if fold == 1 && primary == 1 && prominence > 0.7 {
		score += hotspotBonus
	}
	return clamp01(score)
}

// aboveFoldScore is 1.0 when the element's vertical center is within the top
// 75% of the viewport, decaying for content that needs scrolling.
func (s *Scorer) aboveFoldScore(box types.BoundingBox, viewportHeight float64) float64 {
	cy := box.CenterY()
	if cy <= foldRatio*viewportHeight {
		return 1
	}
	if cy <= viewportHeight {
		return 0.6
	}
	if cy <= 2*viewportHeight {
		return 0.3
	}
	return 0.1
}

// primaryAreaScore is 1.0 when the horizontal center lies outside the
// configured left/right sidebar margins.
func (s *Scorer) primaryAreaScore(box types.BoundingBox, viewportWidth float64) float64 {
	margin := s.cfg.SidebarMarginRatio * viewportWidth
	cx := box.CenterX()
	if cx >= margin && cx <= viewportWidth-margin {
		return 1
	}
	return 0.3
}

// prominenceScore rewards elements sized like interactive controls and
// penalizes oversized boxes, which are usually containers.
func (s *Scorer) prominenceScore(box types.BoundingBox, viewportWidth, viewportHeight float64) float64 {
	viewportArea := viewportWidth * viewportHeight
	if viewportArea > 0 && box.Area() > 0.30*viewportArea {
		return 0.15
	}
	return (bandScore(box.Width, preferredMinWidth, preferredMaxWidth) +
		bandScore(box.Height, preferredMinHeight, preferredMaxHeight)) / 2
}

// bandScore is 1 inside [lo, hi], ramping down linearly outside the band.
func bandScore(v, lo, hi float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v < lo:
		return 0.4 + 0.6*(v/lo)
	case v <= hi:
		return 1
	case v <= 3*hi:
		return 1 - 0.7*((v-hi)/(2*hi))
	default:
		return 0.25
	}
}

// centerBiasScore decays quadratically with horizontal distance from the
// viewport center.
func (s *Scorer) centerBiasScore(box types.BoundingBox, viewportWidth float64) float64 {
	half := viewportWidth / 2
	if half <= 0 {
		return 0
	}
	offset := math.Abs(box.CenterX()-half) / half
	if offset > 1 {
		offset = 1
	}
	return 1 - offset*offset
}

// verticalPositionScore penalizes the header and footer bands and otherwise
// favors higher placement in the main content region.
func (s *Scorer) verticalPositionScore(box types.BoundingBox, viewportHeight float64) float64 {
	cy := box.CenterY()
	if cy < s.cfg.HeaderBandRatio*viewportHeight {
		return 0.4
	}
	if cy > (1-s.cfg.FooterBandRatio)*viewportHeight {
		return 0.3
	}
	relative := cy / viewportHeight
	if relative > 1 {
		relative = 1
	}
	return 1 - 0.5*relative
}

// zIndexScore treats very large stacking indices as overlay/tooltip clutter.
func (s *Scorer) zIndexScore(z int) float64 {
	switch {
	case z < 0:
		return 0.4
	case z <= 10:
		return 1
	case z <= 1000:
		return 0.8
	case z <= 9999:
		return 0.6
	default:
		return 0.3
	}
}

// opacityScore scales with cascaded opacity once above the viability floor.
func (s *Scorer) opacityScore(opacity float64) float64 {
	if opacity >= 0.9 {
		return 1
	}
	if opacity < minViableOpacity {
		return 0
	}
	return opacity
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
