// Package composite fuses the four component scorers with query-adaptive
// weights, calibrates the fused score through a logistic function, and ranks
// and filters candidate elements.
package composite

import (
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/domlocate/domlocate/internal/contextual"
	"github.com/domlocate/domlocate/internal/elemtype"
	"github.com/domlocate/domlocate/internal/textscore"
	"github.com/domlocate/domlocate/internal/types"
	"github.com/domlocate/domlocate/internal/visual"
)

// scoreDistinct is the calibrated-score difference below which two matches
// are considered tied and the documented tie-break order applies.
const scoreDistinct = 0.01

// areaTieFactor: a tied element wins outright when its box area is at least
// this factor larger than the other's.
const areaTieFactor = 1.5

// tieTagPriority fixes the final tie-break order over tags.
var tieTagPriority = map[string]int{
	"a":        6,
	"button":   5,
	"input":    4,
	"textarea": 3,
	"select":   2,
}

// Config tunes calibration, layout bands, and parallelism.
type Config struct {
	// CalibrationSlope and CalibrationOffset parameterize the logistic
	// calibration 1/(1+exp(-slope*(raw-offset))).
	CalibrationSlope  float64
	CalibrationOffset float64

	// PrimaryBandTop/Bottom bound the vertical band (as viewport-height
	// ratios) treated as primary during tie-breaking.
	PrimaryBandTop    float64
	PrimaryBandBottom float64

	// CenterBandLeft/Right bound the horizontal centered band (as
	// viewport-width ratios) used by the next tie-break.
	CenterBandLeft  float64
	CenterBandRight float64

	// MaxWorkers bounds the parallel scoring goroutines; 0 means NumCPU.
	MaxWorkers int

	// Visual carries the layout bands of the visual proximity scorer.
	Visual visual.Config
}

// DefaultConfig returns the calibration and band defaults.
func DefaultConfig() Config {
	return Config{
		CalibrationSlope:  8.0,
		CalibrationOffset: 0.35,
		PrimaryBandTop:    0.15,
		PrimaryBandBottom: 0.85,
		CenterBandLeft:    0.25,
		CenterBandRight:   0.75,
		Visual:            visual.DefaultConfig(),
	}
}

// Scorer owns one instance of each component scorer. All scoring is pure, so
// a single Scorer is safe for concurrent use.
type Scorer struct {
	cfg  Config
	text *textscore.Scorer
	vis  *visual.Scorer
	ctx  *contextual.Scorer
	typ  *elemtype.Scorer
}

// New creates a composite scorer. Zero-valued config fields fall back to
// defaults.
func New(cfg Config) *Scorer {
	def := DefaultConfig()
	if cfg.CalibrationSlope <= 0 {
		cfg.CalibrationSlope = def.CalibrationSlope
	}
	if cfg.CalibrationOffset <= 0 {
		cfg.CalibrationOffset = def.CalibrationOffset
	}
	if cfg.PrimaryBandTop <= 0 || cfg.PrimaryBandTop >= 1 {
		cfg.PrimaryBandTop = def.PrimaryBandTop
	}
	if cfg.PrimaryBandBottom <= 0 || cfg.PrimaryBandBottom >= 1 {
		cfg.PrimaryBandBottom = def.PrimaryBandBottom
	}
	if cfg.CenterBandLeft <= 0 || cfg.CenterBandLeft >= 1 {
		cfg.CenterBandLeft = def.CenterBandLeft
	}
	if cfg.CenterBandRight <= 0 || cfg.CenterBandRight >= 1 {
		cfg.CenterBandRight = def.CenterBandRight
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	return &Scorer{
		cfg:  cfg,
		text: textscore.New(),
		vis:  visual.New(cfg.Visual),
		ctx:  contextual.New(),
		typ:  elemtype.New(),
	}
}

// Score evaluates a single element against a query. Returns the calibrated
// score and the full breakdown.
func (s *Scorer) Score(el types.ElementDescriptor, query string, viewportWidth, viewportHeight float64) (float64, types.ScoreBreakdown) {
	return s.scoreWith(el, query, GetWeights(Classify(query)), viewportWidth, viewportHeight)
}

func (s *Scorer) scoreWith(el types.ElementDescriptor, query string, w Weights, viewportWidth, viewportHeight float64) (float64, types.ScoreBreakdown) {
	b := types.ScoreBreakdown{
		Text:       s.text.BestMatch(query, el.TextSurfaces()),
		Visual:     s.vis.Score(el, viewportWidth, viewportHeight),
		Contextual: s.ctx.Score(el, query),
		Type:       s.typ.Score(el, query),
	}
	b.Raw = w.Text*b.Text + w.Visual*b.Visual + w.Contextual*b.Contextual + w.Type*b.Type
	b.Calibrated = s.calibrate(b.Raw)
	return b.Calibrated, b
}

// calibrate maps the raw fused score onto [0,1] via a logistic function.
func (s *Scorer) calibrate(raw float64) float64 {
	v := 1 / (1 + math.Exp(-s.cfg.CalibrationSlope*(raw-s.cfg.CalibrationOffset)))
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rank scores every visible element against the query, drops results below
// threshold, orders them by descending calibrated score with the documented
// tie-breaks, and truncates to maxResults. Candidates are scored in
// parallel; the output is deterministic.
func (s *Scorer) Rank(elements []types.ElementDescriptor, query string, threshold float64, maxResults int, viewportWidth, viewportHeight float64) []types.ElementMatch {
	if textscore.Normalize(query) == "" || len(elements) == 0 {
		return nil
	}

	visible := make([]types.ElementDescriptor, 0, len(elements))
	for _, el := range elements {
		if el.Visible {
			visible = append(visible, el)
		}
	}
	if len(visible) == 0 {
		return nil
	}

	qt := Classify(query)
	w := GetWeights(qt)

	scored := make([]types.ElementMatch, len(visible))
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxWorkers)
	for i := range visible {
		i := i
		g.Go(func() error {
			calibrated, b := s.scoreWith(visible[i], query, w, viewportWidth, viewportHeight)
			scored[i] = types.ElementMatch{
				Element:    visible[i],
				Confidence: calibrated,
				Reason:     fmt.Sprintf("%s query: %s", qt, b.String()),
			}
			return nil
		})
	}
	// Scorers never fail; Wait only synchronizes.
	_ = g.Wait()

	matches := scored[:0]
	for _, m := range scored {
		if m.Confidence >= threshold {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return nil
	}

	s.sortMatches(matches, viewportWidth, viewportHeight)

	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	out := make([]types.ElementMatch, len(matches))
	copy(out, matches)
	return out
}

// sortMatches orders by descending calibrated score; scores within
// scoreDistinct of each other fall through the tie-break cascade:
// area, primary vertical band, centered horizontal band, tag priority.
func (s *Scorer) sortMatches(matches []types.ElementMatch, viewportWidth, viewportHeight float64) {
	sort.SliceStable(matches, func(i, j int) bool {
		mi, mj := matches[i], matches[j]
		if mi.Confidence-mj.Confidence >= scoreDistinct {
			return true
		}
		if mj.Confidence-mi.Confidence >= scoreDistinct {
			return false
		}

		areaI, areaJ := mi.Element.Box.Area(), mj.Element.Box.Area()
		if areaI >= areaTieFactor*areaJ && areaI > 0 {
			return true
		}
		if areaJ >= areaTieFactor*areaI && areaJ > 0 {
			return false
		}

		pi := s.inPrimaryBand(mi.Element, viewportHeight)
		pj := s.inPrimaryBand(mj.Element, viewportHeight)
		if pi != pj {
			return pi
		}

		ci := s.inCenterBand(mi.Element, viewportWidth)
		cj := s.inCenterBand(mj.Element, viewportWidth)
		if ci != cj {
			return ci
		}

		return tieTagPriority[mi.Element.TagName] > tieTagPriority[mj.Element.TagName]
	})
}

func (s *Scorer) inPrimaryBand(el types.ElementDescriptor, viewportHeight float64) bool {
	if viewportHeight <= 0 {
		return false
	}
	cy := el.Box.CenterY()
	return cy >= s.cfg.PrimaryBandTop*viewportHeight && cy <= s.cfg.PrimaryBandBottom*viewportHeight
}

func (s *Scorer) inCenterBand(el types.ElementDescriptor, viewportWidth float64) bool {
	if viewportWidth <= 0 {
		return false
	}
	cx := el.Box.CenterX()
	return cx >= s.cfg.CenterBandLeft*viewportWidth && cx <= s.cfg.CenterBandRight*viewportWidth
}

// IsAmbiguous reports whether the top two matches are too close to choose
// between deterministically: at least two matches exist and their calibrated
// scores differ by less than gapThreshold.
func IsAmbiguous(matches []types.ElementMatch, gapThreshold float64) bool {
	if len(matches) < 2 {
		return false
	}
	return matches[0].Confidence-matches[1].Confidence < gapThreshold
}
