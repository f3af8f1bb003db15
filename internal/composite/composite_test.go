package composite

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domlocate/domlocate/internal/types"
)

const (
	vw = 1280.0
	vh = 720.0
)

func control(tag, inputType, selector, text string, x, y float64) types.ElementDescriptor {
	return types.ElementDescriptor{
		TagName:   tag,
		InputType: inputType,
		Selector:  selector,
		Text:      text,
		Visible:   true,
		Opacity:   1,
		Box:       types.BoundingBox{X: x, Y: y, Width: 140, Height: 40},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  QueryType
	}{
		{"submit button", QueryTypeSpecific},
		{"I agree checkbox", QueryTypeSpecific},
		{"click submit", QueryActionBased},
		{"press the blue thing", QueryActionBased},
		{"first item in list", QueryPositional},
		{"bottom row", QueryPositional},
		{`the "Welcome back" message`, QueryTextHeavy},
		{"sign up for our newsletter today", QueryTextHeavy},
		{"logo", QueryGeneral},
		{"", QueryGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.query), "query %q", tt.query)
	}
}

func TestQueryTypeString(t *testing.T) {
	assert.Equal(t, "type-specific", QueryTypeSpecific.String())
	assert.Equal(t, "action-based", QueryActionBased.String())
	assert.Equal(t, "positional", QueryPositional.String())
	assert.Equal(t, "text-heavy", QueryTextHeavy.String())
	assert.Equal(t, "general", QueryGeneral.String())
}

func TestWeightsSumToOne(t *testing.T) {
	for qt, w := range weightTable {
		sum := w.Text + w.Visual + w.Contextual + w.Type
		assert.InDelta(t, 1.0, sum, 1e-6, "query type %s", qt)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := New(DefaultConfig())
	el := control("button", "", "#submit", "Submit", 500, 300)
	first, firstBreakdown := s.Score(el, "submit button", vw, vh)
	for i := 0; i < 50; i++ {
		score, breakdown := s.Score(el, "submit button", vw, vh)
		assert.Equal(t, first, score)
		assert.Equal(t, firstBreakdown, breakdown)
	}
}

func TestScoreBreakdownInUnitRange(t *testing.T) {
	s := New(DefaultConfig())
	el := control("input", "checkbox", "#agree", "", 400, 350)
	el.NearbyText = "I agree to the terms"
	calibrated, b := s.Score(el, "I agree checkbox", vw, vh)

	for name, v := range map[string]float64{
		"text": b.Text, "visual": b.Visual, "contextual": b.Contextual,
		"type": b.Type, "calibrated": b.Calibrated,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
	assert.Equal(t, calibrated, b.Calibrated)
}

func TestCalibrationMonotonic(t *testing.T) {
	s := New(DefaultConfig())
	assert.Less(t, s.calibrate(0.2), s.calibrate(0.5))
	assert.Less(t, s.calibrate(0.5), s.calibrate(0.8))
	assert.GreaterOrEqual(t, s.calibrate(-5), 0.0)
	assert.LessOrEqual(t, s.calibrate(5), 1.0)
}

func TestRankEmptyInputs(t *testing.T) {
	s := New(DefaultConfig())
	els := []types.ElementDescriptor{control("button", "", "#a", "Submit", 500, 300)}
	assert.Nil(t, s.Rank(els, "", 0.3, 10, vw, vh))
	assert.Nil(t, s.Rank(els, "  !? ", 0.3, 10, vw, vh))
	assert.Nil(t, s.Rank(nil, "submit", 0.3, 10, vw, vh))
}

func TestRankSkipsInvisible(t *testing.T) {
	s := New(DefaultConfig())
	hidden := control("button", "", "#hidden", "Submit", 500, 300)
	hidden.Visible = false
	matches := s.Rank([]types.ElementDescriptor{hidden}, "submit", 0.0, 10, vw, vh)
	assert.Nil(t, matches)
}

func TestRankOrdersBestFirst(t *testing.T) {
	s := New(DefaultConfig())
	els := []types.ElementDescriptor{
		control("div", "", "#filler", "unrelated content block", 300, 200),
		control("button", "", "#submit", "Submit", 500, 300),
		control("a", "", "#help", "Help center", 900, 600),
	}
	matches := s.Rank(els, "submit", 0.1, 10, vw, vh)
	require.NotEmpty(t, matches)
	assert.Equal(t, "#submit", matches[0].Element.Selector)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Confidence, matches[i].Confidence-scoreDistinct)
	}
}

func TestRankThresholdAndTruncation(t *testing.T) {
	s := New(DefaultConfig())
	els := []types.ElementDescriptor{
		control("button", "", "#submit", "Submit", 500, 300),
		control("button", "", "#cancel", "Cancel", 660, 300),
		control("div", "", "#noise", "xyzzy", 100, 650),
	}
	all := s.Rank(els, "submit", 0.0, 10, vw, vh)
	require.NotEmpty(t, all)
	for _, m := range all {
		high := s.Rank(els, "submit", m.Confidence, 10, vw, vh)
		for _, hm := range high {
			assert.GreaterOrEqual(t, hm.Confidence, m.Confidence)
		}
	}

	one := s.Rank(els, "submit", 0.0, 1, vw, vh)
	require.Len(t, one, 1)
	assert.Equal(t, all[0].Element.Selector, one[0].Element.Selector)
}

func TestRankDeterministicUnderParallelism(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWorkers = 4
	s := New(cfg)

	els := make([]types.ElementDescriptor, 0, 40)
	texts := []string{"Submit", "Cancel", "Search", "Log in", "Next page", "Details"}
	for i := 0; i < 40; i++ {
		els = append(els, control("button", "", "#b"+string(rune('a'+i%26)), texts[i%len(texts)], float64(100+i*25), float64(100+(i%10)*55)))
	}
	first := s.Rank(els, "submit", 0.0, 40, vw, vh)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, s.Rank(els, "submit", 0.0, 40, vw, vh))
	}
}

func TestSortMatchesTieBreakCascade(t *testing.T) {
	s := New(DefaultConfig())

	tied := func(selector, tag string, box types.BoundingBox) types.ElementMatch {
		return types.ElementMatch{
			Element:    types.ElementDescriptor{TagName: tag, Selector: selector, Visible: true, Opacity: 1, Box: box},
			Confidence: 0.500,
		}
	}

	t.Run("larger area wins", func(t *testing.T) {
		small := tied("#small", "button", types.BoundingBox{X: 500, Y: 300, Width: 100, Height: 40})
		large := tied("#large", "button", types.BoundingBox{X: 500, Y: 360, Width: 200, Height: 40})
		matches := []types.ElementMatch{small, large}
		s.sortMatches(matches, vw, vh)
		assert.Equal(t, "#large", matches[0].Element.Selector)
	})

	t.Run("primary vertical band wins", func(t *testing.T) {
		header := tied("#header", "button", types.BoundingBox{X: 500, Y: 10, Width: 100, Height: 40})
		body := tied("#body", "button", types.BoundingBox{X: 500, Y: 300, Width: 100, Height: 40})
		matches := []types.ElementMatch{header, body}
		s.sortMatches(matches, vw, vh)
		assert.Equal(t, "#body", matches[0].Element.Selector)
	})

	t.Run("centered horizontal band wins", func(t *testing.T) {
		edge := tied("#edge", "button", types.BoundingBox{X: 10, Y: 300, Width: 100, Height: 40})
		center := tied("#center", "button", types.BoundingBox{X: 560, Y: 300, Width: 100, Height: 40})
		matches := []types.ElementMatch{edge, center}
		s.sortMatches(matches, vw, vh)
		assert.Equal(t, "#center", matches[0].Element.Selector)
	})

	t.Run("tag priority is the final tie-break", func(t *testing.T) {
		box := types.BoundingBox{X: 500, Y: 300, Width: 100, Height: 40}
		button := tied("#btn", "button", box)
		link := tied("#lnk", "a", box)
		matches := []types.ElementMatch{button, link}
		s.sortMatches(matches, vw, vh)
		assert.Equal(t, "#lnk", matches[0].Element.Selector)
	})

	t.Run("distinct scores ignore tie-breaks", func(t *testing.T) {
		low := tied("#low", "button", types.BoundingBox{X: 500, Y: 300, Width: 500, Height: 100})
		high := tied("#high", "span", types.BoundingBox{X: 10, Y: 10, Width: 20, Height: 10})
		high.Confidence = 0.9
		matches := []types.ElementMatch{low, high}
		s.sortMatches(matches, vw, vh)
		assert.Equal(t, "#high", matches[0].Element.Selector)
	})
}

func TestIsAmbiguous(t *testing.T) {
	match := func(conf float64) types.ElementMatch {
		return types.ElementMatch{Confidence: conf}
	}
	tests := []struct {
		name    string
		matches []types.ElementMatch
		gap     float64
		want    bool
	}{
		{"no matches", nil, 0.05, false},
		{"single match", []types.ElementMatch{match(0.5)}, 0.05, false},
		{"close pair", []types.ElementMatch{match(0.52), match(0.50)}, 0.05, true},
		{"clear winner", []types.ElementMatch{match(0.80), match(0.50)}, 0.05, false},
		{"exactly at gap", []types.ElementMatch{match(0.55), match(0.50)}, 0.05, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAmbiguous(tt.matches, tt.gap))
		})
	}
}

func TestNewFallsBackToDefaults(t *testing.T) {
	s := New(Config{})
	def := DefaultConfig()
	assert.Equal(t, def.CalibrationSlope, s.cfg.CalibrationSlope)
	assert.Equal(t, def.CalibrationOffset, s.cfg.CalibrationOffset)
	assert.Greater(t, s.cfg.MaxWorkers, 0)
	assert.False(t, math.IsNaN(s.calibrate(0.5)))
}
