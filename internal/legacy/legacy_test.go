package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domlocate/domlocate/internal/types"
)

func visible(tag, text string) types.ElementDescriptor {
	return types.ElementDescriptor{
		TagName:  tag,
		Text:     text,
		Selector: "#" + tag,
		Visible:  true,
		Opacity:  1,
		Box:      types.BoundingBox{X: 100, Y: 100, Width: 120, Height: 40},
	}
}

func TestScoreFullKeywordOverlap(t *testing.T) {
	s := New()
	el := visible("button", "Submit order")
	assert.InDelta(t, 1.0, s.Score(el, "submit order"), 1e-9)
}

func TestScoreNoKeywords(t *testing.T) {
	s := New()
	el := visible("button", "Submit")
	assert.Zero(t, s.Score(el, "the a of"))
	assert.Zero(t, s.Score(el, ""))
}

func TestScoreStemEquality(t *testing.T) {
	s := New()
	agree := visible("button", "Agreement details")
	other := visible("button", "Cancel order")
	assert.Greater(t, s.Score(agree, "agree"), s.Score(other, "agree"))
}

func TestScoreSynonymExpansion(t *testing.T) {
	s := New()
	accept := visible("button", "Accept all")
	decline := visible("button", "Decline all")
	assert.Greater(t, s.Score(accept, "agree"), s.Score(decline, "agree"))
}

func TestScoreTagPriorityComponent(t *testing.T) {
	s := New()
	button := visible("button", "Details")
	div := visible("div", "Details")
	assert.Greater(t, s.Score(button, "details"), s.Score(div, "details"))
}

func TestRankFiltersAndSorts(t *testing.T) {
	s := New()
	hidden := visible("a", "Submit now")
	hidden.Visible = false
	els := []types.ElementDescriptor{
		visible("div", "unrelated"),
		visible("button", "Submit"),
		hidden,
	}
	matches := s.Rank(els, "submit", 0.5, 10)
	require.NotEmpty(t, matches)
	assert.Equal(t, "#button", matches[0].Element.Selector)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Confidence, 0.5)
		assert.NotEqual(t, "#a", m.Element.Selector)
	}
}

func TestRankTagPriorityTieBreak(t *testing.T) {
	s := New()
	els := []types.ElementDescriptor{
		visible("div", "Search"),
		visible("button", "Search"),
	}
	matches := s.Rank(els, "search", 0.0, 10)
	require.Len(t, matches, 2)
	assert.Equal(t, "#button", matches[0].Element.Selector)
}

func TestRankTruncates(t *testing.T) {
	s := New()
	els := []types.ElementDescriptor{
		visible("button", "Submit"),
		visible("a", "Submit"),
		visible("input", "Submit"),
	}
	matches := s.Rank(els, "submit", 0.0, 2)
	assert.Len(t, matches, 2)
}

func TestRankEmptyQuery(t *testing.T) {
	s := New()
	assert.Nil(t, s.Rank([]types.ElementDescriptor{visible("button", "Submit")}, "", 0.0, 10))
}
