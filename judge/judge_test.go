package judge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domlocate/domlocate/internal/types"
)

func TestNoopDeclines(t *testing.T) {
	resp, err := Noop{}.Choose(context.Background(), Request{Query: "submit"})
	require.NoError(t, err)
	assert.Equal(t, NoMatch, resp.Index)
}

func TestValidIndex(t *testing.T) {
	tests := []struct {
		index int
		count int
		want  bool
	}{
		{0, 3, true},
		{2, 3, true},
		{3, 3, false},
		{NoMatch, 3, false},
		{-7, 3, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidIndex(tt.index, tt.count), "index=%d count=%d", tt.index, tt.count)
	}
}

func TestFormatCandidates(t *testing.T) {
	els := []types.ElementDescriptor{
		{
			TagName:    "input",
			InputType:  "checkbox",
			ID:         "agree",
			Name:       "agree",
			AriaLabel:  "Agree to terms",
			NearbyText: "I agree to the terms",
			Box:        types.BoundingBox{X: 100, Y: 250, Width: 20, Height: 20},
		},
		{
			TagName: "div",
			Text:    "plain content",
			Box:     types.BoundingBox{X: 0, Y: 0, Width: 300, Height: 60},
		},
	}
	candidates := FormatCandidates(els)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "input", first.Tag)
	assert.Equal(t, "checkbox", first.Attributes["type"])
	assert.Equal(t, "agree", first.Attributes["id"])
	assert.Equal(t, "Agree to terms", first.Attributes["aria-label"])
	assert.Equal(t, "I agree to the terms", first.Label)
	assert.Equal(t, "(100,250) 20x20", first.Position)

	second := candidates[1]
	assert.Equal(t, 1, second.Index)
	assert.Nil(t, second.Attributes)
	assert.Equal(t, "plain content", second.Text)
}

func TestFormatCandidatesTruncatesText(t *testing.T) {
	long := strings.Repeat("x", 500)
	candidates := FormatCandidates([]types.ElementDescriptor{{TagName: "p", Text: long, NearbyText: long}})
	require.Len(t, candidates, 1)
	assert.Len(t, candidates[0].Text, maxCandidateText)
	assert.Len(t, candidates[0].Label, maxCandidateText)
}
