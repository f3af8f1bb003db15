package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBoxGeometry(t *testing.T) {
	b := BoundingBox{X: 100, Y: 200, Width: 40, Height: 20}
	assert.Equal(t, 800.0, b.Area())
	assert.Equal(t, 120.0, b.CenterX())
	assert.Equal(t, 210.0, b.CenterY())

	assert.Zero(t, BoundingBox{Width: -5, Height: 10}.Area())
	assert.Zero(t, BoundingBox{}.Area())
}

func TestIntersects(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 50, Height: 50}
	assert.True(t, a.Intersects(BoundingBox{X: 40, Y: 40, Width: 20, Height: 20}))
	assert.False(t, a.Intersects(BoundingBox{X: 50, Y: 0, Width: 20, Height: 20}))
	assert.False(t, a.Intersects(BoundingBox{X: 100, Y: 100, Width: 10, Height: 10}))
}

func TestContainmentRatio(t *testing.T) {
	outer := BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}
	inside := BoundingBox{X: 10, Y: 10, Width: 20, Height: 20}
	half := BoundingBox{X: 90, Y: 0, Width: 20, Height: 100}
	outside := BoundingBox{X: 200, Y: 200, Width: 10, Height: 10}

	assert.Equal(t, 1.0, inside.ContainmentRatio(outer))
	assert.InDelta(t, 0.5, half.ContainmentRatio(outer), 1e-9)
	assert.Zero(t, outside.ContainmentRatio(outer))
	assert.Zero(t, BoundingBox{}.ContainmentRatio(outer))
}

func TestCombinedTextAndSurfaces(t *testing.T) {
	d := ElementDescriptor{
		AriaLabel:  "Agree to terms",
		Text:       "I Agree",
		NearbyText: "Terms and conditions",
	}
	combined := d.CombinedText()
	assert.Equal(t, "agree to terms i agree terms and conditions", combined)

	surfaces := d.TextSurfaces()
	assert.Equal(t, []string{"Agree to terms", "I Agree", "Terms and conditions"}, surfaces)

	empty := ElementDescriptor{}
	assert.Empty(t, empty.TextSurfaces())
	assert.Equal(t, "", empty.CombinedText())
}

func TestFingerprint(t *testing.T) {
	a := ElementDescriptor{Selector: "#submit", TagName: "button"}
	b := ElementDescriptor{Selector: "#submit", TagName: "button"}
	c := ElementDescriptor{Selector: "#cancel", TagName: "button"}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	// Separator keeps adjacent fields from colliding.
	d := ElementDescriptor{Selector: "#x", TagName: "ab"}
	e := ElementDescriptor{Selector: "#xa", TagName: "b"}
	assert.NotEqual(t, d.Fingerprint(), e.Fingerprint())
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", TruncateText("abc", 10))
	assert.Equal(t, "ab", TruncateText("abcdef", 2))
	assert.Equal(t, "", TruncateText("abc", 0))
	// Whole runes are preserved.
	assert.Equal(t, "hél", TruncateText("héllo", 3))
	assert.Equal(t, strings.Repeat("x", 5), TruncateText(strings.Repeat("x", 500), 5))
}
