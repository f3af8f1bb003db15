package types

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Inferred element roles. A role is assigned exactly once, when a descriptor
// is registered, from the highest-confidence signal available: explicit input
// type attribute first, then fuzzy text matching, then the bare tag name.
const (
	RoleSearchInput   = "search_input"
	RoleEmailInput    = "email_input"
	RolePasswordInput = "password_input"
	RoleTextInput     = "text_input"
	RoleCheckboxInput = "checkbox_input"
	RoleRadioInput    = "radio_input"
	RoleFileInput     = "file_input"
	RoleSelectInput   = "select_input"
	RoleTextareaInput = "textarea_input"
	RoleSubmitButton  = "submit_button"
	RoleLoginButton   = "login_button"
	RoleButton        = "button"
	RoleLink          = "link"
	RoleGeneric       = "generic"
)

// JudgeConfidence is the sentinel confidence assigned to a match promoted by
// the external judgment service. The SelectedByJudge flag on ElementMatch
// records the promotion separately so callers do not have to compare against
// this value.
const JudgeConfidence = 0.99

// BoundingBox describes an element's geometry in viewport coordinates.
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Area returns the box area in square pixels.
func (b BoundingBox) Area() float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// CenterX returns the horizontal center of the box.
func (b BoundingBox) CenterX() float64 {
	return b.X + b.Width/2
}

// CenterY returns the vertical center of the box.
func (b BoundingBox) CenterY() float64 {
	return b.Y + b.Height/2
}

// Intersects reports whether the two boxes overlap with positive area.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.X < o.X+o.Width && o.X < b.X+b.Width &&
		b.Y < o.Y+o.Height && o.Y < b.Y+b.Height
}

// ContainmentRatio returns the fraction of b's area that lies inside outer.
func (b BoundingBox) ContainmentRatio(outer BoundingBox) float64 {
	area := b.Area()
	if area <= 0 {
		return 0
	}
	x1 := maxf(b.X, outer.X)
	y1 := maxf(b.Y, outer.Y)
	x2 := minf(b.X+b.Width, outer.X+outer.Width)
	y2 := minf(b.Y+b.Height, outer.Y+outer.Height)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1) / area
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// ElementDescriptor is a structured record of one page element's observable
// attributes and geometry, produced by an external page scanner and consumed
// read-only by the matching engine.
type ElementDescriptor struct {
	TagName     string
	InputType   string
	ID          string
	Name        string
	AriaLabel   string
	Placeholder string
	Title       string
	Text        string
	Value       string

	// NearbyText is the text of an associated <label>; NearbyTextIsFor is
	// true when the association is explicit via a label-for/id relationship.
	NearbyText      string
	NearbyTextIsFor bool

	// Selector re-locates the element on the live page.
	Selector string

	Visible bool
	Box     BoundingBox
	ZIndex  int
	Opacity float64

	// Role is inferred once at registration and immutable thereafter.
	Role string
}

// CombinedText joins every textual surface of the element into one lowercase
// string, used by the contextual and legacy scorers for keyword matching.
func (d *ElementDescriptor) CombinedText() string {
	parts := make([]string, 0, 7)
	for _, s := range []string{d.AriaLabel, d.Placeholder, d.Text, d.Title, d.Name, d.Value, d.NearbyText} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// TextSurfaces returns the element's textual surfaces in descending priority
// order for best-of text matching. Empty surfaces are omitted.
func (d *ElementDescriptor) TextSurfaces() []string {
	surfaces := make([]string, 0, 7)
	for _, s := range []string{d.AriaLabel, d.Placeholder, d.Text, d.Title, d.Name, d.Value, d.NearbyText} {
		if s != "" {
			surfaces = append(surfaces, s)
		}
	}
	return surfaces
}

// Fingerprint returns a fast hash identifying the element across re-scans of
// the same page. Selector is the strongest signal; tag/id/name disambiguate
// elements the scanner could not build a selector for.
func (d *ElementDescriptor) Fingerprint() uint64 {
	return xxhash.Sum64String(d.Selector + "\x00" + d.TagName + "\x00" + d.ID + "\x00" + d.Name)
}

// String returns a compact diagnostic form of the descriptor.
func (d ElementDescriptor) String() string {
	label := d.AriaLabel
	if label == "" {
		label = d.Text
	}
	return fmt.Sprintf("<%s role=%s %q sel=%s>", d.TagName, d.Role, truncate(label, 40), d.Selector)
}

// ElementMatch pairs a descriptor snapshot with the engine's confidence in it
// as the answer to a query. Matches are produced fresh on every scoring pass
// and never mutated in place.
type ElementMatch struct {
	Element    ElementDescriptor
	Confidence float64
	Reason     string

	// SelectedByJudge is true when the external judgment service picked this
	// candidate during disambiguation.
	SelectedByJudge bool
}

// String returns a human-readable representation of a match.
func (m ElementMatch) String() string {
	return fmt.Sprintf("ElementMatch{%s conf=%.3f judge=%v}", m.Element.String(), m.Confidence, m.SelectedByJudge)
}

// ScoreBreakdown carries the four component scores plus the fused raw score
// and the calibrated score. All values lie in [0,1] except Raw, which may
// exceed 1 before calibration due to additive bonuses.
type ScoreBreakdown struct {
	Text       float64
	Visual     float64
	Contextual float64
	Type       float64
	Raw        float64
	Calibrated float64
}

// String returns a compact diagnostic form of the breakdown.
func (b ScoreBreakdown) String() string {
	return fmt.Sprintf("text=%.2f visual=%.2f context=%.2f type=%.2f raw=%.2f calibrated=%.2f",
		b.Text, b.Visual, b.Contextual, b.Type, b.Raw, b.Calibrated)
}

// TruncateText caps a descriptor's visible text at maxRunes, preserving whole
// runes. Registration applies this so oversized text nodes cannot bloat the
// registry or the judgment-service payloads.
func TruncateText(s string, maxRunes int) string {
	return truncate(s, maxRunes)
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
