// Package elemtype scores the structural fit between a query's inferred
// intent and an element's tag, input subtype, and accessibility role.
package elemtype

import (
	"strings"

	"github.com/domlocate/domlocate/internal/textscore"
	"github.com/domlocate/domlocate/internal/types"
)

// Sub-score combination weights; they sum to 1.0.
const (
	typeMatchWeight     = 0.40
	interactivityWeight = 0.25
	ariaWeight          = 0.20
	specificityWeight   = 0.15
)

// formBonus applies when a form control meets a form-oriented query.
const formBonus = 0.05

// invisiblePenalty is the multiplicative penalty for invisible elements.
const invisiblePenalty = 0.3

// Scorer scores structural/role fit in [0,1]. The knowledge tables are
// static; the scorer itself is stateless and safe for concurrent use.
type Scorer struct{}

// New creates an element type scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score returns the structural fit of the element to the query in [0,1].
func (s *Scorer) Score(el types.ElementDescriptor, query string) float64 {
	norm := textscore.Normalize(query)
	if norm == "" {
		return 0
	}
	tag := strings.ToLower(el.TagName)

	typeMatch := s.typeMatchScore(el, tag, norm)
	interactivity := s.interactivityScore(el, tag)
	aria := s.ariaAlignmentScore(el, norm)
	specificity := specificityScore(el)

	score := typeMatchWeight*typeMatch +
		interactivityWeight*interactivity +
		ariaWeight*aria +
		specificityWeight*specificity

	if formControlTags[tag] && isFormOriented(norm) {
		score += formBonus
	}
	if !el.Visible {
		score *= invisiblePenalty
	}
	return clamp01(score)
}

// ExtractTypeHint returns the explicit element-type hint named by the query,
// or "" when the query carries none. The composite scorer uses this for
// query classification as well.
func ExtractTypeHint(normalizedQuery string) string {
	padded := " " + normalizedQuery + " "
	for _, h := range typeHints {
		if strings.Contains(padded, " "+h.phrase+" ") {
			return h.kind
		}
	}
	return ""
}

// TagPriority returns the base interactivity priority for a tag. The legacy
// fallback scorer shares this table.
func TagPriority(tag string) float64 {
	if p, ok := tagPriority[strings.ToLower(tag)]; ok {
		return p
	}
	return defaultTagPriority
}

// typeMatchScore rewards exact or structurally-equivalent matches when the
// query names an element kind, falling back to input-subtype keywords and
// then to a generic interactivity-based score.
func (s *Scorer) typeMatchScore(el types.ElementDescriptor, tag, norm string) float64 {
	if hint := ExtractTypeHint(norm); hint != "" {
		return structuralMatch(hint, el, tag)
	}
	if tag == "input" && el.InputType != "" {
		if kws, ok := inputTypeKeywords[el.InputType]; ok {
			hits := 0
			for _, kw := range kws {
				if strings.Contains(norm, kw) {
					hits++
				}
			}
			if hits > 0 {
				return clamp01(0.6 + 0.2*float64(hits))
			}
		}
	}
	return 0.8 * TagPriority(tag)
}

// structuralMatch rates how well the element's structure satisfies an
// explicit type hint. A "button" hint matches a real button tag, an input
// with a submit/button subtype, or, more weakly, a link.
func structuralMatch(hint string, el types.ElementDescriptor, tag string) float64 {
	inputType := strings.ToLower(el.InputType)
	switch hint {
	case "button":
		switch {
		case tag == "button":
			return 1
		case tag == "input" && (inputType == "submit" || inputType == "button" || inputType == "image"):
			return 0.95
		case strings.Contains(el.Role, "button"):
			return 0.8
		case tag == "a":
			return 0.55
		}
	case "link":
		switch {
		case tag == "a":
			return 1
		case el.Role == types.RoleLink:
			return 0.85
		case tag == "button":
			return 0.45
		}
	case "checkbox":
		switch {
		case tag == "input" && inputType == "checkbox":
			return 1
		case el.Role == types.RoleCheckboxInput:
			return 0.9
		}
	case "radio":
		switch {
		case tag == "input" && inputType == "radio":
			return 1
		case el.Role == types.RoleRadioInput:
			return 0.9
		}
	case "select":
		switch {
		case tag == "select":
			return 1
		case strings.Contains(el.Role, "select"):
			return 0.85
		}
	case "textarea":
		switch {
		case tag == "textarea":
			return 1
		case tag == "input" && isFreeTextInput(inputType):
			return 0.6
		}
	case "searchfield":
		switch {
		case tag == "input" && inputType == "search":
			return 1
		case el.Role == types.RoleSearchInput:
			return 0.95
		case tag == "input" && isFreeTextInput(inputType):
			return 0.7
		}
	case "textfield":
		switch {
		case tag == "input" && isFreeTextInput(inputType):
			return 1
		case tag == "textarea":
			return 0.9
		case tag == "input":
			return 0.4
		}
	case "image":
		switch {
		case tag == "img":
			return 1
		case tag == "input" && inputType == "image":
			return 0.85
		}
	}
	return 0.1
}

// isFreeTextInput reports whether an input subtype accepts free text entry.
func isFreeTextInput(inputType string) bool {
	switch inputType {
	case "", "text", "search", "email", "password", "tel", "url", "number":
		return true
	}
	return false
}

// interactivityScore derives from the base tag priority, boosted for an
// accessible label or interactive-sounding role/selector text, and penalized
// sharply for invisible or zero-size elements.
func (s *Scorer) interactivityScore(el types.ElementDescriptor, tag string) float64 {
	score := TagPriority(tag)
	if el.AriaLabel != "" {
		score += 0.15
	}
	hintText := strings.ToLower(el.Role + " " + el.Selector)
	for _, hint := range interactiveSelectorHints {
		if strings.Contains(hintText, hint) {
			score += 0.10
			break
		}
	}
	if !el.Visible || el.Box.Area() <= 0 {
		score *= 0.2
	}
	return clamp01(score)
}

// ariaAlignmentScore rewards elements whose role's expected-behavior
// keywords appear in the query.
func (s *Scorer) ariaAlignmentScore(el types.ElementDescriptor, norm string) float64 {
	kws, ok := roleBehaviorKeywords[el.Role]
	if !ok {
		return 0.4
	}
	hits := 0
	for _, kw := range kws {
		if strings.Contains(norm, kw) {
			hits++
		}
	}
	if hits == 0 {
		return 0.3
	}
	return clamp01(0.6 + 0.2*float64(hits))
}

// specificityScore rewards elements carrying more identifying attributes.
func specificityScore(el types.ElementDescriptor) float64 {
	count := 0
	for _, attr := range []string{el.AriaLabel, el.Placeholder, el.Title, el.Name, el.ID} {
		if attr != "" {
			count++
		}
	}
	return clamp01(0.2 * float64(count))
}

// isFormOriented reports whether the query concerns form interaction.
func isFormOriented(norm string) bool {
	for _, w := range formQueryWords {
		if strings.Contains(norm, w) {
			return true
		}
	}
	return false
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
