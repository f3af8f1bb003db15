// Package judge defines the boundary to the external judgment service that
// breaks genuine ties between candidate elements. The engine consults it
// only when deterministic signals are inconclusive, and always degrades to
// the deterministic ranking when the service fails, responds invalidly, or
// is unavailable.
package judge

import (
	"context"
	"fmt"

	"github.com/domlocate/domlocate/internal/types"
)

// NoMatch is the sentinel index meaning the service found no good match.
// Any response index outside [-1, candidateCount) is treated the same way.
const NoMatch = -1

// maxCandidateText caps the text sent per candidate so requests stay small.
const maxCandidateText = 120

// Candidate is one serialized element offered to the service for judgment.
type Candidate struct {
	Index      int               `json:"index"`
	Tag        string            `json:"tag"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Text       string            `json:"text,omitempty"`
	Label      string            `json:"label,omitempty"`
	Position   string            `json:"position"`
}

// Request carries the free-text query and up to five candidates.
type Request struct {
	Query      string      `json:"query"`
	Candidates []Candidate `json:"candidates"`
}

// Response is the service's choice: a zero-based index into the candidate
// list, or NoMatch, plus free-text reasoning.
type Response struct {
	Index     int    `json:"index"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Service is the injectable judgment capability. Implementations must honor
// the context deadline; the engine bounds every call with a timeout.
type Service interface {
	Choose(ctx context.Context, req Request) (Response, error)
}

// Noop always defers to the deterministic ranking. It is the default
// service, keeping the engine fully testable without external dependencies.
type Noop struct{}

// Choose implements Service by declining to pick.
func (Noop) Choose(context.Context, Request) (Response, error) {
	return Response{Index: NoMatch}, nil
}

// FormatCandidates serializes descriptors into judgment candidates: tag,
// identifying attributes, truncated visible text, position, and associated
// label.
func FormatCandidates(elements []types.ElementDescriptor) []Candidate {
	candidates := make([]Candidate, len(elements))
	for i, el := range elements {
		attrs := make(map[string]string)
		for k, v := range map[string]string{
			"id":          el.ID,
			"name":        el.Name,
			"type":        el.InputType,
			"role":        el.Role,
			"placeholder": el.Placeholder,
			"aria-label":  el.AriaLabel,
		} {
			if v != "" {
				attrs[k] = v
			}
		}
		if len(attrs) == 0 {
			attrs = nil
		}
		candidates[i] = Candidate{
			Index:      i,
			Tag:        el.TagName,
			Attributes: attrs,
			Text:       types.TruncateText(el.Text, maxCandidateText),
			Label:      types.TruncateText(el.NearbyText, maxCandidateText),
			Position: fmt.Sprintf("(%.0f,%.0f) %.0fx%.0f",
				el.Box.X, el.Box.Y, el.Box.Width, el.Box.Height),
		}
	}
	return candidates
}

// ValidIndex reports whether a response index selects a real candidate.
func ValidIndex(index, candidateCount int) bool {
	return index >= 0 && index < candidateCount
}
