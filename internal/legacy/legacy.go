// Package legacy is the degraded-mode scorer used when enhanced scoring is
// disabled: a single-pass keyword/synonym fuzzy match with fixed
// tag-priority tie-breaks. It mirrors the composite scorer's Rank surface so
// the matcher can swap it in without behavioral changes elsewhere.
package legacy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/surgebase/porter2"

	"github.com/domlocate/domlocate/internal/contextual"
	"github.com/domlocate/domlocate/internal/elemtype"
	"github.com/domlocate/domlocate/internal/textscore"
	"github.com/domlocate/domlocate/internal/types"
)

// Keyword overlap dominates; tag priority nudges interactive elements ahead
// of containers with the same text.
const (
	overlapWeight  = 0.70
	priorityWeight = 0.30
)

// Scorer is the single-pass fallback scorer. Stateless and safe for
// concurrent use.
type Scorer struct{}

// New creates a legacy scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score returns the legacy match score for one element in [0,1].
func (s *Scorer) Score(el types.ElementDescriptor, query string) float64 {
	keywords := contextual.ExtractKeywords(query)
	if len(keywords) == 0 {
		return 0
	}
	combined := el.CombinedText()
	combinedWords := strings.Fields(combined)

	matched := 0
	for _, kw := range keywords {
		if legacyKeywordMatch(kw, combined, combinedWords) {
			matched++
		}
	}
	overlap := float64(matched) / float64(len(keywords))
	return overlapWeight*overlap + priorityWeight*elemtype.TagPriority(el.TagName)
}

// legacyKeywordMatch matches on containment, prefix, porter2 stem equality,
// or synonym-table expansion.
func legacyKeywordMatch(kw, combined string, combinedWords []string) bool {
	if strings.Contains(combined, kw) {
		return true
	}
	stem := porter2.Stem(kw)
	for _, w := range combinedWords {
		if porter2.Stem(w) == stem || strings.HasPrefix(w, kw) || strings.HasPrefix(kw, w) {
			return true
		}
	}
	for _, syn := range contextual.SynonymsFor(kw) {
		if strings.Contains(combined, syn) {
			return true
		}
	}
	return false
}

// Rank scores every visible element, drops results below threshold, sorts by
// descending score with a tag-priority tie-break, and truncates to
// maxResults.
func (s *Scorer) Rank(elements []types.ElementDescriptor, query string, threshold float64, maxResults int) []types.ElementMatch {
	if textscore.Normalize(query) == "" {
		return nil
	}
	matches := make([]types.ElementMatch, 0, len(elements))
	for _, el := range elements {
		if !el.Visible {
			continue
		}
		score := s.Score(el, query)
		if score < threshold {
			continue
		}
		matches = append(matches, types.ElementMatch{
			Element:    el,
			Confidence: score,
			Reason:     fmt.Sprintf("legacy keyword match: score=%.2f", score),
		})
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return elemtype.TagPriority(matches[i].Element.TagName) > elemtype.TagPriority(matches[j].Element.TagName)
	})
	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}
