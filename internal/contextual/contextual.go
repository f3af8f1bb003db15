// Package contextual scores semantic fit between a query and an element
// using a synonym/domain-vocabulary knowledge base and an inferred
// action-to-element-type mapping.
package contextual

import (
	"strings"

	"github.com/surgebase/porter2"

	"github.com/domlocate/domlocate/internal/textscore"
	"github.com/domlocate/domlocate/internal/types"
)

// Sub-score combination weights; they sum to 1.0.
const (
	synonymWeight = 0.30
	actionWeight  = 0.25
	labelWeight   = 0.15
	nearbyWeight  = 0.20
	domainWeight  = 0.10
)

// Agreement bonuses when several independent sub-scores are simultaneously
// strong.
const (
	strongSubScore  = 0.70
	tripleBonus     = 0.10
	doubleBonus     = 0.05
	neutralNoDomain = 0.50
)

// Scorer holds the static knowledge tables. Construction is cheap; the
// tables themselves are package-level and never mutated after init.
type Scorer struct{}

// New creates a contextual relevance scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score returns the contextual relevance of the element to the query in
// [0,1]. Queries with no usable keywords score 0.
func (s *Scorer) Score(el types.ElementDescriptor, query string) float64 {
	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return 0
	}
	combined := el.CombinedText()
	combinedWords := strings.Fields(combined)

	synonym := synonymOverlapScore(keywords, combined, combinedWords)
	action := s.actionMatchScore(keywords, el)
	label := labelRelationshipScore(keywords, el)
	nearby := nearbyContextScore(keywords, el)
	domain := domainRelevanceScore(keywords, combinedWords)

	score := synonymWeight*synonym +
		actionWeight*action +
		labelWeight*label +
		nearbyWeight*nearby +
		domainWeight*domain

	strong := 0
	for _, sub := range []float64{synonym, action, label, nearby, domain} {
		if sub > strongSubScore {
			strong++
		}
	}
	switch {
	case strong >= 3:
		score += tripleBonus
	case strong == 2:
		score += doubleBonus
	}
	return clamp01(score)
}

// ExtractKeywords returns the stop-word-filtered tokens of a query.
func ExtractKeywords(query string) []string {
	tokens := textscore.Tokens(query)
	keywords := tokens[:0]
	for _, t := range tokens {
		if !stopWords[t] {
			keywords = append(keywords, t)
		}
	}
	return keywords
}

// SynonymsFor returns the synonym list for a vocabulary word, or nil. The
// legacy fallback scorer shares this table.
func SynonymsFor(word string) []string {
	return synonymTable[word]
}

// InferAction returns the query's action type by testing the fixed priority
// list click > type > select > check > submit > search, defaulting to click.
func InferAction(keywords []string) string {
	for _, action := range actionPriority {
		for _, kw := range actionKeywords[action] {
			for _, qk := range keywords {
				if qk == kw {
					return action
				}
			}
		}
	}
	return "click"
}

// synonymOverlapScore is the ratio of query keywords found in the element's
// combined text, where a keyword counts as found on direct containment, stem
// equality, or any-synonym containment.
func synonymOverlapScore(keywords []string, combined string, combinedWords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range keywords {
		if keywordPresent(kw, combined, combinedWords) {
			matched++
			continue
		}
		for _, syn := range synonymTable[kw] {
			if strings.Contains(combined, syn) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(keywords))
}

// keywordPresent matches on containment or porter2 stem equality, so "agree"
// still hits "agreement" and "agreeing".
func keywordPresent(kw, combined string, combinedWords []string) bool {
	if strings.Contains(combined, kw) {
		return true
	}
	stem := porter2.Stem(kw)
	for _, w := range combinedWords {
		if porter2.Stem(w) == stem {
			return true
		}
	}
	return false
}

// actionMatchScore infers the query's action type and checks whether the
// element's structural role intersects the expected tag set for that action.
func (s *Scorer) actionMatchScore(keywords []string, el types.ElementDescriptor) float64 {
	action := InferAction(keywords)
	tag := strings.ToLower(el.TagName)
	for _, expected := range actionTagTable[action] {
		if tag == expected {
			if action == "check" && tag == "input" {
				// Checking specifically wants a checkbox/radio control.
				if el.InputType == "checkbox" || el.InputType == "radio" {
					return 1
				}
				return 0.4
			}
			return 1
		}
	}
	if el.Role != "" {
		for _, expected := range actionTagTable[action] {
			if strings.Contains(el.Role, expected) {
				return 0.6
			}
		}
	}
	return 0.2
}

// labelRelationshipScore rates keyword overlap with the element's associated
// label text, boosted slightly when the association is explicit via a
// label-for/id relationship.
func labelRelationshipScore(keywords []string, el types.ElementDescriptor) float64 {
	if el.NearbyText == "" {
		return 0.3
	}
	nearby := strings.ToLower(el.NearbyText)
	nearbyWords := strings.Fields(nearby)
	matched := 0
	for _, kw := range keywords {
		if keywordPresent(kw, nearby, nearbyWords) {
			matched++
		}
	}
	score := float64(matched) / float64(len(keywords))
	if el.NearbyTextIsFor && score > 0 {
		score += 0.15
	}
	return clamp01(score)
}

// nearbyContextScore takes the best keyword-overlap across the element's
// textual surfaces, each discounted by its source priority weight.
func nearbyContextScore(keywords []string, el types.ElementDescriptor) float64 {
	surfaces := map[string]string{
		"aria":        el.AriaLabel,
		"placeholder": el.Placeholder,
		"text":        el.Text,
		"title":       el.Title,
		"name":        el.Name,
		"value":       el.Value,
	}
	best := 0.0
	for _, src := range nearbySources {
		text := strings.ToLower(surfaces[src.name])
		if text == "" {
			continue
		}
		words := strings.Fields(text)
		matched := 0
		for _, kw := range keywords {
			if keywordPresent(kw, text, words) {
				matched++
			}
		}
		score := src.weight * float64(matched) / float64(len(keywords))
		if score > best {
			best = score
		}
	}
	return clamp01(best)
}

// domainRelevanceScore assigns the query to its best-matching vocabulary
// cluster and rewards elements whose combined text shares that cluster.
// Returns 0.5 neutral when no cluster matches the query.
func domainRelevanceScore(keywords []string, combinedWords []string) float64 {
	bestCluster := ""
	bestHits := 0
	for cluster, vocab := range domainClusters {
		hits := 0
		for _, kw := range keywords {
			for _, v := range vocab {
				if kw == v {
					hits++
					break
				}
			}
		}
		if hits > bestHits || (hits == bestHits && hits > 0 && cluster < bestCluster) {
			bestCluster = cluster
			bestHits = hits
		}
	}
	if bestHits == 0 {
		return neutralNoDomain
	}

	elementHits := 0
	for _, v := range domainClusters[bestCluster] {
		for _, w := range combinedWords {
			if w == v {
				elementHits++
				break
			}
		}
	}
	if elementHits == 0 {
		return 0.3
	}
	score := 0.7 + 0.1*float64(elementHits)
	return clamp01(score)
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
