// Package textscore compares a query string against an element's textual
// surfaces using several independent string-distance algorithms. All scoring
// is pure: identical inputs always produce identical scores.
package textscore

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
)

// Fixed combination weights for the four similarity components. They sum to
// 1.0 so the weighted core stays in [0,1] before bonuses.
const (
	levenshteinWeight = 0.30
	jaroWinklerWeight = 0.30
	ngramWeight       = 0.20
	tokenSetWeight    = 0.20
)

// Additive bonuses. Each is capped by clamping the total to 1.0.
const (
	containmentBonus = 0.15
	prefixBonus      = 0.10
	allTokensBonus   = 0.15
)

// Scorer computes text similarity in [0,1]. It is stateless and safe for
// concurrent use.
type Scorer struct{}

// New creates a text similarity scorer.
func New() *Scorer {
	return &Scorer{}
}

// Normalize lowercases the input, collapses every run of non-alphanumeric
// characters to a single space, and trims the result.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	lastSpace := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			sb.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(sb.String())
}

// Tokens splits a normalized string on whitespace and strips 1-character
// tokens, which carry no matching signal.
func Tokens(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Score returns the similarity of query and target in [0,1]. Exact match
// after normalization short-circuits to 1.0; empty inputs score 0.
func (s *Scorer) Score(query, target string) float64 {
	q := Normalize(query)
	t := Normalize(target)
	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return 1
	}

	score := levenshteinWeight*levenshteinRatio(q, t) +
		jaroWinklerWeight*jaroWinkler(q, t) +
		ngramWeight*bigramJaccard(q, t) +
		tokenSetWeight*tokenSetRatio(q, t)

	if strings.Contains(t, q) || strings.Contains(q, t) {
		score += containmentBonus
	}
	if strings.HasPrefix(t, q) {
		score += prefixBonus
	}
	if containsAllTokens(t, q) {
		score += allTokensBonus
	}

	return clamp01(score)
}

// BestMatch returns the maximum Score of the query against each candidate.
func (s *Scorer) BestMatch(query string, candidates []string) float64 {
	best := 0.0
	for _, c := range candidates {
		if v := s.Score(query, c); v > best {
			best = v
		}
	}
	return best
}

// levenshteinRatio converts edit distance to a similarity: 1 - dist/maxLen.
// go-edlib computes the distance with a two-row dynamic-programming pass.
func levenshteinRatio(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := float64(edlib.LevenshteinDistance(a, b))
	r := 1 - dist/float64(maxLen)
	if r < 0 {
		return 0
	}
	return r
}

// jaroWinkler is the classic Jaro similarity with a common-prefix boost of up
// to 4 characters, as implemented by go-edlib.
func jaroWinkler(a, b string) float64 {
	sim, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return clamp01(float64(sim))
}

// bigramJaccard computes set intersection over union of character bigrams.
func bigramJaccard(a, b string) float64 {
	if len(a) < 2 || len(b) < 2 {
		if a == b {
			return 1
		}
		return 0
	}
	return clamp01(float64(edlib.JaccardSimilarity(a, b, 2)))
}

// tokenSetRatio compares the two strings as token sets using the
// intersection/difference-set trick, which makes it robust to word
// reordering ("submit form" vs "form submit").
func tokenSetRatio(a, b string) float64 {
	tokensA := Tokens(a)
	tokensB := Tokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := toSet(tokensA)
	setB := toSet(tokensB)

	var inter, diffA, diffB []string
	for tok := range setA {
		if setB[tok] {
			inter = append(inter, tok)
		} else {
			diffA = append(diffA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			diffB = append(diffB, tok)
		}
	}
	sort.Strings(inter)
	sort.Strings(diffA)
	sort.Strings(diffB)

	interStr := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(interStr + " " + strings.Join(diffA, " "))
	combinedB := strings.TrimSpace(interStr + " " + strings.Join(diffB, " "))

	best := levenshteinRatio(interStr, combinedA)
	if v := levenshteinRatio(interStr, combinedB); v > best {
		best = v
	}
	if v := levenshteinRatio(combinedA, combinedB); v > best {
		best = v
	}
	if interStr == "" {
		// No shared tokens: only the cross comparison is meaningful.
		best = levenshteinRatio(combinedA, combinedB)
	}
	return best
}

// containsAllTokens reports whether every query token appears in the target.
// Tokens match on equality or when either is a prefix of the other, which
// tolerates stemmed forms ("agree" vs "agreement").
func containsAllTokens(target, query string) bool {
	queryTokens := Tokens(query)
	if len(queryTokens) == 0 {
		return false
	}
	targetTokens := Tokens(target)
	for _, qt := range queryTokens {
		matched := false
		for _, tt := range targetTokens {
			if qt == tt || strings.HasPrefix(tt, qt) || strings.HasPrefix(qt, tt) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func toSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
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
