package composite

import (
	"strings"

	"github.com/domlocate/domlocate/internal/elemtype"
	"github.com/domlocate/domlocate/internal/textscore"
)

// QueryType classifies a description so the fused score can weight the
// component scorers adaptively.
type QueryType int

const (
	QueryGeneral QueryType = iota
	QueryTypeSpecific
	QueryActionBased
	QueryPositional
	QueryTextHeavy
)

// String returns the query type name used in match reasons.
func (q QueryType) String() string {
	switch q {
	case QueryTypeSpecific:
		return "type-specific"
	case QueryActionBased:
		return "action-based"
	case QueryPositional:
		return "positional"
	case QueryTextHeavy:
		return "text-heavy"
	default:
		return "general"
	}
}

// actionVerbs mark a query as naming an interaction.
var actionVerbs = []string{
	"click", "press", "tap", "type", "enter", "fill", "select", "choose",
	"check", "uncheck", "tick", "submit", "send", "search", "find", "toggle",
}

// positionalWords mark a query as ordinal/spatial.
var positionalWords = []string{
	"first", "second", "third", "last", "top", "bottom", "left", "right",
	"upper", "lower", "middle", "topmost", "bottommost",
}

// Classify assigns the query to one of five types by keyword inspection, in
// priority order: type-specific, action-based, positional, text-heavy
// (quoted text, or three or more words with no other signal), else general.
func Classify(query string) QueryType {
	norm := textscore.Normalize(query)
	if norm == "" {
		return QueryGeneral
	}
	if elemtype.ExtractTypeHint(norm) != "" {
		return QueryTypeSpecific
	}
	padded := " " + norm + " "
	for _, v := range actionVerbs {
		if strings.Contains(padded, " "+v+" ") {
			return QueryActionBased
		}
	}
	for _, w := range positionalWords {
		if strings.Contains(padded, " "+w+" ") {
			return QueryPositional
		}
	}
	if strings.ContainsAny(query, `"'`) || len(strings.Fields(norm)) >= 3 {
		return QueryTextHeavy
	}
	return QueryGeneral
}

// Weights is the quadruple applied to the component scores. Each quadruple
// sums to 1.0.
type Weights struct {
	Text       float64
	Visual     float64
	Contextual float64
	Type       float64
}

var weightTable = map[QueryType]Weights{
	QueryTypeSpecific: {Text: 0.25, Visual: 0.10, Contextual: 0.20, Type: 0.45},
	QueryActionBased:  {Text: 0.20, Visual: 0.15, Contextual: 0.45, Type: 0.20},
	QueryPositional:   {Text: 0.20, Visual: 0.45, Contextual: 0.15, Type: 0.20},
	QueryTextHeavy:    {Text: 0.50, Visual: 0.10, Contextual: 0.25, Type: 0.15},
	QueryGeneral:      {Text: 0.30, Visual: 0.20, Contextual: 0.25, Type: 0.25},
}

// GetWeights returns the weight quadruple for a query type.
func GetWeights(qt QueryType) Weights {
	return weightTable[qt]
}
