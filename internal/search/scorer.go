package search

import (
	"strings"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
)

// Relevance bonuses. Scores are unbounded and higher is better; only the
// relative ordering matters. Title matches dominate, URL matches count less,
// body matches least. Synonym-expanded terms are scaled down so a literal
// match always outranks an expansion-only match.
const (
	exactTitleBonus   = 2.0
	titleTermBonus    = 0.8
	exactURLBonus     = 1.2
	urlTermBonus      = 0.5
	exactContentBonus = 1.0
	contentTermBonus  = 0.3

	structuralBonus = 0.4
	platformBonus   = 0.25
	categoryBonus   = 0.25

	synonymWeight = 0.7

	// minRelevance separates real matches from noise. Results under it are
	// dropped unless that would leave nothing.
	minRelevance = 0.2
)

// guidanceTriggers mark queries asking for prescriptive guidance; sections
// carrying structured guidance get a bonus for those queries.
var guidanceTriggers = []string{
	"guidelines", "best practices", "how to", "how do i", "how should",
	"recommendation", "requirements",
}

// Query is one parsed search request: normalized text, significant terms,
// synonym expansions, and the optional embedding vector. Building it once up
// front keeps the per-entry scoring loop allocation-free.
type Query struct {
	Raw        string
	Normalized string
	Terms      []string
	Expanded   []string
	Platform   hig.Platform
	Category   hig.Category
	Vector     []float32

	wantsGuidance bool
}

// NewQuery parses and expands a raw query string. Terms of two characters or
// fewer are discarded.
func NewQuery(raw string, platform hig.Platform, category hig.Category) Query {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	var terms []string
	for _, t := range strings.Fields(normalized) {
		if len(t) > 2 {
			terms = append(terms, t)
		}
	}

	q := Query{
		Raw:        raw,
		Normalized: normalized,
		Terms:      terms,
		Expanded:   expandTerms(normalized, terms),
		Platform:   platform,
		Category:   category,
	}
	for _, trigger := range guidanceTriggers {
		if strings.Contains(normalized, trigger) {
			q.wantsGuidance = true
			break
		}
	}
	return q
}

// Empty reports whether the query carries no searchable text.
func (q Query) Empty() bool {
	return q.Normalized == ""
}

// Scorer ranks an index entry against a query. Implementations must be pure:
// same query and entry, same score.
type Scorer interface {
	Score(q Query, e *IndexEntry) float64
	Semantic() bool
}

// keywordScorer is the default tiered term-matching scorer.
type keywordScorer struct{}

// NewKeywordScorer returns the pure keyword relevance scorer.
func NewKeywordScorer() Scorer {
	return keywordScorer{}
}

func (keywordScorer) Semantic() bool { return false }

// Score gates the structural and context bonuses on a textual match: they
// reorder matching entries but never turn a non-match into a result.
func (s keywordScorer) Score(q Query, e *IndexEntry) float64 {
	text := s.textScore(q, e)
	if text == 0 {
		return 0
	}
	return text + s.structureScore(q, e) + s.contextScore(q, e)
}

// textScore applies the tiered term matching: title, then URL, then body
// (keywords plus snippet), for both literal and synonym-expanded terms.
func (keywordScorer) textScore(q Query, e *IndexEntry) float64 {
	title := strings.ToLower(e.Title)
	url := strings.ToLower(e.URL)
	body := strings.ToLower(e.Snippet)

	inKeywords := func(term string) bool {
		for _, kw := range e.Keywords {
			if kw == term || strings.Contains(kw, term) {
				return true
			}
		}
		return false
	}

	score := 0.0

	if title == q.Normalized {
		score += exactTitleBonus
	}
	if len(q.Normalized) > 2 {
		if strings.Contains(url, q.Normalized) {
			score += exactURLBonus
		}
		if strings.Contains(body, q.Normalized) {
			score += exactContentBonus
		}
	}

	for _, term := range q.Terms {
		if strings.Contains(title, term) {
			score += titleTermBonus
		}
		if strings.Contains(url, term) {
			score += urlTermBonus
		}
		if inKeywords(term) || strings.Contains(body, term) {
			score += contentTermBonus
		}
	}

	for _, term := range q.Expanded {
		if strings.Contains(title, term) {
			score += titleTermBonus * synonymWeight
		}
		if strings.Contains(url, term) {
			score += urlTermBonus * synonymWeight
		}
		if inKeywords(term) || strings.Contains(body, term) {
			score += contentTermBonus * synonymWeight
		}
	}

	return score
}

// structureScore rewards sections carrying structured guidance when the
// query asks for it.
func (keywordScorer) structureScore(q Query, e *IndexEntry) float64 {
	if !q.wantsGuidance {
		return 0
	}
	if e.HasGuidelines || e.HasExamples || e.HasSpecifications {
		return structuralBonus
	}
	return 0
}

// contextScore rewards exact platform and category matches so that, under a
// filter, platform-specific sections outrank universal ones of equal textual
// relevance.
func (keywordScorer) contextScore(q Query, e *IndexEntry) float64 {
	score := 0.0
	if q.Platform != "" && e.Platform == q.Platform {
		score += platformBonus
	}
	if q.Category != "" && e.Category == q.Category {
		score += categoryBonus
	}
	return score
}
