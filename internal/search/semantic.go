package search

import (
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/embedding"
)

// BlendWeights controls how the hybrid scorer mixes its signals.
type BlendWeights struct {
	Semantic  float64
	Keyword   float64
	Structure float64
	Context   float64
}

// DefaultBlendWeights favors keyword evidence over embeddings: the corpus is
// small and literal title matches are a stronger signal than cosine
// similarity on short sections.
func DefaultBlendWeights() BlendWeights {
	return BlendWeights{
		Semantic:  0.35,
		Keyword:   0.45,
		Structure: 0.10,
		Context:   0.10,
	}
}

// semanticScorer blends embedding similarity with the keyword tiers. When
// either side of a comparison has no vector, the semantic weight shifts onto
// the keyword weight so scores stay comparable across the corpus.
type semanticScorer struct {
	keyword keywordScorer
	weights BlendWeights
}

// NewSemanticScorer returns the hybrid keyword+embedding scorer.
func NewSemanticScorer(weights BlendWeights) Scorer {
	return semanticScorer{weights: weights}
}

func (semanticScorer) Semantic() bool { return true }

func (s semanticScorer) Score(q Query, e *IndexEntry) float64 {
	w := s.weights

	similarity := 0.0
	if len(q.Vector) > 0 && len(e.Vector) > 0 {
		similarity = embedding.Cosine(q.Vector, e.Vector)
	} else {
		w.Keyword += w.Semantic
		w.Semantic = 0
	}

	base := w.Semantic*similarity + w.Keyword*s.keyword.textScore(q, e)
	if base == 0 {
		return 0
	}
	return base +
		w.Structure*s.keyword.structureScore(q, e) +
		w.Context*s.keyword.contextScore(q, e)
}
