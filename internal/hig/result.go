package hig

// SourceType tags which corpus a search result came from.
type SourceType string

const (
	SourceDesign    SourceType = "design-guideline"
	SourceTechnical SourceType = "technical-doc"
	SourceCombined  SourceType = "combined"
)

// SearchResult is one ranked hit from the design-guideline index.
// Score is an unbounded positive relevance value; lists are sorted by it
// descending with ties kept in encounter order.
type SearchResult struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	Platform Platform   `json:"platform"`
	Score    float64    `json:"relevanceScore"`
	Snippet  string     `json:"snippet"`
	Category Category   `json:"category"`
	Type     SourceType `json:"type"`
}
