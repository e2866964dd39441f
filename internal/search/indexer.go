// Package search builds the in-memory index over processed sections and
// serves ranked, filtered search. Scoring reads only the indexed projection
// of each section, never the raw content, so an index reloaded from disk
// ranks exactly like a freshly built one.
package search

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/content"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
)

const (
	// DefaultLimit applies when a caller passes no result limit.
	DefaultLimit = 10

	snippetLength = 200

	fallbackScore = 0.1
	fallbackLimit = 3
)

// IndexEntry is the searchable projection of one section.
type IndexEntry struct {
	ID       string       `json:"id"`
	Position int          `json:"position"`
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Platform hig.Platform `json:"platform"`
	Category hig.Category `json:"category"`
	Keywords []string     `json:"keywords"`
	Snippet  string       `json:"snippet"`

	HasGuidelines        bool `json:"hasGuidelines"`
	HasExamples          bool `json:"hasExamples"`
	HasSpecifications    bool `json:"hasSpecifications"`
	HasStructuredContent bool `json:"hasStructuredContent"`
	ConceptCount         int  `json:"conceptCount"`

	// Vector is persisted in the semantic index group, not with the entry.
	Vector []float32 `json:"-"`
}

// SearchOptions filter and bound one search call. QueryVector carries the
// pre-computed query embedding when the hybrid scorer is active; computing
// it belongs to the caller so search itself never touches the network.
type SearchOptions struct {
	Platform    hig.Platform
	Category    hig.Category
	Limit       int
	QueryVector []float32
}

// IndexStatistics summarizes the loaded index.
type IndexStatistics struct {
	TotalSections   int      `json:"totalSections"`
	AverageKeywords float64  `json:"averageKeywords"`
	Features        []string `json:"features"`
	SemanticEnabled bool     `json:"semanticSearchEnabled"`
}

// Indexer holds the corpus projection and answers queries. Ingestion happens
// before serving in the intended deployment; the lock keeps concurrent reads
// safe regardless.
type Indexer struct {
	log    *slog.Logger
	scorer Scorer

	mu      sync.RWMutex
	entries []*IndexEntry
	byID    map[string]int
}

// NewIndexer creates an empty index ranked by the given scorer. A nil scorer
// selects pure keyword ranking.
func NewIndexer(scorer Scorer, log *slog.Logger) *Indexer {
	if scorer == nil {
		scorer = NewKeywordScorer()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{
		log:    log,
		scorer: scorer,
		byID:   map[string]int{},
	}
}

// AddSection indexes one section. Sections without content are skipped with
// a log line rather than an error; structurally invalid sections return one,
// since those indicate a bug in the caller. Re-adding an ID replaces the
// previous entry in place, keeping its position.
func (ix *Indexer) AddSection(s *hig.Section) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("add section: %w", err)
	}
	if !s.HasContent() {
		ix.log.Debug("skipping section without content", "id", s.ID, "title", s.Title)
		return nil
	}

	entry := buildEntry(s)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if pos, ok := ix.byID[s.ID]; ok {
		entry.Position = pos
		ix.entries[pos] = entry
		return nil
	}
	entry.Position = len(ix.entries)
	ix.byID[s.ID] = entry.Position
	ix.entries = append(ix.entries, entry)
	return nil
}

func buildEntry(s *hig.Section) *IndexEntry {
	indexable := s.Content
	snippetSource := s.Content
	if sc := s.Structured; sc != nil {
		parts := make([]string, 0, 1+len(sc.Guidelines)+len(sc.Examples))
		if sc.Overview != "" {
			parts = append(parts, sc.Overview)
			snippetSource = sc.Overview
		}
		parts = append(parts, sc.Guidelines...)
		parts = append(parts, sc.Examples...)
		if len(parts) > 0 {
			indexable = strings.TrimSpace(indexable + "\n" + strings.Join(parts, "\n"))
		}
	}

	e := &IndexEntry{
		ID:       s.ID,
		Title:    s.Title,
		URL:      s.URL,
		Platform: s.Platform,
		Category: s.Category,
		Keywords: content.ExtractKeywords(indexable, s.Title, s.Platform, s.Category),
		Snippet:  content.ExtractSnippet(snippetSource, snippetLength),
	}
	if sc := s.Structured; sc != nil {
		e.HasGuidelines = len(sc.Guidelines) > 0
		e.HasExamples = len(sc.Examples) > 0
		e.HasSpecifications = len(sc.Specifications) > 0
		e.HasStructuredContent = sc.Overview != "" || e.HasGuidelines || e.HasExamples || e.HasSpecifications
		e.ConceptCount = len(sc.RelatedConcepts)
	}
	return e
}

type scoredEntry struct {
	entry *IndexEntry
	score float64
}

// Search ranks the corpus against the query. An empty or whitespace-only
// query returns an empty list. A query that matches nothing against a
// non-empty (post-filter) corpus returns a small, low-scored fallback list
// instead, so valid queries never come back empty by accident. Search never
// returns an error.
func (ix *Indexer) Search(query string, opts SearchOptions) []hig.SearchResult {
	q := NewQuery(query, opts.Platform, opts.Category)
	if q.Empty() {
		return []hig.SearchResult{}
	}
	q.Vector = opts.QueryVector

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	candidates := make([]scoredEntry, 0, len(ix.entries))
	for _, e := range ix.entries {
		if !matchesFilters(e, opts.Platform, opts.Category) {
			continue
		}
		candidates = append(candidates, scoredEntry{entry: e, score: ix.scorer.Score(q, e)})
	}

	kept := candidates[:0:0]
	for _, c := range candidates {
		if c.score >= minRelevance {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		kept = fallbackList(candidates)
		if len(kept) == 0 {
			return []hig.SearchResult{}
		}
		ix.log.Debug("no results above threshold, returning fallback list",
			"query", query, "count", len(kept))
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
	if len(kept) > limit {
		kept = kept[:limit]
	}

	results := make([]hig.SearchResult, len(kept))
	for i, c := range kept {
		results[i] = hig.SearchResult{
			ID:       c.entry.ID,
			Title:    c.entry.Title,
			URL:      c.entry.URL,
			Platform: c.entry.Platform,
			Category: c.entry.Category,
			Score:    c.score,
			Snippet:  c.entry.Snippet,
			Type:     hig.SourceDesign,
		}
	}
	return results
}

// matchesFilters applies the filter semantics: a platform filter admits the
// exact platform or universal; a category filter is exact only.
func matchesFilters(e *IndexEntry, platform hig.Platform, category hig.Category) bool {
	if platform != "" && e.Platform != platform && e.Platform != hig.PlatformUniversal {
		return false
	}
	if category != "" && e.Category != category {
		return false
	}
	return true
}

// fallbackList returns the first few filtered entries with a low uniform
// score, used when nothing clears the relevance threshold.
func fallbackList(candidates []scoredEntry) []scoredEntry {
	n := len(candidates)
	if n > fallbackLimit {
		n = fallbackLimit
	}
	list := make([]scoredEntry, n)
	for i := 0; i < n; i++ {
		list[i] = scoredEntry{entry: candidates[i].entry, score: fallbackScore}
	}
	return list
}

// SetVector attaches an embedding to an indexed entry. Returns false when
// the ID is not indexed.
func (ix *Indexer) SetVector(id string, vec []float32) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	pos, ok := ix.byID[id]
	if !ok {
		return false
	}
	ix.entries[pos].Vector = vec
	return true
}

// Entry returns the indexed projection for an ID.
func (ix *Indexer) Entry(id string) (*IndexEntry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	pos, ok := ix.byID[id]
	if !ok {
		return nil, false
	}
	return ix.entries[pos], true
}

// Len reports the number of indexed entries.
func (ix *Indexer) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Statistics summarizes the current index.
func (ix *Indexer) Statistics() IndexStatistics {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	stats := IndexStatistics{
		TotalSections:   len(ix.entries),
		SemanticEnabled: ix.scorer.Semantic(),
		Features: []string{
			"keyword-search",
			"platform-filtering",
			"category-filtering",
			"structural-ranking",
		},
	}
	if stats.SemanticEnabled {
		stats.Features = append(stats.Features, "semantic-search")
	}
	if len(ix.entries) > 0 {
		total := 0
		for _, e := range ix.entries {
			total += len(e.Keywords)
		}
		stats.AverageKeywords = float64(total) / float64(len(ix.entries))
	}
	return stats
}

// Clear drops every entry, resetting the index for a reload.
func (ix *Indexer) Clear() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = nil
	ix.byID = map[string]int{}
}
