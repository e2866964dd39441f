// Package fusion merges design-guideline search with technical-documentation
// symbol search into one ranked answer, pairing related entries across the
// two corpora via normalized title tokens.
package fusion

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/search"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/techdocs"
)

// combinedThreshold is the minimum title-token overlap for collapsing a
// design result and a technical result into one combined entry.
const combinedThreshold = 0.5

// DefaultMaxResults bounds each side of a unified search when the caller
// doesn't say.
const DefaultMaxResults = 10

// Options scope a unified search. Zero-value include flags mean "neither",
// so callers set the sides they want explicitly.
type Options struct {
	Platform         hig.Platform
	IncludeDesign    bool
	IncludeTechnical bool
	MaxResults       int
	QueryVector      []float32
}

// Entry is one row of the merged result list. Design and Technical carry
// the source payloads; combined entries carry both.
type Entry struct {
	Type      hig.SourceType    `json:"type"`
	Title     string            `json:"title"`
	URL       string            `json:"url"`
	Score     float64           `json:"relevanceScore"`
	Design    *hig.SearchResult `json:"design,omitempty"`
	Technical *techdocs.Symbol  `json:"technical,omitempty"`
}

// CrossReference pairs a design section with the most relevant technical
// symbol that shares a title token with it.
type CrossReference struct {
	DesignSection   string  `json:"designSection"`
	TechnicalSymbol string  `json:"technicalSymbol"`
	Relevance       float64 `json:"relevance"`
}

// Unified is the full answer to a unified search.
type Unified struct {
	Results          []Entry            `json:"results"`
	DesignResults    []hig.SearchResult `json:"designResults"`
	TechnicalResults []techdocs.Symbol  `json:"technicalResults"`
	Sources          []string           `json:"sources"`
	CrossReferences  []CrossReference   `json:"crossReferences"`
	Total            int                `json:"total"`
}

// Fuser runs both searches and assembles the merged view.
type Fuser struct {
	indexer *search.Indexer
	tech    techdocs.Searcher
	log     *slog.Logger
}

// NewFuser wires the two search backends. tech may be nil when no
// technical corpus is configured; unified searches then serve design
// results only.
func NewFuser(indexer *search.Indexer, tech techdocs.Searcher, log *slog.Logger) *Fuser {
	if log == nil {
		log = slog.Default()
	}
	return &Fuser{indexer: indexer, tech: tech, log: log}
}

// SearchUnified runs the design and technical searches in parallel and
// merges them. A technical-search failure degrades to design-only results
// rather than failing the call; the error return reports only context
// cancellation.
func (f *Fuser) SearchUnified(ctx context.Context, query string, opts Options) (*Unified, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	var (
		design    []hig.SearchResult
		technical []techdocs.Symbol
	)

	g, gctx := errgroup.WithContext(ctx)
	if opts.IncludeDesign {
		g.Go(func() error {
			design = f.indexer.Search(query, search.SearchOptions{
				Platform:    opts.Platform,
				Limit:       limit,
				QueryVector: opts.QueryVector,
			})
			return nil
		})
	}
	if opts.IncludeTechnical && f.tech != nil {
		g.Go(func() error {
			symbols, err := f.tech.SearchSymbols(gctx, query, "", limit)
			if err != nil {
				f.log.Warn("technical search failed, serving design results only", "error", err)
				return nil
			}
			technical = symbols
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unified := &Unified{
		Results:          f.merge(design, technical),
		DesignResults:    design,
		TechnicalResults: technical,
		Sources:          sources(design, technical),
		CrossReferences:  crossReferences(design, technical),
	}
	unified.Total = len(unified.Results)
	return unified, nil
}

// merge collapses same-concept pairs into combined entries and ranks the
// remainder by score. A combined entry carries the higher of the two
// scores so it never sinks below either source row it replaced.
func (f *Fuser) merge(design []hig.SearchResult, technical []techdocs.Symbol) []Entry {
	usedTech := make([]bool, len(technical))
	entries := make([]Entry, 0, len(design)+len(technical))

	for i := range design {
		d := design[i]
		dTokens := titleTokens(d.Title)

		best := -1
		bestOverlap := 0.0
		for j := range technical {
			if usedTech[j] {
				continue
			}
			overlap := tokenOverlap(dTokens, titleTokens(technical[j].Title))
			if overlap >= combinedThreshold && overlap > bestOverlap {
				best, bestOverlap = j, overlap
			}
		}

		if best >= 0 {
			usedTech[best] = true
			t := technical[best]
			score := d.Score
			if t.Relevance > score {
				score = t.Relevance
			}
			entries = append(entries, Entry{
				Type:      hig.SourceCombined,
				Title:     d.Title,
				URL:       d.URL,
				Score:     score,
				Design:    &d,
				Technical: &t,
			})
			continue
		}

		entries = append(entries, Entry{
			Type:   hig.SourceDesign,
			Title:  d.Title,
			URL:    d.URL,
			Score:  d.Score,
			Design: &d,
		})
	}

	for j := range technical {
		if usedTech[j] {
			continue
		}
		t := technical[j]
		entries = append(entries, Entry{
			Type:      hig.SourceTechnical,
			Title:     t.Title,
			URL:       t.URL,
			Score:     t.Relevance,
			Technical: &t,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// crossReferences pairs every design result that shares a normalized title
// token with a technical result. Relevance averages the two source scores.
func crossReferences(design []hig.SearchResult, technical []techdocs.Symbol) []CrossReference {
	refs := make([]CrossReference, 0)
	if len(technical) == 0 {
		return refs
	}

	techTokens := make([]map[string]bool, len(technical))
	for j := range technical {
		techTokens[j] = titleTokens(technical[j].Title)
	}

	for _, d := range design {
		dTokens := titleTokens(d.Title)
		best := -1
		for j := range technical {
			if !sharesToken(dTokens, techTokens[j]) {
				continue
			}
			if best == -1 || technical[j].Relevance > technical[best].Relevance {
				best = j
			}
		}
		if best >= 0 {
			refs = append(refs, CrossReference{
				DesignSection:   d.Title,
				TechnicalSymbol: technical[best].Title,
				Relevance:       (d.Score + technical[best].Relevance) / 2,
			})
		}
	}
	return refs
}

func sources(design []hig.SearchResult, technical []techdocs.Symbol) []string {
	list := make([]string, 0, 2)
	if len(design) > 0 {
		list = append(list, "design-guidelines")
	}
	if len(technical) > 0 {
		list = append(list, "technical-documentation")
	}
	return list
}
