package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/content"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/search"
)

// searchQuery carries one validated search through the strategy chain.
type searchQuery struct {
	text     string
	platform hig.Platform
	category hig.Category
	limit    int
}

// searchStrategy is one rung of the fallback ladder. A strategy errors
// only when it cannot answer at all; an empty result slice is a
// legitimate answer and stops the chain.
type searchStrategy struct {
	name string
	run  func(ctx context.Context, q searchQuery) ([]hig.SearchResult, error)
}

// strategies returns the fallback chain in resolution order: the scored
// index, then a plain keyword scan over the raw corpus, then the curated
// minimal set. The empty result set is the floor when every rung fails.
func (s *Service) strategies() []searchStrategy {
	return []searchStrategy{
		{name: "indexed-search", run: s.indexedSearch},
		{name: "keyword-scan", run: s.keywordScan},
		{name: "curated-results", run: s.curatedResults},
	}
}

func (s *Service) runStrategies(ctx context.Context, q searchQuery) []hig.SearchResult {
	for _, strategy := range s.strategies() {
		results, err := strategy.run(ctx, q)
		if err != nil {
			s.log.Warn("search strategy failed, falling back",
				"strategy", strategy.name, "query", q.text, "error", err)
			continue
		}
		return results
	}
	return []hig.SearchResult{}
}

func (s *Service) indexedSearch(ctx context.Context, q searchQuery) ([]hig.SearchResult, error) {
	if s.indexer.Len() == 0 {
		return nil, errors.New("search index is empty")
	}
	return s.indexer.Search(q.text, search.SearchOptions{
		Platform:    q.platform,
		Category:    q.category,
		Limit:       q.limit,
		QueryVector: s.queryVector(ctx, q.text),
	}), nil
}

// keywordScan is the index-free fallback: a linear term scan over the raw
// section corpus with flat title/content weights.
func (s *Service) keywordScan(_ context.Context, q searchQuery) ([]hig.SearchResult, error) {
	if len(s.ordered) == 0 {
		return nil, errors.New("no sections loaded")
	}
	terms := strings.Fields(strings.ToLower(q.text))
	if len(terms) == 0 {
		return []hig.SearchResult{}, nil
	}

	var results []hig.SearchResult
	for _, sec := range s.ordered {
		if q.platform != "" && sec.Platform != q.platform && sec.Platform != hig.PlatformUniversal {
			continue
		}
		if q.category != "" && sec.Category != q.category {
			continue
		}

		title := strings.ToLower(sec.Title)
		body := strings.ToLower(sec.Content)
		var score float64
		for _, term := range terms {
			if strings.Contains(title, term) {
				score += 1.0
			}
			if strings.Contains(body, term) {
				score += 0.25
			}
		}
		if score == 0 {
			continue
		}

		results = append(results, hig.SearchResult{
			ID:       sec.ID,
			Title:    sec.Title,
			URL:      sec.URL,
			Platform: sec.Platform,
			Category: sec.Category,
			Score:    score,
			Snippet:  content.ExtractSnippet(sec.Content, 200),
			Type:     hig.SourceDesign,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > q.limit {
		results = results[:q.limit]
	}
	if results == nil {
		results = []hig.SearchResult{}
	}
	return results, nil
}

// curatedResults is the last resort before an empty answer: a hardcoded
// set of well-known sections, filtered by query terms when any match.
func (s *Service) curatedResults(_ context.Context, q searchQuery) ([]hig.SearchResult, error) {
	terms := strings.Fields(strings.ToLower(q.text))
	if len(terms) == 0 {
		return []hig.SearchResult{}, nil
	}

	curated := curatedSections()
	matched := make([]hig.SearchResult, 0, len(curated))
	for _, result := range curated {
		title := strings.ToLower(result.Title)
		for _, term := range terms {
			if strings.Contains(title, term) {
				result.Score = 0.5
				matched = append(matched, result)
				break
			}
		}
	}
	if len(matched) == 0 {
		// Nothing matched; serve the head of the curated list at a
		// fallback score so the caller still gets entry points.
		for i, result := range curated {
			if i >= q.limit {
				break
			}
			result.Score = 0.1
			matched = append(matched, result)
		}
	}
	if len(matched) > q.limit {
		matched = matched[:q.limit]
	}
	return matched, nil
}

// curatedSections lists the entry-point sections served when both the
// index and the corpus are unavailable.
func curatedSections() []hig.SearchResult {
	base := "https://developer.apple.com/design/human-interface-guidelines/"
	entries := []struct {
		title    string
		slug     string
		category hig.Category
		snippet  string
	}{
		{"Buttons", "buttons", hig.CategoryVisualDesign,
			"Buttons initiate app-specific actions, have customizable backgrounds, and can include a title or an icon."},
		{"Navigation Bars", "navigation-bars", hig.CategoryNavigation,
			"A navigation bar appears at the top of an app screen, enabling navigation through a hierarchy of content."},
		{"Tab Bars", "tab-bars", hig.CategoryNavigation,
			"A tab bar lets people navigate among different sections of an app."},
		{"Text Fields", "text-fields", hig.CategorySelectionAndInput,
			"A text field is a rectangular area in which people enter or edit small, specific pieces of text."},
		{"Toggles", "toggles", hig.CategorySelectionAndInput,
			"A toggle lets people choose between a pair of opposing states, like on and off."},
		{"Accessibility", "accessibility", hig.CategoryFoundations,
			"People use Apple's accessibility features to personalize how they interact with their devices."},
		{"Color", "color", hig.CategoryColorAndMaterials,
			"Judicious use of color can enhance communication and provide visual continuity."},
		{"Typography", "typography", hig.CategoryTypography,
			"In addition to ensuring legible text, typographic choices help convey information hierarchy."},
		{"Layout", "layout", hig.CategoryLayout,
			"A consistent layout that adapts to various contexts makes your experience more approachable."},
		{"Icons", "icons", hig.CategoryIconsAndImages,
			"An effective icon is a graphic asset that expresses a single concept in ways people instantly understand."},
	}

	results := make([]hig.SearchResult, len(entries))
	for i, e := range entries {
		url := base + e.slug
		results[i] = hig.SearchResult{
			ID:       hig.SectionID(url),
			Title:    e.title,
			URL:      url,
			Platform: hig.PlatformUniversal,
			Category: e.category,
			Snippet:  e.snippet,
			Type:     hig.SourceDesign,
		}
	}
	return results
}
