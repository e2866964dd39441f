// Package service is the validated query façade. Every entry point checks
// its inputs before dispatch, and every search resolves through a fallback
// chain so internal failures degrade to well-formed results instead of
// errors. Only input-validation failures are returned to callers.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/cache"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/embedding"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/fusion"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/search"
)

const (
	// MaxQueryLength bounds query and component-name inputs.
	MaxQueryLength = 200
	// MaxLimit bounds the per-call result limit.
	MaxLimit = 50
	// MaxComparePlatforms bounds a platform comparison.
	MaxComparePlatforms = 6

	cacheSize = 512
	cacheTTL  = 10 * time.Minute
)

// ErrInvalidInput tags caller mistakes: bad enum values, over-long
// queries, out-of-range limits. These reject immediately, without
// touching the search path.
var ErrInvalidInput = errors.New("invalid input")

// Filters echoes the filter values a search was scoped by.
type Filters struct {
	Platform string `json:"platform,omitempty"`
	Category string `json:"category,omitempty"`
}

// SearchResponse is the stable shape every guideline search returns,
// including degraded and empty outcomes.
type SearchResponse struct {
	Results []hig.SearchResult `json:"results"`
	Total   int                `json:"total"`
	Query   string             `json:"query"`
	Filters Filters            `json:"filters"`
}

// UnifiedOptions scope a unified search. Include flags arrive resolved;
// transport layers decide their defaults.
type UnifiedOptions struct {
	Platform         string
	IncludeDesign    bool
	IncludeTechnical bool
	MaxResults       int
}

// Service answers validated queries over the loaded corpus.
type Service struct {
	indexer      *search.Indexer
	fuser        *fusion.Fuser
	sections     map[string]*hig.Section
	ordered      []*hig.Section
	embedder     embedding.Provider
	searchCache  *cache.Cache[*SearchResponse]
	unifiedCache *cache.Cache[*fusion.Unified]
	log          *slog.Logger
}

// NewService wires the façade. sections is the full corpus backing the
// keyword-scan fallback and spec lookups; embedder is optional and only
// enables semantic scoring of queries.
func NewService(indexer *search.Indexer, fuser *fusion.Fuser, sections []*hig.Section, embedder embedding.Provider, log *slog.Logger) (*Service, error) {
	if indexer == nil {
		return nil, errors.New("indexer is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if fuser == nil {
		fuser = fusion.NewFuser(indexer, nil, log)
	}

	searchCache, err := cache.New[*SearchResponse](cacheSize, cacheTTL)
	if err != nil {
		return nil, fmt.Errorf("create search cache: %w", err)
	}
	unifiedCache, err := cache.New[*fusion.Unified](cacheSize, cacheTTL)
	if err != nil {
		return nil, fmt.Errorf("create unified cache: %w", err)
	}

	byID := make(map[string]*hig.Section, len(sections))
	ordered := make([]*hig.Section, 0, len(sections))
	for _, s := range sections {
		if s == nil {
			continue
		}
		byID[s.ID] = s
		ordered = append(ordered, s)
	}

	return &Service{
		indexer:      indexer,
		fuser:        fuser,
		sections:     byID,
		ordered:      ordered,
		embedder:     embedder,
		searchCache:  searchCache,
		unifiedCache: unifiedCache,
		log:          log,
	}, nil
}

// SearchGuidelines validates the inputs and resolves the query through the
// fallback chain. Empty queries return an empty result set; they are not
// an error.
func (s *Service) SearchGuidelines(ctx context.Context, query, platform, category string, limit int) (*SearchResponse, error) {
	normalized := strings.TrimSpace(query)
	if err := validateQuery(normalized); err != nil {
		return nil, err
	}
	p, c, err := parseFilters(platform, category)
	if err != nil {
		return nil, err
	}
	limit, err = normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	key := cacheKey("search", normalized, string(p), string(c), strconv.Itoa(limit))
	cached, err := s.searchCache.GetOrFetch(ctx, key, func(ctx context.Context) (*SearchResponse, error) {
		return s.resolveSearch(ctx, normalized, p, c, limit), nil
	})
	if err != nil {
		// The fetch itself never fails; guard anyway.
		return s.resolveSearch(ctx, normalized, p, c, limit), nil
	}
	return cached.Value, nil
}

func (s *Service) resolveSearch(ctx context.Context, query string, platform hig.Platform, category hig.Category, limit int) *SearchResponse {
	results := s.runStrategies(ctx, searchQuery{
		text:     query,
		platform: platform,
		category: category,
		limit:    limit,
	})
	return &SearchResponse{
		Results: results,
		Total:   len(results),
		Query:   query,
		Filters: Filters{Platform: string(platform), Category: string(category)},
	}
}

// SearchUnified validates the inputs and dispatches to the fuser. A
// failing technical backend degrades inside the fuser; the only
// post-validation error out of here is context cancellation.
func (s *Service) SearchUnified(ctx context.Context, query string, opts UnifiedOptions) (*fusion.Unified, error) {
	normalized := strings.TrimSpace(query)
	if err := validateQuery(normalized); err != nil {
		return nil, err
	}
	var platform hig.Platform
	if opts.Platform != "" {
		p, err := hig.ParsePlatform(opts.Platform)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		platform = p
	}
	limit, err := normalizeLimit(opts.MaxResults)
	if err != nil {
		return nil, err
	}

	key := cacheKey("unified", normalized, string(platform),
		strconv.FormatBool(opts.IncludeDesign), strconv.FormatBool(opts.IncludeTechnical), strconv.Itoa(limit))
	cached, err := s.unifiedCache.GetOrFetch(ctx, key, func(ctx context.Context) (*fusion.Unified, error) {
		return s.fuser.SearchUnified(ctx, normalized, fusion.Options{
			Platform:         platform,
			IncludeDesign:    opts.IncludeDesign,
			IncludeTechnical: opts.IncludeTechnical,
			MaxResults:       limit,
			QueryVector:      s.queryVector(ctx, normalized),
		})
	})
	if err != nil {
		return nil, err
	}
	return cached.Value, nil
}

// Health reports whether the service can answer indexed queries.
func (s *Service) Health(ctx context.Context) error {
	_ = ctx
	if s.indexer.Len() == 0 {
		return errors.New("search index is empty")
	}
	return nil
}

// queryVector embeds the query when an embedder is configured. Failures
// disable semantic scoring for this call only.
func (s *Service) queryVector(ctx context.Context, query string) []float32 {
	if s.embedder == nil || query == "" {
		return nil
	}
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.log.Debug("query embedding failed, keyword scoring only", "error", err)
		return nil
	}
	return vector
}

func validateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return fmt.Errorf("%w: Query too long: maximum %d characters", ErrInvalidInput, MaxQueryLength)
	}
	return nil
}

func parseFilters(platform, category string) (hig.Platform, hig.Category, error) {
	var p hig.Platform
	var c hig.Category
	if platform != "" {
		parsed, err := hig.ParsePlatform(platform)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		p = parsed
	}
	if category != "" {
		parsed, err := hig.ParseCategory(category)
		if err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		c = parsed
	}
	return p, c, nil
}

func normalizeLimit(limit int) (int, error) {
	if limit == 0 {
		return search.DefaultLimit, nil
	}
	if limit < 1 || limit > MaxLimit {
		return 0, fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidInput, MaxLimit, limit)
	}
	return limit, nil
}

func cacheKey(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
