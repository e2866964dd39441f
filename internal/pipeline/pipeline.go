// Package pipeline orchestrates offline content generation: it scrapes the
// page registry, processes and validates the extracted content, persists
// sections to the static store, and builds the search index.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/content"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/embedding"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/quality"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/scraper"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/search"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/static"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/techdocs"
)

// DefaultWorkers bounds concurrent page processing. The scraper's rate
// limiter is the real throttle; this only caps in-flight work.
const DefaultWorkers = 4

// embedSnippetLength caps the text sent to the embedding API per section.
const embedSnippetLength = 1000

// Result summarizes one generation run.
type Result struct {
	RunID         string
	TotalPages    int
	SavedSections int
	Flagged       int
	FailedPages   []FailedPage
	IndexEntries  int
	SymbolsSynced int
	Duration      time.Duration
	Report        string
}

// FailedPage records a registry page that produced no stored section.
type FailedPage struct {
	Title  string
	URL    string
	Reason string
}

// Pipeline wires the generation stages together. The embedder and the
// Qdrant searcher are optional; without them the run builds a keyword-only
// index and skips the symbol sync.
type Pipeline struct {
	client    *scraper.Client
	processor *content.Processor
	validator *quality.Validator
	store     *static.Store
	embedder  embedding.Provider
	qdrant    *techdocs.QdrantSearcher
	workers   int
	log       *slog.Logger
}

// NewPipeline creates a generation pipeline. client, validator, and store
// are required; embedder and qdrant may be nil.
func NewPipeline(
	client *scraper.Client,
	validator *quality.Validator,
	store *static.Store,
	embedder embedding.Provider,
	qdrant *techdocs.QdrantSearcher,
	log *slog.Logger,
) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		client:    client,
		processor: content.NewProcessor(log),
		validator: validator,
		store:     store,
		embedder:  embedder,
		qdrant:    qdrant,
		workers:   DefaultWorkers,
		log:       log,
	}
}

// SetWorkers overrides the processing concurrency. Values below 1 keep the
// default.
func (p *Pipeline) SetWorkers(n int) {
	if n >= 1 {
		p.workers = n
	}
}

// Run processes every page in the bundled registry.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	return p.RunPages(ctx, scraper.Registry())
}

// RunPages scrapes, processes, validates, and stores the given pages, then
// builds and persists the search index. Individual page failures are
// recorded and skipped; only context cancellation aborts the run.
func (p *Pipeline) RunPages(ctx context.Context, pages []scraper.PageRef) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:      uuid.New().String(),
		TotalPages: len(pages),
	}
	p.validator.Reset()
	p.log.Info("Starting generation run", "run", result.RunID, "pages", len(pages))

	var (
		mu       sync.Mutex
		sections []*hig.Section
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, ref := range pages {
		ref := ref
		g.Go(func() error {
			sec, flagged, err := p.processPage(gctx, ref)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.log.Warn("Failed to process page", "title", ref.Title, "url", ref.URL, "error", err)
				result.FailedPages = append(result.FailedPages, FailedPage{
					Title:  ref.Title,
					URL:    ref.URL,
					Reason: err.Error(),
				})
				return nil
			}
			if flagged {
				result.Flagged++
			}
			sections = append(sections, sec)
			return nil
		})
	}
	// Workers record their own failures and never return an error.
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stable corpus order regardless of worker completion order.
	sort.Slice(sections, func(i, j int) bool { return sections[i].URL < sections[j].URL })
	result.SavedSections = len(sections)

	if err := p.buildIndex(ctx, sections, result); err != nil {
		return nil, err
	}

	synced, err := p.syncSymbols(ctx)
	if err != nil {
		return nil, err
	}
	result.SymbolsSynced = synced

	result.Duration = time.Since(start)
	result.Report = p.validator.Report()
	p.log.Info("Generation complete",
		"run", result.RunID,
		"saved", result.SavedSections,
		"flagged", result.Flagged,
		"failed", len(result.FailedPages),
		"indexed", result.IndexEntries,
		"duration", result.Duration,
	)
	return result, nil
}

// processPage handles one registry page end to end. A fallback extraction
// rejects the page; other validation issues flag it but keep it.
func (p *Pipeline) processPage(ctx context.Context, ref scraper.PageRef) (*hig.Section, bool, error) {
	page, err := p.client.Fetch(ctx, ref.URL)
	if err != nil {
		return nil, false, fmt.Errorf("fetch: %w", err)
	}

	out := p.processor.Process(page.HTML, ref.URL)
	sec := &hig.Section{
		ID:          hig.SectionID(ref.URL),
		Title:       ref.Title,
		URL:         ref.URL,
		Platform:    ref.Platform,
		Category:    ref.Category,
		Content:     out.CleanedText,
		Structured:  out.Structured,
		Quality:     &out.Metrics,
		LastUpdated: time.Now().UTC(),
	}
	p.validator.RecordExtraction(sec, out.Metrics)

	if out.Metrics.IsFallback {
		return nil, false, fmt.Errorf("extraction produced fallback content (method %s)", out.Metrics.ExtractionMethod)
	}

	validation := p.validator.ValidateContent(out.CleanedText, sec)
	flagged := !validation.IsValid
	if flagged {
		p.log.Warn("Keeping section with quality issues",
			"title", ref.Title,
			"score", validation.Score,
			"issues", strings.Join(validation.Issues, "; "),
		)
	}

	if err := p.store.SaveSection(sec); err != nil {
		return nil, false, fmt.Errorf("store: %w", err)
	}
	return sec, flagged, nil
}

// buildIndex assembles the search index over the saved sections and
// persists it. With an embedder present the index carries section vectors
// and uses the hybrid scorer; embedding failure degrades to keyword-only
// vectors rather than failing the run.
func (p *Pipeline) buildIndex(ctx context.Context, sections []*hig.Section, result *Result) error {
	scorer := search.NewKeywordScorer()
	if p.embedder != nil {
		scorer = search.NewSemanticScorer(search.DefaultBlendWeights())
	}
	indexer := search.NewIndexer(scorer, p.log)

	for _, sec := range sections {
		if err := indexer.AddSection(sec); err != nil {
			p.log.Warn("Skipping unindexable section", "title", sec.Title, "error", err)
		}
	}
	result.IndexEntries = indexer.Len()

	if p.embedder != nil && len(sections) > 0 {
		p.embedSections(ctx, indexer, sections)
	}

	if err := p.store.SaveIndex(indexer.GenerateIndex()); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// embedSections attaches embedding vectors to index entries.
func (p *Pipeline) embedSections(ctx context.Context, indexer *search.Indexer, sections []*hig.Section) {
	texts := make([]string, len(sections))
	for i, sec := range sections {
		texts[i] = sec.Title + "\n" + content.ExtractSnippet(sec.Content, embedSnippetLength)
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		p.log.Warn("Section embedding failed, index will be keyword-only", "error", err)
		return
	}
	if len(vectors) != len(sections) {
		p.log.Warn("Embedding count mismatch, index will be keyword-only",
			"expected", len(sections), "got", len(vectors))
		return
	}
	for i, sec := range sections {
		indexer.SetVector(sec.ID, vectors[i])
	}
	p.log.Info("Embedded sections for semantic search", "count", len(sections))
}

// syncSymbols seeds the technical symbol catalog and, when a Qdrant
// searcher is configured, pushes it into the vector collection.
func (p *Pipeline) syncSymbols(ctx context.Context) (int, error) {
	symbols, err := p.store.LoadSymbols()
	if err != nil {
		return 0, fmt.Errorf("load symbols: %w", err)
	}
	if len(symbols) == 0 {
		symbols = techdocs.DefaultSymbols()
		if err := p.store.SaveSymbols(symbols); err != nil {
			return 0, fmt.Errorf("seed symbols: %w", err)
		}
		p.log.Info("Seeded technical symbol catalog", "count", len(symbols))
	}

	if p.qdrant == nil {
		return 0, nil
	}
	if err := p.qdrant.EnsureCollection(ctx); err != nil {
		return 0, fmt.Errorf("ensure collection: %w", err)
	}
	if err := p.qdrant.SyncSymbols(ctx, symbols); err != nil {
		return 0, fmt.Errorf("sync symbols: %w", err)
	}
	return len(symbols), nil
}
