package techdocs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/embedding"
)

const (
	collectionName = "apple_tech_docs"
	vectorName     = "description"
	upsertBatch    = 100
)

// QdrantSearcher serves symbol queries from a Qdrant collection. Symbol
// descriptions are embedded once at sync time; queries are embedded per
// call and matched by cosine similarity.
type QdrantSearcher struct {
	client   *qdrant.Client
	embedder embedding.Provider
	log      *slog.Logger
}

// NewQdrantSearcher connects to Qdrant over gRPC and verifies health with
// retry. It fails fast when Qdrant stays unreachable so callers can fall
// back to the static searcher.
func NewQdrantSearcher(host string, port int, embedder embedding.Provider, log *slog.Logger) (*QdrantSearcher, error) {
	if log == nil {
		log = slog.Default()
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	searcher := &QdrantSearcher{
		client:   client,
		embedder: embedder,
		log:      log,
	}

	if err := searcher.healthWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return searcher, nil
}

// healthWithRetry polls Qdrant with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *QdrantSearcher) healthWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		return s.Health(ctx)
	}

	return backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx))
}

// Health performs a single health check against Qdrant.
func (s *QdrantSearcher) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// EnsureCollection creates the symbol collection if it doesn't exist,
// with a named description vector and payload indexes for the filterable
// fields. Idempotent.
func (s *QdrantSearcher) EnsureCollection(ctx context.Context) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, name := range collections {
		if name == collectionName {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			vectorName: {
				Size:     embedding.Dimension,
				Distance: qdrant.Distance_Cosine,
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	// Without these indexes filtered queries fall back to full scans.
	fields := []string{"framework", "symbol_kind", "platforms"}
	for _, field := range fields {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: collectionName,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("create index for field %s: %w", field, err)
		}
	}

	return nil
}

// SyncSymbols embeds symbol titles and descriptions and upserts them in
// batches of 100. Point IDs are derived from the symbol URL so re-syncing
// updates points in place.
func (s *QdrantSearcher) SyncSymbols(ctx context.Context, symbols []Symbol) error {
	if len(symbols) == 0 {
		return nil
	}

	texts := make([]string, len(symbols))
	for i, sym := range symbols {
		texts[i] = strings.TrimSpace(sym.Title + " " + sym.Description)
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed symbols: %w", err)
	}
	if len(vectors) != len(symbols) {
		return fmt.Errorf("embedding count mismatch: got %d for %d symbols", len(vectors), len(symbols))
	}
	for i, vec := range vectors {
		if len(vec) != embedding.Dimension {
			return fmt.Errorf("%w: symbol %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(vec), embedding.Dimension)
		}
	}

	for start := 0; start < len(symbols); start += upsertBatch {
		end := start + upsertBatch
		if end > len(symbols) {
			end = len(symbols)
		}

		points := make([]*qdrant.PointStruct, 0, end-start)
		for i := start; i < end; i++ {
			points = append(points, symbolPoint(symbols[i], vectors[i]))
		}

		if err := s.upsertWithRetry(ctx, points); err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
		}
	}

	s.log.Info("synced technical symbols", "count", len(symbols))
	return nil
}

func symbolPoint(sym Symbol, vector []float32) *qdrant.PointStruct {
	platforms := make([]interface{}, len(sym.Platforms))
	for i, platform := range sym.Platforms {
		platforms[i] = platform
	}

	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(sym.URL)).String()

	return &qdrant.PointStruct{
		Id: qdrant.NewIDUUID(id),
		Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
			vectorName: qdrant.NewVector(vector...),
		}),
		Payload: qdrant.NewValueMap(map[string]any{
			"title":       sym.Title,
			"path":        sym.Path,
			"url":         sym.URL,
			"framework":   sym.Framework,
			"symbol_kind": sym.SymbolKind,
			"platforms":   platforms,
			"description": sym.Description,
		}),
	}
}

// upsertWithRetry performs an upsert with exponential backoff retry.
func (s *QdrantSearcher) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collectionName,
			Points:         points,
		})
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx))
}

// SearchSymbols embeds the query and runs a similarity search over the
// description vectors. Relevance carries the raw cosine score.
func (s *QdrantSearcher) SearchSymbols(ctx context.Context, query, framework string, limit int) ([]Symbol, error) {
	normalized := strings.TrimSpace(query)
	if normalized == "" {
		return []Symbol{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	vector, err := s.embedder.EmbedQuery(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vector) != embedding.Dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), embedding.Dimension)
	}

	var filter *qdrant.Filter
	if framework != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("framework", framework),
			},
		}
	}

	using := vectorName
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Using:          &using,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search symbols: %w", err)
	}

	symbols := make([]Symbol, 0, len(results))
	for _, result := range results {
		payload := result.Payload

		var platforms []string
		if platformsVal, ok := payload["platforms"]; ok && platformsVal.GetListValue() != nil {
			for _, val := range platformsVal.GetListValue().Values {
				platforms = append(platforms, val.GetStringValue())
			}
		}

		symbols = append(symbols, Symbol{
			Title:       payload["title"].GetStringValue(),
			Path:        payload["path"].GetStringValue(),
			URL:         payload["url"].GetStringValue(),
			Framework:   payload["framework"].GetStringValue(),
			SymbolKind:  payload["symbol_kind"].GetStringValue(),
			Platforms:   platforms,
			Description: payload["description"].GetStringValue(),
			Relevance:   float64(result.Score),
		})
	}

	return symbols, nil
}

// Count returns the number of points in the symbol collection.
func (s *QdrantSearcher) Count(ctx context.Context) (uint64, error) {
	collection, err := s.client.GetCollectionInfo(ctx, collectionName)
	if err != nil {
		return 0, fmt.Errorf("get collection: %w", err)
	}
	return collection.GetPointsCount(), nil
}

// Close closes the gRPC connection.
func (s *QdrantSearcher) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
