// Package main provides the MCP server entry point for Apple Human
// Interface Guidelines documentation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/bundle"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/embedding"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/fusion"
	mcpserver "github.com/tmaasen/apple-dev-mcp-sub004/internal/mcp"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/search"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/service"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/static"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/techdocs"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Stdout carries the MCP stdio transport; everything else goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Configuration from environment
	contentDir := getEnv("CONTENT_DIR", "content")
	port := getEnv("PORT", "8080")
	qdrantHost := getEnv("QDRANT_HOST", "")
	qdrantPort := getEnvInt("QDRANT_PORT", 6334)
	contentSync := getEnv("CONTENT_SYNC", "false") == "true"

	store := static.NewStore(contentDir, logger)

	// Pull the published content bundle when nothing is on disk yet.
	if !store.HasContent() && contentSync {
		pullBundle(ctx, contentDir, logger)
	}

	sections, err := store.LoadSections()
	if err != nil {
		log.Fatalf("failed to load content: %v", err)
	}

	// The embedding provider is optional; without it search runs keyword-only.
	var provider embedding.Provider
	if client, err := embedding.NewClient(); err != nil {
		logger.Info("Embeddings unavailable, semantic scoring disabled", "reason", err)
	} else {
		provider = embedding.NewEmbedder(client, 0)
	}

	scorer := search.NewKeywordScorer()
	if provider != nil {
		scorer = search.NewSemanticScorer(search.DefaultBlendWeights())
	}
	indexer := search.NewIndexer(scorer, logger)

	if file, err := store.LoadIndex(); err == nil {
		if err := indexer.LoadIndex(file); err != nil {
			log.Fatalf("failed to load search index: %v", err)
		}
		logger.Info("Loaded search index", "sections", indexer.Len(), "type", file.Metadata.IndexType)
	} else if errors.Is(err, static.ErrNoIndex) {
		for _, sec := range sections {
			if err := indexer.AddSection(sec); err != nil {
				logger.Warn("Skipping unindexable section", "title", sec.Title, "error", err)
			}
		}
		logger.Info("Rebuilt search index from stored sections", "sections", indexer.Len())
	} else {
		log.Fatalf("failed to read search index: %v", err)
	}

	tech := buildTechSearcher(store, provider, qdrantHost, qdrantPort, logger)
	if qs, ok := tech.(*techdocs.QdrantSearcher); ok {
		defer qs.Close()
	}
	fuser := fusion.NewFuser(indexer, tech, logger)

	svc, err := service.NewService(indexer, fuser, sections, provider, logger)
	if err != nil {
		log.Fatalf("failed to build query service: %v", err)
	}

	server := mcpserver.NewServer(svc)

	// HTTP endpoints are served in both modes; in stdio mode only the health
	// check matters. All five tools are pure request/response, so the HTTP
	// transport runs stateless.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(svc))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, &mcpserver.HTTPHandlerOptions{Stateless: true}))
	mux.HandleFunc("/", mcpserver.NewLandingHandler())

	serverMode := getEnv("SERVER_MODE", "false") == "true"

	if serverMode {
		addr := "0.0.0.0:" + port
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	} else {
		go func() {
			addr := "0.0.0.0:" + port
			log.Printf("Starting health server on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Health server error: %v", err)
			}
		}()

		log.Println("Starting Apple HIG MCP Server (stdio mode)...")
		if err := server.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}
}

// pullBundle fetches the published content tree. Failure is not fatal: the
// service still answers from its curated fallback.
func pullBundle(ctx context.Context, contentDir string, logger *slog.Logger) {
	fetcher, err := bundle.NewFetcher("", "", "", logger)
	if err != nil {
		logger.Warn("Content sync unavailable", "error", err)
		return
	}
	count, err := fetcher.Pull(ctx, contentDir)
	if err != nil {
		logger.Warn("Content sync failed, continuing without bundle", "error", err)
		return
	}
	logger.Info("Pulled content bundle", "files", count)
}

// buildTechSearcher selects the technical-search backend: Qdrant when
// configured and reachable, otherwise the in-memory catalog.
func buildTechSearcher(store *static.Store, provider embedding.Provider, host string, port int, logger *slog.Logger) techdocs.Searcher {
	if host != "" && provider != nil {
		qs, err := techdocs.NewQdrantSearcher(host, port, provider, logger)
		if err != nil {
			logger.Warn("Qdrant unavailable, using static symbol search", "error", err)
		} else {
			return qs
		}
	}

	symbols, err := store.LoadSymbols()
	if err != nil {
		logger.Warn("Failed to load symbol catalog, using built-in defaults", "error", err)
		symbols = nil
	}
	return techdocs.NewStaticSearcher(symbols)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
