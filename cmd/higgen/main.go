// Package main provides the content generation CLI for Apple Human
// Interface Guidelines documentation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/bundle"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/embedding"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/pipeline"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/quality"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/scraper"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/static"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/techdocs"
)

var rootCmd = &cobra.Command{
	Use:   "higgen",
	Short: "Apple HIG content generation tool",
	Long:  "CLI tool for generating, validating, and pulling the Human Interface Guidelines content tree",
}

var (
	contentDir string
	workers    int
	syncQdrant bool

	bundleOwner string
	bundleRepo  string
	bundlePath  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scrape and index the guideline registry",
	Long: `Scrapes every page in the bundled registry, validates the extracted
content, and writes the content tree and search index to the content
directory.

This command:
1. Fetches each registry page from developer.apple.com (rate limited)
2. Cleans the markup and extracts structured content
3. Validates quality and records extraction statistics
4. Stores sections as JSON and builds the search index
5. Optionally embeds sections and syncs symbols into Qdrant

Environment variables:
  OPENAI_API_KEY OpenAI API key; enables the semantic index (optional)
  QDRANT_HOST    Qdrant hostname for --sync-qdrant (default: localhost)
  QDRANT_PORT    Qdrant gRPC port (default: 6334)`,
	RunE: runGenerate,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check stored content against the quality floors",
	Long: `Loads every stored section, re-applies the quality thresholds, and
prints the extraction report. Fails when the fallback-rate SLA is
violated.`,
	RunE: runValidate,
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the published content bundle",
	Long: `Downloads the pre-generated content tree from the project repository
so the server can run without scraping.

Environment variables:
  GITHUB_TOKEN GitHub token for higher rate limits (optional)`,
	RunE: runPull,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentDir, "content-dir", "content", "directory holding the generated content tree")

	generateCmd.Flags().IntVar(&workers, "workers", pipeline.DefaultWorkers, "concurrent page processors")
	generateCmd.Flags().BoolVar(&syncQdrant, "sync-qdrant", false, "sync the technical symbol catalog into Qdrant")

	pullCmd.Flags().StringVar(&bundleOwner, "owner", "", "bundle repository owner (default: project repository)")
	pullCmd.Flags().StringVar(&bundleRepo, "repo", "", "bundle repository name (default: project repository)")
	pullCmd.Flags().StringVar(&bundlePath, "path", "", "path of the content tree inside the repository")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(pullCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	fmt.Println("Starting generation...")
	fmt.Println()

	// 1. Scraper, validator, store
	scrapeClient, err := scraper.NewClient(scraper.Config{}, slog.Default())
	if err != nil {
		return fmt.Errorf("Failed to create scraper: %w", err)
	}
	validator := quality.NewValidator(quality.DefaultThresholds(), slog.Default())
	store := static.NewStore(contentDir, slog.Default())

	// 2. Optional embedding client for the semantic index
	var provider embedding.Provider
	if embedClient, err := embedding.NewClient(); err != nil {
		fmt.Printf("Embeddings disabled: %v\n", err)
	} else {
		provider = embedding.NewEmbedder(embedClient, 0)
		fmt.Println("Embeddings enabled, building hybrid index")
	}

	// 3. Optional Qdrant connection for the symbol sync
	var qdrant *techdocs.QdrantSearcher
	if syncQdrant {
		if provider == nil {
			return fmt.Errorf("--sync-qdrant requires OPENAI_API_KEY for embeddings")
		}
		qdrantHost := getEnv("QDRANT_HOST", "localhost")
		qdrantPort := getEnvInt("QDRANT_PORT", 6334)
		fmt.Printf("Connecting to Qdrant at %s:%d...\n", qdrantHost, qdrantPort)
		qdrant, err = techdocs.NewQdrantSearcher(qdrantHost, qdrantPort, provider, slog.Default())
		if err != nil {
			return fmt.Errorf("Failed to connect to Qdrant: %w", err)
		}
		defer qdrant.Close()
	}

	// 4. Run the pipeline
	fmt.Println()
	fmt.Printf("Processing %d registry pages...\n", len(scraper.Registry()))
	p := pipeline.NewPipeline(scrapeClient, validator, store, provider, qdrant, slog.Default())
	p.SetWorkers(workers)

	result, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("Generation failed: %w", err)
	}

	// 5. Print results
	fmt.Println()
	fmt.Println("Generation complete!")
	fmt.Printf("  Run:      %s\n", result.RunID)
	fmt.Printf("  Sections: %d/%d\n", result.SavedSections, result.TotalPages)
	fmt.Printf("  Flagged:  %d\n", result.Flagged)
	fmt.Printf("  Indexed:  %d\n", result.IndexEntries)
	if syncQdrant {
		fmt.Printf("  Symbols:  %d synced\n", result.SymbolsSynced)
	}
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Second))

	if len(result.FailedPages) > 0 {
		fmt.Println()
		fmt.Println("Failed pages:")
		for _, failed := range result.FailedPages {
			fmt.Printf("  - %s: %s\n", failed.Title, failed.Reason)
		}
	}

	fmt.Println()
	fmt.Println(result.Report)
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))

	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmt.Println("Validating stored content...")
	fmt.Println()

	store := static.NewStore(contentDir, slog.Default())
	sections, err := store.LoadSections()
	if err != nil {
		return fmt.Errorf("Failed to load content: %w", err)
	}
	if len(sections) == 0 {
		return fmt.Errorf("No content found under %s; run 'higgen generate' or 'higgen pull' first", contentDir)
	}

	thresholds := quality.DefaultThresholds()
	validator := quality.NewValidator(thresholds, slog.Default())

	invalid := 0
	for _, sec := range sections {
		var metrics hig.QualityMetrics
		if sec.Quality != nil {
			metrics = *sec.Quality
		}
		validator.RecordExtraction(sec, metrics)

		v := validator.ValidateContent(sec.Content, sec)
		if v.IsValid {
			continue
		}
		invalid++
		fmt.Printf("  %s (%s)\n", sec.Title, sec.Platform)
		for i, issue := range v.Issues {
			fmt.Printf("    - %s\n", issue)
			if i < len(v.Recommendations) {
				fmt.Printf("      %s\n", v.Recommendations[i])
			}
		}
	}

	if invalid > 0 {
		fmt.Println()
		fmt.Printf("%d of %d sections have quality issues\n", invalid, len(sections))
	}

	fmt.Println()
	fmt.Println(validator.Report())

	stats := validator.Statistics()
	if stats.FallbackRate > thresholds.MaxFallbackRate {
		return fmt.Errorf("fallback-rate SLA violated: %.1f%% exceeds the %.1f%% ceiling",
			stats.FallbackRate, thresholds.MaxFallbackRate)
	}
	return nil
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Println("Pulling content bundle...")
	fetcher, err := bundle.NewFetcher(bundleOwner, bundleRepo, bundlePath, slog.Default())
	if err != nil {
		return fmt.Errorf("Failed to create GitHub client: %w", err)
	}

	count, err := fetcher.Pull(ctx, contentDir)
	if err != nil {
		return fmt.Errorf("Pull failed: %w", err)
	}
	fmt.Printf("Pulled %d files into %s\n", count, contentDir)

	if sha, err := fetcher.CommitSHA(ctx); err == nil {
		fmt.Printf("Content revision: %s\n", sha)
	}
	return nil
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
