// Package quality gates extracted content against configurable floors and
// tracks corpus-wide extraction statistics for the generation pipeline's
// fallback-rate SLA.
package quality

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/content"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
)

// Thresholds are the acceptance floors applied to every section.
// A section violating any floor is flagged invalid.
type Thresholds struct {
	MinQualityScore    float64
	MinConfidence      float64
	MinContentLength   int
	MinStructureScore  float64
	MinDomainTermScore float64

	// MaxFallbackRate is a corpus-wide ceiling, in percent, on the share of
	// sections that carry the fallback flag.
	MaxFallbackRate float64
}

// DefaultThresholds returns the floors used by the generation pipeline.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinQualityScore:    0.3,
		MinConfidence:      0.4,
		MinContentLength:   100,
		MinStructureScore:  0.2,
		MinDomainTermScore: 0.15,
		MaxFallbackRate:    10.0,
	}
}

// Validation is the outcome of checking one section's content.
type Validation struct {
	IsValid         bool     `json:"isValid"`
	Score           float64  `json:"score"`
	Confidence      float64  `json:"confidence"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// ExtractionStatistics aggregates extraction outcomes across a run.
type ExtractionStatistics struct {
	TotalProcessed    int     `json:"totalProcessed"`
	FallbackCount     int     `json:"fallbackCount"`
	AverageQuality    float64 `json:"averageQuality"`
	AverageConfidence float64 `json:"averageConfidence"`
	SuccessRate       float64 `json:"extractionSuccessRate"`
	FallbackRate      float64 `json:"fallbackRate"`
}

// Validator applies thresholds to content and accumulates statistics.
// Safe for concurrent use; the accumulator is guarded by a mutex.
type Validator struct {
	thresholds Thresholds
	processor  *content.Processor
	log        *slog.Logger

	mu            sync.Mutex
	total         int
	fallbacks     int
	scoreSum      float64
	confidenceSum float64
}

// NewValidator creates a validator with the given floors. Callers normally
// pass DefaultThresholds.
func NewValidator(thresholds Thresholds, log *slog.Logger) *Validator {
	if log == nil {
		log = slog.Default()
	}
	return &Validator{
		thresholds: thresholds,
		processor:  content.NewProcessor(log),
		log:        log,
	}
}

// ValidateContent checks text against every floor and returns the full list
// of violations. Empty content fails immediately with a single issue and no
// further checks. Metrics come from the section when already processed,
// otherwise a processing pass derives them here.
func (v *Validator) ValidateContent(text string, s *hig.Section) Validation {
	if strings.TrimSpace(text) == "" {
		return Validation{
			Score:           0,
			Issues:          []string{"content is empty"},
			Recommendations: []string{"re-scrape the source page or refresh the content bundle"},
		}
	}

	metrics := v.metricsFor(text, s)

	result := Validation{
		Score:      metrics.Score,
		Confidence: metrics.Confidence,
	}
	fail := func(issue, recommendation string) {
		result.Issues = append(result.Issues, issue)
		result.Recommendations = append(result.Recommendations, recommendation)
	}

	if metrics.IsFallback {
		fail("content is fallback placeholder text, not extracted documentation",
			"re-scrape with a JavaScript-capable fetcher or pull a fresh static bundle")
	}
	if metrics.Score < v.thresholds.MinQualityScore {
		fail(fmt.Sprintf("quality score %.2f is below the %.2f floor", metrics.Score, v.thresholds.MinQualityScore),
			"review the extraction for this page; consider excluding it from the index")
	}
	if metrics.Confidence < v.thresholds.MinConfidence {
		fail(fmt.Sprintf("extraction confidence %.2f is below the %.2f floor", metrics.Confidence, v.thresholds.MinConfidence),
			"verify the page layout still matches the extraction heuristics")
	}
	if metrics.Length < v.thresholds.MinContentLength {
		fail(fmt.Sprintf("content length %d is below the %d-character floor", metrics.Length, v.thresholds.MinContentLength),
			"check whether the page scraped completely")
	}
	if metrics.StructureScore < v.thresholds.MinStructureScore {
		fail(fmt.Sprintf("structure score %.2f is below the %.2f floor", metrics.StructureScore, v.thresholds.MinStructureScore),
			"confirm headings and lists survived markup cleanup")
	}
	if metrics.DomainTermScore < v.thresholds.MinDomainTermScore {
		fail(fmt.Sprintf("domain-term score %.2f is below the %.2f floor", metrics.DomainTermScore, v.thresholds.MinDomainTermScore),
			"content may be boilerplate; verify the page is a design guideline")
	}

	result.IsValid = len(result.Issues) == 0
	return result
}

func (v *Validator) metricsFor(text string, s *hig.Section) hig.QualityMetrics {
	if s != nil && s.Quality != nil {
		return *s.Quality
	}
	url := ""
	if s != nil {
		url = s.URL
	}
	return v.processor.Process(text, url).Metrics
}

// RecordExtraction adds one extraction outcome to the running statistics.
func (v *Validator) RecordExtraction(s *hig.Section, metrics hig.QualityMetrics) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.total++
	if metrics.IsFallback {
		v.fallbacks++
	}
	v.scoreSum += metrics.Score
	v.confidenceSum += metrics.Confidence

	title := ""
	if s != nil {
		title = s.Title
	}
	v.log.Debug("recorded extraction",
		"section", title,
		"score", metrics.Score,
		"fallback", metrics.IsFallback,
	)
}

// Statistics computes the current aggregates. With zero recorded
// extractions every rate is 0, never NaN.
func (v *Validator) Statistics() ExtractionStatistics {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.statisticsLocked()
}

func (v *Validator) statisticsLocked() ExtractionStatistics {
	stats := ExtractionStatistics{
		TotalProcessed: v.total,
		FallbackCount:  v.fallbacks,
	}
	if v.total == 0 {
		return stats
	}
	n := float64(v.total)
	stats.AverageQuality = v.scoreSum / n
	stats.AverageConfidence = v.confidenceSum / n
	stats.FallbackRate = float64(v.fallbacks) / n * 100
	stats.SuccessRate = float64(v.total-v.fallbacks) / n * 100
	return stats
}

// Report renders a deterministic extraction summary, including whether the
// fallback-rate SLA held.
func (v *Validator) Report() string {
	v.mu.Lock()
	stats := v.statisticsLocked()
	maxRate := v.thresholds.MaxFallbackRate
	v.mu.Unlock()

	sla := "MET"
	if stats.FallbackRate > maxRate {
		sla = "NOT MET"
	}

	var sb strings.Builder
	sb.WriteString("Content Extraction Report\n")
	sb.WriteString("=========================\n")
	fmt.Fprintf(&sb, "Sections processed: %d\n", stats.TotalProcessed)
	fmt.Fprintf(&sb, "Fallback sections:  %d (%.1f%%)\n", stats.FallbackCount, stats.FallbackRate)
	fmt.Fprintf(&sb, "Average quality:    %.2f\n", stats.AverageQuality)
	fmt.Fprintf(&sb, "Average confidence: %.2f\n", stats.AverageConfidence)
	fmt.Fprintf(&sb, "Success rate:       %.1f%%\n", stats.SuccessRate)
	fmt.Fprintf(&sb, "Fallback-rate SLA:  %s (%.1f%% of %.1f%% max)\n", sla, stats.FallbackRate, maxRate)
	return sb.String()
}

// Reset clears the accumulated statistics.
func (v *Validator) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.total = 0
	v.fallbacks = 0
	v.scoreSum = 0
	v.confidenceSum = 0
}
