// Package content turns raw HTML or markdown from developer.apple.com into
// cleaned text, structured sections, and quality metrics. It is the first
// stage of the generation pipeline and the source of the keyword and snippet
// extraction used by the search index.
package content

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
)

// Quality score weights. They must sum to 1; the ordering contract is that
// fallback content lands below 0.3 and structured content with domain
// vocabulary lands above 0.6.
const (
	weightStructure   = 0.2
	weightDomainTerms = 0.2
	weightLength      = 0.3
	weightCode        = 0.1
	weightConfidence  = 0.2

	// targetLength is the content length that earns full length credit.
	targetLength = 800

	// fallbackScoreCeiling caps the score of placeholder content so it can
	// never pass the validator's acceptance floor.
	fallbackScoreCeiling = 0.2

	confidenceStructured = 0.9
	confidencePlainText  = 0.6
	confidenceFallback   = 0.3
)

// Extraction method tags recorded in quality metrics.
const (
	MethodStructured = "structured"
	MethodPlainText  = "plain-text"
	MethodFallback   = "fallback"
	MethodEmpty      = "empty"
)

// Processed is the output of one processing pass over raw markup.
type Processed struct {
	CleanedText string
	Structured  *hig.StructuredContent
	Metrics     hig.QualityMetrics
}

// Processor converts raw markup into Processed records.
type Processor struct {
	log *slog.Logger
}

func NewProcessor(log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{log: log}
}

// Process cleans raw HTML or markdown and derives structure and quality
// metrics. It never fails: malformed, empty, or placeholder input produces
// degraded metrics instead of an error.
func (p *Processor) Process(raw, sourceURL string) Processed {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		p.log.Debug("processing empty content", "url", sourceURL)
		return Processed{
			Metrics: hig.QualityMetrics{
				IsFallback:       true,
				ExtractionMethod: MethodEmpty,
			},
		}
	}

	text := raw
	htmlImages := 0
	if looksLikeHTML(raw) {
		text, htmlImages = htmlToMarkdown(raw)
	}

	if looksLikeFallback(text) {
		p.log.Warn("fallback content detected", "url", sourceURL, "length", len(text))
		return p.processFallback(text)
	}

	ex := extractStructure(text)
	method := MethodPlainText
	confidence := confidencePlainText
	if hasStructure(ex.structured) {
		method = MethodStructured
		confidence = confidenceStructured
	}

	metrics := hig.QualityMetrics{
		Length:           len(text),
		StructureScore:   structureScore(ex.headings, ex.listItems),
		DomainTermScore:  domainTermScore(text),
		CodeExamples:     ex.codeBlocks,
		ImageReferences:  htmlImages + ex.images,
		Headings:         ex.headings,
		ExtractionMethod: method,
		Confidence:       confidence,
	}
	metrics.Score = computeScore(metrics)

	return Processed{
		CleanedText: text,
		Structured:  ex.structured,
		Metrics:     metrics,
	}
}

// ProcessSection runs Process over a section's raw content and writes the
// cleaned text, structure, and metrics back onto it. Unlike Process it
// returns an error for a section without content, since reaching this path
// with nothing to process is a bug in the caller, not a data problem.
func (p *Processor) ProcessSection(s *hig.Section) error {
	if s == nil {
		return fmt.Errorf("process section: %w: section is nil", hig.ErrInvalidSection)
	}
	if strings.TrimSpace(s.Content) == "" {
		return fmt.Errorf("process section %q: %w", s.Title, hig.ErrNoContent)
	}

	out := p.Process(s.Content, s.URL)
	s.Content = out.CleanedText
	s.Structured = out.Structured
	metrics := out.Metrics
	s.Quality = &metrics
	return nil
}

// processFallback emits degraded metrics and a bare overview for placeholder
// pages so downstream stages can index something while the validator flags it.
func (p *Processor) processFallback(text string) Processed {
	metrics := hig.QualityMetrics{
		Length:           len(text),
		IsFallback:       true,
		ExtractionMethod: MethodFallback,
		Confidence:       confidenceFallback,
	}
	metrics.Score = math.Min(computeScore(metrics), fallbackScoreCeiling)

	return Processed{
		CleanedText: text,
		Structured: &hig.StructuredContent{
			Overview: ExtractSnippet(text, 280),
		},
		Metrics: metrics,
	}
}

func hasStructure(sc *hig.StructuredContent) bool {
	if sc == nil {
		return false
	}
	return len(sc.Guidelines) > 0 || len(sc.Examples) > 0 ||
		len(sc.Specifications) > 0 || len(sc.RelatedConcepts) > 0
}

// structureScore grades heading and list density. Three headings or five
// list items earn full credit for their share.
func structureScore(headings, listItems int) float64 {
	h := math.Min(1, float64(headings)/3)
	l := math.Min(1, float64(listItems)/5)
	return 0.6*h + 0.4*l
}

// domainTermScore grades the density of recognized Apple design vocabulary.
// Four distinct terms earn full credit.
func domainTermScore(text string) float64 {
	return math.Min(1, float64(countDomainTerms(text))/4)
}

// computeScore combines the individual metrics into the overall quality
// score. Length credit grows linearly to the target and flattens beyond it.
func computeScore(m hig.QualityMetrics) float64 {
	lengthScore := math.Min(1, float64(m.Length)/targetLength)

	codeScore := 0.0
	if m.CodeExamples > 0 {
		codeScore = 1.0
	}

	score := weightStructure*m.StructureScore +
		weightDomainTerms*m.DomainTermScore +
		weightLength*lengthScore +
		weightCode*codeScore +
		weightConfidence*m.Confidence

	return math.Min(1, score)
}
