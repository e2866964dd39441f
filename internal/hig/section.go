// Package hig defines the domain model for Apple Human Interface Guidelines
// content: sections, their structured content, quality metrics, and the
// search result shapes served to callers.
package hig

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Section is one indexed unit of documentation content.
// Sections are immutable once indexed; re-processing a source URL produces a
// replacement record with the same ID.
type Section struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	URL         string             `json:"url"`
	Platform    Platform           `json:"platform"`
	Category    Category           `json:"category"`
	Content     string             `json:"content,omitempty"`
	Structured  *StructuredContent `json:"structuredContent,omitempty"`
	Quality     *QualityMetrics    `json:"qualityMetrics,omitempty"`
	LastUpdated time.Time          `json:"lastUpdated"`
}

// StructuredContent is the heading-oriented breakdown of a section.
type StructuredContent struct {
	Overview        string            `json:"overview"`
	Guidelines      []string          `json:"guidelines"`
	Examples        []string          `json:"examples"`
	Specifications  map[string]string `json:"specifications,omitempty"`
	RelatedConcepts []string          `json:"relatedConcepts,omitempty"`
}

// QualityMetrics describes how trustworthy a section's extracted content is.
// Derived by the content processor; never authoritative.
type QualityMetrics struct {
	Score            float64 `json:"score"`
	Length           int     `json:"length"`
	StructureScore   float64 `json:"structureScore"`
	DomainTermScore  float64 `json:"appleTermsScore"`
	CodeExamples     int     `json:"codeExamplesCount"`
	ImageReferences  int     `json:"imageReferencesCount"`
	Headings         int     `json:"headingCount"`
	IsFallback       bool    `json:"isFallbackContent"`
	ExtractionMethod string  `json:"extractionMethod"`
	Confidence       float64 `json:"confidence"`
}

// SectionID derives the stable identifier for a source URL.
// SHA-1 UUIDs in the URL namespace keep IDs reproducible across generation
// runs so re-processing replaces rather than duplicates.
func SectionID(sourceURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceURL)).String()
}

// Validate checks the invariants every indexed section must satisfy.
// A failure here is a caller-contract violation, not a data-quality issue.
func (s *Section) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: section is nil", ErrInvalidSection)
	}
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSection)
	}
	if s.Title == "" {
		return fmt.Errorf("%w: %s has an empty title", ErrInvalidSection, s.ID)
	}
	if !s.Platform.Valid() {
		return fmt.Errorf("%w: %s has unknown platform %q", ErrInvalidSection, s.ID, s.Platform)
	}
	if !s.Category.Valid() {
		return fmt.Errorf("%w: %s has unknown category %q", ErrInvalidSection, s.ID, s.Category)
	}
	return nil
}

// HasContent reports whether there is any text worth indexing.
func (s *Section) HasContent() bool {
	if s == nil {
		return false
	}
	if s.Content != "" {
		return true
	}
	return s.Structured != nil && s.Structured.Overview != ""
}
