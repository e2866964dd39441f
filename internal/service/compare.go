package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/content"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
)

// ComponentSpec is the design-facing contract for one component on one
// platform: its guidance text plus the measurable specifications.
type ComponentSpec struct {
	Title           string            `json:"title"`
	URL             string            `json:"url"`
	Platform        hig.Platform      `json:"platform"`
	Overview        string            `json:"overview,omitempty"`
	Guidelines      []string          `json:"guidelines,omitempty"`
	Specifications  map[string]string `json:"specifications,omitempty"`
	RelatedConcepts []string          `json:"relatedConcepts,omitempty"`
	Outline         []string          `json:"outline,omitempty"`
}

// ComponentSpecResponse reports a lookup. Found=false is a well-formed
// miss, not an error.
type ComponentSpecResponse struct {
	Component string         `json:"component"`
	Platform  string         `json:"platform"`
	Found     bool           `json:"found"`
	Spec      *ComponentSpec `json:"spec,omitempty"`
}

// PlatformComparison is one row of a cross-platform comparison.
type PlatformComparison struct {
	Platform       hig.Platform      `json:"platform"`
	Found          bool              `json:"found"`
	Title          string            `json:"title,omitempty"`
	URL            string            `json:"url,omitempty"`
	Overview       string            `json:"overview,omitempty"`
	Guidelines     []string          `json:"guidelines,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

// ComparisonResponse assembles the per-platform rows with the shared and
// differing guidance.
type ComparisonResponse struct {
	ComponentName    string               `json:"componentName"`
	Platforms        []hig.Platform       `json:"platforms"`
	Comparison       []PlatformComparison `json:"comparison"`
	CommonGuidelines []string             `json:"commonGuidelines"`
	KeyDifferences   map[string][]string  `json:"keyDifferences"`
}

// GetComponentSpec looks up one component's guidance, scoped to a platform
// when given. Misses return Found=false; the only errors are invalid
// inputs.
func (s *Service) GetComponentSpec(ctx context.Context, component, platform string) (*ComponentSpecResponse, error) {
	name := strings.TrimSpace(component)
	if name == "" {
		return nil, fmt.Errorf("%w: component name is required", ErrInvalidInput)
	}
	if len(name) > MaxQueryLength {
		return nil, fmt.Errorf("%w: Component name too long: maximum %d characters", ErrInvalidInput, MaxQueryLength)
	}

	var p hig.Platform
	if platform != "" {
		parsed, err := hig.ParsePlatform(platform)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		p = parsed
	}

	spec, found := s.lookupSpec(ctx, name, p)
	return &ComponentSpecResponse{
		Component: name,
		Platform:  string(p),
		Found:     found,
		Spec:      spec,
	}, nil
}

// lookupSpec resolves a component through the fallback chain and keeps the
// first result whose title actually names the component.
func (s *Service) lookupSpec(ctx context.Context, component string, platform hig.Platform) (*ComponentSpec, bool) {
	results := s.runStrategies(ctx, searchQuery{
		text:     component,
		platform: platform,
		limit:    DefaultSpecCandidates,
	})

	for _, result := range results {
		if !specTitleMatches(result.Title, component) {
			continue
		}

		spec := &ComponentSpec{
			Title:    result.Title,
			URL:      result.URL,
			Platform: result.Platform,
			Overview: result.Snippet,
		}
		if sec, ok := s.sections[result.ID]; ok {
			fillSpec(spec, sec)
		}
		return spec, true
	}
	return nil, false
}

// DefaultSpecCandidates bounds how many search hits a spec lookup sifts.
const DefaultSpecCandidates = 10

func fillSpec(spec *ComponentSpec, sec *hig.Section) {
	spec.Outline = content.ExtractOutline(sec.Content)
	if sec.Structured != nil {
		if sec.Structured.Overview != "" {
			spec.Overview = sec.Structured.Overview
		}
		spec.Guidelines = sec.Structured.Guidelines
		spec.Specifications = sec.Structured.Specifications
		spec.RelatedConcepts = sec.Structured.RelatedConcepts
		return
	}
	if spec.Overview == "" && sec.Content != "" {
		spec.Overview = content.ExtractSnippet(sec.Content, 280)
	}
}

// specTitleMatches compares a result title against the requested component
// with plural-insensitive containment in either direction.
func specTitleMatches(title, component string) bool {
	t := singularWords(title)
	c := singularWords(component)
	return strings.Contains(t, c) || strings.Contains(c, t)
}

func singularWords(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, word := range words {
		if len(word) > 3 && strings.HasSuffix(word, "s") {
			words[i] = word[:len(word)-1]
		}
	}
	return strings.Join(words, " ")
}

// ComparePlatforms looks up the component on every requested platform and
// splits the guidance into shared and platform-specific parts.
func (s *Service) ComparePlatforms(ctx context.Context, component string, platforms []string) (*ComparisonResponse, error) {
	name := strings.TrimSpace(component)
	if name == "" {
		return nil, fmt.Errorf("%w: component name is required", ErrInvalidInput)
	}
	if len(name) > MaxQueryLength {
		return nil, fmt.Errorf("%w: Component name too long: maximum %d characters", ErrInvalidInput, MaxQueryLength)
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("%w: at least one platform is required", ErrInvalidInput)
	}
	if len(platforms) > MaxComparePlatforms {
		return nil, fmt.Errorf("%w: too many platforms: maximum %d, got %d", ErrInvalidInput, MaxComparePlatforms, len(platforms))
	}

	parsed := make([]hig.Platform, 0, len(platforms))
	seen := make(map[hig.Platform]bool, len(platforms))
	for _, raw := range platforms {
		p, err := hig.ParsePlatform(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		parsed = append(parsed, p)
	}

	comparison := make([]PlatformComparison, 0, len(parsed))
	for _, p := range parsed {
		row := PlatformComparison{Platform: p}
		if spec, found := s.lookupSpec(ctx, name, p); found {
			row.Found = true
			row.Title = spec.Title
			row.URL = spec.URL
			row.Overview = spec.Overview
			row.Guidelines = spec.Guidelines
			row.Specifications = spec.Specifications
		}
		comparison = append(comparison, row)
	}

	common, differences := splitGuidelines(comparison)
	return &ComparisonResponse{
		ComponentName:    name,
		Platforms:        parsed,
		Comparison:       comparison,
		CommonGuidelines: common,
		KeyDifferences:   differences,
	}, nil
}

// splitGuidelines intersects guideline text across the platforms that have
// any, then reports each platform's leftovers. Comparison is
// case-insensitive; emitted text keeps its original casing.
func splitGuidelines(comparison []PlatformComparison) ([]string, map[string][]string) {
	common := []string{}
	differences := make(map[string][]string)

	withGuidelines := make([]PlatformComparison, 0, len(comparison))
	for _, row := range comparison {
		if row.Found && len(row.Guidelines) > 0 {
			withGuidelines = append(withGuidelines, row)
		}
	}

	commonSet := make(map[string]bool)
	if len(withGuidelines) >= 2 {
		for _, guideline := range withGuidelines[0].Guidelines {
			key := strings.ToLower(strings.TrimSpace(guideline))
			inAll := true
			for _, other := range withGuidelines[1:] {
				if !containsGuideline(other.Guidelines, key) {
					inAll = false
					break
				}
			}
			if inAll && !commonSet[key] {
				commonSet[key] = true
				common = append(common, guideline)
			}
		}
	}

	for _, row := range withGuidelines {
		unique := []string{}
		for _, guideline := range row.Guidelines {
			if !commonSet[strings.ToLower(strings.TrimSpace(guideline))] {
				unique = append(unique, guideline)
			}
		}
		differences[string(row.Platform)] = unique
	}

	return common, differences
}

func containsGuideline(guidelines []string, key string) bool {
	for _, guideline := range guidelines {
		if strings.ToLower(strings.TrimSpace(guideline)) == key {
			return true
		}
	}
	return false
}
