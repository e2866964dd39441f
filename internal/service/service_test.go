package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
	"github.com/tmaasen/apple-dev-mcp-sub004/internal/search"
)

func section(title, slug string, platform hig.Platform, category hig.Category, text string) *hig.Section {
	url := "https://developer.apple.com/design/human-interface-guidelines/" + slug
	return &hig.Section{
		ID:       hig.SectionID(url),
		Title:    title,
		URL:      url,
		Platform: platform,
		Category: category,
		Content:  text,
	}
}

// newTestService indexes the given sections and wires a façade around them.
func newTestService(t *testing.T, sections ...*hig.Section) *Service {
	t.Helper()
	indexer := search.NewIndexer(nil, nil)
	for _, s := range sections {
		if err := indexer.AddSection(s); err != nil {
			t.Fatalf("AddSection(%q) failed: %v", s.Title, err)
		}
	}
	svc, err := NewService(indexer, nil, sections, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

// TestSearchGuidelines_EndToEnd runs the documented scenario: a corpus with
// Buttons and Navigation Bars must rank Buttons first for
// "button accessibility" with a score above 1.0.
func TestSearchGuidelines_EndToEnd(t *testing.T) {
	svc := newTestService(t,
		section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign,
			"Buttons need a 44pt touch target and accessibility labels that describe the action."),
		section("Navigation Bars", "navigation-bars", hig.PlatformIOS, hig.CategoryNavigation,
			"A navigation bar appears at the top of an app screen."),
	)

	resp, err := svc.SearchGuidelines(context.Background(), "button accessibility", "iOS", "", 5)
	if err != nil {
		t.Fatalf("SearchGuidelines failed: %v", err)
	}

	if resp.Total == 0 {
		t.Fatal("Expected results, got none")
	}
	if resp.Results[0].Title != "Buttons" {
		t.Errorf("Expected 'Buttons' first, got %q", resp.Results[0].Title)
	}
	if resp.Results[0].Score <= 1.0 {
		t.Errorf("Expected top score > 1.0, got %f", resp.Results[0].Score)
	}
	if resp.Query != "button accessibility" {
		t.Errorf("Expected echoed query, got %q", resp.Query)
	}
	if resp.Filters.Platform != "iOS" {
		t.Errorf("Expected platform filter 'iOS', got %q", resp.Filters.Platform)
	}
	if resp.Total != len(resp.Results) {
		t.Errorf("Total %d disagrees with %d results", resp.Total, len(resp.Results))
	}
}

// TestSearchGuidelines_InvalidPlatform verifies fail-fast validation that
// names the offending value.
func TestSearchGuidelines_InvalidPlatform(t *testing.T) {
	svc := newTestService(t, section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Buttons."))

	_, err := svc.SearchGuidelines(context.Background(), "button", "Windows", "", 5)
	if err == nil {
		t.Fatal("Expected error for invalid platform, got nil")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "Windows") {
		t.Errorf("Expected error to name the invalid value, got %q", err.Error())
	}
}

// TestSearchGuidelines_InvalidCategory mirrors the platform check.
func TestSearchGuidelines_InvalidCategory(t *testing.T) {
	svc := newTestService(t, section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Buttons."))

	_, err := svc.SearchGuidelines(context.Background(), "button", "", "sorcery", 5)
	if err == nil {
		t.Fatal("Expected error for invalid category, got nil")
	}
	if !strings.Contains(err.Error(), "sorcery") {
		t.Errorf("Expected error to name the invalid value, got %q", err.Error())
	}
}

// TestSearchGuidelines_QueryTooLong verifies the length bound and its
// descriptive message.
func TestSearchGuidelines_QueryTooLong(t *testing.T) {
	svc := newTestService(t, section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Buttons."))

	long := strings.Repeat("a", MaxQueryLength+1)
	_, err := svc.SearchGuidelines(context.Background(), long, "", "", 5)
	if err == nil {
		t.Fatal("Expected error for over-long query, got nil")
	}
	if !strings.Contains(err.Error(), "Query too long: maximum 200 characters") {
		t.Errorf("Expected descriptive length error, got %q", err.Error())
	}
}

// TestSearchGuidelines_LimitBounds verifies limit validation and the
// zero-means-default convention.
func TestSearchGuidelines_LimitBounds(t *testing.T) {
	svc := newTestService(t, section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Buttons."))

	if _, err := svc.SearchGuidelines(context.Background(), "button", "", "", -1); err == nil {
		t.Error("Expected error for negative limit, got nil")
	}
	if _, err := svc.SearchGuidelines(context.Background(), "button", "", "", MaxLimit+1); err == nil {
		t.Error("Expected error for limit above maximum, got nil")
	}

	resp, err := svc.SearchGuidelines(context.Background(), "button", "", "", 0)
	if err != nil {
		t.Fatalf("Expected zero limit to use the default, got error: %v", err)
	}
	if resp.Total > search.DefaultLimit {
		t.Errorf("Expected at most %d results with default limit, got %d", search.DefaultLimit, resp.Total)
	}
}

// TestSearchGuidelines_EmptyQuery verifies an empty query is a valid call
// returning an empty, well-formed response.
func TestSearchGuidelines_EmptyQuery(t *testing.T) {
	svc := newTestService(t, section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Buttons."))

	resp, err := svc.SearchGuidelines(context.Background(), "   ", "", "", 5)
	if err != nil {
		t.Fatalf("Expected empty result for empty query, got error: %v", err)
	}
	if resp.Total != 0 || len(resp.Results) != 0 {
		t.Errorf("Expected empty results, got total %d", resp.Total)
	}
	if resp.Results == nil {
		t.Error("Expected empty slice, not nil")
	}
}

// TestSearchGuidelines_KeywordScanFallback verifies the second rung: an
// empty index with a loaded corpus still answers.
func TestSearchGuidelines_KeywordScanFallback(t *testing.T) {
	sections := []*hig.Section{
		section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign,
			"Buttons initiate actions."),
		section("Color", "color", hig.PlatformIOS, hig.CategoryColorAndMaterials,
			"Color communicates state."),
	}
	indexer := search.NewIndexer(nil, nil) // deliberately left empty
	svc, err := NewService(indexer, nil, sections, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	resp, err := svc.SearchGuidelines(context.Background(), "button", "iOS", "", 5)
	if err != nil {
		t.Fatalf("SearchGuidelines failed: %v", err)
	}
	if resp.Total == 0 {
		t.Fatal("Expected keyword-scan results, got none")
	}
	if resp.Results[0].Title != "Buttons" {
		t.Errorf("Expected 'Buttons' from keyword scan, got %q", resp.Results[0].Title)
	}
}

// TestSearchGuidelines_CuratedFallback verifies the third rung: no index
// and no corpus still yields the curated entry points.
func TestSearchGuidelines_CuratedFallback(t *testing.T) {
	indexer := search.NewIndexer(nil, nil)
	svc, err := NewService(indexer, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	resp, err := svc.SearchGuidelines(context.Background(), "button", "", "", 5)
	if err != nil {
		t.Fatalf("SearchGuidelines failed: %v", err)
	}
	if resp.Total == 0 {
		t.Fatal("Expected curated results, got none")
	}
	if resp.Results[0].Title != "Buttons" {
		t.Errorf("Expected curated 'Buttons', got %q", resp.Results[0].Title)
	}

	unmatched, err := svc.SearchGuidelines(context.Background(), "zzqqxv", "", "", 3)
	if err != nil {
		t.Fatalf("SearchGuidelines failed: %v", err)
	}
	if unmatched.Total != 3 {
		t.Errorf("Expected 3 curated fallback entries, got %d", unmatched.Total)
	}
	for _, result := range unmatched.Results {
		if result.Score != 0.1 {
			t.Errorf("Expected fallback score 0.1, got %f for %q", result.Score, result.Title)
		}
	}
}

// TestSearchGuidelines_Cached verifies repeated queries hit the cache.
func TestSearchGuidelines_Cached(t *testing.T) {
	svc := newTestService(t, section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Buttons."))

	first, err := svc.SearchGuidelines(context.Background(), "button", "iOS", "", 5)
	if err != nil {
		t.Fatalf("SearchGuidelines failed: %v", err)
	}
	second, err := svc.SearchGuidelines(context.Background(), "button", "iOS", "", 5)
	if err != nil {
		t.Fatalf("SearchGuidelines failed: %v", err)
	}
	if first != second {
		t.Error("Expected the second call to return the cached response")
	}
}

// TestSearchUnified_Validation verifies the unified path rejects invalid
// platforms before searching.
func TestSearchUnified_Validation(t *testing.T) {
	svc := newTestService(t, section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Buttons."))

	_, err := svc.SearchUnified(context.Background(), "button", UnifiedOptions{Platform: "Windows", IncludeDesign: true})
	if err == nil {
		t.Fatal("Expected error for invalid platform, got nil")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	unified, err := svc.SearchUnified(context.Background(), "button", UnifiedOptions{IncludeDesign: true})
	if err != nil {
		t.Fatalf("SearchUnified failed: %v", err)
	}
	if len(unified.DesignResults) == 0 {
		t.Error("Expected design results")
	}
}

// TestHealth verifies the index-backed health signal.
func TestHealth(t *testing.T) {
	empty, err := NewService(search.NewIndexer(nil, nil), nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if err := empty.Health(context.Background()); err == nil {
		t.Error("Expected health error for empty index, got nil")
	}

	loaded := newTestService(t, section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Buttons."))
	if err := loaded.Health(context.Background()); err != nil {
		t.Errorf("Expected healthy service, got %v", err)
	}
}
