package techdocs

import (
	"context"
	"testing"
)

// TestStaticSearch_ExactTitleFirst verifies that a query equal to a symbol
// title ranks that symbol above partial title matches.
func TestStaticSearch_ExactTitleFirst(t *testing.T) {
	searcher := NewStaticSearcher(nil)

	results, err := searcher.SearchSymbols(context.Background(), "button", "", 10)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected results for 'button', got none")
	}
	if results[0].Title != "Button" {
		t.Errorf("Expected exact title match 'Button' first, got %q", results[0].Title)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Relevance > results[i-1].Relevance {
			t.Errorf("Results not sorted: %q (%.2f) after %q (%.2f)",
				results[i].Title, results[i].Relevance, results[i-1].Title, results[i-1].Relevance)
		}
	}
}

// TestStaticSearch_FrameworkFilter verifies that the framework filter is
// exact and case-insensitive.
func TestStaticSearch_FrameworkFilter(t *testing.T) {
	searcher := NewStaticSearcher(nil)

	results, err := searcher.SearchSymbols(context.Background(), "button", "uikit", 10)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected UIKit results for 'button', got none")
	}
	for _, sym := range results {
		if sym.Framework != "UIKit" {
			t.Errorf("Expected only UIKit symbols, got %q from %q", sym.Title, sym.Framework)
		}
	}
}

// TestStaticSearch_FrameworkTermBoost verifies that mentioning a framework
// in the query lifts that framework's symbols.
func TestStaticSearch_FrameworkTermBoost(t *testing.T) {
	searcher := NewStaticSearcher(nil)

	results, err := searcher.SearchSymbols(context.Background(), "swiftui button", "", 10)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected results, got none")
	}
	if results[0].Title != "Button" || results[0].Framework != "SwiftUI" {
		t.Errorf("Expected SwiftUI Button first, got %q (%s)", results[0].Title, results[0].Framework)
	}
}

// TestStaticSearch_EmptyQuery verifies that an empty query returns no
// results instead of the whole catalog.
func TestStaticSearch_EmptyQuery(t *testing.T) {
	searcher := NewStaticSearcher(nil)

	results, err := searcher.SearchSymbols(context.Background(), "   ", "", 10)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results for empty query, got %d", len(results))
	}
}

// TestStaticSearch_Limit verifies the result cap.
func TestStaticSearch_Limit(t *testing.T) {
	searcher := NewStaticSearcher(nil)

	results, err := searcher.SearchSymbols(context.Background(), "view", "", 3)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Expected 3 results with limit 3, got %d", len(results))
	}
}

// TestStaticSearch_NoMatches verifies that an unmatched query returns an
// empty slice, not nil results with an error.
func TestStaticSearch_NoMatches(t *testing.T) {
	searcher := NewStaticSearcher(nil)

	results, err := searcher.SearchSymbols(context.Background(), "zzqqxv", "", 10)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

// TestStaticSearch_CustomCatalog verifies that a caller-provided symbol
// list replaces the bundled one.
func TestStaticSearch_CustomCatalog(t *testing.T) {
	custom := []Symbol{
		{Title: "MKMapView", Framework: "MapKit", Description: "An embeddable map interface."},
	}
	searcher := NewStaticSearcher(custom)

	results, err := searcher.SearchSymbols(context.Background(), "map", "", 10)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "MKMapView" {
		t.Fatalf("Expected only MKMapView, got %v", results)
	}

	results, err = searcher.SearchSymbols(context.Background(), "button", "", 10)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no bundled symbols in custom catalog, got %d results", len(results))
	}
}

// TestStaticSearch_RelevancePopulated verifies that returned symbols carry
// a positive relevance score.
func TestStaticSearch_RelevancePopulated(t *testing.T) {
	searcher := NewStaticSearcher(nil)

	results, err := searcher.SearchSymbols(context.Background(), "navigation", "", 10)
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected results for 'navigation', got none")
	}
	for _, sym := range results {
		if sym.Relevance <= 0 {
			t.Errorf("Expected positive relevance for %q, got %f", sym.Title, sym.Relevance)
		}
	}
}
