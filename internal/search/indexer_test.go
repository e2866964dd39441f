package search

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
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

func buildCorpus(t *testing.T) *Indexer {
	t.Helper()
	ix := NewIndexer(nil, nil)
	sections := []*hig.Section{
		section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign,
			"Buttons initiate app-specific actions. Provide a 44pt touch target for accessibility. VoiceOver reads the button label."),
		section("Navigation Bars", "navigation-bars", hig.PlatformIOS, hig.CategoryNavigation,
			"Navigation bars help people move between screens in an app."),
		section("Toggles", "toggles", hig.PlatformIOS, hig.CategorySelectionAndInput,
			"A toggle switches between two mutually exclusive states."),
		section("Color", "color", hig.PlatformMacOS, hig.CategoryColorAndMaterials,
			"Color communicates status and provides visual continuity."),
		section("Typography", "typography", hig.PlatformUniversal, hig.CategoryTypography,
			"San Francisco is the system font on every Apple platform."),
	}
	for _, s := range sections {
		if err := ix.AddSection(s); err != nil {
			t.Fatalf("AddSection(%s) failed: %v", s.Title, err)
		}
	}
	return ix
}

func resultIDs(results []hig.SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

// TestSearch_SortedDescending tests the ordering invariant.
func TestSearch_SortedDescending(t *testing.T) {
	ix := buildCorpus(t)

	results := ix.Search("app", SearchOptions{})
	if len(results) < 2 {
		t.Fatalf("Expected multiple results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("Result %d score %f exceeds earlier result score %f",
				i, results[i].Score, results[i-1].Score)
		}
	}
}

// TestSearch_ExactTitleFirst tests that searching a section's exact title
// puts that section in the top position.
func TestSearch_ExactTitleFirst(t *testing.T) {
	ix := buildCorpus(t)

	for _, title := range []string{"Buttons", "Navigation Bars", "Toggles", "Color", "Typography"} {
		results := ix.Search(title, SearchOptions{})
		if len(results) == 0 {
			t.Fatalf("Search(%q) returned no results", title)
		}
		if results[0].Title != title {
			t.Errorf("Search(%q): expected exact-title section first, got %q", title, results[0].Title)
		}
	}
}

// TestSearch_EmptyQuery tests that blank queries return nothing, with no
// fallback list.
func TestSearch_EmptyQuery(t *testing.T) {
	ix := buildCorpus(t)

	for _, query := range []string{"", "   ", "\t\n"} {
		results := ix.Search(query, SearchOptions{})
		if len(results) != 0 {
			t.Errorf("Search(%q): expected no results, got %d", query, len(results))
		}
	}
}

// TestSearch_FallbackList tests that a valid query matching nothing returns
// a small low-scored list rather than silence.
func TestSearch_FallbackList(t *testing.T) {
	ix := buildCorpus(t)

	results := ix.Search("zzqqxv", SearchOptions{})
	if len(results) != fallbackLimit {
		t.Fatalf("Expected %d fallback results, got %d", fallbackLimit, len(results))
	}
	for _, r := range results {
		if r.Score != fallbackScore {
			t.Errorf("Fallback result %q: expected score %f, got %f", r.Title, fallbackScore, r.Score)
		}
		if r.Score >= minRelevance {
			t.Errorf("Fallback score %f should sit below the relevance threshold", r.Score)
		}
	}
}

// TestSearch_EmptyCorpus tests that an empty index returns empty results,
// not fallbacks.
func TestSearch_EmptyCorpus(t *testing.T) {
	ix := NewIndexer(nil, nil)
	if results := ix.Search("buttons", SearchOptions{}); len(results) != 0 {
		t.Errorf("Expected no results from empty index, got %d", len(results))
	}
}

// TestSearch_SynonymOverlap tests that toggle and switch reach the same section.
func TestSearch_SynonymOverlap(t *testing.T) {
	ix := buildCorpus(t)

	toggleIDs := resultIDs(ix.Search("toggle", SearchOptions{}))
	switchIDs := resultIDs(ix.Search("switch", SearchOptions{}))

	togglesID := hig.SectionID("https://developer.apple.com/design/human-interface-guidelines/toggles")
	foundInBoth := 0
	for _, ids := range [][]string{toggleIDs, switchIDs} {
		for _, id := range ids {
			if id == togglesID {
				foundInBoth++
				break
			}
		}
	}
	if foundInBoth != 2 {
		t.Errorf("Expected Toggles in both result sets; toggle=%v switch=%v", toggleIDs, switchIDs)
	}
}

// TestSearch_PlatformFilter tests exact-or-universal platform matching, on
// the fallback path as well.
func TestSearch_PlatformFilter(t *testing.T) {
	ix := buildCorpus(t)

	results := ix.Search("color", SearchOptions{Platform: hig.PlatformIOS})
	if len(results) == 0 {
		t.Fatal("Expected fallback results under platform filter")
	}
	for _, r := range results {
		if r.Platform != hig.PlatformIOS && r.Platform != hig.PlatformUniversal {
			t.Errorf("Platform filter leaked %q result %q", r.Platform, r.Title)
		}
	}

	// Universal sections pass an iOS filter.
	results = ix.Search("typography", SearchOptions{Platform: hig.PlatformIOS})
	if len(results) == 0 || results[0].Title != "Typography" {
		t.Errorf("Expected universal Typography section under iOS filter, got %v", resultIDs(results))
	}
}

// TestSearch_CategoryFilter tests that category matching is exact, with no
// universal fallback.
func TestSearch_CategoryFilter(t *testing.T) {
	ix := buildCorpus(t)

	results := ix.Search("design", SearchOptions{Category: hig.CategoryColorAndMaterials})
	if len(results) != 1 {
		t.Fatalf("Expected exactly 1 result in color-and-materials, got %d", len(results))
	}
	for _, r := range results {
		if r.Category != hig.CategoryColorAndMaterials {
			t.Errorf("Category filter leaked %q result %q", r.Category, r.Title)
		}
	}
}

// TestSearch_PlatformSpecificOutranksUniversal tests the filter-match bonus.
func TestSearch_PlatformSpecificOutranksUniversal(t *testing.T) {
	ix := NewIndexer(nil, nil)
	text := "Sliders let people select a value from a range."
	universal := section("Sliders", "sliders", hig.PlatformUniversal, hig.CategorySelectionAndInput, text)
	ios := section("Sliders", "sliders-ios", hig.PlatformIOS, hig.CategorySelectionAndInput, text)
	if err := ix.AddSection(universal); err != nil {
		t.Fatal(err)
	}
	if err := ix.AddSection(ios); err != nil {
		t.Fatal(err)
	}

	results := ix.Search("sliders", SearchOptions{Platform: hig.PlatformIOS})
	if len(results) != 2 {
		t.Fatalf("Expected both slider sections, got %d", len(results))
	}
	if results[0].Platform != hig.PlatformIOS {
		t.Errorf("Expected the iOS-specific section first, got %q", results[0].Platform)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("Expected platform bonus to break the tie: %f vs %f",
			results[0].Score, results[1].Score)
	}
}

// TestSearch_StructuralBonus tests that guidance queries prefer sections
// carrying structured guidance.
func TestSearch_StructuralBonus(t *testing.T) {
	ix := NewIndexer(nil, nil)
	text := "Context menus reveal related actions."

	plain := section("Context Menus", "context-menus", hig.PlatformIOS, hig.CategorySelectionAndInput, text)
	structured := section("Context Menus", "context-menus-structured", hig.PlatformIOS, hig.CategorySelectionAndInput, text)
	structured.Structured = &hig.StructuredContent{
		Guidelines: []string{"Reveal the menu on touch and hold"},
	}
	if err := ix.AddSection(plain); err != nil {
		t.Fatal(err)
	}
	if err := ix.AddSection(structured); err != nil {
		t.Fatal(err)
	}

	results := ix.Search("context menus guidelines", SearchOptions{})
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].ID != structured.ID {
		t.Errorf("Expected the section with guidelines first, got %q", results[0].Title)
	}
}

// TestSearch_LimitAppliedAfterSort tests that the limit keeps the top of the
// full ranking.
func TestSearch_LimitAppliedAfterSort(t *testing.T) {
	ix := buildCorpus(t)

	full := ix.Search("app", SearchOptions{})
	limited := ix.Search("app", SearchOptions{Limit: 2})

	if len(limited) != 2 {
		t.Fatalf("Expected 2 results with limit 2, got %d", len(limited))
	}
	if !reflect.DeepEqual(resultIDs(limited), resultIDs(full)[:2]) {
		t.Errorf("Limited results are not the head of the full ranking:\nfull    %v\nlimited %v",
			resultIDs(full), resultIDs(limited))
	}
}

// TestSearch_Idempotent tests that repeated identical searches agree.
func TestSearch_Idempotent(t *testing.T) {
	ix := buildCorpus(t)

	first := ix.Search("button accessibility", SearchOptions{Platform: hig.PlatformIOS})
	second := ix.Search("button accessibility", SearchOptions{Platform: hig.PlatformIOS})
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Identical searches disagree:\nfirst  %+v\nsecond %+v", first, second)
	}
}

// TestSearch_EndToEnd tests the canonical scenario: a two-section corpus and
// a query that must surface Buttons first with a score above 1.0.
func TestSearch_EndToEnd(t *testing.T) {
	ix := NewIndexer(nil, nil)
	buttons := section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign,
		"Buttons initiate app-specific actions. Provide a 44pt touch target. Label every button for accessibility.")
	navbars := section("Navigation Bars", "navigation-bars", hig.PlatformIOS, hig.CategoryNavigation,
		"Navigation bars help people move between screens.")
	if err := ix.AddSection(buttons); err != nil {
		t.Fatal(err)
	}
	if err := ix.AddSection(navbars); err != nil {
		t.Fatal(err)
	}

	results := ix.Search("button accessibility", SearchOptions{Platform: hig.PlatformIOS, Limit: 5})
	if len(results) == 0 {
		t.Fatal("Expected results")
	}
	if results[0].Title != "Buttons" {
		t.Errorf("Expected Buttons first, got %q", results[0].Title)
	}
	if results[0].Score <= 1.0 {
		t.Errorf("Expected relevance strictly above 1.0, got %f", results[0].Score)
	}
}

// TestSearch_RoundTrip tests that generating, serializing, and reloading the
// index reproduces the same ranking.
func TestSearch_RoundTrip(t *testing.T) {
	ix := buildCorpus(t)
	want := resultIDs(ix.Search("button accessibility", SearchOptions{Platform: hig.PlatformIOS}))

	raw, err := json.Marshal(ix.GenerateIndex())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var file IndexFile
	if err := json.Unmarshal(raw, &file); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	fresh := NewIndexer(nil, nil)
	if err := fresh.LoadIndex(&file); err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}

	got := resultIDs(fresh.Search("button accessibility", SearchOptions{Platform: hig.PlatformIOS}))
	if !reflect.DeepEqual(want, got) {
		t.Errorf("Reloaded index ranks differently:\nwant %v\ngot  %v", want, got)
	}
}

// TestGenerateIndex_Groups tests the persisted index shape.
func TestGenerateIndex_Groups(t *testing.T) {
	ix := buildCorpus(t)
	file := ix.GenerateIndex()

	if file.Metadata.TotalSections != 5 {
		t.Errorf("Expected 5 sections in metadata, got %d", file.Metadata.TotalSections)
	}
	if file.Metadata.Version != IndexVersion {
		t.Errorf("Expected version %q, got %q", IndexVersion, file.Metadata.Version)
	}
	if file.Metadata.IndexType != "keyword" {
		t.Errorf("Expected keyword index type, got %q", file.Metadata.IndexType)
	}
	if !file.Capabilities.KeywordSearch || file.Capabilities.SemanticSearch {
		t.Errorf("Unexpected capabilities: %+v", file.Capabilities)
	}

	buttonsID := hig.SectionID("https://developer.apple.com/design/human-interface-guidelines/buttons")
	entry, ok := file.KeywordIndex[buttonsID]
	if !ok {
		t.Fatal("Keyword index missing Buttons entry")
	}
	if len(entry.Keywords) == 0 {
		t.Error("Buttons entry has no keywords")
	}
	if entry.Snippet == "" {
		t.Error("Buttons entry has no snippet")
	}
}

// TestAddSection_SkipsNoContent tests the silent no-op for empty sections.
func TestAddSection_SkipsNoContent(t *testing.T) {
	ix := NewIndexer(nil, nil)
	s := section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "")

	if err := ix.AddSection(s); err != nil {
		t.Fatalf("Expected no error for contentless section, got %v", err)
	}
	if ix.Len() != 0 {
		t.Errorf("Expected empty index, got %d entries", ix.Len())
	}
}

// TestAddSection_RejectsInvalid tests the caller-contract errors.
func TestAddSection_RejectsInvalid(t *testing.T) {
	ix := NewIndexer(nil, nil)

	if err := ix.AddSection(nil); !errors.Is(err, hig.ErrInvalidSection) {
		t.Errorf("Expected ErrInvalidSection for nil, got %v", err)
	}

	noTitle := section("", "untitled", hig.PlatformIOS, hig.CategoryVisualDesign, "text")
	if err := ix.AddSection(noTitle); !errors.Is(err, hig.ErrInvalidSection) {
		t.Errorf("Expected ErrInvalidSection for empty title, got %v", err)
	}

	badPlatform := section("Buttons", "buttons", "windows", hig.CategoryVisualDesign, "text")
	if err := ix.AddSection(badPlatform); !errors.Is(err, hig.ErrInvalidSection) {
		t.Errorf("Expected ErrInvalidSection for bad platform, got %v", err)
	}
}

// TestAddSection_ReplacesByID tests that re-adding an ID replaces in place.
func TestAddSection_ReplacesByID(t *testing.T) {
	ix := NewIndexer(nil, nil)

	original := section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Original content about buttons.")
	if err := ix.AddSection(original); err != nil {
		t.Fatal(err)
	}
	padding := section("Toggles", "toggles", hig.PlatformIOS, hig.CategorySelectionAndInput, "Toggle content.")
	if err := ix.AddSection(padding); err != nil {
		t.Fatal(err)
	}

	updated := section("Buttons", "buttons", hig.PlatformIOS, hig.CategoryVisualDesign, "Updated content about buttons.")
	updated.Title = "Buttons (revised)"
	if err := ix.AddSection(updated); err != nil {
		t.Fatal(err)
	}

	if ix.Len() != 2 {
		t.Fatalf("Expected 2 entries after replace, got %d", ix.Len())
	}
	entry, ok := ix.Entry(original.ID)
	if !ok {
		t.Fatal("Replaced entry not found")
	}
	if entry.Title != "Buttons (revised)" {
		t.Errorf("Expected replaced title, got %q", entry.Title)
	}
	if entry.Position != 0 {
		t.Errorf("Expected replace to keep position 0, got %d", entry.Position)
	}
}

// TestStatistics tests index statistics reporting.
func TestStatistics(t *testing.T) {
	ix := buildCorpus(t)
	stats := ix.Statistics()

	if stats.TotalSections != 5 {
		t.Errorf("Expected 5 sections, got %d", stats.TotalSections)
	}
	if stats.AverageKeywords <= 0 {
		t.Errorf("Expected positive average keywords, got %f", stats.AverageKeywords)
	}
	if stats.SemanticEnabled {
		t.Error("Keyword scorer should not report semantic search")
	}

	found := false
	for _, f := range stats.Features {
		if f == "keyword-search" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected keyword-search feature flag, got %v", stats.Features)
	}
}

// TestClear tests index reset.
func TestClear(t *testing.T) {
	ix := buildCorpus(t)
	ix.Clear()

	if ix.Len() != 0 {
		t.Errorf("Expected empty index after clear, got %d", ix.Len())
	}
	if results := ix.Search("buttons", SearchOptions{}); len(results) != 0 {
		t.Errorf("Expected no results after clear, got %d", len(results))
	}
	if stats := ix.Statistics(); stats.TotalSections != 0 {
		t.Errorf("Expected zeroed statistics after clear, got %+v", stats)
	}
}
