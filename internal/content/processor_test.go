package content

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
)

// TestProcess_StructuredMarkdown tests heading-label extraction into the
// structured content model.
func TestProcess_StructuredMarkdown(t *testing.T) {
	input := `# Buttons

Buttons initiate app-specific actions.

## Guidelines

- Use clear titles
- Keep labels short

## Examples

- A checkout button

## Specifications

Minimum touch target: 44x44 pt
Contrast ratio: 4.5:1

## Related

- Toggles
`

	p := NewProcessor(nil)
	out := p.Process(input, "https://developer.apple.com/design/human-interface-guidelines/buttons")

	if out.Structured == nil {
		t.Fatal("Expected structured content, got nil")
	}
	if !strings.Contains(out.Structured.Overview, "initiate app-specific actions") {
		t.Errorf("Overview missing leading paragraph, got %q", out.Structured.Overview)
	}
	if len(out.Structured.Guidelines) != 2 {
		t.Errorf("Expected 2 guidelines, got %d", len(out.Structured.Guidelines))
	}
	if len(out.Structured.Examples) != 1 {
		t.Errorf("Expected 1 example, got %d", len(out.Structured.Examples))
	}
	if got := out.Structured.Specifications["Minimum touch target"]; got != "44x44 pt" {
		t.Errorf("Specification 'Minimum touch target': expected '44x44 pt', got %q", got)
	}
	if got := out.Structured.Specifications["Contrast ratio"]; got != "4.5:1" {
		t.Errorf("Specification 'Contrast ratio': expected '4.5:1', got %q", got)
	}
	if len(out.Structured.RelatedConcepts) != 1 || out.Structured.RelatedConcepts[0] != "Toggles" {
		t.Errorf("Expected related concepts [Toggles], got %v", out.Structured.RelatedConcepts)
	}

	if out.Metrics.Headings != 5 {
		t.Errorf("Expected 5 headings, got %d", out.Metrics.Headings)
	}
	if out.Metrics.ExtractionMethod != MethodStructured {
		t.Errorf("Expected extraction method %q, got %q", MethodStructured, out.Metrics.ExtractionMethod)
	}
	if out.Metrics.IsFallback {
		t.Error("Structured content should not be flagged as fallback")
	}
	if out.Metrics.Score <= 0 || out.Metrics.Score > 1 {
		t.Errorf("Score out of range: %f", out.Metrics.Score)
	}
}

// TestProcess_HTMLInput tests that HTML is cleaned before extraction.
func TestProcess_HTMLInput(t *testing.T) {
	input := `<!DOCTYPE html>
<html><head><title>Buttons</title><script>var tracker = 1;</script></head>
<body>
<nav>Home / Design / Buttons</nav>
<h1>Buttons</h1>
<p>People expect buttons to perform an action.</p>
<h2>Guidelines</h2>
<ul><li>Make buttons easy to tap</li></ul>
<img src="button-example.png"/>
<footer>Copyright Apple</footer>
</body></html>`

	p := NewProcessor(nil)
	out := p.Process(input, "https://developer.apple.com/design/human-interface-guidelines/buttons")

	if !strings.Contains(out.CleanedText, "# Buttons") {
		t.Errorf("Cleaned text missing converted heading:\n%s", out.CleanedText)
	}
	if !strings.Contains(out.CleanedText, "- Make buttons easy to tap") {
		t.Errorf("Cleaned text missing converted list item:\n%s", out.CleanedText)
	}
	if strings.Contains(out.CleanedText, "var tracker") {
		t.Error("Script content leaked into cleaned text")
	}
	if strings.Contains(out.CleanedText, "Home / Design") {
		t.Error("Navigation content leaked into cleaned text")
	}
	if strings.Contains(out.CleanedText, "Copyright Apple") {
		t.Error("Footer content leaked into cleaned text")
	}

	if out.Metrics.ImageReferences != 1 {
		t.Errorf("Expected 1 image reference, got %d", out.Metrics.ImageReferences)
	}
	if out.Structured == nil || len(out.Structured.Guidelines) != 1 {
		t.Fatalf("Expected 1 guideline from HTML list, got %+v", out.Structured)
	}
}

// TestProcess_FallbackSignature tests degraded handling of placeholder pages.
func TestProcess_FallbackSignature(t *testing.T) {
	input := "This page requires JavaScript to display. Please enable JavaScript in your browser settings to view the content."

	p := NewProcessor(nil)
	out := p.Process(input, "https://developer.apple.com/design/human-interface-guidelines/buttons")

	if !out.Metrics.IsFallback {
		t.Error("Expected fallback flag for JavaScript-wall content")
	}
	if out.Metrics.ExtractionMethod != MethodFallback {
		t.Errorf("Expected extraction method %q, got %q", MethodFallback, out.Metrics.ExtractionMethod)
	}
	if out.Metrics.Score >= 0.3 {
		t.Errorf("Fallback content must score below 0.3, got %f", out.Metrics.Score)
	}
	if out.Structured == nil || out.Structured.Overview == "" {
		t.Error("Fallback processing should still produce an overview")
	}
	if len(out.Structured.Guidelines) != 0 {
		t.Errorf("Fallback content should carry no guidelines, got %v", out.Structured.Guidelines)
	}
}

// TestProcess_EmptyInput tests that empty input degrades instead of failing.
func TestProcess_EmptyInput(t *testing.T) {
	p := NewProcessor(nil)

	for _, input := range []string{"", "   \n\t  "} {
		out := p.Process(input, "https://developer.apple.com/design")
		if out.Metrics.Score != 0 {
			t.Errorf("Empty input %q: expected score 0, got %f", input, out.Metrics.Score)
		}
		if !out.Metrics.IsFallback {
			t.Errorf("Empty input %q: expected fallback flag", input)
		}
		if out.CleanedText != "" {
			t.Errorf("Empty input %q: expected empty cleaned text, got %q", input, out.CleanedText)
		}
	}
}

// TestProcess_QualityOrdering tests the score contract: structured content
// with domain vocabulary scores above 0.6, placeholder content below 0.3.
func TestProcess_QualityOrdering(t *testing.T) {
	good := `# Buttons

Buttons initiate app-specific actions, have customizable backgrounds, and can
include a title or an icon. The system provides a range of button styles on
iOS, and people expect each style to behave in familiar ways across every
screen of an app.

## Guidelines

- Use a filled button for the most likely action on a screen
- Prefer a short, action-oriented title that uses title-style capitalization
- Make buttons large enough for a comfortable touch target
- Pair every icon-only button with an accessibility label for VoiceOver
- Keep button color consistent with your app accent color

## Layout

Buttons follow the standard layout and typography rules of the platform and
honor Dynamic Type size changes.
`
	bad := "Please enable JavaScript to view this page."

	p := NewProcessor(nil)

	goodOut := p.Process(good, "https://developer.apple.com/design/human-interface-guidelines/buttons")
	if len(goodOut.CleanedText) < 500 {
		t.Fatalf("Test fixture too short to exercise the contract: %d chars", len(goodOut.CleanedText))
	}
	if goodOut.Metrics.Score <= 0.6 {
		t.Errorf("Well-structured content with domain terms must score above 0.6, got %f", goodOut.Metrics.Score)
	}

	badOut := p.Process(bad, "https://developer.apple.com/design/human-interface-guidelines/buttons")
	if badOut.Metrics.Score >= 0.3 {
		t.Errorf("Placeholder content must score below 0.3, got %f", badOut.Metrics.Score)
	}

	if badOut.Metrics.Score >= goodOut.Metrics.Score {
		t.Errorf("Placeholder (%f) should not outscore structured content (%f)",
			badOut.Metrics.Score, goodOut.Metrics.Score)
	}
}

// TestProcessSection_PopulatesSection tests the section convenience path.
func TestProcessSection_PopulatesSection(t *testing.T) {
	s := &hig.Section{
		ID:       hig.SectionID("https://developer.apple.com/design/human-interface-guidelines/buttons"),
		Title:    "Buttons",
		URL:      "https://developer.apple.com/design/human-interface-guidelines/buttons",
		Platform: hig.PlatformIOS,
		Category: hig.CategoryVisualDesign,
		Content:  "# Buttons\n\nButtons initiate actions.\n\n## Guidelines\n\n- Keep titles short\n",
	}

	p := NewProcessor(nil)
	if err := p.ProcessSection(s); err != nil {
		t.Fatalf("ProcessSection failed: %v", err)
	}

	if s.Quality == nil {
		t.Fatal("Expected quality metrics on section")
	}
	if s.Structured == nil || len(s.Structured.Guidelines) != 1 {
		t.Errorf("Expected 1 guideline on section, got %+v", s.Structured)
	}
	if s.Content == "" {
		t.Error("Expected cleaned content on section")
	}
}

// TestProcessSection_NoContent tests the caller-contract error cases.
func TestProcessSection_NoContent(t *testing.T) {
	p := NewProcessor(nil)

	err := p.ProcessSection(&hig.Section{Title: "Buttons"})
	if !errors.Is(err, hig.ErrNoContent) {
		t.Errorf("Expected ErrNoContent for empty section, got %v", err)
	}

	err = p.ProcessSection(nil)
	if !errors.Is(err, hig.ErrInvalidSection) {
		t.Errorf("Expected ErrInvalidSection for nil section, got %v", err)
	}
}

// TestExtractKeywords_Ranking tests ordering: platform and category first,
// then title tokens, then content tokens by frequency.
func TestExtractKeywords_Ranking(t *testing.T) {
	content := "Buttons buttons BUTTON initiate actions. Toggle toggle switch."
	keywords := ExtractKeywords(content, "Buttons", hig.PlatformIOS, hig.CategoryVisualDesign)

	if len(keywords) < 4 {
		t.Fatalf("Expected at least 4 keywords, got %v", keywords)
	}
	if keywords[0] != "ios" {
		t.Errorf("Expected platform first, got %q", keywords[0])
	}
	if keywords[1] != "visual-design" {
		t.Errorf("Expected category second, got %q", keywords[1])
	}
	if keywords[2] != "buttons" {
		t.Errorf("Expected title token third, got %q", keywords[2])
	}

	// "toggle" appears twice, "switch" once; frequency ranks it earlier.
	toggleIdx, switchIdx := -1, -1
	for i, kw := range keywords {
		switch kw {
		case "toggle":
			toggleIdx = i
		case "switch":
			switchIdx = i
		}
	}
	if toggleIdx == -1 || switchIdx == -1 {
		t.Fatalf("Expected both 'toggle' and 'switch' in keywords, got %v", keywords)
	}
	if toggleIdx > switchIdx {
		t.Errorf("Expected 'toggle' (freq 2) before 'switch' (freq 1): %v", keywords)
	}
}

// TestExtractKeywords_FiltersNoise tests stopword and short-token removal.
func TestExtractKeywords_FiltersNoise(t *testing.T) {
	keywords := ExtractKeywords("the and for you it is of a an UI", "", "", "")
	if len(keywords) != 0 {
		t.Errorf("Expected no keywords from stopwords and short tokens, got %v", keywords)
	}
}

// TestExtractKeywords_Cap tests the 50-keyword ceiling.
func TestExtractKeywords_Cap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&sb, "term%02d ", i)
	}

	keywords := ExtractKeywords(sb.String(), "Buttons", hig.PlatformIOS, hig.CategoryVisualDesign)
	if len(keywords) != 50 {
		t.Errorf("Expected keywords capped at 50, got %d", len(keywords))
	}
}

// TestExtractSnippet_SentenceBoundary tests truncation behavior.
func TestExtractSnippet_SentenceBoundary(t *testing.T) {
	text := "Buttons initiate actions. They respond to taps. This trailing sentence is long enough to be cut off somewhere in the middle."

	got := ExtractSnippet(text, 80)
	want := "Buttons initiate actions. They respond to taps."
	if got != want {
		t.Errorf("Expected sentence-boundary cut %q, got %q", want, got)
	}
}

// TestExtractSnippet_ShortContent tests that short content passes through.
func TestExtractSnippet_ShortContent(t *testing.T) {
	got := ExtractSnippet("Short content.", 100)
	if got != "Short content." {
		t.Errorf("Expected unchanged content, got %q", got)
	}
}

// TestExtractSnippet_EllipsisFallback tests hard truncation without sentences.
func TestExtractSnippet_EllipsisFallback(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("alpha beta gamma delta ", 10))

	got := ExtractSnippet(text, 50)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
	if len(got) > 53 {
		t.Errorf("Snippet too long: %d chars", len(got))
	}
}

// TestExtractOutline lists subheadings and skips the page title.
func TestExtractOutline(t *testing.T) {
	text := `# Buttons

Buttons initiate actions.

## Best practices

- Keep labels short.

## Specifications

### Sizes

Small, medium, large.
`

	got := ExtractOutline(text)
	want := []string{"Best practices", "Specifications", "Sizes"}
	if len(got) != len(want) {
		t.Fatalf("Expected outline %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected outline entry %q at %d, got %q", want[i], i, got[i])
		}
	}
}

// TestExtractOutline_NoHeadings returns nothing for flat text.
func TestExtractOutline_NoHeadings(t *testing.T) {
	if got := ExtractOutline("Plain prose without any structure."); len(got) != 0 {
		t.Errorf("Expected empty outline, got %v", got)
	}
}
