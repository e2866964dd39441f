package content

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
)

const maxKeywords = 50

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'-]*`)

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "your": true, "all": true, "can": true,
	"use": true, "with": true, "this": true, "that": true, "they": true,
	"them": true, "their": true, "have": true, "has": true, "had": true,
	"was": true, "were": true, "been": true, "being": true, "from": true,
	"when": true, "where": true, "which": true, "while": true, "about": true,
	"into": true, "more": true, "most": true, "other": true, "some": true,
	"such": true, "than": true, "then": true, "these": true, "those": true,
	"should": true, "could": true, "would": true, "will": true, "its": true,
	"also": true, "each": true, "may": true, "might": true, "must": true,
	"any": true, "both": true, "how": true, "what": true, "who": true,
	"don't": true, "doesn't": true, "it's": true, "there": true, "here": true,
}

// appleTerms are the domain vocabulary whose presence signals genuine
// design-guidance content rather than boilerplate or an error page.
var appleTerms = []string{
	"accessibility", "animation", "app", "apple", "button", "carplay",
	"color", "component", "content", "control", "design", "device",
	"display", "dynamic type", "gesture", "guideline", "haptic", "icon",
	"interaction", "interface", "ios", "ipados", "keyboard", "layout",
	"macos", "menu", "navigation", "notification", "platform", "screen",
	"sf symbols", "swiftui", "system", "tab", "touch", "tvos", "typography",
	"uikit", "user", "visionos", "voiceover", "watchos", "widget", "window",
}

// fallbackSignatures mark pages where extraction got an app shell or error
// page instead of real documentation.
var fallbackSignatures = []string{
	"requires javascript",
	"enable javascript",
	"javascript is required",
	"page not found",
	"the page you're looking for",
	"access denied",
	"an error occurred",
	"content unavailable",
	"loading...",
}

// ExtractKeywords tokenizes content and title into a ranked keyword list.
// Platform and category come first, then title tokens, then content tokens
// ordered by frequency. Stopwords and tokens of two characters or fewer are
// dropped, and the list is capped at 50 entries.
func ExtractKeywords(content, title string, platform hig.Platform, category hig.Category) []string {
	keywords := make([]string, 0, maxKeywords)
	seen := map[string]bool{}

	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || len(kw) <= 2 || stopwords[kw] || seen[kw] {
			return
		}
		if len(keywords) >= maxKeywords {
			return
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	if platform != "" {
		add(string(platform))
	}
	if category != "" {
		add(string(category))
	}
	for _, tok := range tokenRe.FindAllString(title, -1) {
		add(tok)
	}

	counts := map[string]int{}
	order := map[string]int{}
	for i, tok := range tokenRe.FindAllString(strings.ToLower(content), -1) {
		if len(tok) <= 2 || stopwords[tok] {
			continue
		}
		if _, ok := order[tok]; !ok {
			order[tok] = i
		}
		counts[tok]++
	}
	ranked := make([]string, 0, len(counts))
	for tok := range counts {
		ranked = append(ranked, tok)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return order[ranked[i]] < order[ranked[j]]
	})
	for _, tok := range ranked {
		add(tok)
	}
	return keywords
}

// ExtractSnippet returns the first maxLen characters of content, preferring
// to stop at a sentence boundary and falling back to a word boundary with an
// ellipsis.
func ExtractSnippet(content string, maxLen int) string {
	text := strings.Join(strings.Fields(content), " ")
	if len(text) <= maxLen {
		return text
	}

	cut := text[:maxLen]
	if idx := lastSentenceEnd(cut); idx > maxLen/2 {
		return strings.TrimSpace(cut[:idx+1])
	}
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}

func lastSentenceEnd(s string) int {
	end := -1
	for _, mark := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(s, mark); idx > end {
			end = idx
		}
	}
	if end == -1 {
		switch {
		case strings.HasSuffix(s, "."), strings.HasSuffix(s, "!"), strings.HasSuffix(s, "?"):
			return len(s) - 1
		}
	}
	return end
}

// countDomainTerms reports how many distinct Apple design terms appear.
func countDomainTerms(content string) int {
	lower := strings.ToLower(content)
	n := 0
	for _, term := range appleTerms {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}

// looksLikeFallback reports whether content matches a known signature of a
// failed extraction, such as a JavaScript-wall or error page.
func looksLikeFallback(content string) bool {
	lower := strings.ToLower(content)
	for _, sig := range fallbackSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
