package fusion

import (
	"strings"
	"unicode"
)

// titleTokens normalizes a result title into comparable tokens: split on
// punctuation and camelCase boundaries, lowercase, drop tokens of two runes
// or fewer (framework prefixes like "UI" and "NS"), and trim a plural "s"
// so "Buttons" and "UIButton" both yield "button".
func titleTokens(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range splitWords(title) {
		for _, part := range splitCamel(word) {
			token := strings.ToLower(part)
			if len(token) <= 2 {
				continue
			}
			if len(token) > 3 && strings.HasSuffix(token, "s") {
				token = token[:len(token)-1]
			}
			tokens[token] = true
		}
	}
	return tokens
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// splitCamel breaks camelCase and acronym boundaries: "UIButton" becomes
// ["UI", "Button"], "NavigationStack" becomes ["Navigation", "Stack"].
func splitCamel(word string) []string {
	runes := []rune(word)
	if len(runes) == 0 {
		return nil
	}

	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		if unicode.IsUpper(cur) && !unicode.IsUpper(prev) {
			boundary = true
		}
		if i+1 < len(runes) && unicode.IsUpper(prev) && unicode.IsUpper(cur) && unicode.IsLower(runes[i+1]) {
			boundary = true
		}
		if boundary {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	parts = append(parts, string(runes[start:]))
	return parts
}

// sharesToken reports whether the two token sets intersect.
func sharesToken(a, b map[string]bool) bool {
	for token := range a {
		if b[token] {
			return true
		}
	}
	return false
}

// tokenOverlap is the share of the smaller set covered by the intersection.
func tokenOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for token := range a {
		if b[token] {
			shared++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(shared) / float64(smaller)
}
