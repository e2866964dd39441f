package search

import "strings"

// synonymGroups is the hand-curated domain vocabulary map. Every term in a
// group expands to the others, so colloquial queries still reach canonical
// section titles. Kept static so ranking stays deterministic.
var synonymGroups = [][]string{
	{"search", "searching", "find"},
	{"guidelines", "best practices"},
	{"toggle", "switch"},
	{"popover", "popup", "tooltip"},
	{"activity indicator", "spinner", "loading"},
	{"alert", "dialog", "modal"},
	{"picker", "dropdown", "select"},
	{"text field", "text input", "input"},
	{"tab bar", "tabs"},
	{"navigation bar", "navbar", "nav bar"},
	{"icon", "symbol", "glyph"},
	{"slider", "range control"},
	{"stepper", "increment control"},
	{"segmented control", "segment"},
	{"accessibility", "voiceover", "a11y"},
	{"haptics", "vibration", "haptic feedback"},
	{"dark mode", "appearance"},
	{"launch screen", "splash screen"},
	{"widget", "complication"},
	{"typography", "fonts", "text style"},
}

// expandTerms returns the synonym targets triggered by a query: single-word
// entries match query terms, multi-word entries match the normalized query
// as a phrase. Groups are walked in declaration order so expansion, and with
// it scoring, is deterministic. Targets already present as query terms are
// not repeated.
func expandTerms(normalized string, terms []string) []string {
	have := make(map[string]bool, len(terms))
	for _, t := range terms {
		have[t] = true
	}

	var expanded []string
	for _, group := range synonymGroups {
		triggered := ""
		for _, member := range group {
			if matchesQuery(member, normalized, terms) {
				triggered = member
				break
			}
		}
		if triggered == "" {
			continue
		}
		for _, member := range group {
			if member == triggered || have[member] {
				continue
			}
			have[member] = true
			expanded = append(expanded, member)
		}
	}
	return expanded
}

func matchesQuery(member, normalized string, terms []string) bool {
	if strings.Contains(member, " ") {
		return strings.Contains(normalized, member)
	}
	for _, t := range terms {
		if t == member {
			return true
		}
	}
	return false
}
