package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"
)

// AccessibilityRequirements is the fixed fact sheet for one component
// family on one platform.
type AccessibilityRequirements struct {
	MinimumTouchTarget string   `json:"minimumTouchTarget"`
	ContrastRatio      string   `json:"contrastRatio"`
	VoiceOverTraits    []string `json:"voiceOverTraits"`
	KeyboardNavigation string   `json:"keyboardNavigation"`
	WCAGCompliance     string   `json:"wcagCompliance"`
}

// AccessibilityResponse echoes the lookup inputs alongside the facts.
type AccessibilityResponse struct {
	Component    string                    `json:"component"`
	Platform     string                    `json:"platform"`
	Requirements AccessibilityRequirements `json:"requirements"`
}

// GetAccessibilityRequirements answers from the fixed per-family table.
// Unknown components get the generic baseline; only a missing component
// name or an invalid platform is an error.
func (s *Service) GetAccessibilityRequirements(ctx context.Context, component, platform string) (*AccessibilityResponse, error) {
	_ = ctx
	name := strings.TrimSpace(component)
	if name == "" {
		return nil, fmt.Errorf("%w: component name is required", ErrInvalidInput)
	}
	if len(name) > MaxQueryLength {
		return nil, fmt.Errorf("%w: Component name too long: maximum %d characters", ErrInvalidInput, MaxQueryLength)
	}

	p := hig.PlatformUniversal
	if platform != "" {
		parsed, err := hig.ParsePlatform(platform)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		p = parsed
	}

	family := componentFamily(name)
	requirements := accessibilityTable()[family]
	requirements.MinimumTouchTarget = touchTargetFor(p, family)

	return &AccessibilityResponse{
		Component:    name,
		Platform:     string(p),
		Requirements: requirements,
	}, nil
}

// componentFamily normalizes a free-form component name onto a table key.
// Unmatched names map to the generic baseline.
func componentFamily(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", " ", "_", " ").Replace(normalized)
	words := strings.Fields(normalized)
	for i, word := range words {
		if len(word) > 3 && strings.HasSuffix(word, "s") {
			words[i] = word[:len(word)-1]
		}
	}
	normalized = strings.Join(words, " ")

	for _, a := range componentAliases {
		if normalized == a.alias {
			return a.family
		}
	}
	// Compound names like "primary button" still land on a family. Longer
	// aliases are listed first so "tab bar" wins over "tab".
	for _, a := range componentAliases {
		if strings.Contains(normalized, a.alias) {
			return a.family
		}
	}
	return "generic"
}

var componentAliases = []struct {
	alias  string
	family string
}{
	{"navigation bar", "navigation"},
	{"table view", "list"},
	{"text field", "text-field"},
	{"text input", "text-field"},
	{"textfield", "text-field"},
	{"navigation", "navigation"},
	{"dropdown", "picker"},
	{"tab bar", "tab"},
	{"navbar", "navigation"},
	{"button", "button"},
	{"slider", "slider"},
	{"switch", "toggle"},
	{"toggle", "toggle"},
	{"picker", "picker"},
	{"select", "picker"},
	{"image", "image"},
	{"input", "text-field"},
	{"table", "list"},
	{"link", "link"},
	{"list", "list"},
	{"tab", "tab"},
}

// touchTargetFor adjusts the target-size guidance for input models that
// aren't touch-first.
func touchTargetFor(p hig.Platform, family string) string {
	switch p {
	case hig.PlatformMacOS:
		return "28x28 pt minimum click target (pointer input)"
	case hig.PlatformTVOS:
		return "Focus-based input: ensure a clear focus appearance instead of a touch target"
	case hig.PlatformVisionOS:
		return "60x60 pt minimum for interactive elements"
	}
	if family == "image" {
		return "44x44 pt minimum when the image is interactive"
	}
	return "44x44 pt minimum"
}

func accessibilityTable() map[string]AccessibilityRequirements {
	return map[string]AccessibilityRequirements{
		"button": {
			ContrastRatio:      "4.5:1 for label text, 3:1 for the button shape against its background",
			VoiceOverTraits:    []string{"Button"},
			KeyboardNavigation: "Reachable with Tab or arrow keys; activates with Space or Return",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"navigation": {
			ContrastRatio:      "4.5:1 for titles and bar items",
			VoiceOverTraits:    []string{"Header", "Button"},
			KeyboardNavigation: "Bar items reachable in reading order; Escape returns to the previous level",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"tab": {
			ContrastRatio:      "4.5:1 for labels, 3:1 for selected-state indication",
			VoiceOverTraits:    []string{"Tab Bar", "Button", "Selected"},
			KeyboardNavigation: "Arrow keys move between tabs; selection follows focus or activates with Space",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"text-field": {
			ContrastRatio:      "4.5:1 for entered text and placeholder text",
			VoiceOverTraits:    []string{"Text Field"},
			KeyboardNavigation: "Tab focus with standard editing keys; label announced before value",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"toggle": {
			ContrastRatio:      "3:1 for the on/off state indication",
			VoiceOverTraits:    []string{"Toggle", "Button"},
			KeyboardNavigation: "Reachable with Tab; state changes with Space",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"slider": {
			ContrastRatio:      "3:1 for the track and thumb against surroundings",
			VoiceOverTraits:    []string{"Adjustable"},
			KeyboardNavigation: "Arrow keys adjust the value in increments; announce the new value",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"image": {
			ContrastRatio:      "3:1 for meaningful graphical content",
			VoiceOverTraits:    []string{"Image"},
			KeyboardNavigation: "Informative images need alternative text; decorative images stay hidden from assistive tech",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"list": {
			ContrastRatio:      "4.5:1 for row content",
			VoiceOverTraits:    []string{"Button", "Selected"},
			KeyboardNavigation: "Arrow keys move between rows; Return activates the focused row",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"picker": {
			ContrastRatio:      "4.5:1 for option labels",
			VoiceOverTraits:    []string{"Adjustable"},
			KeyboardNavigation: "Arrow keys change the selection; announce the selected option",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"link": {
			ContrastRatio:      "4.5:1, plus a non-color distinction such as an underline",
			VoiceOverTraits:    []string{"Link"},
			KeyboardNavigation: "Reachable with Tab; activates with Return",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
		"generic": {
			ContrastRatio:      "4.5:1 for normal text, 3:1 for large text and essential graphics",
			VoiceOverTraits:    []string{"Appropriate trait for the element's role"},
			KeyboardNavigation: "All interactive elements reachable and operable with Full Keyboard Access",
			WCAGCompliance:     "WCAG 2.1 AA",
		},
	}
}
