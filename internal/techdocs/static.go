package techdocs

import (
	"context"
	"sort"
	"strings"
)

// Term weights for the static backend. Title identity dominates, then
// title terms, then framework and description mentions.
const (
	staticExactTitle      = 2.0
	staticTitleTerm       = 1.0
	staticFrameworkTerm   = 0.5
	staticDescriptionTerm = 0.25
)

// StaticSearcher ranks an in-memory symbol list with keyword scoring.
// It is the default backend and the degraded mode when Qdrant is not
// configured or unreachable.
type StaticSearcher struct {
	symbols []Symbol
}

// NewStaticSearcher wraps the given symbols. A nil or empty slice falls
// back to the bundled set.
func NewStaticSearcher(symbols []Symbol) *StaticSearcher {
	if len(symbols) == 0 {
		symbols = DefaultSymbols()
	}
	return &StaticSearcher{symbols: symbols}
}

// SearchSymbols scores every symbol against the query and returns the
// top matches. An empty query returns no results rather than the whole
// catalog.
func (s *StaticSearcher) SearchSymbols(_ context.Context, query, framework string, limit int) ([]Symbol, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return []Symbol{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	terms := strings.Fields(normalized)
	matches := make([]Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		if framework != "" && !strings.EqualFold(sym.Framework, framework) {
			continue
		}
		score := scoreSymbol(sym, normalized, terms)
		if score <= 0 {
			continue
		}
		sym.Relevance = score
		matches = append(matches, sym)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func scoreSymbol(sym Symbol, normalized string, terms []string) float64 {
	title := strings.ToLower(sym.Title)
	frameworkName := strings.ToLower(sym.Framework)
	description := strings.ToLower(sym.Description)

	var score float64
	if title == normalized {
		score += staticExactTitle
	}
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += staticTitleTerm
		}
		if strings.Contains(frameworkName, term) {
			score += staticFrameworkTerm
		}
		if strings.Contains(description, term) {
			score += staticDescriptionTerm
		}
	}
	return score
}

// DefaultSymbols is the bundled catalog of common Apple framework
// symbols. It keeps unified search useful before any sync has run.
func DefaultSymbols() []Symbol {
	return []Symbol{
		{
			Title:       "UIButton",
			Path:        "/documentation/uikit/uibutton",
			URL:         "https://developer.apple.com/documentation/uikit/uibutton",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS", "tvOS", "visionOS"},
			Description: "A control that executes your custom code in response to user interactions.",
		},
		{
			Title:       "Button",
			Path:        "/documentation/swiftui/button",
			URL:         "https://developer.apple.com/documentation/swiftui/button",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "tvOS", "watchOS", "visionOS"},
			Description: "A control that initiates an action when triggered.",
		},
		{
			Title:       "UINavigationBar",
			Path:        "/documentation/uikit/uinavigationbar",
			URL:         "https://developer.apple.com/documentation/uikit/uinavigationbar",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS"},
			Description: "Navigational controls displayed in a bar along the top of the screen, usually in conjunction with a navigation controller.",
		},
		{
			Title:       "NavigationStack",
			Path:        "/documentation/swiftui/navigationstack",
			URL:         "https://developer.apple.com/documentation/swiftui/navigationstack",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "tvOS", "watchOS", "visionOS"},
			Description: "A view that displays a root view and enables you to present additional views over the root view.",
		},
		{
			Title:       "UITabBar",
			Path:        "/documentation/uikit/uitabbar",
			URL:         "https://developer.apple.com/documentation/uikit/uitabbar",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS"},
			Description: "A control that displays one or more buttons in a tab bar for selecting between different subtasks, views, or modes in an app.",
		},
		{
			Title:       "TabView",
			Path:        "/documentation/swiftui/tabview",
			URL:         "https://developer.apple.com/documentation/swiftui/tabview",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "tvOS", "watchOS", "visionOS"},
			Description: "A view that switches between multiple child views using interactive user interface elements.",
		},
		{
			Title:       "UISwitch",
			Path:        "/documentation/uikit/uiswitch",
			URL:         "https://developer.apple.com/documentation/uikit/uiswitch",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS"},
			Description: "A control that offers a binary choice, such as on/off.",
		},
		{
			Title:       "Toggle",
			Path:        "/documentation/swiftui/toggle",
			URL:         "https://developer.apple.com/documentation/swiftui/toggle",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "tvOS", "watchOS", "visionOS"},
			Description: "A control that toggles between on and off states.",
		},
		{
			Title:       "UISlider",
			Path:        "/documentation/uikit/uislider",
			URL:         "https://developer.apple.com/documentation/uikit/uislider",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS"},
			Description: "A control for selecting a single value from a continuous range of values.",
		},
		{
			Title:       "Slider",
			Path:        "/documentation/swiftui/slider",
			URL:         "https://developer.apple.com/documentation/swiftui/slider",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "watchOS", "visionOS"},
			Description: "A control for selecting a value from a bounded linear range of values.",
		},
		{
			Title:       "UITextField",
			Path:        "/documentation/uikit/uitextfield",
			URL:         "https://developer.apple.com/documentation/uikit/uitextfield",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS", "tvOS", "visionOS"},
			Description: "An object that displays an editable text area in your interface.",
		},
		{
			Title:       "TextField",
			Path:        "/documentation/swiftui/textfield",
			URL:         "https://developer.apple.com/documentation/swiftui/textfield",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "tvOS", "watchOS", "visionOS"},
			Description: "A control that displays an editable text interface.",
		},
		{
			Title:       "UIImageView",
			Path:        "/documentation/uikit/uiimageview",
			URL:         "https://developer.apple.com/documentation/uikit/uiimageview",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS", "tvOS", "visionOS"},
			Description: "An object that displays a single image or a sequence of animated images in your interface.",
		},
		{
			Title:       "Image",
			Path:        "/documentation/swiftui/image",
			URL:         "https://developer.apple.com/documentation/swiftui/image",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "tvOS", "watchOS", "visionOS"},
			Description: "A view that displays an image.",
		},
		{
			Title:       "UITableView",
			Path:        "/documentation/uikit/uitableview",
			URL:         "https://developer.apple.com/documentation/uikit/uitableview",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS"},
			Description: "A view that presents data using rows in a single column.",
		},
		{
			Title:       "List",
			Path:        "/documentation/swiftui/list",
			URL:         "https://developer.apple.com/documentation/swiftui/list",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "tvOS", "watchOS", "visionOS"},
			Description: "A container that presents rows of data arranged in a single column, optionally providing the ability to select one or more members.",
		},
		{
			Title:       "UIPickerView",
			Path:        "/documentation/uikit/uipickerview",
			URL:         "https://developer.apple.com/documentation/uikit/uipickerview",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS"},
			Description: "A view that uses a spinning-wheel or slot-machine metaphor to show one or more sets of values.",
		},
		{
			Title:       "Picker",
			Path:        "/documentation/swiftui/picker",
			URL:         "https://developer.apple.com/documentation/swiftui/picker",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "tvOS", "watchOS", "visionOS"},
			Description: "A control for selecting from a set of mutually exclusive values.",
		},
		{
			Title:       "UIAlertController",
			Path:        "/documentation/uikit/uialertcontroller",
			URL:         "https://developer.apple.com/documentation/uikit/uialertcontroller",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS"},
			Description: "An object that displays an alert message or action sheet to the user.",
		},
		{
			Title:       "NSButton",
			Path:        "/documentation/appkit/nsbutton",
			URL:         "https://developer.apple.com/documentation/appkit/nsbutton",
			Framework:   "AppKit",
			SymbolKind:  "class",
			Platforms:   []string{"macOS"},
			Description: "A control that defines an area on the screen that a user clicks to trigger an action.",
		},
		{
			Title:       "NSMenu",
			Path:        "/documentation/appkit/nsmenu",
			URL:         "https://developer.apple.com/documentation/appkit/nsmenu",
			Framework:   "AppKit",
			SymbolKind:  "class",
			Platforms:   []string{"macOS"},
			Description: "An object that manages an app's menus.",
		},
		{
			Title:       "UIProgressView",
			Path:        "/documentation/uikit/uiprogressview",
			URL:         "https://developer.apple.com/documentation/uikit/uiprogressview",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS", "tvOS"},
			Description: "A view that depicts the progress of a task over time.",
		},
		{
			Title:       "ProgressView",
			Path:        "/documentation/swiftui/progressview",
			URL:         "https://developer.apple.com/documentation/swiftui/progressview",
			Framework:   "SwiftUI",
			SymbolKind:  "struct",
			Platforms:   []string{"iOS", "iPadOS", "macOS", "tvOS", "watchOS", "visionOS"},
			Description: "A view that shows the progress toward completion of a task.",
		},
		{
			Title:       "UIStepper",
			Path:        "/documentation/uikit/uistepper",
			URL:         "https://developer.apple.com/documentation/uikit/uistepper",
			Framework:   "UIKit",
			SymbolKind:  "class",
			Platforms:   []string{"iOS", "iPadOS"},
			Description: "A control for incrementing or decrementing a value.",
		},
	}
}
