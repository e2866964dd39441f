package scraper

import "github.com/tmaasen/apple-dev-mcp-sub004/internal/hig"

// PageRef identifies one guidelines page to scrape, with the metadata the
// page itself doesn't carry.
type PageRef struct {
	Title    string
	URL      string
	Platform hig.Platform
	Category hig.Category
}

const higBase = "https://developer.apple.com/design/human-interface-guidelines/"

// Registry lists the known guidelines pages. Generation walks this list;
// discovery crawling is deliberately out of scope.
func Registry() []PageRef {
	refs := []struct {
		title    string
		slug     string
		category hig.Category
	}{
		{"Accessibility", "accessibility", hig.CategoryFoundations},
		{"Inclusion", "inclusion", hig.CategoryFoundations},
		{"Branding", "branding", hig.CategoryFoundations},
		{"Layout", "layout", hig.CategoryLayout},
		{"Spatial Layout", "spatial-layout", hig.CategoryLayout},
		{"Navigation Bars", "navigation-bars", hig.CategoryNavigation},
		{"Tab Bars", "tab-bars", hig.CategoryNavigation},
		{"Sidebars", "sidebars", hig.CategoryNavigation},
		{"Search Fields", "search-fields", hig.CategoryNavigation},
		{"Alerts", "alerts", hig.CategoryPresentation},
		{"Action Sheets", "action-sheets", hig.CategoryPresentation},
		{"Popovers", "popovers", hig.CategoryPresentation},
		{"Sheets", "sheets", hig.CategoryPresentation},
		{"Menus", "menus", hig.CategoryPresentation},
		{"Buttons", "buttons", hig.CategoryVisualDesign},
		{"Toggles", "toggles", hig.CategorySelectionAndInput},
		{"Text Fields", "text-fields", hig.CategorySelectionAndInput},
		{"Sliders", "sliders", hig.CategorySelectionAndInput},
		{"Steppers", "steppers", hig.CategorySelectionAndInput},
		{"Pickers", "pickers", hig.CategorySelectionAndInput},
		{"Segmented Controls", "segmented-controls", hig.CategorySelectionAndInput},
		{"Progress Indicators", "progress-indicators", hig.CategoryStatus},
		{"Activity Rings", "activity-rings", hig.CategoryStatus},
		{"Color", "color", hig.CategoryColorAndMaterials},
		{"Materials", "materials", hig.CategoryColorAndMaterials},
		{"Dark Mode", "dark-mode", hig.CategoryColorAndMaterials},
		{"Typography", "typography", hig.CategoryTypography},
		{"SF Symbols", "sf-symbols", hig.CategoryIconsAndImages},
		{"App Icons", "app-icons", hig.CategoryIconsAndImages},
		{"Motion", "motion", hig.CategoryMotion},
		{"Haptics", "playing-haptics", hig.CategoryMotion},
		{"Widgets", "widgets", hig.CategorySystemCapabilities},
		{"Live Activities", "live-activities", hig.CategorySystemCapabilities},
		{"Notifications", "managing-notifications", hig.CategorySystemCapabilities},
		{"App Shortcuts", "app-shortcuts", hig.CategoryTechnologies},
		{"Siri", "siri", hig.CategoryTechnologies},
	}

	pages := make([]PageRef, len(refs))
	for i, r := range refs {
		pages[i] = PageRef{
			Title:    r.title,
			URL:      higBase + r.slug,
			Platform: hig.PlatformUniversal,
			Category: r.category,
		}
	}
	return pages
}
