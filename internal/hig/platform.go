package hig

import (
	"fmt"
	"strings"
)

// Platform identifies the Apple platform a section documents.
type Platform string

const (
	PlatformIOS       Platform = "iOS"
	PlatformMacOS     Platform = "macOS"
	PlatformWatchOS   Platform = "watchOS"
	PlatformTVOS      Platform = "tvOS"
	PlatformVisionOS  Platform = "visionOS"
	PlatformUniversal Platform = "universal"
)

// Category identifies the Human Interface Guidelines topic area.
type Category string

const (
	CategoryFoundations        Category = "foundations"
	CategoryLayout             Category = "layout"
	CategoryNavigation         Category = "navigation"
	CategoryPresentation       Category = "presentation"
	CategorySelectionAndInput  Category = "selection-and-input"
	CategoryStatus             Category = "status"
	CategorySystemCapabilities Category = "system-capabilities"
	CategoryVisualDesign       Category = "visual-design"
	CategoryIconsAndImages     Category = "icons-and-images"
	CategoryColorAndMaterials  Category = "color-and-materials"
	CategoryTypography         Category = "typography"
	CategoryMotion             Category = "motion"
	CategoryTechnologies       Category = "technologies"
)

// Platforms returns every valid platform value, universal last.
func Platforms() []Platform {
	return []Platform{
		PlatformIOS,
		PlatformMacOS,
		PlatformWatchOS,
		PlatformTVOS,
		PlatformVisionOS,
		PlatformUniversal,
	}
}

// Categories returns every valid category value.
func Categories() []Category {
	return []Category{
		CategoryFoundations,
		CategoryLayout,
		CategoryNavigation,
		CategoryPresentation,
		CategorySelectionAndInput,
		CategoryStatus,
		CategorySystemCapabilities,
		CategoryVisualDesign,
		CategoryIconsAndImages,
		CategoryColorAndMaterials,
		CategoryTypography,
		CategoryMotion,
		CategoryTechnologies,
	}
}

// Valid reports whether p is a member of the platform enumeration.
func (p Platform) Valid() bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

// Valid reports whether c is a member of the category enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParsePlatform resolves a platform name case-insensitively.
// Returns an error naming the invalid value so callers can surface it as-is.
func ParsePlatform(s string) (Platform, error) {
	for _, known := range Platforms() {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not a supported platform (expected one of %s)",
		ErrInvalidPlatform, s, joinPlatforms())
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
	for _, known := range Categories() {
		if strings.EqualFold(normalized, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not a supported category", ErrInvalidCategory, s)
}

func joinPlatforms() string {
	names := make([]string, len(Platforms()))
	for i, p := range Platforms() {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
