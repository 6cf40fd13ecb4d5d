package cascade

import (
	"regexp"
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain"
)

// cableCategories are categories defined by carrying a physical length.
// Items in them without a length attribute are couplers or gender changers
// miscategorized in the source data.
var cableCategories = map[string]bool{
	"cables":                 true,
	"cable":                  true,
	"hdmi cables":            true,
	"displayport cables":     true,
	"usb cables":             true,
	"digital display cables": true,
}

// SKU prefixes that mark non-cable accessories. Deliberately conservative:
// HD2-prefixed SKUs, for example, are mostly legitimate cables.
var couplerSKUPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^GC`), // gender changer, e.g. GCHDMIFF
}

var couplerNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcoupler\b`),
	regexp.MustCompile(`(?i)\bgender\s*changer\b`),
	regexp.MustCompile(`(?i)\bextender\b`),
	regexp.MustCompile(`(?i)\bjoiner\b`),
	regexp.MustCompile(`(?i)\bf/f\b`),
	regexp.MustCompile(`(?i)\bfemale.*female\b`),
}

// filterValid rejects structurally mismatched items for the category in
// effect. Cable-like categories exclude anything lacking a length or matching
// a known accessory pattern; every other category passes through unfiltered.
func filterValid(items []domain.Item, category string) []domain.Item {
	if !cableCategories[strings.ToLower(category)] {
		return items
	}

	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if isActualCable(&it) {
			out = append(out, it)
		}
	}
	return out
}

// isActualCable reports whether the item is a real cable rather than a
// coupler or gender changer.
func isActualCable(it *domain.Item) bool {
	if !it.HasLength() && it.LengthDisplay == "" {
		return false
	}

	sku := strings.ToUpper(it.SKU)
	for _, p := range couplerSKUPatterns {
		if p.MatchString(sku) {
			return false
		}
	}

	name := strings.ToLower(it.Name)
	for _, p := range couplerNamePatterns {
		if p.MatchString(name) {
			return false
		}
	}
	return true
}
