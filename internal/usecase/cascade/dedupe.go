package cascade

import (
	"regexp"
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain"
)

// marketplaceSuffixes are per-channel variant suffixes that denote the same
// physical product.
var marketplaceSuffixes = []string{"-VAMZ"}

// colorVariantRe collapses a trailing single-letter color code (MBNL black,
// MWNL white) to a wildcard so color variants dedupe together.
var colorVariantRe = regexp.MustCompile(`M[BW]NL$`)

// baseSKU normalizes a SKU for de-duplication:
//
//	CDP2HD2MBNL-VAMZ -> CDP2HD2MxNL
//	CDP2HD2MWNL      -> CDP2HD2MxNL
func baseSKU(sku string) string {
	result := sku
	for _, suffix := range marketplaceSuffixes {
		result = strings.TrimSuffix(result, suffix)
	}
	return colorVariantRe.ReplaceAllString(result, "MxNL")
}

// dedupe keeps the first arrival of each normalized SKU. Idempotent.
func dedupe(items []domain.Item) []domain.Item {
	seen := make(map[string]bool, len(items))
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		base := baseSKU(it.SKU)
		if seen[base] {
			continue
		}
		seen[base] = true
		out = append(out, it)
	}
	return out
}
