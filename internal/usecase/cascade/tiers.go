package cascade

import (
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain/constraint"
	"github.com/mattsmit4/hardfind/internal/domain/relax"
)

// DefaultCategory anchors the last-resort tier when the query named no
// category at all.
const DefaultCategory = "cables"

// categorySwaps maps a requested category to its substitutable sibling.
// "HDMI to DisplayPort cable" products are often filed as adapters, and the
// other way round.
var categorySwaps = map[string]string{
	"cables":   "adapters",
	"cable":    "adapters",
	"adapters": "cables",
	"adapter":  "cables",
}

// connectorlessCategories are categories whose products carry no connector
// metadata, so the connector-anchored tier would only match unrelated items.
var connectorlessCategories = map[string]bool{
	"dock":             true,
	"docks":            true,
	"hub":              true,
	"hubs":             true,
	"docking station":  true,
	"docking stations": true,
}

// buildTier1 applies every specified facet.
func buildTier1(c *constraint.Set) relax.FilterSet {
	fs := relax.FilterSet{
		Category:      c.Category(),
		ConnectorFrom: c.ConnectorFrom(),
		ConnectorTo:   c.ConnectorTo(),
		Length:        c.Length(),
		Features:      c.Features(),
		PortCount:     c.PortCount(),
		Color:         c.Color(),
		Keywords:      c.Keywords(),
	}
	return fs
}

// buildTier2 keeps category, connectors, port count, and keywords; drops
// length, features, and color. A destination connector equal to the source is
// collapsed to the source side only.
func buildTier2(c *constraint.Set) relax.FilterSet {
	fs := relax.FilterSet{
		Category:      c.Category(),
		ConnectorFrom: c.ConnectorFrom(),
		PortCount:     c.PortCount(),
		Keywords:      c.Keywords(),
	}
	if c.ConnectorTo() != c.ConnectorFrom() {
		fs.ConnectorTo = c.ConnectorTo()
	}
	return fs
}

// buildTier25 retries the core facets with the cable and adapter categories
// exchanged. The second return is false when the requested category has no
// swappable sibling.
func buildTier25(c *constraint.Set) (relax.FilterSet, bool) {
	swapped, ok := categorySwaps[c.Category()]
	if !ok {
		return relax.FilterSet{}, false
	}
	fs := relax.FilterSet{
		Category:        swapped,
		CategorySwapped: true,
		ConnectorFrom:   c.ConnectorFrom(),
		Keywords:        c.Keywords(),
	}
	if c.ConnectorTo() != c.ConnectorFrom() {
		fs.ConnectorTo = c.ConnectorTo()
	}
	return fs, true
}

// buildTier3 keeps connectors and keywords only. The second return is false
// when the tier is not applicable: connectorless categories (docks, hubs)
// fall straight through to the last resort, as do queries with neither a
// connector nor a keyword.
func buildTier3(c *constraint.Set) (relax.FilterSet, bool) {
	if connectorlessCategories[c.Category()] {
		return relax.FilterSet{}, false
	}
	if !c.HasConnector() && len(c.Keywords()) == 0 {
		return relax.FilterSet{}, false
	}
	fs := relax.FilterSet{
		ConnectorFrom: c.ConnectorFrom(),
		Keywords:      c.Keywords(),
	}
	if c.ConnectorTo() != c.ConnectorFrom() {
		fs.ConnectorTo = c.ConnectorTo()
	}
	return fs, true
}

// buildTier4 is the last resort: category (or the hard default) plus
// keywords. Always applicable, never fails to produce an envelope.
func buildTier4(c *constraint.Set) relax.FilterSet {
	category := c.Category()
	if category == "" {
		category = DefaultCategory
	}
	return relax.FilterSet{
		Category: category,
		Keywords: c.Keywords(),
	}
}

// categoryImpliesCable reports whether a requested category means the
// customer wants an actual run of cable, not a compact adapter.
func categoryImpliesCable(category string) bool {
	return strings.Contains(category, "cable")
}
