// Package relax models the constraint-relaxation ladder: the ordered tiers a
// search descends through, the per-tier filter set sent to the backend, and
// the record of what each descent gave up.
package relax

import (
	"sort"
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain/constraint"
)

// Tier identifies one rung of the relaxation ladder.
type Tier string

const (
	// TierExact applies every extracted facet.
	TierExact Tier = "tier1"
	// TierCore drops length and features, keeping connectors and category.
	TierCore Tier = "tier2"
	// TierCategorySwap retries the core facets with cable and adapter
	// categories exchanged.
	TierCategorySwap Tier = "tier2.5"
	// TierConnector keeps only connectors and keywords.
	TierConnector Tier = "tier3"
	// TierFallback is the terminal keyword probe that never fails.
	TierFallback Tier = "tier4"
)

// Relaxed reports whether the tier sits below the exact match.
func (t Tier) Relaxed() bool { return t != TierExact }

// FilterSet is the concrete facet subset one tier sends to the backend.
// The zero value means "no structured filters at all".
type FilterSet struct {
	Category        string
	CategorySwapped bool
	ConnectorFrom   string
	ConnectorTo     string
	Length          *constraint.Length
	Features        []string
	PortCount       int
	Color           string
	Keywords        []string
}

// Facets returns the sorted names of the facets this set constrains.
// Keywords are free-text residue, not a hard facet, and are excluded.
func (fs *FilterSet) Facets() []string {
	var out []string
	if fs.Category != "" {
		out = append(out, "category")
	}
	if fs.Color != "" {
		out = append(out, "color")
	}
	if fs.ConnectorFrom != "" {
		out = append(out, "connector_from")
	}
	if fs.ConnectorTo != "" {
		out = append(out, "connector_to")
	}
	if len(fs.Features) > 0 {
		out = append(out, "features")
	}
	if fs.Length != nil {
		out = append(out, "length")
	}
	if fs.PortCount > 0 {
		out = append(out, "port_count")
	}
	sort.Strings(out)
	return out
}

// Equal reports whether two filter sets constrain identically. Used to skip
// a tier whose derived set would repeat the previous attempt.
func (fs *FilterSet) Equal(other *FilterSet) bool {
	if fs == nil || other == nil {
		return fs == other
	}
	if fs.Category != other.Category ||
		fs.ConnectorFrom != other.ConnectorFrom ||
		fs.ConnectorTo != other.ConnectorTo ||
		fs.PortCount != other.PortCount ||
		fs.Color != other.Color {
		return false
	}
	if (fs.Length == nil) != (other.Length == nil) {
		return false
	}
	if fs.Length != nil && *fs.Length != *other.Length {
		return false
	}
	return equalList(fs.Features, other.Features) && equalList(fs.Keywords, other.Keywords)
}

// Probe renders the set as free text for the backend's semantic or keyword
// scoring, in rough query order: length, connectors, color, features,
// category, residual keywords.
func (fs *FilterSet) Probe() string {
	var parts []string
	if fs.Length != nil {
		parts = append(parts, fs.Length.String())
	}
	switch {
	case fs.ConnectorFrom != "" && fs.ConnectorTo != "":
		parts = append(parts, fs.ConnectorFrom+" to "+fs.ConnectorTo)
	case fs.ConnectorFrom != "":
		parts = append(parts, fs.ConnectorFrom)
	case fs.ConnectorTo != "":
		parts = append(parts, fs.ConnectorTo)
	}
	if fs.Color != "" {
		parts = append(parts, fs.Color)
	}
	parts = append(parts, fs.Features...)
	if fs.Category != "" {
		parts = append(parts, fs.Category)
	}
	parts = append(parts, fs.Keywords...)
	return strings.Join(parts, " ")
}

func equalList(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DroppedConstraint records one facet the accepted tier no longer enforces,
// with the originally requested value and close alternatives when known.
type DroppedConstraint struct {
	Facet        string   `json:"facet"`
	Requested    string   `json:"requested"`
	Reason       string   `json:"reason"`
	Alternatives []string `json:"alternatives,omitempty"`
}
