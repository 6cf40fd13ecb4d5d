package cascade

import (
	"math"
	"sort"
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/domain/constraint"
)

// Relevance weights, summing to 100 when every term hits full.
const (
	lengthWeight    = 40.0
	featureWeight   = 25.0
	connectorWeight = 15.0
	attributeWeight = 10.0
	boostWeight     = 10.0
)

// exactLengthEpsilon absorbs unit-conversion jitter when deciding an "exact"
// length match, in the requested unit.
const exactLengthEpsilon = 0.05

// resolutionFeatures are the feature tokens that must go through the unified
// capability check instead of literal matching.
var resolutionFeatures = map[string]bool{
	"4k": true, "8k": true, "1080p": true, "1440p": true,
}

// ranked pairs an item with its computed relevance and the keys that break
// relevance ties.
type ranked struct {
	item      domain.Item
	relevance float64
	prefGroup int
	prefDist  float64
	arrival   int
}

// rank orders items by relevance descending. Ties break by the length
// preference key (preferred direction first, then distance), then raw backend
// score, then arrival order, so re-ranking an unchanged list is a no-op.
func rank(items []domain.Item, c *constraint.Set) []domain.Item {
	rs := make([]ranked, len(items))
	for i, it := range items {
		group, dist := lengthPreferenceKey(&it, c)
		rs[i] = ranked{
			item:      it,
			relevance: relevance(&it, c),
			prefGroup: group,
			prefDist:  dist,
			arrival:   i,
		}
	}

	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].relevance != rs[j].relevance {
			return rs[i].relevance > rs[j].relevance
		}
		if rs[i].prefGroup != rs[j].prefGroup {
			return rs[i].prefGroup < rs[j].prefGroup
		}
		if rs[i].prefDist != rs[j].prefDist {
			return rs[i].prefDist < rs[j].prefDist
		}
		if rs[i].item.Score != rs[j].item.Score {
			return rs[i].item.Score > rs[j].item.Score
		}
		return rs[i].arrival < rs[j].arrival
	})

	out := make([]domain.Item, len(rs))
	for i, r := range rs {
		out[i] = r.item
	}
	return out
}

// relevance computes the 0-100 score used for ranking and for the
// presentation-layer quality bands.
func relevance(it *domain.Item, c *constraint.Set) float64 {
	score := lengthProximity(it, c) +
		featureMatch(it, c) +
		connectorMatch(it, c) +
		attributeMatch(it, c) +
		categoryBoost(it, c)
	return math.Max(0, math.Min(100, score))
}

// lengthProximity grades the absolute length difference in the requested
// unit: full weight at zero, decaying through buckets at 0.5, 1, and 3
// units, zero beyond.
func lengthProximity(it *domain.Item, c *constraint.Set) float64 {
	l := c.Length()
	if l == nil || !it.HasLength() {
		return 0
	}
	diff := math.Abs(l.DiffFromMeters(it.LengthM))
	switch {
	case diff <= exactLengthEpsilon:
		return lengthWeight
	case diff <= 0.5:
		return lengthWeight * 0.75
	case diff <= 1:
		return lengthWeight * 0.5
	case diff <= 3:
		return lengthWeight * 0.25
	default:
		return 0
	}
}

// featureMatch returns the fraction of requested features the item carries,
// scaled to the feature weight. Resolution features route through the shared
// capability check; everything else matches case-insensitively against the
// feature list.
func featureMatch(it *domain.Item, c *constraint.Set) float64 {
	requested := c.Features()
	if len(requested) == 0 {
		return 0
	}

	matched := 0
	for _, f := range requested {
		if resolutionFeatures[f] {
			if it.SupportsResolution(f) {
				matched++
			}
			continue
		}
		for _, have := range it.Features {
			if strings.EqualFold(have, f) {
				matched++
				break
			}
		}
	}
	return featureWeight * float64(matched) / float64(len(requested))
}

// connectorMatch rewards a requested connector token appearing on either
// endpoint, full weight when both sides match.
func connectorMatch(it *domain.Item, c *constraint.Set) float64 {
	if !c.HasConnector() {
		return 0
	}
	matched, requested := 0, 0
	for _, want := range []string{c.ConnectorFrom(), c.ConnectorTo()} {
		if want == "" {
			continue
		}
		requested++
		if connectorMentions(it, want) {
			matched++
		}
	}
	if requested == 0 || matched == 0 {
		return 0
	}
	if matched == requested {
		return connectorWeight
	}
	return connectorWeight / 2
}

func connectorMentions(it *domain.Item, token string) bool {
	token = strings.ToLower(token)
	return strings.Contains(strings.ToLower(it.ConnectorFrom), token) ||
		strings.Contains(strings.ToLower(it.ConnectorTo), token) ||
		strings.Contains(strings.ToLower(it.Name), token)
}

// attributeMatch rewards literal attribute tokens, currently color, found in
// the item name or color field.
func attributeMatch(it *domain.Item, c *constraint.Set) float64 {
	color := c.Color()
	if color == "" {
		return 0
	}
	if strings.EqualFold(it.Color, color) || strings.Contains(strings.ToLower(it.Name), color) {
		return attributeWeight
	}
	return 0
}

// categoryBoost separates primary products from accessories within a
// category: actual racks over cage nuts, PCI cards over tools, hubs with a
// known port count over everything that merely mentions ports.
func categoryBoost(it *domain.Item, c *constraint.Set) float64 {
	category := c.Category()
	sub := strings.ToLower(it.SubCategory)

	switch category {
	case "server racks", "racks":
		uHeight := strings.ToLower(it.Extra["UHEIGHT"])
		rackType := strings.ToLower(it.Extra["RACKTYPE"])
		hasU := uHeight != "" && uHeight != "nan"
		hasType := rackType != "" && rackType != "nan"
		switch {
		case hasU && hasType:
			return boostWeight
		case hasU:
			return boostWeight * 0.5
		case strings.Contains(sub, "accessories") || strings.Contains(sub, "shelves"):
			return 0
		default:
			return boostWeight * 0.3
		}

	case "computer cards", "cards":
		if strings.Contains(strings.ToLower(it.BusType), "pci") {
			return boostWeight
		}
		if strings.Contains(sub, "accessories") || strings.Contains(sub, "tools") {
			return 0
		}
		return boostWeight * 0.3

	case "storage enclosures", "enclosures":
		drive := strings.ToLower(it.Extra["DRIVESIZE"])
		if drive != "" && drive != "nan" {
			return boostWeight
		}
		return boostWeight * 0.3

	case "hubs", "hub", "switches", "switch", "kvm switches":
		// A hub record with no port count at all is almost always an
		// accessory filed under the hub category.
		if it.Ports == 0 {
			return -30
		}
		if c.PortCount() > 0 && it.Ports == c.PortCount() {
			return boostWeight
		}
		return 0
	}

	if categoryImpliesCable(category) && c.Length() != nil && it.HasLength() {
		// A palm-sized pigtail is not what someone asking for a cable wants.
		if c.Length().Unit().FromMeters(it.LengthM) < 1 {
			return -10
		}
	}
	return 0
}

// lengthPreferenceKey produces the tie-break key for the requested length
// preference: group 0 is the preferred direction, group 1 the other side,
// group 2 items without a length.
func lengthPreferenceKey(it *domain.Item, c *constraint.Set) (int, float64) {
	l := c.Length()
	if l == nil {
		return 0, 0
	}
	if !it.HasLength() {
		return 2, math.Inf(1)
	}

	diff := l.DiffFromMeters(it.LengthM)
	dist := math.Abs(diff)

	switch l.Preference() {
	case constraint.ExactOrShorter:
		if diff <= exactLengthEpsilon {
			return 0, dist
		}
		return 1, dist
	case constraint.Closest:
		return 0, dist
	default: // ExactOrLonger
		if diff >= -exactLengthEpsilon {
			return 0, dist
		}
		return 1, dist
	}
}
