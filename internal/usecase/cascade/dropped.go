package cascade

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mattsmit4/hardfind/internal/domain/constraint"
	"github.com/mattsmit4/hardfind/internal/domain/relax"
)

// maxLengthAlternatives caps how many nearby lengths a dropped length
// constraint advertises.
const maxLengthAlternatives = 6

// quasiExactTolerance is the distance, in the requested unit, below which an
// available length satisfies the request without flagging a relaxation.
func quasiExactTolerance(requested float64) float64 {
	return math.Max(0.15*requested, 1.0)
}

// identifyDropped diffs the accepted tier's filter set against the strictest
// one and records every facet given up. availableMeters are the lengths, in
// meters, present in the accepted tier's validity-filtered candidates; a
// dropped length within the quasi-exact tolerance of one of them produces no
// record at all.
func identifyDropped(
	c *constraint.Set,
	t1, used relax.FilterSet,
	availableMeters []float64,
) []relax.DroppedConstraint {
	var dropped []relax.DroppedConstraint

	if t1.Length != nil && used.Length == nil {
		if d := droppedLength(t1.Length, availableMeters); d != nil {
			dropped = append(dropped, *d)
		}
	}

	if len(t1.Features) > 0 && len(used.Features) == 0 {
		dropped = append(dropped, relax.DroppedConstraint{
			Facet:     "features",
			Requested: strings.Join(t1.Features, ", "),
			Reason:    "No products with all requested features",
		})
	}

	if t1.ConnectorFrom != "" && used.ConnectorFrom == "" {
		dropped = append(dropped, relax.DroppedConstraint{
			Facet:     "connector_from",
			Requested: t1.ConnectorFrom,
			Reason:    "Connector type not available",
		})
	}
	if t1.ConnectorTo != "" && used.ConnectorTo == "" && used.ConnectorFrom != t1.ConnectorTo {
		dropped = append(dropped, relax.DroppedConstraint{
			Facet:     "connector_to",
			Requested: t1.ConnectorTo,
			Reason:    "Connector type not available",
		})
	}

	if t1.Color != "" && used.Color == "" {
		dropped = append(dropped, relax.DroppedConstraint{
			Facet:     "color",
			Requested: t1.Color,
			Reason:    fmt.Sprintf("No %s products found", t1.Color),
		})
	}

	return dropped
}

// droppedLength returns the dropped-length record, or nil when an available
// length is close enough to pass as quasi-exact.
func droppedLength(l *constraint.Length, availableMeters []float64) *relax.DroppedConstraint {
	tolerance := quasiExactTolerance(l.Value())
	for _, m := range availableMeters {
		if math.Abs(l.DiffFromMeters(m)) <= tolerance {
			return nil
		}
	}

	requested := l.String()
	return &relax.DroppedConstraint{
		Facet:        "length",
		Requested:    requested,
		Reason:       fmt.Sprintf("No exact %s options available", requested),
		Alternatives: formatLengthAlternatives(l, availableMeters),
	}
}

// formatLengthAlternatives renders the distinct available lengths in the
// requested unit, ascending, capped.
func formatLengthAlternatives(l *constraint.Length, availableMeters []float64) []string {
	if len(availableMeters) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(availableMeters))
	values := make([]float64, 0, len(availableMeters))
	for _, m := range availableMeters {
		v := l.Unit().FromMeters(m)
		// Round to one decimal so 1.83m and 1.8m collapse to the same 6ft.
		v = math.Round(v*10) / 10
		key := fmt.Sprintf("%g", v)
		if seen[key] {
			continue
		}
		seen[key] = true
		values = append(values, v)
	}
	sort.Float64s(values)

	if len(values) > maxLengthAlternatives {
		values = values[:maxLengthAlternatives]
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%g%s", v, l.Unit())
	}
	return out
}
