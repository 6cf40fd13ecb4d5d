package cascade

import (
	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/domain/constraint"
)

// clearlyShorterMargin is how far under the requested length, in the
// requested unit, an item must be to count as a genuinely shorter option
// rather than rounding noise.
const clearlyShorterMargin = 0.5

// shouldDiversify reports whether length variety is wanted: the customer
// asked for a length and signaled flexibility about it.
func shouldDiversify(c *constraint.Set) bool {
	l := c.Length()
	if l == nil {
		return false
	}
	return l.Preference() == constraint.ExactOrShorter || l.Preference() == constraint.Closest
}

// diversify reorders a ranked list so that distinct lengths surface early:
// best at-or-above item first, then the best clearly-shorter option, then the
// next at-or-above, then everything else in its existing rank order. When
// both buckets are non-empty the first two slots are guaranteed to hold two
// distinct lengths.
func diversify(items []domain.Item, c *constraint.Set) []domain.Item {
	l := c.Length()
	if l == nil || len(items) < 2 {
		return items
	}

	var shorter, atOrAbove []domain.Item
	for _, it := range items {
		if it.HasLength() && l.DiffFromMeters(it.LengthM) < -clearlyShorterMargin {
			shorter = append(shorter, it)
		} else {
			// Items without a length ride along with the at-or-above bucket.
			atOrAbove = append(atOrAbove, it)
		}
	}
	if len(shorter) == 0 || len(atOrAbove) == 0 {
		return items
	}

	out := make([]domain.Item, 0, len(items))
	taken := make(map[string]bool, len(items))
	take := func(it domain.Item) {
		if !taken[it.SKU] {
			taken[it.SKU] = true
			out = append(out, it)
		}
	}

	take(atOrAbove[0])
	take(shorter[0])
	if len(atOrAbove) > 1 {
		take(atOrAbove[1])
	}
	for _, it := range items {
		take(it)
	}
	return out
}
