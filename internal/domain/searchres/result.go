// Package searchres holds the immutable search result envelope returned by
// the cascade engine.
package searchres

import (
	"errors"

	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/domain/relax"
)

// Ranked is one catalog item with its computed relevance.
type Ranked struct {
	Item domain.Item
	// Relevance is the engine score on a 0-100 scale.
	Relevance int
	// Quality is the human-facing band label for Relevance.
	Quality string
}

// Quality bands. Labels only; never part of the sort order.
const (
	QualityPerfect   = "perfect"
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityFair      = "fair"
)

// QualityFor maps a 0-100 relevance score to its band label.
func QualityFor(score int) string {
	switch {
	case score >= 80:
		return QualityPerfect
	case score >= 60:
		return QualityExcellent
	case score >= 40:
		return QualityGood
	default:
		return QualityFair
	}
}

// Envelope is the full outcome of one cascading search: the ranked items,
// which tier produced them, the filter set that tier actually applied, and
// every constraint given up relative to the original request.
type Envelope struct {
	items           []Ranked
	tier            relax.Tier
	used            relax.FilterSet
	original        relax.FilterSet
	dropped         []relax.DroppedConstraint
	categorySwapped bool
	candidateCount  int
}

// New validates and creates a result envelope. original is the strictest
// (first-tier) filter set, kept for comparison; candidateCount is the size of
// the accepted tier's validity-filtered candidate pool before ranking and
// truncation.
func New(
	items []Ranked,
	tier relax.Tier,
	used, original relax.FilterSet,
	dropped []relax.DroppedConstraint,
	categorySwapped bool,
	candidateCount int,
) (*Envelope, error) {
	if tier == "" {
		return nil, errors.New("tier is required")
	}
	if candidateCount < len(items) {
		candidateCount = len(items)
	}
	return &Envelope{
		items:           append([]Ranked(nil), items...),
		tier:            tier,
		used:            used,
		original:        original,
		dropped:         append([]relax.DroppedConstraint(nil), dropped...),
		categorySwapped: categorySwapped,
		candidateCount:  candidateCount,
	}, nil
}

// Items returns a copy of the ranked items in presentation order.
func (e *Envelope) Items() []Ranked { return append([]Ranked(nil), e.items...) }

// Tier returns the relaxation tier that produced the result.
func (e *Envelope) Tier() relax.Tier { return e.tier }

// FiltersUsed returns the filter set the accepted tier applied.
func (e *Envelope) FiltersUsed() relax.FilterSet { return e.used }

// OriginalFilters returns the strictest (first-tier) filter set.
func (e *Envelope) OriginalFilters() relax.FilterSet { return e.original }

// Dropped returns a copy of the constraints the accepted tier gave up.
func (e *Envelope) Dropped() []relax.DroppedConstraint {
	return append([]relax.DroppedConstraint(nil), e.dropped...)
}

// CategorySwapped reports whether the accepted tier exchanged the cable and
// adapter categories.
func (e *Envelope) CategorySwapped() bool { return e.categorySwapped }

// CandidateCount returns the accepted tier's validity-filtered pool size.
func (e *Envelope) CandidateCount() int { return e.candidateCount }

// Relaxed reports whether any constraint was given up.
func (e *Envelope) Relaxed() bool { return len(e.dropped) > 0 || e.tier.Relaxed() }
