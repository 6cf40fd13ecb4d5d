// Package cascade implements the tiered constraint-relaxation search: an
// ordered ladder of progressively weaker filter sets, terminal on the first
// tier whose validity-filtered candidate count clears its threshold.
package cascade

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/domain/constraint"
	"github.com/mattsmit4/hardfind/internal/domain/relax"
	"github.com/mattsmit4/hardfind/internal/domain/searchres"
)

// Length-sanity bounds relative to the requested length. A 0.3ft pigtail is
// never a useful answer to a 6ft request, whatever the connectors say.
const (
	minLengthRatio = 0.25
	maxLengthRatio = 4.0
)

// Config tunes the engine. Zero values fall back to defaults; the tier
// minimums are deliberately configuration, not constants.
type Config struct {
	Tier1MinResults int
	Tier2MinResults int
	MaxResults      int
	CandidateLimit  int
	DisableDedupe   bool
}

func (c Config) withDefaults() Config {
	if c.Tier1MinResults <= 0 {
		c.Tier1MinResults = 1
	}
	if c.Tier2MinResults <= 0 {
		c.Tier2MinResults = 1
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 5
	}
	if c.CandidateLimit <= 0 {
		c.CandidateLimit = 50
	}
	return c
}

// Service drives the cascade. Stateless across queries; safe for concurrent
// use as long as the retriever is.
type Service struct {
	retriever Retriever
	metrics   Metrics
	logger    *zap.Logger
	cfg       Config
}

// NewService creates the cascade engine. metrics may be nil.
func NewService(retriever Retriever, metrics Metrics, logger *zap.Logger, cfg Config) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		retriever: retriever,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg.withDefaults(),
	}
}

type attempt struct {
	tier relax.Tier
	fs   relax.FilterSet
	min  int
	// skipIfRepeat skips the tier when its derived set equals the
	// previous tier's set and would only repeat the same query.
	skipIfRepeat bool
	// terminal tiers accept any candidate count, including zero.
	terminal bool
}

// Search runs the cascade for one constraint set and always returns an
// envelope: the last tier never fails, it merely may hold zero items.
func (s *Service) Search(ctx context.Context, c *constraint.Set) (*searchres.Envelope, error) {
	if c == nil {
		return nil, domain.ErrInvalidFilters
	}

	t1 := buildTier1(c)

	attempts := make([]attempt, 0, 5)
	attempts = append(attempts,
		attempt{tier: relax.TierExact, fs: t1, min: s.cfg.Tier1MinResults},
		attempt{tier: relax.TierCore, fs: buildTier2(c), min: s.cfg.Tier2MinResults, skipIfRepeat: true},
	)
	if fs, ok := buildTier25(c); ok {
		attempts = append(attempts,
			attempt{tier: relax.TierCategorySwap, fs: fs, min: s.cfg.Tier2MinResults, skipIfRepeat: true})
	}
	if fs, ok := buildTier3(c); ok {
		attempts = append(attempts,
			attempt{tier: relax.TierConnector, fs: fs, min: s.cfg.Tier2MinResults})
	}
	attempts = append(attempts, attempt{tier: relax.TierFallback, fs: buildTier4(c), terminal: true})

	var prev *relax.FilterSet
	for i := range attempts {
		a := &attempts[i]
		repeat := a.skipIfRepeat && prev != nil && a.fs.Equal(prev)
		prev = &a.fs
		if repeat {
			continue
		}

		items := s.retrieve(ctx, a.tier, &a.fs)
		valid := filterValid(items, a.fs.Category)
		if !a.terminal && len(valid) < a.min {
			s.logger.Debug("tier below threshold",
				zap.String("tier", string(a.tier)),
				zap.Int("raw", len(items)),
				zap.Int("valid", len(valid)),
				zap.Int("min", a.min))
			continue
		}
		return s.assemble(c, a.tier, a.fs, t1, valid)
	}

	// Unreachable: the fallback tier is terminal.
	return s.assemble(c, relax.TierFallback, buildTier4(c), t1, nil)
}

// retrieve issues one tier's backend call. Failures are not retried; the
// tier is treated as empty so the cascade keeps descending.
func (s *Service) retrieve(ctx context.Context, tier relax.Tier, fs *relax.FilterSet) []domain.Item {
	items, err := s.retriever.Retrieve(ctx, *fs, fs.Probe(), s.cfg.CandidateLimit)
	if err != nil {
		s.logger.Warn("candidate backend failed, treating tier as empty",
			zap.String("tier", string(tier)),
			zap.Error(err))
		s.metrics.ObserveBackendFailure(string(tier))
		return nil
	}
	return items
}

// assemble runs the accepted tier's pipeline: de-dup, rank, diversify,
// length-sanity guard, required-port and monitor post-filters, truncation,
// and the dropped-constraint diff against the strictest set.
func (s *Service) assemble(
	c *constraint.Set,
	tier relax.Tier,
	used, t1 relax.FilterSet,
	valid []domain.Item,
) (*searchres.Envelope, error) {
	candidateCount := len(valid)

	items := valid
	if !s.cfg.DisableDedupe {
		items = dedupe(items)
	}
	items = rank(items, c)
	if shouldDiversify(c) {
		items = diversify(items, c)
	}
	items = lengthSanityGuard(items, c)
	items = applyPostFilters(items, c)
	if len(items) > s.cfg.MaxResults {
		items = items[:s.cfg.MaxResults]
	}

	var dropped []relax.DroppedConstraint
	if tier != relax.TierExact {
		dropped = identifyDropped(c, t1, used, availableLengths(valid))
	}
	for _, d := range dropped {
		s.metrics.ObserveDroppedFacet(d.Facet)
	}
	s.metrics.ObserveSearch(string(tier), tier.Relaxed() || len(dropped) > 0)

	s.logger.Info("search accepted",
		zap.String("tier", string(tier)),
		zap.Int("candidates", candidateCount),
		zap.Int("returned", len(items)),
		zap.Int("dropped_facets", len(dropped)),
		zap.Bool("category_swapped", used.CategorySwapped))

	out := make([]searchres.Ranked, len(items))
	for i := range items {
		score := int(math.Round(relevance(&items[i], c)))
		out[i] = searchres.Ranked{
			Item:      items[i],
			Relevance: score,
			Quality:   searchres.QualityFor(score),
		}
	}
	return searchres.New(out, tier, used, t1, dropped, used.CategorySwapped, candidateCount)
}

// lengthSanityGuard drops items whose length falls outside the acceptable
// ratio band around the requested length. Items without a length pass
// through; an all-dropped outcome recovers the pre-guard set rather than
// fabricating "no results" from a secondary rule.
func lengthSanityGuard(items []domain.Item, c *constraint.Set) []domain.Item {
	l := c.Length()
	if l == nil || len(items) == 0 {
		return items
	}
	requestedM := l.Meters()

	kept := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if !it.HasLength() {
			kept = append(kept, it)
			continue
		}
		ratio := it.LengthM / requestedM
		if ratio >= minLengthRatio && ratio <= maxLengthRatio {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return items
	}
	return kept
}

// applyPostFilters enforces required port types and minimum monitor count
// on the final set, keeping the unfiltered set whenever a filter would empty
// it.
func applyPostFilters(items []domain.Item, c *constraint.Set) []domain.Item {
	if required := c.PortTypes(); len(required) > 0 {
		if filtered := filterByPortTypes(items, required); len(filtered) > 0 {
			items = filtered
		}
	}
	if minMonitors := c.MinMonitors(); minMonitors > 0 {
		if filtered := filterByMinMonitors(items, minMonitors); len(filtered) > 0 {
			items = filtered
		}
	}
	return items
}

// availableLengths collects the distinct lengths, in meters, present in the
// accepted tier's candidate pool.
func availableLengths(items []domain.Item) []float64 {
	seen := make(map[float64]bool, len(items))
	var out []float64
	for _, it := range items {
		if !it.HasLength() || seen[it.LengthM] {
			continue
		}
		seen[it.LengthM] = true
		out = append(out, it.LengthM)
	}
	return out
}

type nopMetrics struct{}

func (nopMetrics) ObserveSearch(string, bool)   {}
func (nopMetrics) ObserveBackendFailure(string) {}
func (nopMetrics) ObserveDroppedFacet(string)   {}
