package cascade

import (
	"context"

	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/domain/relax"
)

// Retriever is the candidate backend: given one tier's filter set and a
// free-text relevance probe, it returns scored catalog items, most relevant
// first, capped at limit. Must be idempotent for identical input within one
// query and must tolerate concurrent calls.
type Retriever interface {
	Retrieve(ctx context.Context, filters relax.FilterSet, probe string, limit int) ([]domain.Item, error)
}

// Metrics receives engine observations. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveSearch(tier string, relaxed bool)
	ObserveBackendFailure(tier string)
	ObserveDroppedFacet(facet string)
}
