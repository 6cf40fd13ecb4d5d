package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattsmit4/hardfind/internal/db"
)

// HNSWConfig holds vector index tuning parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// buildIndex creates the catalog FT index definition. TAG fields back the
// cascade's structured filters; the content TEXT field backs BM25 keyword
// recall when no embedder is configured.
func (r *Repo) buildIndex(vectorDim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	def, err := db.NewIndex(r.indexName()).
		OnHash().
		Prefix(r.itemKeyPrefix()).
		Tag(fieldCategory).
		Tag(fieldSubCategory).
		Tag(fieldConnectorFrom).
		Tag(fieldConnectorTo).
		Tag(fieldColor).
		TagWithOpts(fieldFeatures, ",", false).
		Numeric(fieldLengthM).
		Numeric(fieldPorts).
		Numeric(fieldDisplays).
		Text(fieldContent).
		VectorHNSW(fieldVector, vectorDim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build index definition: %w", err)
	}
	return def, nil
}

// EnsureIndex creates the catalog index if missing. With recreate, an
// existing index is dropped first (documents are kept; FT.DROPINDEX without
// DD leaves hashes alone).
func (r *Repo) EnsureIndex(ctx context.Context, vectorDim int, hnsw HNSWConfig, recreate bool) error {
	def, err := r.buildIndex(vectorDim, hnsw)
	if err != nil {
		return err
	}

	if recreate {
		if err := r.store.DropIndex(ctx, def.Name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index %s: %w", def.Name, err)
		}
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}
