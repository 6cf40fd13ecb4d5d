package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mattsmit4/hardfind/internal/db"
	"github.com/mattsmit4/hardfind/internal/domain"
	"github.com/mattsmit4/hardfind/internal/domain/relax"
	"github.com/mattsmit4/hardfind/internal/domain/search/filter"
)

// store is the consumer interface for catalog operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Config tunes catalog retrieval behavior.
type Config struct {
	// KeyPrefix namespaces every catalog key ("hardfind:" by default).
	KeyPrefix string
	// MinScoreFiltered is the similarity floor for vector hits when the
	// query carries structured filters.
	MinScoreFiltered float64
	// MinScoreUnfiltered is the similarity floor for unconstrained vector
	// queries, where low-similarity noise dominates.
	MinScoreUnfiltered float64
}

func (c Config) withDefaults() Config {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "hardfind:"
	}
	if c.MinScoreFiltered == 0 {
		c.MinScoreFiltered = 0.2
	}
	if c.MinScoreUnfiltered == 0 {
		c.MinScoreUnfiltered = 0.5
	}
	return c
}

// Repo implements cascade.Retriever and item.Repo over a single FT index
// of catalog hashes. When an embedder is present retrieval is KNN over the
// probe embedding; otherwise (or when embedding fails) it degrades to BM25
// keyword search.
type Repo struct {
	store    store
	embedder domain.Embedder
	cfg      Config
}

// New creates a catalog repository. embedder may be nil for keyword-only mode.
func New(s store, embedder domain.Embedder, cfg Config) *Repo {
	return &Repo{store: s, embedder: embedder, cfg: cfg.withDefaults()}
}

// Retrieve returns candidate items matching the structured filters, using the
// probe text for semantic recall.
func (r *Repo) Retrieve(ctx context.Context, filters relax.FilterSet, probe string, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 50
	}

	expr, err := buildExpression(filters)
	if err != nil {
		return nil, fmt.Errorf("build filters: %w", err)
	}

	if r.embedder != nil {
		items, err := r.retrieveKNN(ctx, expr, probe, limit)
		if err == nil {
			return items, nil
		}
		if !r.store.SupportsTextSearch(ctx) {
			return nil, err
		}
		// Embedding provider down; keyword recall is better than nothing.
	}

	return r.retrieveBM25(ctx, expr, probe, limit)
}

func (r *Repo) retrieveKNN(ctx context.Context, expr filter.Expression, probe string, limit int) ([]domain.Item, error) {
	emb, err := r.embedder.Embed(ctx, probe)
	if err != nil {
		return nil, fmt.Errorf("embed probe: %w: %w", domain.ErrEmbeddingProviderError, err)
	}

	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Filters:      expr,
		Vector:       emb.Embedding,
		K:            limit,
		ReturnFields: []string{"sku"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	floor := r.cfg.MinScoreUnfiltered
	if !expr.IsEmpty() {
		floor = r.cfg.MinScoreFiltered
	}

	keys := make([]string, 0, len(sr.Entries))
	scores := make(map[string]float64, len(sr.Entries))
	for _, entry := range sr.Entries {
		if entry.Score < floor {
			continue
		}
		keys = append(keys, entry.Key)
		scores[entry.Key] = entry.Score
	}

	return r.hydrate(ctx, keys, scores)
}

func (r *Repo) retrieveBM25(ctx context.Context, expr filter.Expression, probe string, limit int) ([]domain.Item, error) {
	query := strings.TrimSpace(probe)
	if query == "" {
		query = "cable"
	}

	q := &db.TextQuery{
		IndexName:    r.indexName(),
		Query:        query,
		Filters:      expr,
		TopK:         limit,
		ReturnFields: []string{"sku"},
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}

	keys := make([]string, 0, len(sr.Entries))
	scores := make(map[string]float64, len(sr.Entries))
	for _, entry := range sr.Entries {
		keys = append(keys, entry.Key)
		// BM25 scores are unbounded; squash into [0,1) so downstream
		// treats them like similarities.
		scores[entry.Key] = entry.Score / (entry.Score + 1)
	}

	return r.hydrate(ctx, keys, scores)
}

// hydrate fetches full hashes for the given keys, preserving key order.
func (r *Repo) hydrate(ctx context.Context, keys []string, scores map[string]float64) ([]domain.Item, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	fields, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hydrate items: %w", err)
	}

	items := make([]domain.Item, 0, len(fields))
	for i, m := range fields {
		if len(m) == 0 {
			continue
		}
		sku := strings.TrimPrefix(keys[i], r.itemKeyPrefix())
		it := parseItemFields(sku, m)
		it.Score = scores[keys[i]]
		items = append(items, it)
	}

	return items, nil
}

// Get returns a single item by exact SKU.
func (r *Repo) Get(ctx context.Context, sku string) (*domain.Item, error) {
	key := r.itemKey(sku)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return nil, domain.ErrItemNotFound
	}
	it := parseItemFields(sku, m)
	return &it, nil
}

// FindByPrefix returns items whose SKU starts with prefix, sorted by SKU.
func (r *Repo) FindByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		limit = 10
	}

	pattern := r.itemKey(prefix) + "*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}

	return r.hydrate(ctx, keys, nil)
}

// UpsertBatch writes items and their embeddings as hashes in one pipeline.
// vectors may be nil for keyword-only deployments; otherwise it must be
// parallel to items.
func (r *Repo) UpsertBatch(ctx context.Context, items []domain.Item, vectors [][]float32) error {
	if len(items) == 0 {
		return nil
	}
	if vectors != nil && len(vectors) != len(items) {
		return fmt.Errorf("vectors length %d does not match items length %d", len(vectors), len(items))
	}

	batch := make([]db.HashSetItem, 0, len(items))
	for i := range items {
		var vec []float32
		if vectors != nil {
			vec = vectors[i]
		}
		batch = append(batch, db.HashSetItem{
			Key:    r.itemKey(items[i].SKU),
			Fields: buildHashFields(&items[i], vec),
		})
	}

	if err := r.store.HSetMulti(ctx, batch); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// Exists reports whether an item hash is already stored for sku.
func (r *Repo) Exists(ctx context.Context, sku string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.itemKey(sku))
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", sku, err)
	}
	return ok, nil
}

// Purge deletes every stored item hash and returns the number removed.
// Dropping the FT index keeps documents around, so a clean reload needs an
// explicit purge.
func (r *Repo) Purge(ctx context.Context) (int, error) {
	pattern := r.itemKeyPrefix() + "*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", pattern, err)
	}
	for _, key := range keys {
		if err := r.store.Del(ctx, key); err != nil {
			return 0, fmt.Errorf("del %s: %w", key, err)
		}
	}
	return len(keys), nil
}

// Count returns the number of items in the FT index.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (r *Repo) indexName() string {
	return r.cfg.KeyPrefix + "item:idx"
}

func (r *Repo) itemKeyPrefix() string {
	return r.cfg.KeyPrefix + "item:"
}

func (r *Repo) itemKey(sku string) string {
	return r.itemKeyPrefix() + strings.ToUpper(strings.TrimSpace(sku))
}

// buildExpression translates a relaxation tier's facets into must conditions.
// Length never pre-filters: the engine ranks and guards lengths in-memory.
func buildExpression(fs relax.FilterSet) (filter.Expression, error) {
	var musts []filter.Condition

	addMatch := func(key, value string) error {
		if value == "" {
			return nil
		}
		cond, err := filter.NewMatch(key, value)
		if err != nil {
			return err
		}
		musts = append(musts, cond)
		return nil
	}

	if err := addMatch("category", fs.Category); err != nil {
		return filter.Expression{}, err
	}
	if err := addMatch("connector_from", fs.ConnectorFrom); err != nil {
		return filter.Expression{}, err
	}
	if err := addMatch("connector_to", fs.ConnectorTo); err != nil {
		return filter.Expression{}, err
	}
	if err := addMatch("color", fs.Color); err != nil {
		return filter.Expression{}, err
	}
	for _, f := range fs.Features {
		if err := addMatch("features", f); err != nil {
			return filter.Expression{}, err
		}
	}

	if fs.PortCount > 0 {
		n := float64(fs.PortCount)
		rng, err := filter.NewRangeFilter(nil, &n, nil, &n)
		if err != nil {
			return filter.Expression{}, err
		}
		cond, err := filter.NewRange("ports", rng)
		if err != nil {
			return filter.Expression{}, err
		}
		musts = append(musts, cond)
	}

	return filter.NewExpression(musts, nil, nil)
}
