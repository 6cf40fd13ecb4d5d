package item

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mattsmit4/hardfind/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	getFn          func(ctx context.Context, sku string) (*domain.Item, error)
	findByPrefixFn func(ctx context.Context, prefix string, limit int) ([]domain.Item, error)
}

func (m *mockRepo) Get(ctx context.Context, sku string) (*domain.Item, error) {
	return m.getFn(ctx, sku)
}

func (m *mockRepo) FindByPrefix(ctx context.Context, prefix string, limit int) ([]domain.Item, error) {
	return m.findByPrefixFn(ctx, prefix, limit)
}

// --- Tests ---

func TestLookup_ExactHit(t *testing.T) {
	repo := &mockRepo{
		getFn: func(_ context.Context, sku string) (*domain.Item, error) {
			if sku != "HDMM2M" {
				t.Errorf("sku = %q, want normalized HDMM2M", sku)
			}
			return &domain.Item{SKU: "HDMM2M"}, nil
		},
	}
	svc := NewService(repo, nil)

	it, err := svc.Lookup(context.Background(), "  hdmm2m ")
	if err != nil {
		t.Fatal(err)
	}
	if it.SKU != "HDMM2M" {
		t.Errorf("sku = %q", it.SKU)
	}
}

func TestLookup_EmptySKU(t *testing.T) {
	svc := NewService(&mockRepo{}, nil)
	if _, err := svc.Lookup(context.Background(), "   "); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestLookup_SinglePrefixMatchResolves(t *testing.T) {
	repo := &mockRepo{
		getFn: func(_ context.Context, _ string) (*domain.Item, error) {
			return nil, domain.ErrItemNotFound
		},
		findByPrefixFn: func(_ context.Context, prefix string, limit int) ([]domain.Item, error) {
			if prefix != "HDMM2" {
				t.Errorf("prefix = %q", prefix)
			}
			if limit != maxSuggestions+1 {
				t.Errorf("limit = %d, want %d", limit, maxSuggestions+1)
			}
			return []domain.Item{{SKU: "HDMM2MP"}}, nil
		},
	}
	svc := NewService(repo, nil)

	it, err := svc.Lookup(context.Background(), "HDMM2")
	if err != nil {
		t.Fatal(err)
	}
	if it.SKU != "HDMM2MP" {
		t.Errorf("sku = %q, want the single prefix match", it.SKU)
	}
}

func TestLookup_AmbiguousPrefix(t *testing.T) {
	matches := make([]domain.Item, maxSuggestions+1)
	for i := range matches {
		matches[i] = domain.Item{SKU: fmt.Sprintf("HDMM%d", i)}
	}
	repo := &mockRepo{
		getFn: func(_ context.Context, _ string) (*domain.Item, error) {
			return nil, domain.ErrItemNotFound
		},
		findByPrefixFn: func(_ context.Context, _ string, _ int) ([]domain.Item, error) {
			return matches, nil
		},
	}
	svc := NewService(repo, nil)

	_, err := svc.Lookup(context.Background(), "HDMM")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("err = %v, want to unwrap to ErrItemNotFound", err)
	}

	var ambiguous *domain.AmbiguousSKUError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("err = %T, want AmbiguousSKUError", err)
	}
	if ambiguous.SKU != "HDMM" {
		t.Errorf("sku = %q", ambiguous.SKU)
	}
	if len(ambiguous.Suggestions) != maxSuggestions {
		t.Errorf("suggestions = %d, want cap of %d", len(ambiguous.Suggestions), maxSuggestions)
	}
}

func TestLookup_NoPrefixMatches(t *testing.T) {
	repo := &mockRepo{
		getFn: func(_ context.Context, _ string) (*domain.Item, error) {
			return nil, domain.ErrItemNotFound
		},
		findByPrefixFn: func(_ context.Context, _ string, _ int) ([]domain.Item, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, nil)

	if _, err := svc.Lookup(context.Background(), "ZZZZ"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestLookup_BackendErrorSurfaces(t *testing.T) {
	backendErr := errors.New("connection refused")
	repo := &mockRepo{
		getFn: func(_ context.Context, _ string) (*domain.Item, error) {
			return nil, backendErr
		},
	}
	svc := NewService(repo, nil)

	if _, err := svc.Lookup(context.Background(), "HDMM2M"); !errors.Is(err, backendErr) {
		t.Errorf("err = %v, want the backend error untouched", err)
	}
}
