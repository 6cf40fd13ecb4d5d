// Package item implements direct SKU lookup with prefix fallback: an exact
// miss retries as a prefix search, resolving to the single match or to
// suggestions the caller can offer back.
package item

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mattsmit4/hardfind/internal/domain"
)

// maxSuggestions caps how many close SKUs an ambiguous lookup reports.
const maxSuggestions = 5

// Service resolves SKU lookups.
type Service struct {
	repo   Repo
	logger *zap.Logger
}

// NewService creates the lookup service. logger may be nil.
func NewService(repo Repo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Lookup finds the item for a SKU. An exact miss falls back to a prefix
// search: a single prefix match resolves to that item, several produce a
// domain.AmbiguousSKUError carrying suggestions, none keeps the original
// domain.ErrItemNotFound.
func (s *Service) Lookup(ctx context.Context, sku string) (*domain.Item, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, domain.ErrItemNotFound
	}

	it, err := s.repo.Get(ctx, sku)
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, domain.ErrItemNotFound) {
		return nil, err
	}

	matches, err := s.repo.FindByPrefix(ctx, sku, maxSuggestions+1)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, domain.ErrItemNotFound
	case 1:
		s.logger.Debug("sku resolved via prefix",
			zap.String("requested", sku),
			zap.String("resolved", matches[0].SKU))
		return &matches[0], nil
	default:
		suggestions := make([]string, 0, maxSuggestions)
		for _, m := range matches {
			if len(suggestions) == maxSuggestions {
				break
			}
			suggestions = append(suggestions, m.SKU)
		}
		return nil, domain.NewAmbiguousSKU(sku, suggestions)
	}
}
