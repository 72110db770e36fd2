package recommend

import (
	"context"
	"errors"
	"strings"

	"recshelf/internal/catalog"
	"recshelf/internal/enrich"
	"recshelf/pkg/models"
)

// Caller errors. These are the only failures the service surfaces; the
// matching and enrichment paths degrade silently by design.
var (
	ErrInvalidDomain = errors.New("unknown item type")
	ErrEmptyQuery    = errors.New("empty query")
)

// Service answers recommendation requests from the loaded catalogs and
// best-effort enriches anime results with cover images on the way out.
type Service struct {
	catalogs map[string]*catalog.Catalog
	images   *enrich.Cache
}

// NewService wires the read-only catalogs with the shared image cache.
// images may be nil; enrichment is then skipped entirely.
func NewService(catalogs map[string]*catalog.Catalog, images *enrich.Cache) *Service {
	return &Service{catalogs: catalogs, images: images}
}

func (s *Service) catalog(domain string) (*catalog.Catalog, error) {
	c, ok := s.catalogs[domain]
	if !ok || c == nil {
		return nil, ErrInvalidDomain
	}
	return c, nil
}

// Popular returns the top popularity-ranked items for a domain.
func (s *Service) Popular(ctx context.Context, domain string, limit int) ([]models.Item, error) {
	c, err := s.catalog(domain)
	if err != nil {
		return nil, err
	}
	return s.enriched(ctx, domain, Popular(c, limit)), nil
}

// Search is the substring-only quick search over the popular list.
func (s *Service) Search(ctx context.Context, domain, query string, limit int) ([]models.Item, error) {
	c, err := s.catalog(domain)
	if err != nil {
		return nil, err
	}
	return QuickSearch(query, c, limit), nil
}

// Recommend runs the tiered matcher for a caller-supplied query.
func (s *Service) Recommend(ctx context.Context, domain, query string, limit int) ([]models.Item, error) {
	c, err := s.catalog(domain)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	return s.enriched(ctx, domain, Match(query, c, limit)), nil
}

func (s *Service) enriched(ctx context.Context, domain string, items []models.Item) []models.Item {
	if domain == models.TypeAnime && s.images != nil {
		s.images.EnrichMissing(ctx, items)
	}
	return items
}
