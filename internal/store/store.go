package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"storefront/catalog/internal/catalog"
	"storefront/catalog/internal/domain"
	"storefront/catalog/internal/imageindex"
	"storefront/catalog/internal/normalize"
)

const DefaultTTL = 5 * time.Minute

var ErrMalformedDataset = normalize.ErrMalformedDataset

// ProductStore serves the normalized product collection, reloading it once the TTL has passed.
type ProductStore interface {
	LoadAll(ctx context.Context) ([]domain.Product, error)
	Stats() Stats
}

// Stats describes the last successful load.
type Stats struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loadedAt"`
	Raw      int       `json:"raw"`
	Kept     int       `json:"kept"`
}

type productStore struct {
	source     DatasetSource
	images     *imageindex.Index
	normalizer *normalize.Normalizer
	ttl        time.Duration
	now        func() time.Time

	mu       sync.Mutex
	loadedAt time.Time
	products []domain.Product
	stats    Stats
}

func NewProductStore(
	source DatasetSource,
	images *imageindex.Index,
	normalizer *normalize.Normalizer,
	ttl time.Duration,
	now func() time.Time,
) ProductStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &productStore{
		source:     source,
		images:     images,
		normalizer: normalizer,
		ttl:        ttl,
		now:        now,
	}
}

// LoadAll returns the cached collection. The returned slice is shared and must not be modified.
func (s *productStore) LoadAll(ctx context.Context) ([]domain.Product, error) {
	now := s.now()

	s.mu.Lock()
	if s.products != nil && now.Sub(s.loadedAt) < s.ttl {
		products := s.products
		s.mu.Unlock()
		return products, nil
	}
	s.mu.Unlock()

	products, stats, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	stats.LoadedAt = now

	s.mu.Lock()
	s.products = products
	s.loadedAt = now
	s.stats = stats
	s.mu.Unlock()

	log.Infof("📦 Loaded %d products from %s (%d raw records)", stats.Kept, stats.Source, stats.Raw)
	return products, nil
}

func (s *productStore) load(ctx context.Context) ([]domain.Product, Stats, error) {
	stats := Stats{Source: s.source.Name()}

	data, err := s.source.Load(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load dataset from %s: %w", stats.Source, err)
	}

	raw, err := normalize.DecodeDataset(data)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to decode dataset from %s: %w", stats.Source, err)
	}
	stats.Raw = len(raw)

	index, err := s.images.Snapshot()
	if err != nil {
		return nil, stats, fmt.Errorf("failed to index images for %s: %w", stats.Source, err)
	}
	mapper := s.normalizer.Images()

	products := make([]domain.Product, 0, len(raw))
	for _, r := range raw {
		p := s.normalizer.Normalize(r)
		if !index.Has(mapper.FileName(p.Image)) {
			continue
		}
		p.SearchText = catalog.SearchText(&p)
		products = append(products, p)
	}
	stats.Kept = len(products)

	if dropped := stats.Raw - stats.Kept; dropped > 0 {
		log.Debugf("Dropped %d products without a cover image on disk", dropped)
	}
	return products, stats, nil
}

func (s *productStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
