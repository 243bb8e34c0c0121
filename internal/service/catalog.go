package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"storefront/catalog/internal/catalog"
	"storefront/catalog/internal/domain"
	"storefront/catalog/internal/store"
)

type Service struct {
	store store.ProductStore
	now   func() time.Time
}

func NewService(store store.ProductStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store: store,
		now:   now,
	}
}

// Products answers a listing query against the current collection.
func (s *Service) Products(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	products, err := s.store.LoadAll(ctx)
	if err != nil {
		return domain.ProductPage{}, err
	}
	return catalog.Query(products, q), nil
}

// Product returns the first product with id, or catalog.ErrProductNotFound.
func (s *Service) Product(ctx context.Context, id uint32) (domain.Product, error) {
	products, err := s.store.LoadAll(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	return catalog.GetByID(products, id)
}

func (s *Service) Categories(ctx context.Context) (domain.CategorySummary, error) {
	products, err := s.store.LoadAll(ctx)
	if err != nil {
		return domain.CategorySummary{}, err
	}
	return catalog.Summarize(products), nil
}

// Snapshot returns the whole served collection, used by the export task.
func (s *Service) Snapshot(ctx context.Context) ([]domain.Product, error) {
	return s.store.LoadAll(ctx)
}

func (s *Service) Stats() store.Stats {
	return s.store.Stats()
}

// Warmup loads the collection once so the first request does not pay for it.
func (s *Service) Warmup(ctx context.Context) error {
	products, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm up product store: %w", err)
	}
	log.Infof("🔥 Product store warmed up with %d products", len(products))
	return nil
}
