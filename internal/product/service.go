package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sa-fashion-be/internal/db"
	"sa-fashion-be/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const seedTimeout = 10 * time.Second

type Service interface {
	List(ctx context.Context, filter Filter) ([]*Product, error)
	SeedIfEmpty(ctx context.Context) (bool, error)
}

type service struct {
	repo  Repository
	seeds singleflight.Group
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// List returns the products matching filter. An unreachable store yields an
// empty list. When nothing matches and the whole catalog is empty, the demo
// products are seeded and returned unfiltered.
func (s *service) List(ctx context.Context, filter Filter) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListProducts"),
		zap.String("q", filter.Query),
		zap.String("category", filter.Category),
	)

	start := time.Now()

	products, err := s.repo.List(ctx, filter)
	if errors.Is(err, db.ErrUnavailable) {
		log.Warn("catalog store unavailable, returning empty list")
		return []*Product{}, nil
	}
	if err != nil {
		log.Error("failed to list products", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCatalogQuery, err)
	}

	if len(products) > 0 {
		log.Info("list products success",
			zap.Int("count", len(products)),
			zap.Duration("duration", time.Since(start)),
		)
		return products, nil
	}

	seeded, err := s.SeedIfEmpty(ctx)
	if err != nil {
		log.Error("failed to seed demo products", zap.Error(err))
		return products, nil
	}
	if !seeded {
		return products, nil
	}

	// The re-query after seeding ignores the caller's filter.
	products, err = s.repo.List(ctx, Filter{})
	if err != nil {
		log.Error("failed to list products after seeding", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCatalogQuery, err)
	}

	log.Info("demo products seeded", zap.Int("count", len(products)))
	return products, nil
}

// SeedIfEmpty inserts DemoProducts when the store holds no products at all.
// Concurrent callers share one seeding run, which is detached from the
// cancellation of whichever caller started it.
func (s *service) SeedIfEmpty(ctx context.Context) (bool, error) {
	v, err, _ := s.seeds.Do("seed", func() (interface{}, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), seedTimeout)
		defer cancel()

		empty, err := s.repo.IsEmpty(sctx)
		if err != nil {
			return false, err
		}
		if !empty {
			return false, nil
		}

		demo := DemoProducts()
		batch := make([]*Product, len(demo))
		for i := range demo {
			batch[i] = &demo[i]
		}
		if err := s.repo.CreateMany(sctx, batch); err != nil {
			return false, fmt.Errorf("seed demo products: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
