package aggregate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
	"github.com/denisok6893-rgb/city-matching/internal/logging"
)

// Source supplies the raw listing rows of one city and day type. A missing
// file is reported as zero rows, not as an error.
type Source interface {
	Load(ctx context.Context, city string, day domain.DayType) ([]domain.Listing, error)
}

// Cache stores finished aggregate records by city id.
type Cache interface {
	Get(ctx context.Context, city string) (*domain.AggregateRecord, bool)
	Set(ctx context.Context, city string, rec *domain.AggregateRecord)
}

// Service answers aggregate requests: catalog lookup, cache, load, compute.
type Service struct {
	source Source
	cache  Cache
	logger *logging.Logger
}

// NewService wires a Service. cache may be nil.
func NewService(source Source, cache Cache, logger *logging.Logger) *Service {
	return &Service{source: source, cache: cache, logger: logger}
}

// City returns the aggregate record for a catalog city id. Unknown cities
// and cities without rows yield domain.ErrNotFound; load failures yield a
// *domain.ProcessingError.
func (s *Service) City(ctx context.Context, id string) (*domain.AggregateRecord, error) {
	city, ok := domain.LookupCity(id)
	if !ok {
		return nil, fmt.Errorf("city %q: %w", id, domain.ErrNotFound)
	}
	if s.cache != nil {
		if rec, ok := s.cache.Get(ctx, city.ID); ok {
			s.logger.Debug("[aggregate] cache hit for %s", city.ID)
			return rec, nil
		}
	}

	start := time.Now()
	var weekday, weekend []domain.Listing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.source.Load(gctx, city.ID, domain.Weekdays)
		weekday = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.source.Load(gctx, city.ID, domain.Weekends)
		weekend = rows
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("[aggregate] loading %s failed: %v", city.ID, err)
		return nil, &domain.ProcessingError{City: city.ID, Err: err}
	}

	rec, err := Aggregate(city.ID, weekday, weekend)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("[aggregate] no rows for %s", city.ID)
			return nil, err
		}
		return nil, &domain.ProcessingError{City: city.ID, Err: err}
	}
	s.logger.Info("[aggregate] %s: %d weekday + %d weekend rows in %v",
		city.ID, rec.WeekdayRows, rec.WeekendRows, time.Since(start).Round(time.Millisecond))

	if s.cache != nil {
		s.cache.Set(ctx, city.ID, rec)
	}
	return rec, nil
}
