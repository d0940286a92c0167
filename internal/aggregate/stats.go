package aggregate

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
)

// BuildCityStat derives the matching metrics of one city and day type from
// raw listing rows. Metrics without any valid value are left at zero.
func BuildCityStat(rows []domain.Listing) domain.CityStat {
	var st domain.CityStat
	st.Price = orZero(Average(rows, domain.FieldRealSum))
	st.Cleanliness = orZero(Average(rows, domain.FieldCleanliness))
	st.Satisfaction = orZero(Average(rows, domain.FieldSatisfaction))
	st.Distance = orZero(Average(rows, domain.FieldDist))
	st.Capacity = orZero(Average(rows, domain.FieldCapacity))

	if len(rows) > 0 {
		super := 0
		for _, row := range rows {
			if superhostLabel(row) == domain.SuperhostLabel {
				super++
			}
		}
		st.SuperhostPct = float64(super) / float64(len(rows))
	}
	return st
}

// BuildStatTable loads every catalog city from src and computes its stats.
// At most workers cities are processed at once; progress, if set, is called
// after each city completes. The result follows catalog order.
func BuildStatTable(ctx context.Context, src Source, workers int, progress func(city string)) (domain.StatTable, error) {
	if workers <= 0 {
		workers = 1
	}
	table := make(domain.StatTable, len(domain.Catalog))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, city := range domain.Catalog {
		g.Go(func() error {
			weekday, err := src.Load(ctx, city.ID, domain.Weekdays)
			if err != nil {
				return fmt.Errorf("load %s weekdays: %w", city.ID, err)
			}
			weekend, err := src.Load(ctx, city.ID, domain.Weekends)
			if err != nil {
				return fmt.Errorf("load %s weekends: %w", city.ID, err)
			}
			if len(weekday) == 0 && len(weekend) == 0 {
				return fmt.Errorf("%s: no listing rows: %w", city.ID, domain.ErrNotFound)
			}
			table[i] = domain.CityStats{
				City:     city.Name,
				Weekdays: BuildCityStat(weekday),
				Weekends: BuildCityStat(weekend),
			}
			if progress != nil {
				mu.Lock()
				progress(city.ID)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
