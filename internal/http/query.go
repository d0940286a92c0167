package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
	"github.com/denisok6893-rgb/city-matching/internal/matching"
)

const importancePrefix = "importance."

// ParsePreferenceQuery decodes the quiz query string, e.g.
//
//	?weekends=true&price=50,300&cleanliness=9&distance=0,3&capacity=2,4
//	&satisfaction=90&superhost=superhost_only&importance.price=5
//
// Absent ranges default to the global bounds; absent minimums to zero.
func ParsePreferenceQuery(q url.Values) (domain.PreferenceInput, error) {
	var result *multierror.Error
	in := DefaultPreferenceInput()
	in.Superhost = domain.SuperhostPreference(q.Get("superhost"))

	if v := q.Get("weekends"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("weekends: %q is not a boolean", v))
		}
		in.Weekends = b
	}

	var err error
	if in.Price, err = parseRange(q.Get("price"), matching.PriceBounds); err != nil {
		result = multierror.Append(result, fmt.Errorf("price: %w", err))
	}
	if in.Distance, err = parseRange(q.Get("distance"), matching.DistanceBounds); err != nil {
		result = multierror.Append(result, fmt.Errorf("distance: %w", err))
	}
	if in.Capacity, err = parseRange(q.Get("capacity"), matching.CapacityBounds); err != nil {
		result = multierror.Append(result, fmt.Errorf("capacity: %w", err))
	}
	if in.Cleanliness, err = parseFloat(q.Get("cleanliness")); err != nil {
		result = multierror.Append(result, fmt.Errorf("cleanliness: %w", err))
	}
	if in.Satisfaction, err = parseFloat(q.Get("satisfaction")); err != nil {
		result = multierror.Append(result, fmt.Errorf("satisfaction: %w", err))
	}

	for key, vals := range q {
		name, ok := strings.CutPrefix(key, importancePrefix)
		if !ok || len(vals) == 0 || vals[0] == "" {
			continue
		}
		w, err := strconv.Atoi(vals[0])
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %q is not an integer", key, vals[0]))
			continue
		}
		if !in.Importance.Set(domain.Criterion(name), w) {
			result = multierror.Append(result, fmt.Errorf("%s: unknown criterion", key))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return in, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return in, nil
}

// DefaultPreferenceInput is the input before any field is supplied: every
// range spans its global bounds and every minimum is zero.
func DefaultPreferenceInput() domain.PreferenceInput {
	return domain.PreferenceInput{
		Price:    boundsRange(matching.PriceBounds),
		Distance: boundsRange(matching.DistanceBounds),
		Capacity: boundsRange(matching.CapacityBounds),
	}
}

func boundsRange(b matching.Bounds) domain.Range {
	return domain.Range{Low: b.Min, High: b.Max}
}

func parseRange(s string, def matching.Bounds) (domain.Range, error) {
	if s == "" {
		return boundsRange(def), nil
	}
	lo, hi, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Range{}, fmt.Errorf("%q: want low,high", s)
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return domain.Range{}, fmt.Errorf("%q: bad low bound", s)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return domain.Range{}, fmt.Errorf("%q: bad high bound", s)
	}
	return domain.Range{Low: low, High: high}, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}
