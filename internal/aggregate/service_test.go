package aggregate

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
	"github.com/denisok6893-rgb/city-matching/internal/logging"
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

type mapCache map[string]*domain.AggregateRecord

func (c mapCache) Get(_ context.Context, city string) (*domain.AggregateRecord, bool) {
	rec, ok := c[city]
	return rec, ok
}

func (c mapCache) Set(_ context.Context, city string, rec *domain.AggregateRecord) {
	c[city] = rec
}

func TestService_City(t *testing.T) {
	t.Parallel()

	src := &mapSource{rows: map[string][]domain.Listing{
		"rome_weekdays": {{"realSum": "120", "room_type": "Private room", "host_is_superhost": "t"}},
		"rome_weekends": {{"realSum": "180", "room_type": "Private room", "host_is_superhost": "f"}},
	}}
	c := mapCache{}
	svc := NewService(src, c, logging.Discard())

	rec, err := svc.City(context.Background(), " Rome ")
	if err != nil {
		t.Fatalf("City: %v", err)
	}
	if rec.City != "rome" || rec.AvgCost.AvgTotalCityCost == nil || *rec.AvgCost.AvgTotalCityCost != 150 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if src.calls != 2 {
		t.Fatalf("loads=%d want=2", src.calls)
	}
	if _, ok := c["rome"]; !ok {
		t.Fatalf("record was not cached")
	}

	again, err := svc.City(context.Background(), "rome")
	if err != nil {
		t.Fatalf("City (cached): %v", err)
	}
	if again != rec || src.calls != 2 {
		t.Fatalf("expected cache hit, loads=%d", src.calls)
	}
}

func TestService_UnknownCity(t *testing.T) {
	t.Parallel()

	src := &mapSource{}
	_, err := NewService(src, nil, logging.Discard()).City(context.Background(), "atlantis")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
	if src.calls != 0 {
		t.Fatalf("source was called for an unknown city")
	}
}

func TestService_NoRows(t *testing.T) {
	t.Parallel()

	_, err := NewService(&mapSource{}, nil, logging.Discard()).City(context.Background(), "athens")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
	var perr *domain.ProcessingError
	if errors.As(err, &perr) {
		t.Fatalf("missing rows must not be a processing error")
	}
}

func TestService_LoadErrorIsProcessingError(t *testing.T) {
	t.Parallel()

	boom := errors.New("permission denied")
	_, err := NewService(&mapSource{err: boom}, nil, logging.Discard()).City(context.Background(), "london")
	var perr *domain.ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("err=%v want *ProcessingError", err)
	}
	if perr.City != "london" || !errors.Is(err, boom) {
		t.Fatalf("processing error=%+v", perr)
	}
}
