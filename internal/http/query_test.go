package httpapi

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
	"github.com/denisok6893-rgb/city-matching/internal/matching"
)

func TestParsePreferenceQuery(t *testing.T) {
	t.Parallel()

	q, _ := url.ParseQuery("weekends=true&price=50, 300&cleanliness=9.5&superhost=all_listings&importance.price=5&importance.roomType=2")
	in, err := ParsePreferenceQuery(q)
	if err != nil {
		t.Fatalf("ParsePreferenceQuery: %v", err)
	}
	if !in.Weekends || in.Price != (domain.Range{Low: 50, High: 300}) || in.Cleanliness != 9.5 {
		t.Fatalf("input=%+v", in)
	}
	if in.Superhost != domain.AllListings || in.Importance.Price != 5 || in.Importance.RoomType != 2 {
		t.Fatalf("input=%+v", in)
	}
	if in.Distance != (domain.Range{Low: matching.DistanceBounds.Min, High: matching.DistanceBounds.Max}) {
		t.Fatalf("distance default=%+v", in.Distance)
	}
	if in.Capacity != (domain.Range{Low: matching.CapacityBounds.Min, High: matching.CapacityBounds.Max}) {
		t.Fatalf("capacity default=%+v", in.Capacity)
	}
	if in.Satisfaction != 0 {
		t.Fatalf("satisfaction default=%v", in.Satisfaction)
	}
}

func TestDefaultPreferenceInput(t *testing.T) {
	t.Parallel()

	in := DefaultPreferenceInput()
	if in.Price != (domain.Range{Low: matching.PriceBounds.Min, High: matching.PriceBounds.Max}) {
		t.Fatalf("price=%+v", in.Price)
	}
	got, err := ParsePreferenceQuery(url.Values{})
	if err != nil {
		t.Fatalf("ParsePreferenceQuery: %v", err)
	}
	if got != in {
		t.Fatalf("empty query=%+v want=%+v", got, in)
	}
}

func TestParsePreferenceQuery_Errors(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"weekends":          {"maybe"},
		"price":             {"50"},
		"distance":          {"a,3"},
		"satisfaction":      {"high"},
		"importance.wifi": {"3"},
		"importance.price":  {"five"},
	}
	_, err := ParsePreferenceQuery(q)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err=%v want ErrInvalidInput", err)
	}
	for _, want := range []string{"weekends", "price", "distance", "satisfaction", "importance.wifi", "importance.price"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
