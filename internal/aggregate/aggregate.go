package aggregate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
)

type flowKey struct {
	source string
	target string
}

// Aggregate builds the summary record for one city from its weekday and
// weekend rows. It fails with domain.ErrNotFound when both sets are empty;
// every other data problem degrades to a nil average or an excluded row.
func Aggregate(city string, weekday, weekend []domain.Listing) (*domain.AggregateRecord, error) {
	if len(weekday) == 0 && len(weekend) == 0 {
		return nil, fmt.Errorf("%s: no listing rows: %w", city, domain.ErrNotFound)
	}

	combined := make([]domain.Listing, 0, len(weekday)+len(weekend))
	combined = append(combined, weekday...)
	combined = append(combined, weekend...)

	rec := &domain.AggregateRecord{
		City:        city,
		Processed:   true,
		WeekdayRows: len(weekday),
		WeekendRows: len(weekend),
		AvgCost: domain.AvgCost{
			AvgTotalCityCost: Average(combined, domain.FieldRealSum),
			AvgWeekdayCost:   Average(weekday, domain.FieldRealSum),
			AvgWeekendCost:   Average(weekend, domain.FieldRealSum),
		},
		AvgCleanliness:    domain.AvgCleanliness{Combined: Average(combined, domain.FieldCleanliness)},
		GuestSatisfaction: Average(combined, domain.FieldSatisfaction),
		PersonCapacity:    Average(combined, domain.FieldCapacity),
		BedroomCapacity:   Average(combined, domain.FieldBedrooms),
		MetroDist:         Average(combined, domain.FieldMetroDist),
		CityCenterDist:    Average(combined, domain.FieldDist),
	}

	rooms := NewCounter[string]()
	flows := NewCounter[flowKey]()
	for _, row := range combined {
		roomType := row[domain.FieldRoomType]
		if roomType == "" {
			continue
		}
		rooms.Inc(roomType)
		flows.Inc(flowKey{source: roomType, target: superhostLabel(row)})
	}

	rec.RoomTypeDistribution = make([]domain.DistributionEntry, 0, rooms.Len())
	for _, label := range rooms.Keys() {
		rec.RoomTypeDistribution = append(rec.RoomTypeDistribution, domain.DistributionEntry{
			Label: label,
			Value: rooms.Count(label),
		})
	}
	rec.SankeyData = sankey(rooms.Keys(), flows)

	return rec, nil
}

func sankey(sources []string, flows *Counter[flowKey]) domain.SankeyData {
	data := domain.SankeyData{
		Nodes: make([]domain.SankeyNode, 0, len(sources)+2),
		Links: make([]domain.SankeyLink, 0, flows.Len()),
	}
	for _, name := range sources {
		data.Nodes = append(data.Nodes, domain.SankeyNode{NodeID: name, Name: name})
	}
	for _, name := range []string{domain.SuperhostLabel, domain.NotSuperhostLabel} {
		data.Nodes = append(data.Nodes, domain.SankeyNode{NodeID: name, Name: name})
	}
	for _, k := range flows.Keys() {
		data.Links = append(data.Links, domain.SankeyLink{
			Source: k.source,
			Target: k.target,
			Value:  flows.Count(k),
		})
	}
	return data
}

// Average returns the mean of field over rows, skipping values that are
// absent or not finite numbers. It returns nil when nothing was usable.
func Average(rows []domain.Listing, field string) *float64 {
	var sum float64
	var n int
	for _, row := range rows {
		v, ok := parseNumber(row[field])
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || hexPrefixed(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// hexPrefixed reports whether s is a hex literal such as "0x1p3".
func hexPrefixed(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
