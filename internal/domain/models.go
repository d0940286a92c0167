package domain

import "strings"

// City is one entry of the fixed city catalog.
type City struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog lists the supported cities. Its order is the iteration order of
// the stat table and therefore the tie-break order when ranking.
var Catalog = []City{
	{ID: "amsterdam", Name: "Amsterdam"},
	{ID: "athens", Name: "Athens"},
	{ID: "barcelona", Name: "Barcelona"},
	{ID: "berlin", Name: "Berlin"},
	{ID: "budapest", Name: "Budapest"},
	{ID: "lisbon", Name: "Lisbon"},
	{ID: "london", Name: "London"},
	{ID: "paris", Name: "Paris"},
	{ID: "rome", Name: "Rome"},
	{ID: "vienna", Name: "Vienna"},
}

// LookupCity finds a catalog city by identifier, ignoring case and
// surrounding whitespace.
func LookupCity(id string) (City, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range Catalog {
		if c.ID == id {
			return c, true
		}
	}
	return City{}, false
}

type DayType string

const (
	Weekdays DayType = "weekdays"
	Weekends DayType = "weekends"
)

// DayTypeFor maps the UI's weekend flag to a day type.
func DayTypeFor(weekends bool) DayType {
	if weekends {
		return Weekends
	}
	return Weekdays
}

// Listing is one raw CSV row: header name -> cell text.
type Listing map[string]string

// CSV field names used by aggregation.
const (
	FieldRealSum      = "realSum"
	FieldCleanliness  = "cleanliness_rating"
	FieldSatisfaction = "guest_satisfaction_overall"
	FieldCapacity     = "person_capacity"
	FieldBedrooms     = "bedrooms"
	FieldMetroDist    = "metro_dist"
	FieldDist         = "dist"
	FieldRoomType     = "room_type"
	FieldSuperhost    = "host_is_superhost"
)

// Flow sink labels.
const (
	SuperhostLabel    = "Superhost"
	NotSuperhostLabel = "Not Superhost"
)

type AvgCost struct {
	AvgTotalCityCost *float64 `json:"avgTotalCityCost"`
	AvgWeekdayCost   *float64 `json:"avgWeekdayCost"`
	AvgWeekendCost   *float64 `json:"avgWeekendCost"`
}

type AvgCleanliness struct {
	Combined *float64 `json:"combined"`
}

type DistributionEntry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type SankeyNode struct {
	NodeID string `json:"nodeId"`
	Name   string `json:"name"`
}

type SankeyLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

type SankeyData struct {
	Nodes []SankeyNode `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

// AggregateRecord is the per-city summary consumed by the charts. Nil
// averages mean no row carried a valid number for that metric.
type AggregateRecord struct {
	City                 string              `json:"city"`
	Processed            bool                `json:"processed"`
	WeekdayRows          int                 `json:"weekdayRows"`
	WeekendRows          int                 `json:"weekendRows"`
	AvgCost              AvgCost             `json:"avgCost"`
	AvgCleanliness       AvgCleanliness      `json:"avgCleanliness"`
	GuestSatisfaction    *float64            `json:"guestSatisfaction"`
	PersonCapacity       *float64            `json:"personCapacity"`
	BedroomCapacity      *float64            `json:"bedroomCapacity"`
	MetroDist            *float64            `json:"metroDist"`
	CityCenterDist       *float64            `json:"cityCenterDist"`
	RoomTypeDistribution []DistributionEntry `json:"roomTypeDistribution"`
	SankeyData           SankeyData          `json:"sankeyData"`
}

// CityStat holds the pre-computed metrics of one city for one day type.
// SuperhostPct is a fraction in [0, 1].
type CityStat struct {
	Price        float64 `json:"price" yaml:"price"`
	Cleanliness  float64 `json:"cleanliness" yaml:"cleanliness"`
	Satisfaction float64 `json:"satisfaction" yaml:"satisfaction"`
	Distance     float64 `json:"distance" yaml:"distance"`
	Capacity     float64 `json:"capacity" yaml:"capacity"`
	SuperhostPct float64 `json:"superhost_pct" yaml:"superhost_pct"`
}

// CityStats pairs a city with its weekday and weekend metrics.
type CityStats struct {
	City     string   `json:"city" yaml:"city"`
	Weekdays CityStat `json:"weekdays" yaml:"weekdays"`
	Weekends CityStat `json:"weekends" yaml:"weekends"`
}

// For returns the metrics for the given day type.
func (s CityStats) For(day DayType) CityStat {
	if day == Weekends {
		return s.Weekends
	}
	return s.Weekdays
}

// StatTable is the static, ordered city statistics table.
type StatTable []CityStats

type MatchResult struct {
	City  string `json:"city"`
	Score int    `json:"score"`
}
