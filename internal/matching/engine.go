package matching

import (
	"fmt"
	"math"
	"sort"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
)

// Bounds are the dataset-wide extremes a range criterion falls off toward.
type Bounds struct {
	Min float64
	Max float64
}

var (
	PriceBounds    = Bounds{Min: 34.78, Max: 18545.45}
	DistanceBounds = Bounds{Min: 0.02, Max: 25.28}
	CapacityBounds = Bounds{Min: 2, Max: 6}
)

// TopN is how many cities a match returns.
const TopN = 3

type Engine struct {
	table domain.StatTable
}

func NewEngine(t domain.StatTable) *Engine {
	return &Engine{table: t}
}

// Table returns the stat table the engine scores against.
func (e *Engine) Table() domain.StatTable { return e.table }

// CityScore is the full scoring outcome for one city.
type CityScore struct {
	City          string                       `json:"city"`
	Raw           float64                      `json:"raw"`
	Score         int                          `json:"score"`
	Contributions map[domain.Criterion]float64 `json:"contributions"`
}

// Match returns the TopN best cities for the input.
func (e *Engine) Match(in domain.PreferenceInput) ([]domain.MatchResult, error) {
	scores, err := e.Rank(in)
	if err != nil {
		return nil, err
	}
	if len(scores) > TopN {
		scores = scores[:TopN]
	}
	out := make([]domain.MatchResult, 0, len(scores))
	for _, s := range scores {
		out = append(out, domain.MatchResult{City: s.City, Score: s.Score})
	}
	return out, nil
}

// Rank scores every city and orders them by raw score, highest first.
// Equal raw scores keep stat-table order.
func (e *Engine) Rank(in domain.PreferenceInput) ([]CityScore, error) {
	divisor := Divisor(in)
	if divisor == 0 {
		return nil, domain.ErrConfiguration
	}

	day := in.DayType()
	scores := make([]CityScore, 0, len(e.table))
	for _, row := range e.table {
		contrib := contributions(in, row.For(day))
		var raw float64
		for _, c := range domain.Criteria {
			raw += contrib[c]
		}
		scores = append(scores, CityScore{
			City:          row.City,
			Raw:           raw,
			Score:         normalize(raw, divisor),
			Contributions: contrib,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Raw > scores[j].Raw })
	return scores, nil
}

// Divisor is the sum of importances in play. Superhost counts only for
// "superhost_only"; room type is collected but never scored.
func Divisor(in domain.PreferenceInput) int {
	total := 0
	for _, c := range domain.Criteria {
		switch c {
		case domain.CriterionRoomType:
			continue
		case domain.CriterionSuperhost:
			if in.Superhost != domain.SuperhostOnly {
				continue
			}
		}
		total += in.Importance.Of(c)
	}
	return total
}

func contributions(in domain.PreferenceInput, st domain.CityStat) map[domain.Criterion]float64 {
	im := in.Importance
	out := map[domain.Criterion]float64{
		domain.CriterionPrice:        RangeScore(st.Price, in.Price, PriceBounds, im.Price),
		domain.CriterionCleanliness:  ThresholdScore(st.Cleanliness, in.Cleanliness, im.Cleanliness),
		domain.CriterionDistance:     RangeScore(st.Distance, in.Distance, DistanceBounds, im.Distance),
		domain.CriterionCapacity:     RangeScore(st.Capacity, in.Capacity, CapacityBounds, im.Capacity),
		domain.CriterionSatisfaction: ThresholdScore(st.Satisfaction, in.Satisfaction, im.Satisfaction),
	}
	if in.Superhost == domain.SuperhostOnly {
		out[domain.CriterionSuperhost] = st.SuperhostPct * float64(im.Superhost)
	}
	return out
}

// ThresholdScore awards the full importance when value meets min and
// (value/min)*importance otherwise.
func ThresholdScore(value, min float64, importance int) float64 {
	w := float64(importance)
	if value >= min {
		return w
	}
	return value / min * w
}

// RangeScore awards the full importance inside r and falls off linearly
// toward the global bounds outside it. A zero or negative falloff span
// (the user's bound sits at or beyond the global extreme) awards nothing.
func RangeScore(value float64, r domain.Range, b Bounds, importance int) float64 {
	w := float64(importance)
	switch {
	case r.Contains(value):
		return w
	case value < r.Low:
		span := r.Low - b.Min
		if span <= 0 {
			return 0
		}
		return w * (value - b.Min) / span
	default:
		span := b.Max - r.High
		if span <= 0 {
			return 0
		}
		return w * (b.Max - value) / span
	}
}

func normalize(raw float64, divisor int) int {
	return int(math.Trunc(raw / float64(divisor) * 100))
}

// String is used by the CLI.
func (s CityScore) String() string {
	return fmt.Sprintf("%-10s %3d%% (raw %.3f)", s.City, s.Score, s.Raw)
}
