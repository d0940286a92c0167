package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
)

// Criterion names one scored (or collected) preference dimension.
type Criterion string

const (
	CriterionPrice        Criterion = "price"
	CriterionCleanliness  Criterion = "cleanliness"
	CriterionDistance     Criterion = "distance"
	CriterionRoomType     Criterion = "roomType"
	CriterionSuperhost    Criterion = "superhost"
	CriterionCapacity     Criterion = "capacity"
	CriterionSatisfaction Criterion = "satisfaction"
)

// Criteria lists every criterion the UI collects, in display order.
var Criteria = []Criterion{
	CriterionPrice,
	CriterionCleanliness,
	CriterionDistance,
	CriterionRoomType,
	CriterionSuperhost,
	CriterionCapacity,
	CriterionSatisfaction,
}

type SuperhostPreference string

const (
	SuperhostAny  SuperhostPreference = ""
	SuperhostOnly SuperhostPreference = "superhost_only"
	AllListings   SuperhostPreference = "all_listings"
)

// MaxImportance is the largest importance a user can assign.
const MaxImportance = 5

// Range is a closed interval [Low, High]. On the wire it is a two-element
// array, matching what the quiz sliders produce.
type Range struct {
	Low  float64
	High float64
}

func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Low, r.High})
}

func (r *Range) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("range: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("range: want [low, high], got %d values", len(pair))
	}
	r.Low, r.High = pair[0], pair[1]
	return nil
}

// Contains reports whether v lies inside the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Importance holds the user's 0..5 weight per criterion. Zero means unset.
type Importance struct {
	Price        int `json:"price"`
	Cleanliness  int `json:"cleanliness"`
	Distance     int `json:"distance"`
	RoomType     int `json:"roomType,omitempty"`
	Superhost    int `json:"superhost"`
	Capacity     int `json:"capacity"`
	Satisfaction int `json:"satisfaction"`
}

// Of returns the weight for c.
func (im Importance) Of(c Criterion) int {
	switch c {
	case CriterionPrice:
		return im.Price
	case CriterionCleanliness:
		return im.Cleanliness
	case CriterionDistance:
		return im.Distance
	case CriterionRoomType:
		return im.RoomType
	case CriterionSuperhost:
		return im.Superhost
	case CriterionCapacity:
		return im.Capacity
	case CriterionSatisfaction:
		return im.Satisfaction
	}
	return 0
}

// Set assigns the weight for c. It returns false for an unknown criterion.
func (im *Importance) Set(c Criterion, v int) bool {
	switch c {
	case CriterionPrice:
		im.Price = v
	case CriterionCleanliness:
		im.Cleanliness = v
	case CriterionDistance:
		im.Distance = v
	case CriterionRoomType:
		im.RoomType = v
	case CriterionSuperhost:
		im.Superhost = v
	case CriterionCapacity:
		im.Capacity = v
	case CriterionSatisfaction:
		im.Satisfaction = v
	default:
		return false
	}
	return true
}

// PreferenceInput is what the quiz collects from a user.
type PreferenceInput struct {
	Weekends     bool                `json:"weekends"`
	Price        Range               `json:"price"`
	Cleanliness  float64             `json:"cleanliness"`
	Distance     Range               `json:"distance"`
	Superhost    SuperhostPreference `json:"superhost"`
	Capacity     Range               `json:"capacity"`
	Satisfaction float64             `json:"satisfaction"`
	Importance   Importance          `json:"importance"`
}

// DayType returns the stat-table half selected by the input.
func (p PreferenceInput) DayType() DayType {
	return DayTypeFor(p.Weekends)
}

// Validate checks the input shape. It does not check the importance
// divisor; scoring reports that as ErrConfiguration.
func (p PreferenceInput) Validate() error {
	var result *multierror.Error

	ranges := []struct {
		name string
		r    Range
	}{
		{"price", p.Price},
		{"distance", p.Distance},
		{"capacity", p.Capacity},
	}
	for _, rg := range ranges {
		if !finite(rg.r.Low) || !finite(rg.r.High) {
			result = multierror.Append(result, fmt.Errorf("%s: range bounds must be finite", rg.name))
			continue
		}
		if rg.r.Low > rg.r.High {
			result = multierror.Append(result, fmt.Errorf("%s: low %g is above high %g", rg.name, rg.r.Low, rg.r.High))
		}
	}
	if !finite(p.Cleanliness) {
		result = multierror.Append(result, fmt.Errorf("cleanliness: minimum must be finite"))
	}
	if !finite(p.Satisfaction) {
		result = multierror.Append(result, fmt.Errorf("satisfaction: minimum must be finite"))
	}

	switch p.Superhost {
	case SuperhostAny, SuperhostOnly, AllListings:
	default:
		result = multierror.Append(result, fmt.Errorf("superhost: unknown preference %q", p.Superhost))
	}

	for _, c := range Criteria {
		if w := p.Importance.Of(c); w < 0 || w > MaxImportance {
			result = multierror.Append(result, fmt.Errorf("importance.%s: %d is outside 0..%d", c, w, MaxImportance))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
