package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
)

type statFile struct {
	Cities domain.StatTable `json:"cities" yaml:"cities"`
}

// statFileRow decodes the halves as pointers so an absent day type is
// distinguishable from an all-zero one.
type statFileRow struct {
	City     string           `json:"city" yaml:"city"`
	Weekdays *domain.CityStat `json:"weekdays" yaml:"weekdays"`
	Weekends *domain.CityStat `json:"weekends" yaml:"weekends"`
}

type statFileIn struct {
	Cities []statFileRow `json:"cities" yaml:"cities"`
}

// DefaultStatTable returns the bundled statistics, in catalog order.
func DefaultStatTable() domain.StatTable {
	return domain.StatTable{
		{
			City:     "Amsterdam",
			Weekdays: domain.CityStat{Price: 545.02, Cleanliness: 9.47, Satisfaction: 94.36, Distance: 2.80, Capacity: 2.79, SuperhostPct: 0.28},
			Weekends: domain.CityStat{Price: 604.28, Cleanliness: 9.45, Satisfaction: 94.51, Distance: 2.84, Capacity: 2.78, SuperhostPct: 0.29},
		},
		{
			City:     "Athens",
			Weekdays: domain.CityStat{Price: 155.87, Cleanliness: 9.64, Satisfaction: 95.00, Distance: 1.81, Capacity: 4.27, SuperhostPct: 0.43},
			Weekends: domain.CityStat{Price: 147.58, Cleanliness: 9.63, Satisfaction: 95.03, Distance: 1.79, Capacity: 4.29, SuperhostPct: 0.42},
		},
		{
			City:     "Barcelona",
			Weekdays: domain.CityStat{Price: 288.36, Cleanliness: 9.29, Satisfaction: 91.11, Distance: 2.12, Capacity: 2.56, SuperhostPct: 0.18},
			Weekends: domain.CityStat{Price: 304.33, Cleanliness: 9.31, Satisfaction: 90.98, Distance: 2.09, Capacity: 2.62, SuperhostPct: 0.18},
		},
		{
			City:     "Berlin",
			Weekdays: domain.CityStat{Price: 240.45, Cleanliness: 9.46, Satisfaction: 94.21, Distance: 5.25, Capacity: 2.78, SuperhostPct: 0.25},
			Weekends: domain.CityStat{Price: 250.19, Cleanliness: 9.44, Satisfaction: 94.40, Distance: 5.27, Capacity: 2.76, SuperhostPct: 0.26},
		},
		{
			City:     "Budapest",
			Weekdays: domain.CityStat{Price: 172.54, Cleanliness: 9.58, Satisfaction: 94.45, Distance: 1.85, Capacity: 3.55, SuperhostPct: 0.37},
			Weekends: domain.CityStat{Price: 183.06, Cleanliness: 9.57, Satisfaction: 94.64, Distance: 1.89, Capacity: 3.51, SuperhostPct: 0.37},
		},
		{
			City:     "Lisbon",
			Weekdays: domain.CityStat{Price: 236.17, Cleanliness: 9.36, Satisfaction: 91.23, Distance: 1.97, Capacity: 3.76, SuperhostPct: 0.24},
			Weekends: domain.CityStat{Price: 241.43, Cleanliness: 9.38, Satisfaction: 91.13, Distance: 1.95, Capacity: 3.70, SuperhostPct: 0.23},
		},
		{
			City:     "London",
			Weekdays: domain.CityStat{Price: 360.23, Cleanliness: 9.17, Satisfaction: 90.55, Distance: 5.33, Capacity: 2.85, SuperhostPct: 0.15},
			Weekends: domain.CityStat{Price: 364.39, Cleanliness: 9.20, Satisfaction: 90.68, Distance: 5.30, Capacity: 2.86, SuperhostPct: 0.16},
		},
		{
			City:     "Paris",
			Weekdays: domain.CityStat{Price: 398.79, Cleanliness: 9.22, Satisfaction: 92.00, Distance: 3.00, Capacity: 2.95, SuperhostPct: 0.13},
			Weekends: domain.CityStat{Price: 387.03, Cleanliness: 9.25, Satisfaction: 92.12, Distance: 2.99, Capacity: 2.96, SuperhostPct: 0.13},
		},
		{
			City:     "Rome",
			Weekdays: domain.CityStat{Price: 204.53, Cleanliness: 9.51, Satisfaction: 93.13, Distance: 3.03, Capacity: 3.35, SuperhostPct: 0.32},
			Weekends: domain.CityStat{Price: 206.24, Cleanliness: 9.52, Satisfaction: 93.08, Distance: 3.01, Capacity: 3.37, SuperhostPct: 0.33},
		},
		{
			City:     "Vienna",
			Weekdays: domain.CityStat{Price: 240.58, Cleanliness: 9.47, Satisfaction: 93.86, Distance: 3.14, Capacity: 3.86, SuperhostPct: 0.26},
			Weekends: domain.CityStat{Price: 243.51, Cleanliness: 9.47, Satisfaction: 93.59, Distance: 3.15, Capacity: 3.88, SuperhostPct: 0.25},
		},
	}
}

// LoadStatTableFromFile reads a stat table from YAML or JSON. The table is
// validated against the catalog and reordered into catalog order.
func LoadStatTableFromFile(path string) (domain.StatTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stats file: %w", err)
	}

	var f statFileIn
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &f)
	} else {
		err = yaml.Unmarshal(b, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}

	t := make(domain.StatTable, 0, len(f.Cities))
	for _, row := range f.Cities {
		if row.Weekdays == nil {
			return nil, fmt.Errorf("stats: %s missing %s", row.City, domain.Weekdays)
		}
		if row.Weekends == nil {
			return nil, fmt.Errorf("stats: %s missing %s", row.City, domain.Weekends)
		}
		t = append(t, domain.CityStats{City: row.City, Weekdays: *row.Weekdays, Weekends: *row.Weekends})
	}
	return NormalizeTable(t)
}

// WriteStatTableFile writes t as YAML (or JSON for a .json path).
func WriteStatTableFile(path string, t domain.StatTable) error {
	var (
		b   []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		b, err = json.MarshalIndent(statFile{Cities: t}, "", "  ")
	} else {
		b, err = yaml.Marshal(statFile{Cities: t})
	}
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create stats dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write stats file: %w", err)
	}
	return nil
}

// NormalizeTable checks that every catalog city appears exactly once and
// returns the rows in catalog order with catalog display names.
func NormalizeTable(t domain.StatTable) (domain.StatTable, error) {
	byID := make(map[string]domain.CityStats, len(t))
	for _, row := range t {
		city, ok := domain.LookupCity(row.City)
		if !ok {
			return nil, fmt.Errorf("stats: unknown city %q", row.City)
		}
		if _, dup := byID[city.ID]; dup {
			return nil, fmt.Errorf("stats: duplicate city %q", row.City)
		}
		row.City = city.Name
		byID[city.ID] = row
	}

	out := make(domain.StatTable, 0, len(domain.Catalog))
	for _, city := range domain.Catalog {
		row, ok := byID[city.ID]
		if !ok {
			return nil, fmt.Errorf("stats: missing city %q", city.Name)
		}
		out = append(out, row)
	}
	return out, nil
}
