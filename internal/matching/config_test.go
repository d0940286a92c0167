package matching

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
)

func TestDefaultStatTable_CoversCatalog(t *testing.T) {
	t.Parallel()

	def := DefaultStatTable()
	got, err := NormalizeTable(def)
	if err != nil {
		t.Fatalf("NormalizeTable(defaults): %v", err)
	}
	if diff := cmp.Diff(def, got); diff != "" {
		t.Fatalf("defaults are not in catalog order (-want +got):\n%s", diff)
	}
	for _, row := range def {
		for _, st := range []domain.CityStat{row.Weekdays, row.Weekends} {
			if st.SuperhostPct < 0 || st.SuperhostPct > 1 {
				t.Fatalf("%s superhost_pct=%v outside [0,1]", row.City, st.SuperhostPct)
			}
		}
	}
}

func TestStatTableFile_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"stats.yaml", "stats.json"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		if err := WriteStatTableFile(path, DefaultStatTable()); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		got, err := LoadStatTableFromFile(path)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if diff := cmp.Diff(DefaultStatTable(), got); diff != "" {
			t.Fatalf("%s round trip (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoadStatTableFromFile_ReordersAndRenames(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("cities:\n")
	def := DefaultStatTable()
	for i := len(def) - 1; i >= 0; i-- {
		b.WriteString("  - city: " + strings.ToUpper(def[i].City) + "\n")
		b.WriteString("    weekdays: {price: 1}\n")
		b.WriteString("    weekends: {price: 2}\n")
	}
	path := filepath.Join(t.TempDir(), "stats.yml")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadStatTableFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i, c := range domain.Catalog {
		if got[i].City != c.Name || got[i].Weekdays.Price != 1 || got[i].Weekends.Price != 2 {
			t.Fatalf("row %d=%+v", i, got[i])
		}
	}
}

func TestLoadStatTableFromFile_MissingDayType(t *testing.T) {
	t.Parallel()

	var yml strings.Builder
	yml.WriteString("cities:\n")
	for _, c := range domain.Catalog {
		yml.WriteString("  - city: " + c.Name + "\n")
		yml.WriteString("    weekdays: {price: 100, cleanliness: 9}\n")
	}
	cases := []struct {
		name string
		body string
		want string
	}{
		{"stats.yaml", yml.String(), "stats: Amsterdam missing weekends"},
		{"stats.json", `{"cities": [{"city": "Rome", "weekends": {"price": 1}}]}`, "stats: Rome missing weekdays"},
	}
	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), tc.name)
		if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := LoadStatTableFromFile(path)
		if err == nil || err.Error() != tc.want {
			t.Fatalf("%s: table=%v err=%v want %q", tc.name, got, err, tc.want)
		}
	}
}

func TestLoadStatTableFromFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadStatTableFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err=%v want fs.ErrNotExist", err)
	}
}

func TestNormalizeTable_Errors(t *testing.T) {
	t.Parallel()

	def := DefaultStatTable()
	cases := []struct {
		name  string
		table domain.StatTable
		want  string
	}{
		{"unknown", append(DefaultStatTable(), domain.CityStats{City: "Oslo"}), "unknown city"},
		{"duplicate", append(DefaultStatTable(), def[0]), "duplicate city"},
		{"missing", def[1:], "missing city"},
	}
	for _, tc := range cases {
		_, err := NormalizeTable(tc.table)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err=%v want %q", tc.name, err, tc.want)
		}
	}
}
