package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// StatsStore keeps the city stat table in SQLite or PostgreSQL.
type StatsStore struct {
	db     *sql.DB
	driver string
}

// OpenStatsStore opens the database and makes sure the schema exists.
func OpenStatsStore(ctx context.Context, driver, dsn string) (*StatsStore, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("stats store: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("stats store: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("stats store: ping failed after retries: %w", err)
	}

	s := &StatsStore{db: db, driver: driver}
	if driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("stats store: schema: %w", err)
	}
	return s, nil
}

func (s *StatsStore) Close() error { return s.db.Close() }

func (s *StatsStore) EnsureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS city_stats (
  city          TEXT NOT NULL,
  day_type      TEXT NOT NULL,
  position      INTEGER NOT NULL,
  price         DOUBLE PRECISION NOT NULL,
  cleanliness   DOUBLE PRECISION NOT NULL,
  satisfaction  DOUBLE PRECISION NOT NULL,
  distance      DOUBLE PRECISION NOT NULL,
  capacity      DOUBLE PRECISION NOT NULL,
  superhost_pct DOUBLE PRECISION NOT NULL,
  PRIMARY KEY (city, day_type)
);
`
	_, err := s.db.ExecContext(ctx, createTable)
	return err
}

// UpsertTable writes every row of t, replacing existing values.
func (s *StatsStore) UpsertTable(ctx context.Context, t domain.StatTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
INSERT INTO city_stats
(city, day_type, position, price, cleanliness, satisfaction, distance, capacity, superhost_pct)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (city, day_type) DO UPDATE SET
  position = excluded.position,
  price = excluded.price,
  cleanliness = excluded.cleanliness,
  satisfaction = excluded.satisfaction,
  distance = excluded.distance,
  capacity = excluded.capacity,
  superhost_pct = excluded.superhost_pct
`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, row := range t {
		for _, day := range []domain.DayType{domain.Weekdays, domain.Weekends} {
			st := row.For(day)
			if _, err := stmt.ExecContext(ctx,
				row.City, string(day), pos,
				st.Price, st.Cleanliness, st.Satisfaction, st.Distance, st.Capacity, st.SuperhostPct,
			); err != nil {
				return fmt.Errorf("upsert %s %s: %w", row.City, day, err)
			}
		}
	}
	return tx.Commit()
}

// LoadTable reads the stored table ordered by position. An empty store
// returns an empty table.
func (s *StatsStore) LoadTable(ctx context.Context) (domain.StatTable, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT city, day_type, price, cleanliness, satisfaction, distance, capacity, superhost_pct
FROM city_stats
ORDER BY position, city, day_type
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out domain.StatTable
	index := make(map[string]int)
	seen := make(map[string]map[domain.DayType]bool)
	for rows.Next() {
		var city, day string
		var st domain.CityStat
		if err := rows.Scan(&city, &day,
			&st.Price, &st.Cleanliness, &st.Satisfaction, &st.Distance, &st.Capacity, &st.SuperhostPct,
		); err != nil {
			return nil, err
		}
		i, ok := index[city]
		if !ok {
			i = len(out)
			index[city] = i
			out = append(out, domain.CityStats{City: city})
		}
		switch domain.DayType(day) {
		case domain.Weekdays:
			out[i].Weekdays = st
		case domain.Weekends:
			out[i].Weekends = st
		default:
			return nil, fmt.Errorf("stats store: unknown day type %q for %s", day, city)
		}
		if seen[city] == nil {
			seen[city] = make(map[domain.DayType]bool, 2)
		}
		seen[city][domain.DayType(day)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, row := range out {
		for _, day := range []domain.DayType{domain.Weekdays, domain.Weekends} {
			if !seen[row.City][day] {
				return nil, fmt.Errorf("stats: %s missing %s", row.City, day)
			}
		}
	}
	return out, nil
}

// rebind turns ? placeholders into $n for PostgreSQL.
func (s *StatsStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
