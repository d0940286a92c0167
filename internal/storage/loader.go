package storage

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/denisok6893-rgb/city-matching/internal/domain"
	"github.com/denisok6893-rgb/city-matching/internal/logging"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// FileName is the dataset file name of a city and day type, for example
// "rome_weekends.csv".
func FileName(city string, day domain.DayType) string {
	return fmt.Sprintf("%s_%s.csv", city, day)
}

// DecodeListings parses comma-separated rows whose first row is the header.
// A leading UTF-8 BOM is ignored and short rows are padded with "".
func DecodeListings(r io.Reader) ([]domain.Listing, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && string(head) == string(bom) {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	var rows []domain.Listing
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", len(rows)+2, err)
		}
		row := make(domain.Listing, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DirSource reads "<dir>/<city>_<day>.csv" files from local disk.
type DirSource struct {
	dir    string
	logger *logging.Logger
}

func NewDirSource(dir string, logger *logging.Logger) *DirSource {
	return &DirSource{dir: dir, logger: logger}
}

// Load reads one city file. A missing file yields no rows.
func (s *DirSource) Load(ctx context.Context, city string, day domain.DayType) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, FileName(city, day))
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("[storage] %s not found, treating as empty", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := DecodeListings(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s.logger.Info("[storage] loaded %d rows from %s", len(rows), path)
	return rows, nil
}
