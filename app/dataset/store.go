package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Store keeps one bounded CSV file per feed, sorted newest first.
// Every Upsert rewrites the whole file; at a hundred rows per feed that is cheap.
type Store struct {
	dir     string
	maxRows int
}

func NewStore(dir string, maxRows int) *Store {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Store{dir: dir, maxRows: maxRows}
}

func (s *Store) Path(sourceName string) string {
	return filepath.Join(s.dir, Slugify(sourceName)+".csv")
}

// Upsert appends record to the feed's dataset, sorts by Published descending,
// prunes to the row limit and rewrites the file. An unreadable existing file
// is discarded rather than failing the write.
func (s *Store) Upsert(sourceName string, record Record) error {
	path := s.Path(sourceName)

	records, columns, err := readFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		records = nil
	case err != nil:
		slog.Error("Could not read dataset, starting over", "feed", sourceName, "path", path, "error", err)
		records, columns = nil, nil
	}

	records = append(records, record)

	if columns != nil && !slices.Contains(columns, "Published") {
		slog.Error("Sorting failed, writing rows unsorted", "feed", sourceName, "path", path,
			"error", fmt.Errorf("%w: Published", ErrMissingColumn))
	} else {
		sortNewestFirst(records)
	}

	if len(records) > s.maxRows {
		records = records[:s.maxRows]
	}

	if err := writeFile(path, records); err != nil {
		return fmt.Errorf("failed to write dataset %s: %w", path, err)
	}

	return nil
}

// Read returns the stored records of a feed. A missing file yields an error
// satisfying errors.Is(err, os.ErrNotExist).
func (s *Store) Read(sourceName string) ([]Record, error) {
	path := s.Path(sourceName)

	records, columns, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if columns != nil && !slices.Contains(columns, "Sentiment") {
		return nil, fmt.Errorf("%w: Sentiment in %s", ErrMissingColumn, path)
	}

	return records, nil
}

func sortNewestFirst(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return strings.Compare(b.Published, a.Published)
	})
}

// readFile maps columns by header name, so files with reordered or extra
// columns still load. The header is returned for schema checks.
func readFile(path string) ([]Record, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	if !utf8.Valid(data) {
		return nil, nil, fmt.Errorf("dataset %s is not valid UTF-8", path)
	}

	reader := csv.NewReader(bytes.NewReader(data))

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	known := 0
	for i, column := range header {
		column = strings.TrimSpace(column)
		header[i] = column
		index[column] = i
		if slices.Contains(Header, column) {
			known++
		}
	}
	if known == 0 {
		return nil, nil, fmt.Errorf("unrecognised dataset header %q", header)
	}

	field := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	score := func(row []string, column string) (float64, error) {
		value := field(row, column)
		if value == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", column, value, err)
		}
		return f, nil
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row: %w", err)
		}

		record := Record{
			Published: field(row, "Published"),
			Headline:  field(row, "Headline"),
			Link:      field(row, "Link"),
			Source:    field(row, "Source"),
			Sentiment: field(row, "Sentiment"),
		}

		scores := map[string]*float64{
			"Compound": &record.Compound,
			"Positive": &record.Positive,
			"Negative": &record.Negative,
			"Neutral":  &record.Neutral,
		}
		for column, dst := range scores {
			if *dst, err = score(row, column); err != nil {
				return nil, nil, err
			}
		}

		records = append(records, record)
	}

	return records, header, nil
}

// writeFile replaces path via a temporary file and rename.
func writeFile(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(Header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Published,
			r.Headline,
			r.Link,
			r.Source,
			r.Sentiment,
			formatScore(r.Compound),
			formatScore(r.Positive),
			formatScore(r.Negative),
			formatScore(r.Neutral),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write temporary dataset: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace dataset: %w", err)
	}

	return nil
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
