package warheads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/banshee-data/warheads.report/internal/fsutil"
	"github.com/banshee-data/warheads.report/internal/monitoring"
)

// Column names required in the input header (matched case-insensitively).
const (
	ColumnCountry  = "Country"
	ColumnYear     = "Year"
	ColumnWarheads = "Warheads"
	ColumnColor    = "Color"
)

// DefaultEncoding is the character encoding of the reference data file.
const DefaultEncoding = "ISO-8859-2"

// ErrNoRecords is returned when nothing is left after exclusion.
var ErrNoRecords = errors.New("no records left after filtering")

// missingTokens are the spellings of an absent number in the input table.
var missingTokens = map[string]bool{
	"": true, "nan": true, "na": true, "n/a": true, "null": true, "none": true,
}

// LoadOptions controls decoding and filtering of the input table.
type LoadOptions struct {
	Encoding    string   // character encoding label; empty means DefaultEncoding
	Exclude     []string // countries to drop
	FillMissing bool     // replace missing values with zero
}

// Load reads and parses the table at path.
func Load(fsys fsutil.FileSystem, path string, opts LoadOptions) (*Dataset, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	monitoring.Stagef("load", "%s: %d rows, %d excluded, %d filled, %d kept",
		path, ds.Stats.RowsRead, ds.Stats.RowsExcluded, ds.Stats.ValuesFilled, ds.Len())
	return ds, nil
}

// Parse decodes r and returns the filtered records in row order. Any
// unconvertible Year or numeric value fails the whole parse.
func Parse(r io.Reader, opts LoadOptions) (*Dataset, error) {
	encName := opts.Encoding
	if encName == "" {
		encName = DefaultEncoding
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", encName, err)
	}

	reader := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty data file")
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(opts.Exclude))
	for _, c := range opts.Exclude {
		excluded[c] = true
	}

	ds := &Dataset{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		ds.Stats.RowsRead++

		rec, filled, err := parseRow(row, cols, opts.FillMissing)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if excluded[rec.Country] {
			ds.Stats.RowsExcluded++
			continue
		}
		ds.Stats.ValuesFilled += filled
		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return nil, ErrNoRecords
	}
	return ds, nil
}

type columnIndex struct {
	country, year, warheads, color int
}

func mapColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, col := range header {
		byName[strings.ToLower(strings.TrimSpace(col))] = i
	}

	lookup := func(name string) (int, error) {
		if i, ok := byName[strings.ToLower(name)]; ok {
			return i, nil
		}
		return -1, fmt.Errorf("required column %q not found. Available columns: %v", name, header)
	}

	var idx columnIndex
	var err error
	if idx.country, err = lookup(ColumnCountry); err != nil {
		return idx, err
	}
	if idx.year, err = lookup(ColumnYear); err != nil {
		return idx, err
	}
	if idx.warheads, err = lookup(ColumnWarheads); err != nil {
		return idx, err
	}
	if idx.color, err = lookup(ColumnColor); err != nil {
		return idx, err
	}
	return idx, nil
}

// parseRow converts one CSV row and reports how many values were zero-filled.
func parseRow(row []string, cols columnIndex, fill bool) (Record, int, error) {
	rec := Record{Country: strings.TrimSpace(row[cols.country])}
	filled := 0

	year, err := parseYear(row[cols.year])
	if err != nil {
		return rec, 0, err
	}
	rec.Year = year

	warheads, ok, err := parseNumber(row[cols.warheads])
	if err != nil {
		return rec, 0, fmt.Errorf("invalid %s value: %w", ColumnWarheads, err)
	}
	switch {
	case ok:
		rec.Warheads = warheads
	case fill:
		filled++
	default:
		rec.Warheads = math.NaN()
	}

	color, ok, err := parseNumber(row[cols.color])
	if err != nil || (ok && (color != math.Trunc(color) || math.Abs(color) > math.MaxInt32)) {
		return rec, 0, fmt.Errorf("invalid %s index %q", ColumnColor, row[cols.color])
	}
	if ok {
		rec.Color = int(color)
	} else if fill {
		filled++
	}

	return rec, filled, nil
}

// parseYear accepts integers and integral floats such as "1945.0".
func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("cannot convert %s %q to an integer", ColumnYear, s)
	}
	return int(f), nil
}

// parseNumber returns ok=false for a missing value.
func parseNumber(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if missingTokens[strings.ToLower(s)] {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("non-finite number %q", s)
	}
	return v, true, nil
}
