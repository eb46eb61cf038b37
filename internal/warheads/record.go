// Package warheads loads the warhead-count time series and answers the
// per-year questions the frame builder and renderer ask of it.
package warheads

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Record is one row of the input table.
type Record struct {
	Country  string
	Year     int
	Warheads float64 // NaN when missing and the fill policy is off
	Color    int     // palette index
}

// HasValue reports whether the warhead count is defined.
func (r Record) HasValue() bool {
	return !math.IsNaN(r.Warheads)
}

// LoadStats summarises what the loader did to the raw table.
type LoadStats struct {
	RowsRead     int
	RowsExcluded int
	ValuesFilled int
}

// Dataset is the filtered record sequence in original row order.
type Dataset struct {
	Records []Record
	Stats   LoadStats
}

// NewDataset wraps records without copying them.
func NewDataset(records []Record) *Dataset {
	return &Dataset{Records: records, Stats: LoadStats{RowsRead: len(records)}}
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// Years returns the distinct years in ascending order.
func (d *Dataset) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range d.Records {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}

// YearRange returns the smallest and largest year. Both are zero for an
// empty dataset.
func (d *Dataset) YearRange() (minYear, maxYear int) {
	for i, r := range d.Records {
		if i == 0 || r.Year < minYear {
			minYear = r.Year
		}
		if i == 0 || r.Year > maxYear {
			maxYear = r.Year
		}
	}
	return minYear, maxYear
}

// MaxWarheads returns the largest defined warhead count, or 0 when there is
// none. Missing values are skipped.
func (d *Dataset) MaxWarheads() float64 {
	return MaxWarheads(d.Records)
}

// Countries returns the distinct countries in order of first appearance.
func (d *Dataset) Countries() []string {
	return Countries(d.Records)
}

// Through returns every record with Year <= year, preserving row order.
func (d *Dataset) Through(year int) []Record {
	var out []Record
	for _, r := range d.Records {
		if r.Year <= year {
			out = append(out, r)
		}
	}
	return out
}

// At returns the records for exactly one year, preserving row order.
func (d *Dataset) At(year int) []Record {
	return ForYear(d.Records, year)
}

// ForYear filters records down to a single year.
func ForYear(records []Record, year int) []Record {
	var out []Record
	for _, r := range records {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

// ForCountry filters records down to a single country.
func ForCountry(records []Record, country string) []Record {
	var out []Record
	for _, r := range records {
		if r.Country == country {
			out = append(out, r)
		}
	}
	return out
}

// Countries returns the distinct countries of records in first-appearance
// order.
func Countries(records []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.Country] {
			seen[r.Country] = true
			out = append(out, r.Country)
		}
	}
	return out
}

// MaxWarheads returns the largest defined value among records, or 0.
func MaxWarheads(records []Record) float64 {
	vals := make([]float64, 0, len(records))
	for _, r := range records {
		if r.HasValue() {
			vals = append(vals, r.Warheads)
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return floats.Max(vals)
}

// Largest returns the record with the greatest defined value. Ties go to the
// record that appears first. ok is false when no record has a value.
func Largest(records []Record) (rec Record, ok bool) {
	for _, r := range records {
		if !r.HasValue() {
			continue
		}
		if !ok || r.Warheads > rec.Warheads {
			rec, ok = r, true
		}
	}
	return rec, ok
}
