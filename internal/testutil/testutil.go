// Package testutil provides shared fixtures for the report packages: small
// warhead tables, ISO-8859-2 encoding of fixture text and an in-memory
// filesystem preloaded with them.
package testutil

import (
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/banshee-data/warheads.report/internal/fsutil"
)

// ScenarioCSV is the two-year, two-country table used across packages:
// A (10, 20) and B (5, 15) in 1945 and 1949.
const ScenarioCSV = `Country,Year,Warheads,Color
A,1945,10,0
B,1945,5,1
A,1949,20,0
B,1949,15,1
`

// PolishCSV exercises excluded countries, diacritics and missing values.
const PolishCSV = `Country,Year,Warheads,Color
USA,1945,2,0
Rosja,1949,1,1
Wielka Brytania,1952,1,2
Francja,1960,,3
Chiny,1964,1,4
Wielka Brytania,1964,310,2
Francja,1964,32,3
Izrael,1967,13,5
Korea Północna,2006,,6
`

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// EncodeLatin2 converts UTF-8 fixture text into ISO-8859-2 bytes.
func EncodeLatin2(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.ISO8859_2.NewEncoder().String(s)
	if err != nil {
		t.Fatalf("encode ISO-8859-2: %v", err)
	}
	return []byte(out)
}

// NewDataFS returns an in-memory filesystem holding content, ISO-8859-2
// encoded, at name.
func NewDataFS(t *testing.T, name, content string) *fsutil.MemoryFileSystem {
	t.Helper()
	mfs := fsutil.NewMemoryFileSystem()
	if err := mfs.WriteFile(name, EncodeLatin2(t, content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return mfs
}
