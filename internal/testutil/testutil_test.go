package testutil

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("boom"))
}

func TestEncodeLatin2_RoundTrip(t *testing.T) {
	t.Parallel()

	raw := EncodeLatin2(t, "Korea Północna")
	// "ó" and "ł" are single bytes in ISO-8859-2.
	if len(raw) != len("Korea Polnocna") {
		t.Fatalf("expected single-byte encoding, got %d bytes", len(raw))
	}

	back, err := charmap.ISO8859_2.NewDecoder().Bytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(back) != "Korea Północna" {
		t.Errorf("round trip produced %q", back)
	}
}

func TestNewDataFS(t *testing.T) {
	t.Parallel()

	mfs := NewDataFS(t, "in.csv", ScenarioCSV)
	data, err := mfs.ReadFile("in.csv")
	AssertNoError(t, err)
	if string(data) != ScenarioCSV {
		t.Errorf("ASCII fixture should be unchanged by encoding")
	}
}
