package warheads

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/warheads.report/internal/testutil"
)

var defaultOpts = LoadOptions{
	Encoding:    DefaultEncoding,
	Exclude:     []string{"USA", "Rosja"},
	FillMissing: true,
}

func TestLoad_ScenarioTable(t *testing.T) {
	mfs := testutil.NewDataFS(t, "data.csv", testutil.ScenarioCSV)

	ds, err := Load(mfs, "data.csv", defaultOpts)
	require.NoError(t, err)

	want := []Record{
		{Country: "A", Year: 1945, Warheads: 10, Color: 0},
		{Country: "B", Year: 1945, Warheads: 5, Color: 1},
		{Country: "A", Year: 1949, Warheads: 20, Color: 0},
		{Country: "B", Year: 1949, Warheads: 15, Color: 1},
	}
	if diff := cmp.Diff(want, ds.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, LoadStats{RowsRead: 4}, ds.Stats)
}

func TestLoad_ExcludesAndFills(t *testing.T) {
	mfs := testutil.NewDataFS(t, "pl.csv", testutil.PolishCSV)

	ds, err := Load(mfs, "pl.csv", defaultOpts)
	require.NoError(t, err)

	for _, r := range ds.Records {
		assert.NotEqual(t, "USA", r.Country)
		assert.NotEqual(t, "Rosja", r.Country)
		assert.True(t, r.HasValue(), "%s %d should be zero-filled", r.Country, r.Year)
	}

	assert.Equal(t, 9, ds.Stats.RowsRead)
	assert.Equal(t, 2, ds.Stats.RowsExcluded)
	assert.Equal(t, 2, ds.Stats.ValuesFilled)
	assert.Equal(t, 7, ds.Len())

	// Row order survives filtering and diacritics survive decoding.
	got := make([]string, 0, ds.Len())
	for _, r := range ds.Records {
		got = append(got, r.Country)
	}
	want := []string{"Wielka Brytania", "Francja", "Chiny", "Wielka Brytania", "Francja", "Izrael", "Korea Północna"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("country order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0.0, ds.Records[6].Warheads)
}

func TestParse_NoFillKeepsNaN(t *testing.T) {
	opts := defaultOpts
	opts.FillMissing = false

	ds, err := Parse(strings.NewReader("Country,Year,Warheads,Color\nX,1990,,2\nY,1990,NaN,3\n"), opts)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.True(t, math.IsNaN(ds.Records[0].Warheads))
	assert.True(t, math.IsNaN(ds.Records[1].Warheads))
	assert.Equal(t, 0, ds.Stats.ValuesFilled)
}

func TestParse_HeaderCaseInsensitiveAndReordered(t *testing.T) {
	in := "color, warheads ,YEAR,country\n4,300,1991,Chiny\n"

	ds, err := Parse(strings.NewReader(in), defaultOpts)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, Record{Country: "Chiny", Year: 1991, Warheads: 300, Color: 4}, ds.Records[0])
}

func TestParse_IntegralFloatYear(t *testing.T) {
	ds, err := Parse(strings.NewReader("Country,Year,Warheads,Color\nIndie,1974.0,1,5\n"), defaultOpts)
	require.NoError(t, err)
	assert.Equal(t, 1974, ds.Records[0].Year)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    LoadOptions
		wantErr string
	}{
		{
			name:    "empty file",
			input:   "",
			opts:    defaultOpts,
			wantErr: "empty data file",
		},
		{
			name:    "missing column",
			input:   "Country,Year,Warheads\nA,1945,1\n",
			opts:    defaultOpts,
			wantErr: `required column "Color" not found`,
		},
		{
			name:    "non-integer year",
			input:   "Country,Year,Warheads,Color\nA,1945,1,0\nB,around 1950,2,1\n",
			opts:    defaultOpts,
			wantErr: "line 3",
		},
		{
			name:    "fractional year",
			input:   "Country,Year,Warheads,Color\nA,1945.5,1,0\n",
			opts:    defaultOpts,
			wantErr: "cannot convert Year",
		},
		{
			name:    "missing year",
			input:   "Country,Year,Warheads,Color\nA,,1,0\n",
			opts:    defaultOpts,
			wantErr: "cannot convert Year",
		},
		{
			name:    "bad warheads",
			input:   "Country,Year,Warheads,Color\nA,1945,many,0\n",
			opts:    defaultOpts,
			wantErr: "invalid Warheads value",
		},
		{
			name:    "bad color",
			input:   "Country,Year,Warheads,Color\nA,1945,1,red\n",
			opts:    defaultOpts,
			wantErr: "invalid Color index",
		},
		{
			name:    "infinite warheads",
			input:   "Country,Year,Warheads,Color\nA,1945,1,0\nA,1946,+Inf,0\n",
			opts:    defaultOpts,
			wantErr: "line 3: invalid Warheads value",
		},
		{
			name:    "infinite color",
			input:   "Country,Year,Warheads,Color\nA,1945,1,-inf\n",
			opts:    defaultOpts,
			wantErr: "invalid Color index",
		},
		{
			name:    "color out of range",
			input:   "Country,Year,Warheads,Color\nA,1950,5,-9223372036854775808\n",
			opts:    defaultOpts,
			wantErr: "line 2: invalid Color index",
		},
		{
			name:    "ragged row",
			input:   "Country,Year,Warheads,Color\nA,1945,1\n",
			opts:    defaultOpts,
			wantErr: "error reading CSV",
		},
		{
			name:    "unknown encoding",
			input:   "Country,Year,Warheads,Color\nA,1945,1,0\n",
			opts:    LoadOptions{Encoding: "klingon-8"},
			wantErr: "unknown encoding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_AllExcluded(t *testing.T) {
	_, err := Parse(strings.NewReader("Country,Year,Warheads,Color\nUSA,1945,2,0\n"), defaultOpts)
	assert.True(t, errors.Is(err, ErrNoRecords), "got %v", err)
}

func TestParse_UTF8Encoding(t *testing.T) {
	opts := defaultOpts
	opts.Encoding = "utf-8"

	ds, err := Parse(strings.NewReader("Country,Year,Warheads,Color\nKorea Północna,2006,0,6\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, "Korea Północna", ds.Records[0].Country)
}

func TestLoad_MissingFile(t *testing.T) {
	mfs := testutil.NewDataFS(t, "present.csv", testutil.ScenarioCSV)

	_, err := Load(mfs, "absent.csv", defaultOpts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open data file")
}
