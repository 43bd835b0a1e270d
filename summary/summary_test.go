package summary

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/dataset/datasettest"
)

func TestBandOf(t *testing.T) {
	tests := []struct {
		km   float64
		want Band
	}{
		{0, ShortRange},
		{1500, ShortRange},
		{1500.1, MediumRange},
		{4000, MediumRange},
		{4000.1, LongRange},
	}
	for _, tt := range tests {
		got, ok := BandOf(tt.km)
		if !ok || got != tt.want {
			t.Errorf("BandOf(%v) = %v, %v, want %v", tt.km, got, ok, tt.want)
		}
	}
	if _, ok := BandOf(math.NaN()); ok {
		t.Error("NaN distance must belong to no band")
	}
}

func TestSummarize(t *testing.T) {
	agg := Summarize(datasettest.Table().All())

	wantNames := []string{
		"ASK", "CO2 (kg)", "Seats",
		"CO2 (kg) per ASK", "Energy (MJ) per ASK",
		"Share of world ASK (%)", "Share of world Seats (%)", "Share of world CO2 (%)",
	}
	if len(agg.Rows) != len(wantNames) {
		t.Fatalf("expected %d rows, got %d", len(wantNames), len(agg.Rows))
	}
	for i, name := range wantNames {
		if agg.Rows[i].Name != name {
			t.Errorf("row %d = %q, want %q", i, agg.Rows[i].Name, name)
		}
	}

	tests := []struct {
		row  string
		band Band
		want float64
	}{
		{"CO2 (kg)", ShortRange, 150},
		{"ASK", ShortRange, 1500},
		{"Seats", ShortRange, 200},
		{"CO2 (kg)", MediumRange, 500},
		{"ASK", MediumRange, 4000},
		{"Seats", MediumRange, 400},
		{"CO2 (kg)", LongRange, 900},
		{"ASK", LongRange, 8000},
		{"Seats", LongRange, 300},
		{"CO2 (kg)", Total, 1550},
		{"CO2 (kg) per ASK", ShortRange, 0.1},
		{"Energy (MJ) per ASK", ShortRange, 150.0 / 1500.0 / 3.16 * 44},
		{"Share of world CO2 (%)", Total, 100},
		{"Share of world ASK (%)", LongRange, 8000.0 / 13500.0 * 100},
	}
	for _, tt := range tests {
		t.Run(tt.row+"/"+tt.band.Column(), func(t *testing.T) {
			got := agg.Value(tt.row, tt.band)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarizeFlights(t *testing.T) {
	agg := Summarize(datasettest.FlightsTable().All())
	if len(agg.Rows) != 10 {
		t.Fatalf("expected 10 rows with flight counts, got %d", len(agg.Rows))
	}
	if got := agg.Value("Flights", Total); got != 8 {
		t.Errorf("Flights total = %v, want 8", got)
	}
	if got := agg.Value("Share of world Flights (%)", ShortRange); got != 5.0/8.0*100 {
		t.Errorf("short range flight share = %v", got)
	}
}

func TestSummarizeCarriedMetrics(t *testing.T) {
	cols := dataset.Columns{
		Name:    "emissions",
		Metrics: map[dataset.Metric]string{dataset.CO2: "co2"},
	}
	agg := Summarize(dataset.NewTable(cols, datasettest.Records()).All())

	var names []string
	for _, r := range agg.Rows {
		names = append(names, r.Name)
	}
	want := []string{"CO2 (kg)", "Share of world CO2 (%)"}
	if !slices.Equal(names, want) {
		t.Errorf("rows = %v, want %v", names, want)
	}
	if got := agg.Value("CO2 (kg)", Total); got != 1550 {
		t.Errorf("CO2 total = %v, want 1550", got)
	}
}

func TestSummarizeZeroDenominator(t *testing.T) {
	table := datasettest.Table()
	af := table.Filter(func(r *dataset.FlightRecord) bool { return r.Airline == "AF" })
	agg := Summarize(af)

	if got := agg.Value("CO2 (kg) per ASK", MediumRange); !math.IsNaN(got) {
		t.Errorf("empty medium range CO2 per ASK = %v, want NaN", got)
	}
	if got := agg.Value("Energy (MJ) per ASK", MediumRange); !math.IsNaN(got) {
		t.Errorf("empty medium range energy per ASK = %v, want NaN", got)
	}
	if got := agg.Value("Share of world CO2 (%)", MediumRange); got != 0 {
		t.Errorf("empty band share = %v, want 0", got)
	}

	empty := dataset.NewTable(dataset.CompilationColumns, nil)
	agg = Summarize(empty.All())
	for _, r := range agg.Rows {
		if strings.HasPrefix(r.Name, "Share") && !math.IsNaN(r.Value(Total)) {
			t.Errorf("%s on an empty table = %v, want NaN", r.Name, r.Value(Total))
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	table := datasettest.Table()
	views := map[string]*dataset.View{
		"all": table.All(),
		"af":  table.Filter(func(r *dataset.FlightRecord) bool { return r.Airline == "AF" }),
	}
	for name, view := range views {
		t.Run(name, func(t *testing.T) {
			agg := Summarize(view)

			var buf bytes.Buffer
			if err := agg.WriteCSV(&buf); err != nil {
				t.Fatalf("WriteCSV failed: %v", err)
			}
			if !strings.HasPrefix(buf.String(), "name,val,sr,mr,lr\n") {
				t.Errorf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
			}
			if lines := strings.Count(buf.String(), "\n"); lines != len(agg.Rows)+1 {
				t.Errorf("expected %d lines, got %d", len(agg.Rows)+1, lines)
			}

			parsed, err := ReadCSV(&buf)
			if err != nil {
				t.Fatalf("ReadCSV failed: %v", err)
			}
			if !parsed.Equal(agg) {
				t.Errorf("round trip changed the table:\n got %+v\nwant %+v", parsed.Rows, agg.Rows)
			}
		})
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad header", "metric,val,sr,mr,lr\n"},
		{"bad value", "name,val,sr,mr,lr\nASK,1,2,x,4\n"},
		{"short row", "name,val,sr,mr,lr\nASK,1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
