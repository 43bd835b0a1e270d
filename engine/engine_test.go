package engine

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/dataset/datasettest"
	"github.com/hugr-lab/aeroscope-go/filter"
	"github.com/hugr-lab/aeroscope-go/region"
	"github.com/hugr-lab/aeroscope-go/summary"
)

func TestConjunctionCommutative(t *testing.T) {
	table := datasettest.Table()

	a := New(table)
	a.SetFilter(dataset.Airline, filter.In("AF"))
	a.SetFilter(dataset.ArrivalContinent, filter.In("Europe"))

	b := New(table)
	b.SetFilter(dataset.ArrivalContinent, filter.In("Europe"))
	b.SetFilter(dataset.Airline, filter.In("AF"))

	va, vb := a.Apply(), b.Apply()
	if !va.Equal(vb) {
		t.Errorf("rows differ with predicate order: %v vs %v", va.Rows(), vb.Rows())
	}
	if !slices.Equal(va.Rows(), []int{0, 2, 3}) {
		t.Errorf("rows = %v, want [0 2 3]", va.Rows())
	}
}

func TestEmptyPredicateIdentity(t *testing.T) {
	table := datasettest.Table()
	for _, d := range dataset.Dimensions() {
		t.Run(d.String(), func(t *testing.T) {
			e := New(table)
			e.SetFilter(d, filter.In())
			view := e.Apply()
			if !view.Equal(table.All()) {
				t.Errorf("empty %s predicate selected %v", d, view.Rows())
			}
		})
	}
}

func TestDistanceInterval(t *testing.T) {
	e := New(datasettest.Table())
	if got := e.State().Distance(); got != (filter.Range{Min: 0, Max: 5000}) {
		t.Errorf("default interval = %v, want [0, 5000]", got)
	}

	e.SetFilter(dataset.Distance, filter.Between(1500, 5000))
	if got := e.Apply().Rows(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("rows = %v, want [1 2 3]", got)
	}

	e.SetFilter(dataset.Distance, filter.In())
	if got := e.Apply().Len(); got != 4 {
		t.Errorf("cleared distance selected %d rows, want 4", got)
	}
}

func TestSelfExclusion(t *testing.T) {
	e := New(datasettest.Table())

	e.SetFilter(dataset.Airline, filter.In("LH"))
	e.Apply()

	if got := e.AvailableOptions(dataset.DepartureAirport); !slices.Equal(got, []string{"FRA"}) {
		t.Errorf("departure airports = %v, want [FRA]", got)
	}
	if got := e.AvailableOptions(dataset.Airline); !slices.Equal(got, []string{"AF", "LH"}) {
		t.Errorf("changed dimension must keep its options, got %v", got)
	}

	e.SetFilter(dataset.Airline, filter.In())
	e.SetFilter(dataset.FlightType, filter.In(dataset.FlightTypeDomestic))
	before := e.AvailableOptions(dataset.FlightType)
	e.Apply()
	if got := e.AvailableOptions(dataset.Airline); !slices.Equal(got, []string{"AF"}) {
		t.Errorf("cleared dimension must refresh from the view, got %v", got)
	}
	if got := e.AvailableOptions(dataset.FlightType); !slices.Equal(got, before) {
		t.Errorf("flight type options = %v, want %v kept", got, before)
	}

	// Once unchanged, every dimension reflects the current view.
	e.SetFilter(dataset.Aircraft, filter.In("A320", "B77W"))
	e.Apply()
	if got := e.AvailableOptions(dataset.FlightType); !slices.Equal(got, []string{dataset.FlightTypeDomestic}) {
		t.Errorf("unchanged dimension = %v, want [domestic]", got)
	}

	for _, d := range dataset.CategoricalDimensions() {
		if d == dataset.Aircraft {
			continue
		}
		distinct := e.View().Distinct(d)
		for _, v := range distinct {
			if !slices.Contains(e.AvailableOptions(d), v) {
				t.Errorf("%s options %v miss view value %q", d, e.AvailableOptions(d), v)
			}
		}
	}

	if e.AvailableOptions(dataset.Distance) != nil {
		t.Error("distance has no categorical options")
	}
}

func TestApplyWithoutChange(t *testing.T) {
	e := New(datasettest.Table())
	e.SetFilter(dataset.Airline, filter.In("LH"))
	e.Apply()

	want := []string{"AF", "LH"}
	steps := []struct {
		name string
		run  func() error
	}{
		{"apply again", func() error { return nil }},
		{"empty spec", func() error { return e.SetSpec(filter.Spec{}) }},
		{"no regions", func() error { return e.SelectRegions(dataset.DepartureCountry) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		e.Apply()
		if got := e.AvailableOptions(dataset.Airline); !slices.Equal(got, want) {
			t.Errorf("%s: airline options = %v, want %v", step.name, got, want)
		}
	}

	// The next change moves the airline back to the narrowed dimensions.
	e.SetFilter(dataset.Aircraft, filter.In("A321"))
	e.Apply()
	if got := e.AvailableOptions(dataset.Airline); !slices.Equal(got, []string{"LH"}) {
		t.Errorf("airline options after aircraft change = %v, want [LH]", got)
	}
}

func TestMissingDistance(t *testing.T) {
	records := datasettest.Records()
	records[3].DistanceKm = math.NaN()
	table := dataset.NewTable(dataset.CompilationColumns, records)

	e := New(table)
	if got := e.View().Rows(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("reset rows = %v, want [0 1 2]", got)
	}
	if got := e.Apply().Rows(); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("default rows = %v, want [0 1 2]", got)
	}

	agg := e.Summarize()
	var bands float64
	for _, b := range []summary.Band{summary.ShortRange, summary.MediumRange, summary.LongRange} {
		bands += agg.Value("CO2 (kg)", b)
	}
	if total := agg.Value("CO2 (kg)", summary.Total); total != bands {
		t.Errorf("CO2 total %v differs from the band sum %v", total, bands)
	}
}

func TestSelectRegions(t *testing.T) {
	e := New(datasettest.Table())
	e.SetFilter(dataset.DepartureCountry, filter.In("Monaco, Principality of"))

	if err := e.SelectRegions(dataset.DepartureCountry, region.G7); err != nil {
		t.Fatalf("SelectRegions(G7) failed: %v", err)
	}
	if err := e.SelectRegions(dataset.DepartureCountry, region.OECD); err != nil {
		t.Fatalf("SelectRegions(OECD) failed: %v", err)
	}

	selected := e.State().Values(dataset.DepartureCountry)
	oecd, _ := region.Expand(region.OECD)
	if len(selected) != len(oecd)+1 {
		t.Errorf("selection has %d countries, want %d", len(selected), len(oecd)+1)
	}
	g7, _ := region.Expand(region.G7)
	for _, c := range append(g7, "Monaco, Principality of") {
		if !slices.Contains(selected, c) {
			t.Errorf("selection lost %q", c)
		}
	}
	if got := e.SelectedRegions(dataset.DepartureCountry); !slices.Equal(got, []string{region.G7, region.OECD}) {
		t.Errorf("selected regions = %v", got)
	}

	if got := e.Apply().Rows(); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("rows = %v, want all four", got)
	}

	e.SetFilter(dataset.DepartureCountry, filter.In())
	if got := e.SelectedRegions(dataset.DepartureCountry); got != nil {
		t.Errorf("clearing the countries must clear the regions, got %v", got)
	}

	if err := e.SelectRegions(dataset.DepartureCountry, "Atlantis"); !errors.Is(err, region.ErrUnknownRegion) {
		t.Errorf("expected ErrUnknownRegion, got %v", err)
	}
	if err := e.SelectRegions(dataset.Airline, region.G7); err == nil {
		t.Error("regions must only apply to country dimensions")
	}
}

func TestExpandRegion(t *testing.T) {
	e := New(datasettest.Table())
	got, err := e.ExpandRegion(region.G7, region.OECD)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := region.Expand(region.OECD)
	if !slices.Equal(got, want) {
		t.Errorf("ExpandRegion(G7, OECD) = %d countries, want %d", len(got), len(want))
	}
}

func TestResetIdempotent(t *testing.T) {
	e := New(datasettest.Table())
	e.SetFilter(dataset.Airline, filter.In("LH"))
	e.SetFilter(dataset.Distance, filter.Between(0, 100))
	e.Apply()

	e.Reset()
	state := e.State()
	options := make(map[dataset.Dimension][]string)
	for _, d := range dataset.Dimensions() {
		options[d] = e.AvailableOptions(d)
	}

	e.Reset()
	if !e.State().Equal(state) {
		t.Error("second Reset changed the state")
	}
	for _, d := range dataset.Dimensions() {
		if !slices.Equal(e.AvailableOptions(d), options[d]) {
			t.Errorf("second Reset changed %s options", d)
		}
	}
	if !state.IsDefault() {
		t.Errorf("Reset left active dimensions %v", state.Active())
	}
	if e.View().Len() != 4 {
		t.Errorf("Reset view has %d rows, want 4", e.View().Len())
	}
	if got := e.AvailableOptions(dataset.DepartureAirport); len(got) != 4 {
		t.Errorf("Reset options = %v, want every airport", got)
	}
}

func TestSummarize(t *testing.T) {
	e := New(datasettest.Table())
	agg := e.Summarize()

	if got := agg.Value("CO2 (kg)", summary.ShortRange); got != 150 {
		t.Errorf("short range CO2 = %v, want 150", got)
	}
	if got := agg.Value("CO2 (kg)", summary.Total); got != 1550 {
		t.Errorf("total CO2 = %v, want 1550", got)
	}
	if got := agg.Value("CO2 (kg) per ASK", summary.ShortRange); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("short range CO2 per ASK = %v, want 0.1", got)
	}

	e.SetFilter(dataset.DepartureAirport, filter.In("LHR"))
	e.Apply()
	agg = e.Summarize()
	for _, b := range summary.Bands() {
		if got := agg.Value("CO2 (kg) per ASK", b); !math.IsNaN(got) {
			t.Errorf("empty view CO2 per ASK %s = %v, want NaN", b, got)
		}
	}

	var buf bytes.Buffer
	if err := agg.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "CO2 (kg) per ASK,NaN,NaN,NaN,NaN") {
		t.Errorf("NaN not written:\n%s", buf.String())
	}
	parsed, err := summary.ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(agg) {
		t.Error("CSV round trip changed the summary")
	}
}

func TestSetSpec(t *testing.T) {
	e := New(datasettest.Table())
	err := e.SetSpec(filter.Spec{
		Values:   map[string][]string{"airline": {"AF"}},
		Distance: &filter.Range{Min: 1000, Max: 6000},
	})
	if err != nil {
		t.Fatalf("SetSpec failed: %v", err)
	}
	if got := e.Apply().Rows(); !slices.Equal(got, []int{2, 3}) {
		t.Errorf("rows = %v, want [2 3]", got)
	}

	err = e.SetSpec(filter.Spec{
		Values:   map[string][]string{"airline": {"LH"}},
		Distance: &filter.Range{Min: 10, Max: 1},
	})
	if !errors.Is(err, filter.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if got := e.State().Values(dataset.Airline); !slices.Equal(got, []string{"AF"}) {
		t.Errorf("failed SetSpec applied part of the spec: airline = %v", got)
	}
}

func TestSetFilterPanics(t *testing.T) {
	noAirline := dataset.Columns{
		Name:       "minimal",
		Dimensions: map[dataset.Dimension]string{dataset.Distance: "distance_km"},
		Metrics:    map[dataset.Metric]string{dataset.CO2: "co2"},
	}
	tests := []struct {
		name  string
		table *dataset.Table
		d     dataset.Dimension
		p     filter.Predicate
	}{
		{"unknown dimension", datasettest.Table(), dataset.Dimension(42), filter.In("x")},
		{"range on categorical", datasettest.Table(), dataset.Airline, filter.Between(0, 1)},
		{"values on distance", datasettest.Table(), dataset.Distance, filter.In("1")},
		{"dimension not carried", dataset.NewTable(noAirline, datasettest.Records()), dataset.Airline, filter.In("AF")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.table)
			if err := e.Validate(tt.d, tt.p); err == nil {
				t.Error("Validate accepted the predicate")
			}

			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("SetFilter did not panic")
				}
				if msg, ok := r.(string); !ok || !strings.Contains(msg, tt.d.String()) {
					t.Errorf("panic %v does not name the dimension %s", r, tt.d)
				}
			}()
			e.SetFilter(tt.d, tt.p)
		})
	}
}

func TestBaseTableUntouched(t *testing.T) {
	table := datasettest.Table()
	before := *table.Record(0)

	e := New(table)
	e.SetFilter(dataset.Airline, filter.In("LH"))
	e.Apply()
	e.Reset()

	if *table.Record(0) != before || table.Len() != 4 {
		t.Error("engine mutated the base table")
	}
}
