package aeroscope

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/aeroscope-go/catalog"
	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/dataset/datasettest"
	"github.com/hugr-lab/aeroscope-go/engine"
	"github.com/hugr-lab/aeroscope-go/filter"
	"github.com/hugr-lab/aeroscope-go/internal/serialize"
)

// benchTable repeats the reference flights n times with varied airlines
// and distances.
func benchTable(n int) *dataset.Table {
	base := datasettest.Records()
	records := make([]dataset.FlightRecord, 0, n)
	for i := 0; i < n; i++ {
		r := base[i%len(base)]
		r.Airline = "A" + strconv.Itoa(i%40)
		r.DistanceKm = float64(100 + (i*37)%9000)
		records = append(records, r)
	}
	return dataset.NewTable(dataset.OpenSkyColumns, records)
}

// BenchmarkCatalogSerialization benchmarks catalog metadata serialization.
func BenchmarkCatalogSerialization(b *testing.B) {
	builder := NewCatalogBuilder()
	for i := 0; i < 10; i++ {
		builder.Source("source_"+strconv.Itoa(i), "", datasettest.FlightsTable())
	}
	cat, err := builder.Build()
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	allocator := memory.DefaultAllocator

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		data, err := serialize.SerializeCatalog(ctx, cat, allocator, nil)
		if err != nil {
			b.Fatalf("Serialization failed: %v", err)
		}
		_ = data
	}

	b.StopTimer()
	data, _ := serialize.SerializeCatalog(ctx, cat, allocator, nil)
	b.ReportMetric(float64(len(data)), "bytes")
}

// BenchmarkTableScan benchmarks scanning the flights table with varying row counts.
func BenchmarkTableScan(b *testing.B) {
	for _, rows := range []int{100, 1000, 10000} {
		b.Run("rows_"+strconv.Itoa(rows), func(b *testing.B) {
			src := catalog.NewDataSource("bench", "", benchTable(rows), nil)
			ctx := context.Background()
			table, _ := src.Table(ctx, catalog.FlightsTable)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				reader, err := table.Scan(ctx, &catalog.ScanOptions{})
				if err != nil {
					b.Fatalf("Scan failed: %v", err)
				}

				rowCount := int64(0)
				for reader.Next() {
					rowCount += reader.RecordBatch().NumRows()
				}

				reader.Release()

				if rowCount != int64(rows) {
					b.Fatalf("Expected %d rows, got %d", rows, rowCount)
				}
			}

			b.StopTimer()
			b.ReportMetric(float64(rows), "rows/scan")
		})
	}
}

// BenchmarkEngineApply benchmarks one filter change followed by Apply.
func BenchmarkEngineApply(b *testing.B) {
	for _, rows := range []int{1000, 100000} {
		b.Run("rows_"+strconv.Itoa(rows), func(b *testing.B) {
			e := engine.New(benchTable(rows))
			airlines := []string{"A1", "A2", "A3"}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				e.SetFilter(dataset.Airline, filter.In(airlines[i%len(airlines)]))
				e.SetFilter(dataset.Distance, filter.Between(0, float64(1000+i%5000)))
				_ = e.Apply()
			}
		})
	}
}

// BenchmarkSummarize benchmarks the range band summary of a filtered view.
func BenchmarkSummarize(b *testing.B) {
	e := engine.New(benchTable(100000))
	e.SetFilter(dataset.DepartureContinent, filter.In("Europe"))
	e.Apply()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = e.Summarize()
	}
}

// BenchmarkConcurrentScans benchmarks concurrent summary scans of one source.
func BenchmarkConcurrentScans(b *testing.B) {
	src := catalog.NewDataSource("bench", "", benchTable(10000), nil)
	ctx := context.Background()
	table, _ := src.Table(ctx, catalog.SummaryTable)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		var wg sync.WaitGroup
		for j := 0; j < 10; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				reader, err := table.Scan(ctx, &catalog.ScanOptions{})
				if err != nil {
					b.Errorf("Scan failed: %v", err)
					return
				}
				for reader.Next() {
				}
				reader.Release()
			}()
		}
		wg.Wait()
	}
}
