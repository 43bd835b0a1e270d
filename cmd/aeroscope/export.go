package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/engine"
	"github.com/hugr-lab/aeroscope-go/filter"
	"github.com/hugr-lab/aeroscope-go/sqlstore"
)

// listFlag collects a repeated string flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, " ")
}

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func export(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "aeroscope.yaml", "configuration file")
	sourceName := fs.String("source", "", "source to summarize")
	output := fs.String("o", "", "output file, standard output if empty")
	distance := fs.String("distance", "", "distance range in km as min:max")
	var filters, regions listFlag
	fs.Var(&filters, "filter", "dimension filter as dim=v1,v2 (values split on | when present), repeatable")
	fs.Var(&regions, "region", "regional group selection as dep:G7 or arr:OECD, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sourceName == "" {
		return fmt.Errorf("export: -source is required")
	}

	spec, err := parseFilters(filters, *distance)
	if err != nil {
		return err
	}
	selections, err := parseRegions(regions)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	src, ok := cfg.source(*sourceName)
	if !ok {
		return fmt.Errorf("export: source not found: %s", *sourceName)
	}
	level, err := cfg.level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Exporting reads the store but never imports into it.
	var store *sqlstore.Store
	if src.Table != "" {
		if store, err = cfg.openStore(ctx, logger); err != nil {
			return err
		}
		defer store.Close()
	}
	table, err := src.load(ctx, store)
	if err != nil {
		return err
	}

	e := engine.New(table, engine.WithLogger(logger))
	if err := e.SetSpec(spec); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, sel := range selections {
		if err := e.SelectRegions(sel.dimension, sel.regions...); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	view := e.Apply()
	logger.Debug("Filtered source", "source", src.Name, "rows", view.Len())

	agg := e.Summarize()
	if *output == "" {
		return agg.WriteCSV(stdout)
	}
	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := agg.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseFilters builds a filter spec from dim=values flags and a min:max
// distance range.
func parseFilters(filters []string, distance string) (filter.Spec, error) {
	var spec filter.Spec
	for _, f := range filters {
		name, values, ok := strings.Cut(f, "=")
		if !ok || name == "" || values == "" {
			return spec, fmt.Errorf("export: filter %q is not dim=v1,v2", f)
		}
		d, err := dataset.ParseDimension(name)
		if err != nil {
			return spec, fmt.Errorf("export: %w", err)
		}
		if d == dataset.Distance {
			return spec, fmt.Errorf("export: use -distance for the distance range")
		}
		sep := ","
		if strings.Contains(values, "|") {
			sep = "|"
		}
		if spec.Values == nil {
			spec.Values = make(map[string][]string)
		}
		for _, v := range strings.Split(values, sep) {
			if v = strings.TrimSpace(v); v != "" {
				spec.Values[d.String()] = append(spec.Values[d.String()], v)
			}
		}
	}
	if distance != "" {
		lo, hi, ok := strings.Cut(distance, ":")
		if !ok {
			return spec, fmt.Errorf("export: distance %q is not min:max", distance)
		}
		minKm, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return spec, fmt.Errorf("export: distance min: %w", err)
		}
		maxKm, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return spec, fmt.Errorf("export: distance max: %w", err)
		}
		spec.Distance = &filter.Range{Min: minKm, Max: maxKm}
	}
	return spec, nil
}

type regionSelection struct {
	dimension dataset.Dimension
	regions   []string
}

// parseRegions reads dep:G7,OECD and arr:OECD flags. A full country dimension
// name may be used in place of dep or arr.
func parseRegions(flags []string) ([]regionSelection, error) {
	var out []regionSelection
	for _, f := range flags {
		side, labels, ok := strings.Cut(f, ":")
		if !ok || labels == "" {
			return nil, fmt.Errorf("export: region %q is not dep:GROUP or arr:GROUP", f)
		}
		var d dataset.Dimension
		switch side {
		case "dep":
			d = dataset.DepartureCountry
		case "arr":
			d = dataset.ArrivalCountry
		default:
			var err error
			if d, err = dataset.ParseDimension(side); err != nil {
				return nil, fmt.Errorf("export: %w", err)
			}
		}
		out = append(out, regionSelection{dimension: d, regions: strings.Split(labels, ",")})
	}
	return out, nil
}
