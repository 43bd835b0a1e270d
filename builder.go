package aeroscope

import (
	"fmt"
	"log/slog"

	"github.com/hugr-lab/aeroscope-go/catalog"
	"github.com/hugr-lab/aeroscope-go/dataset"
)

// SourceDef defines a data source over one loaded flight table.
// Used with CatalogBuilder.Source().
type SourceDef struct {
	// Name is the source name (e.g., "compilation", "opensky").
	// REQUIRED: MUST be non-empty and unique within catalog.
	Name string

	// Comment is optional source documentation.
	// OPTIONAL: Empty string if no comment.
	Comment string

	// Data is the immutable base table the source serves.
	// REQUIRED: MUST NOT be nil.
	Data *dataset.Table
}

// CatalogBuilder builds static catalogs using fluent API.
// Not thread-safe - use only during initialization.
type CatalogBuilder struct {
	sources []SourceDef
	custom  []catalog.Source
	logger  *slog.Logger
	built   bool
}

// NewCatalogBuilder creates a new fluent catalog builder.
// Returns builder in "empty" state (no sources).
//
// Example:
//
//	cat, err := aeroscope.NewCatalogBuilder().
//	    Source("compilation", "Yearly compilation", compilation).
//	    Source("opensky", "OpenSky flights", opensky).
//	    Build()
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{}
}

// Source adds a data source over a loaded table.
// Returns self for method chaining.
func (cb *CatalogBuilder) Source(name, comment string, data *dataset.Table) *CatalogBuilder {
	cb.sources = append(cb.sources, SourceDef{Name: name, Comment: comment, Data: data})
	return cb
}

// AddSource adds a custom catalog.Source implementation.
// Returns self for method chaining.
func (cb *CatalogBuilder) AddSource(src catalog.Source) *CatalogBuilder {
	cb.custom = append(cb.custom, src)
	return cb
}

// Logger sets the logger handed to every built source.
// OPTIONAL: slog.Default() is used if not set.
func (cb *CatalogBuilder) Logger(logger *slog.Logger) *CatalogBuilder {
	cb.logger = logger
	return cb
}

// Build finalizes the catalog and returns immutable Catalog implementation.
// Can only be called once. Further modifications return error.
// Returns error if catalog is invalid (e.g., duplicate source names).
func (cb *CatalogBuilder) Build() (catalog.Catalog, error) {
	if cb.built {
		return nil, fmt.Errorf("catalog already built")
	}

	seenNames := make(map[string]bool)
	seen := func(name string) error {
		if name == "" {
			return fmt.Errorf("source name cannot be empty")
		}
		if seenNames[name] {
			return fmt.Errorf("duplicate source name: %s", name)
		}
		seenNames[name] = true
		return nil
	}
	for _, def := range cb.sources {
		if err := seen(def.Name); err != nil {
			return nil, err
		}
		if def.Data == nil {
			return nil, fmt.Errorf("source %s has nil data", def.Name)
		}
	}
	for _, src := range cb.custom {
		if src == nil {
			return nil, fmt.Errorf("nil source")
		}
		if err := seen(src.Name()); err != nil {
			return nil, err
		}
	}

	cb.built = true

	cat := catalog.NewStaticCatalog()
	for _, def := range cb.sources {
		cat.AddSource(catalog.NewDataSource(def.Name, def.Comment, def.Data, cb.logger))
	}
	for _, src := range cb.custom {
		cat.AddSource(src)
	}

	return cat, nil
}
