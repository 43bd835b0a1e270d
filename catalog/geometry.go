package catalog

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// GeometryExtensionName identifies WKB geometry columns.
// GeoArrow and the DuckDB spatial extension both read it.
const GeometryExtensionName = "geoarrow.wkb"

// routeMetadata is the GeoArrow extension metadata of route columns:
// lon/lat coordinates joined by great-circle edges.
var routeMetadata = func() string {
	data, _ := json.Marshal(struct {
		CRS   string `json:"crs"`
		Edges string `json:"edges"`
	}{CRS: "OGC:CRS84", Edges: "spherical"})
	return string(data)
}()

// GeometryExtensionType stores geometries as WKB in a Binary or
// LargeBinary column.
type GeometryExtensionType struct {
	arrow.ExtensionBase
	metadata string
}

// NewGeometryExtensionType returns the WKB type of route columns.
func NewGeometryExtensionType() *GeometryExtensionType {
	return &GeometryExtensionType{
		ExtensionBase: arrow.ExtensionBase{Storage: arrow.BinaryTypes.Binary},
		metadata:      routeMetadata,
	}
}

func (g *GeometryExtensionType) ArrayType() reflect.Type {
	return reflect.TypeOf(GeometryArray{})
}

func (g *GeometryExtensionType) ExtensionName() string {
	return GeometryExtensionName
}

func (g *GeometryExtensionType) String() string {
	return "extension<" + GeometryExtensionName + ">"
}

// Serialize returns the GeoArrow metadata carried in IPC streams.
func (g *GeometryExtensionType) Serialize() string {
	return g.metadata
}

// Deserialize accepts Binary and LargeBinary storage with any metadata.
func (g *GeometryExtensionType) Deserialize(storageType arrow.DataType, data string) (arrow.ExtensionType, error) {
	if !arrow.TypeEqual(storageType, arrow.BinaryTypes.Binary) &&
		!arrow.TypeEqual(storageType, arrow.BinaryTypes.LargeBinary) {
		return nil, fmt.Errorf("invalid storage type for geometry: %s (expected Binary or LargeBinary)", storageType)
	}
	return &GeometryExtensionType{
		ExtensionBase: arrow.ExtensionBase{Storage: storageType},
		metadata:      data,
	}, nil
}

// ExtensionEquals checks equality with another extension type.
func (g *GeometryExtensionType) ExtensionEquals(other arrow.ExtensionType) bool {
	otherGeom, ok := other.(*GeometryExtensionType)
	if !ok {
		return false
	}
	return arrow.TypeEqual(g.StorageType(), otherGeom.StorageType())
}

// GeometryArray is the array type of geometry columns.
type GeometryArray struct {
	array.ExtensionArrayBase
}

// WKB returns the raw WKB bytes of element i, nil when null.
func (a *GeometryArray) WKB(i int) []byte {
	if a.IsNull(i) {
		return nil
	}
	switch s := a.Storage().(type) {
	case *array.Binary:
		return s.Value(i)
	case *array.LargeBinary:
		return s.Value(i)
	}
	return nil
}

// Geometry decodes element i.
func (a *GeometryArray) Geometry(i int) (orb.Geometry, error) {
	return DecodeGeometry(a.WKB(i))
}

// RouteField returns a nullable WKB LineString field for flight routes
// in WGS 84 (EPSG:4326).
func RouteField(name string) arrow.Field {
	return arrow.Field{
		Name:     name,
		Type:     NewGeometryExtensionType(),
		Nullable: true,
		Metadata: arrow.MetadataFrom(map[string]string{
			"ARROW:extension:name":     GeometryExtensionName,
			"ARROW:extension:metadata": routeMetadata,
			"srid":                     "4326",
			"geometry_type":            "LineString",
		}),
	}
}

// EncodeGeometry converts an orb.Geometry to WKB bytes for Arrow storage.
func EncodeGeometry(geom orb.Geometry) ([]byte, error) {
	if geom == nil {
		return nil, fmt.Errorf("cannot encode nil geometry")
	}
	if ls, ok := geom.(orb.LineString); ok && len(ls) < 2 {
		return nil, fmt.Errorf("linestring must have at least 2 points, has %d", len(ls))
	}
	return wkb.Marshal(geom)
}

// DecodeGeometry converts WKB bytes from Arrow storage to orb.Geometry.
func DecodeGeometry(wkbBytes []byte) (orb.Geometry, error) {
	if len(wkbBytes) == 0 {
		return nil, fmt.Errorf("cannot decode empty WKB data")
	}
	return wkb.Unmarshal(wkbBytes)
}

func init() {
	_ = arrow.RegisterExtensionType(NewGeometryExtensionType())
}
