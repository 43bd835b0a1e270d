package catalog

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb"
)

func TestGeometryExtensionType(t *testing.T) {
	extType := NewGeometryExtensionType()

	if extType.ExtensionName() != "geoarrow.wkb" {
		t.Errorf("expected extension name 'geoarrow.wkb', got '%s'", extType.ExtensionName())
	}
	if !arrow.TypeEqual(extType.StorageType(), arrow.BinaryTypes.Binary) {
		t.Errorf("expected Binary storage type, got %s", extType.StorageType())
	}
	if extType.String() != "extension<geoarrow.wkb>" {
		t.Errorf("expected 'extension<geoarrow.wkb>', got '%s'", extType.String())
	}
}

func TestGeometryExtensionType_Deserialize(t *testing.T) {
	extType := NewGeometryExtensionType()

	tests := []struct {
		name        string
		storageType arrow.DataType
		wantErr     bool
	}{
		{"Binary storage", arrow.BinaryTypes.Binary, false},
		{"LargeBinary storage", arrow.BinaryTypes.LargeBinary, false},
		{"Invalid storage type", arrow.PrimitiveTypes.Int64, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extType.Deserialize(tt.storageType, "")
			if (err != nil) != tt.wantErr {
				t.Errorf("Deserialize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeDecodeGeometry(t *testing.T) {
	route := orb.LineString{{2.55, 49.0097}, {-73.7781, 40.6413}}
	wkbBytes, err := EncodeGeometry(route)
	if err != nil {
		t.Fatalf("EncodeGeometry() failed: %v", err)
	}
	decoded, err := DecodeGeometry(wkbBytes)
	if err != nil {
		t.Fatalf("DecodeGeometry() failed: %v", err)
	}
	if ls, ok := decoded.(orb.LineString); !ok || !ls.Equal(route) {
		t.Errorf("decoded %v, want %v", decoded, route)
	}

	if _, err := EncodeGeometry(nil); err == nil {
		t.Error("expected error for nil geometry")
	}
	if _, err := EncodeGeometry(orb.LineString{{0, 0}}); err == nil {
		t.Error("expected error for single point linestring")
	}
	if _, err := DecodeGeometry(nil); err == nil {
		t.Error("expected error for empty WKB")
	}
}

func TestGeometryArray(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	schema := arrow.NewSchema([]arrow.Field{
		RouteField("route"),
	}, nil)

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	gb := builder.Field(0).(*array.ExtensionBuilder).StorageBuilder().(*array.BinaryBuilder)
	wkbBytes, err := EncodeGeometry(orb.LineString{{0, 0}, {1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	gb.Append(wkbBytes)
	gb.AppendNull()

	record := builder.NewRecordBatch()
	defer record.Release()

	geomCol, ok := record.Column(0).(*GeometryArray)
	if !ok {
		t.Fatalf("expected *GeometryArray, got %T", record.Column(0))
	}
	if geomCol.Len() != 2 {
		t.Fatalf("expected 2 geometries, got %d", geomCol.Len())
	}
	if _, err := geomCol.Geometry(0); err != nil {
		t.Errorf("Geometry(0) failed: %v", err)
	}
	if geomCol.WKB(1) != nil {
		t.Error("null element must have no WKB")
	}

	field := schema.Field(0)
	if v, ok := field.Metadata.GetValue("srid"); !ok || v != "4326" {
		t.Errorf("srid metadata = %q", v)
	}
	if got := field.Type.(*GeometryExtensionType).Serialize(); got != `{"crs":"OGC:CRS84","edges":"spherical"}` {
		t.Errorf("extension metadata = %s", got)
	}
}
