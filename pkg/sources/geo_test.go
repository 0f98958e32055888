package sources

import (
	"errors"
	"testing"
)

const testGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "id": "DEU", "properties": {"name": "Germany"},
		 "geometry": {"type": "Polygon", "coordinates": [[[10,50],[11,50],[11,51],[10,50]]]}},
		{"type": "Feature", "id": "USA", "properties": {"name": "United States"},
		 "geometry": {"type": "MultiPolygon", "coordinates": [[[[-100,40],[-90,40],[-90,45],[-100,40]]], [[[-150,60],[-140,60],[-140,65],[-150,60]]]]}},
		{"type": "Feature", "properties": {"iso_a3": "FRA"},
		 "geometry": {"type": "Polygon", "coordinates": [[[2,48],[3,48],[3,49],[2,48]]]}},
		{"type": "Feature", "id": "PNT", "properties": {"name": "Point"},
		 "geometry": {"type": "Point", "coordinates": [0, 0]}},
		{"type": "Feature", "properties": {"name": "No id"},
		 "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}}
	]
}`

func TestParseGeography(t *testing.T) {
	features, err := ParseGeography([]byte(testGeoJSON))
	if err != nil {
		t.Fatalf("ParseGeography failed: %v", err)
	}
	if len(features) != 3 {
		t.Fatalf("Expected 3 features, got %d", len(features))
	}

	tests := []struct {
		id, name string
		polygons int
	}{
		{"DEU", "Germany", 1},
		{"USA", "United States", 2},
		{"FRA", "France", 1},
	}
	for i, tt := range tests {
		f := features[i]
		if f.ID != tt.id || f.Name != tt.name || len(f.Polygons) != tt.polygons {
			t.Errorf("feature %d = (%s, %q, %d polygons); want (%s, %q, %d)", i, f.ID, f.Name, len(f.Polygons), tt.id, tt.name, tt.polygons)
		}
	}

	codes := Codes(features)
	if len(codes) != 3 || codes[0] != "DEU" || codes[2] != "FRA" {
		t.Errorf("Codes = %v", codes)
	}
}

func TestParseGeographyErrors(t *testing.T) {
	if _, err := ParseGeography([]byte(`not json`)); err == nil {
		t.Errorf("invalid json should fail")
	}
	empty := `{"type": "FeatureCollection", "features": []}`
	if _, err := ParseGeography([]byte(empty)); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("err = %v; want ErrEmptyDataset", err)
	}
}

func TestCountryName(t *testing.T) {
	tests := []struct {
		code, want string
	}{
		{"FRA", "France"},
		{"WLD", ""},
		{"-99", ""},
	}
	for _, tt := range tests {
		if got := CountryName(tt.code); got != tt.want {
			t.Errorf("CountryName(%q) = %q; want %q", tt.code, got, tt.want)
		}
	}
}
