package sources

import (
	"fmt"
	"strconv"

	geojson "github.com/paulmach/go.geojson"
)

// Feature is one map region. Polygons holds every polygon of the geometry as
// rings of [lng, lat] points; single polygons become a one-element slice.
type Feature struct {
	ID       string
	Name     string
	Polygons [][][][]float64
}

// ParseGeography decodes a GeoJSON feature collection. Features without an
// id cannot be joined with the emissions data and are dropped.
func ParseGeography(data []byte) ([]Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geography: %w", err)
	}
	features := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		id := featureID(f)
		if id == "" || f.Geometry == nil {
			continue
		}
		feat := Feature{ID: id, Name: f.PropertyMustString("name", "")}
		if feat.Name == "" {
			feat.Name = CountryName(id)
		}
		switch {
		case f.Geometry.IsPolygon():
			feat.Polygons = [][][][]float64{f.Geometry.Polygon}
		case f.Geometry.IsMultiPolygon():
			feat.Polygons = f.Geometry.MultiPolygon
		default:
			continue
		}
		features = append(features, feat)
	}
	if len(features) == 0 {
		return nil, ErrEmptyDataset
	}
	return features, nil
}

func featureID(f *geojson.Feature) string {
	switch id := f.ID.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
		// Some exports keep the code in the properties instead.
		for _, key := range []string{"iso_a3", "ISO_A3", "id"} {
			if s := f.PropertyMustString(key, ""); s != "" {
				return s
			}
		}
	}
	return ""
}

// Codes returns the id of every feature.
func Codes(features []Feature) []string {
	codes := make([]string, len(features))
	for i, f := range features {
		codes[i] = f.ID
	}
	return codes
}
