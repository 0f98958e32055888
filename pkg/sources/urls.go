package sources

// DefaultGeographyLocation is the default of Flags.Map.
const DefaultGeographyLocation = "map.json"

// GeographyURL mirrors the country boundaries, with ISO alpha-3 feature ids
// and a name property. The emissions table has no public copy in the
// records format and is always read from the configured location.
const GeographyURL = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"
