package sources

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Flags are the dataset command line flags shared by the binaries.
type Flags struct {
	Data     string `help:"Emissions dataset, a local path or http(s) URL." default:"data.json" env:"CO2_DATA"`
	Map      string `help:"GeoJSON country boundaries, a local path or http(s) URL." default:"map.json" env:"CO2_MAP"`
	Remote   bool   `help:"Use the public mirror for the map when --map is left at its default." env:"CO2_REMOTE"`
	CacheDir string `help:"Download cache directory. Empty disables caching." env:"CO2_CACHE_DIR"`
	MinYear  int    `help:"First year of the slider." default:"1960"`
	MaxYear  int    `help:"Last year of the slider and of playback." default:"2019"`
}

func (f Flags) locations() (data, geo string) {
	data, geo = f.Data, f.Map
	if f.Remote && (geo == "" || geo == DefaultGeographyLocation) {
		geo = GeographyURL
	}
	return data, geo
}

// Load fetches both datasets as configured.
func (f Flags) Load(ctx context.Context, logger *zap.Logger) (*Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if f.MinYear > f.MaxYear {
		return nil, fmt.Errorf("invalid year range [%d, %d]", f.MinYear, f.MaxYear)
	}
	var cache *Cache
	if f.CacheDir != "" {
		c, err := OpenCache(f.CacheDir)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := c.Close(); err != nil {
				logger.Warn("error closing cache", zap.Error(err))
			}
		}()
		cache = c
	}
	data, geo := f.locations()
	return NewFetcher(cache, logger).Load(ctx, data, geo)
}
