package sources

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sudorandom/co2-atlas/pkg/emissions"
)

// Dataset is everything loaded at startup.
type Dataset struct {
	Records  []emissions.Record
	Features []Feature
}

// Data returns the core input for the given year range.
func (ds *Dataset) Data(minYear, maxYear int) emissions.Data {
	d := emissions.NewData(ds.Records, Codes(ds.Features))
	if minYear != 0 {
		d.MinYear = minYear
	}
	if maxYear != 0 {
		d.MaxYear = maxYear
	}
	return d
}

// Load fetches and parses both datasets concurrently. Either failing fails
// the whole load; there is nothing useful to show with only one of them.
func (f *Fetcher) Load(ctx context.Context, emissionsLocation, geographyLocation string) (*Dataset, error) {
	var ds Dataset
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := f.fetch(ctx, emissionsLocation, func(b []byte) error {
			records, err := ParseEmissions(bytes.NewReader(b))
			if err != nil {
				return err
			}
			names := make(map[string]string)
			for i := range records {
				records[i].CountryName = recordName(names, records[i].CountryCode, records[i].CountryName)
			}
			ds.Records = records
			return nil
		})
		if err != nil {
			return fmt.Errorf("emissions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		_, err := f.fetch(ctx, geographyLocation, func(b []byte) error {
			features, err := ParseGeography(b)
			if err != nil {
				return err
			}
			ds.Features = features
			return nil
		})
		if err != nil {
			return fmt.Errorf("geography: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	f.Logger.Info("datasets loaded",
		zap.Int("records", len(ds.Records)),
		zap.Int("features", len(ds.Features)))
	return &ds, nil
}
