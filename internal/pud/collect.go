package pud

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/pud-zones/internal/arcgis"
)

// Source yields pages of raw features in arrival order.
type Source interface {
	Each(ctx context.Context, fn arcgis.PageFunc) (int, error)
}

// Collect normalizes every feature from src, preserving page order and
// within-page order. It returns the zones and the number of requests made.
// Any error discards everything collected so far.
func Collect(ctx context.Context, src Source) ([]Zone, int, error) {
	var zones []Zone

	requests, err := src.Each(ctx, func(page []arcgis.Feature) error {
		for _, f := range page {
			z, err := Normalize(f)
			if err != nil {
				return err
			}
			zones = append(zones, z)
		}
		zap.L().Debug("normalized page",
			zap.Int("features", len(page)),
			zap.Int("total", len(zones)),
		)
		return nil
	})
	if err != nil {
		return nil, requests, err
	}

	return zones, requests, nil
}
