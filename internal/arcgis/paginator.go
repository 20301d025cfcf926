package arcgis

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pud-zones/internal/fetcher"
)

// DefaultMaxPages bounds the number of requests a single Each call issues.
const DefaultMaxPages = 10000

// ErrPageLimit is returned when every page up to the request cap was full,
// meaning the result set was not exhausted.
var ErrPageLimit = eris.New("arcgis: page limit reached before a short page")

// PageFunc receives each non-empty page of features in arrival order.
type PageFunc func(page []Feature) error

// Paginator walks a FeatureServer query by resultOffset.
type Paginator struct {
	fetcher  fetcher.Fetcher
	query    *Query
	maxPages int
}

// NewPaginator creates a paginator over q. A non-positive maxPages falls
// back to DefaultMaxPages.
func NewPaginator(f fetcher.Fetcher, q *Query, maxPages int) *Paginator {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Paginator{fetcher: f, query: q, maxPages: maxPages}
}

// Each requests pages starting at offset 0 and hands every non-empty page
// to fn. It stops after an empty page (not passed to fn) or a page shorter
// than the page size (passed to fn). It returns the number of requests
// issued. If the cap is reached while pages are still full, ErrPageLimit is
// returned.
func (p *Paginator) Each(ctx context.Context, fn PageFunc) (int, error) {
	log := zap.L().With(zap.String("component", "arcgis.paginator"))
	pageSize := p.query.PageSize()

	offset := 0
	requests := 0
	for requests < p.maxPages {
		if err := ctx.Err(); err != nil {
			return requests, eris.Wrap(err, "arcgis: paginate")
		}

		fc, err := p.fetchPage(ctx, offset)
		requests++
		if err != nil {
			return requests, err
		}

		n := len(fc.Features)
		log.Debug("fetched page",
			zap.Int("offset", offset),
			zap.Int("features", n),
			zap.Bool("exceeded_transfer_limit", fc.Properties != nil && fc.Properties.ExceededTransferLimit),
		)

		if n == 0 {
			return requests, nil
		}

		if err := fn(fc.Features); err != nil {
			return requests, err
		}

		if n < pageSize {
			return requests, nil
		}

		offset += pageSize
	}

	return requests, eris.Wrapf(ErrPageLimit, "arcgis: %d requests, next offset %d", requests, offset)
}

// fetchPage downloads and decodes the page starting at offset.
func (p *Paginator) fetchPage(ctx context.Context, offset int) (*FeatureCollection, error) {
	u := p.query.URL(offset)

	body, err := p.fetcher.Download(ctx, u)
	if err != nil {
		return nil, eris.Wrapf(err, "arcgis: fetch page at offset %d", offset)
	}
	defer body.Close() //nolint:errcheck

	fc, err := fetcher.DecodeJSONObject[FeatureCollection](body)
	if err != nil {
		return nil, eris.Wrapf(err, "arcgis: decode page at offset %d", offset)
	}

	if fc.Error != nil {
		return nil, fc.Error
	}

	return fc, nil
}
