package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"shoplens/internal"
	"shoplens/ports"
)

// Prefetch warms the lookups every dashboard render depends on: the
// observed order-date bounds and the product category list. It runs once at
// startup, outside any render, so the first page load does not pay for
// them. The date bounds are required (they seed the session store); the
// category warm-up is best effort.
func Prefetch(ctx context.Context, catalog ports.Catalog) (minDate, maxDate time.Time, err error) {
	log := internal.DefaultLogger

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var rangeErr error
		minDate, maxDate, rangeErr = catalog.ObservedDateRange(gctx)
		return rangeErr
	})
	g.Go(func() error {
		categories, catErr := catalog.Categories(gctx)
		if catErr != nil {
			log.Warn("category prefetch failed: %v", catErr)
			return nil
		}
		log.Info("prefetched %d product categories", len(categories))
		return nil
	})
	err = g.Wait()
	return minDate, maxDate, err
}
