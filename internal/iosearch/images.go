package iosearch

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gnspecies/pkg/taxon"
	"golang.org/x/sync/singleflight"
)

// imageResolver finds images with cache-aside lookups. Outcomes of
// provider calls are cached, "no image" included.
type imageResolver struct {
	cache    taxon.ImageCache
	provider taxon.ImageProvider
	metrics  *Metrics
	group    singleflight.Group
}

func (r *imageResolver) resolve(ctx context.Context, name string) *string {
	img, ok, err := r.cache.GetImage(ctx, name)
	if err != nil {
		slog.Warn("Cannot read image cache", "name", name, "error", err)
	}
	r.metrics.cache(r.metrics.imageCache, ok)
	if ok {
		return img.URL
	}

	// the flight is shared, so it runs without the caller's cancellation
	wctx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(taxon.NameKey(name), func() (any, error) {
		// a previous flight could finish after the lookup above
		if img, ok, err := r.cache.GetImage(wctx, name); err == nil && ok {
			return img.URL, nil
		}
		return r.fetch(wctx, name), nil
	})

	select {
	case <-ctx.Done():
		return nil
	case res := <-ch:
		return res.Val.(*string)
	}
}

func (r *imageResolver) fetch(ctx context.Context, name string) *string {
	url, err := r.provider.Image(ctx, name)
	if err != nil {
		r.metrics.upstreamErrors.WithLabelValues("inat").Inc()
		slog.Debug("Image lookup failed", "name", name, "error", err)
	}

	var res *string
	if err == nil && url != "" {
		res = &url
	}
	img := taxon.Image{ScientificName: name, URL: res, CachedAt: time.Now()}
	if err = r.cache.SetImage(ctx, img); err != nil {
		slog.Warn("Cannot cache image", "name", name, "error", err)
	}
	return res
}
