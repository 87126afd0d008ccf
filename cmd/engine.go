package main

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/census-map/internal/basemap"
	"github.com/sells-group/census-map/internal/boundary"
	"github.com/sells-group/census-map/internal/colormap"
	"github.com/sells-group/census-map/internal/config"
	"github.com/sells-group/census-map/internal/density"
	"github.com/sells-group/census-map/internal/distribute"
	"github.com/sells-group/census-map/internal/metrics"
	"github.com/sells-group/census-map/internal/region"
	"github.com/sells-group/census-map/internal/session"
)

// engine holds the components shared by the serve and analyze commands.
type engine struct {
	Catalog     *region.Catalog
	Source      *density.Adapter
	Distributor distribute.Distributor
	Mapper      colormap.Mapper
	Boundary    *boundary.Loader
	Basemap     *basemap.Proxy
	Metrics     *metrics.Metrics
}

// newEngine builds the density source, distributor, color mapper, boundary
// loader and basemap proxy from c.
func newEngine(c *config.Config) (*engine, error) {
	cat := region.HongKong()
	m := metrics.New()

	dist, err := distribute.New(c.Map.DistributionPolicy(), distribute.WithBand(c.Map.NoiseBand))
	if err != nil {
		return nil, eris.Wrap(err, "engine: distributor")
	}
	mapper, err := colormap.New(c.Map.ColorScheme())
	if err != nil {
		return nil, eris.Wrap(err, "engine: color mapper")
	}

	primary, alternate := c.Map.BoundaryPaths()
	cache := basemap.NewCache(c.Basemap.CacheSize, time.Duration(c.Basemap.CacheTTLMins)*time.Minute)

	return &engine{
		Catalog:     cat,
		Source:      density.NewFromConfig(c.Anthropic, cat, m),
		Distributor: dist,
		Mapper:      mapper,
		Boundary:    boundary.NewLoader(primary, alternate, boundary.WithMetrics(m)),
		Basemap:     basemap.NewProxy(c.Basemap.URL, c.Basemap.Format, cache),
		Metrics:     m,
	}, nil
}

// sessionDeps returns the dependencies every session shares.
func (e *engine) sessionDeps() session.Deps {
	return session.Deps{
		Catalog:     e.Catalog,
		Source:      e.Source,
		Distributor: e.Distributor,
		Mapper:      e.Mapper,
		Boundary:    e.Boundary,
		Metrics:     e.Metrics,
	}
}
