// Package session holds per-user dashboard state: the submitted profile,
// the active attribute, the density set on display and the map view.
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/census-map/internal/boundary"
	"github.com/sells-group/census-map/internal/colormap"
	"github.com/sells-group/census-map/internal/density"
	"github.com/sells-group/census-map/internal/distribute"
	"github.com/sells-group/census-map/internal/insight"
	"github.com/sells-group/census-map/internal/mapview"
	"github.com/sells-group/census-map/internal/metrics"
	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/region"
)

// State is the density lifecycle of a session.
type State int

// Session states.
const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Errors returned by session operations.
var (
	ErrClosed        = eris.New("session: closed")
	ErrNoBoundary    = eris.New("session: geo-accurate map not configured")
	ErrBoundaryLoad  = eris.New("session: boundary dataset still loading")
	ErrUnknownRegion = eris.New("session: no region at point")
)

// DensitySource fetches densities without failing. *density.Adapter
// implements it.
type DensitySource interface {
	FetchDensities(ctx context.Context, profile model.Profile, attr model.Attribute) density.Result
}

// Deps are the components shared by every session.
type Deps struct {
	Catalog     *region.Catalog
	Source      DensitySource
	Distributor distribute.Distributor
	Mapper      colormap.Mapper
	// Boundary is nil when the geo-accurate map is disabled.
	Boundary *boundary.Loader
	Metrics  *metrics.Metrics
}

// Session is one user's dashboard. All methods are safe for concurrent use.
type Session struct {
	ID        string
	Profile   model.Profile
	CreatedAt time.Time

	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger

	inflight sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	attr      model.Attribute
	state     State
	err       error
	issued    uint64
	applied   uint64
	result    density.Result
	dataAttr  model.Attribute
	densities map[string]float64
	insight   insight.Insight
	zoom      *mapview.Zoom
	mount     *mapview.Animation
	mountAt   time.Time
	geo       *mapview.GeoMap
	lastSeen  time.Time

	nowFunc func() time.Time
}

// New creates an idle session. Call SelectAttribute to load data.
func New(id string, profile model.Profile, deps Deps) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        id,
		Profile:   profile,
		CreatedAt: time.Now(),
		deps:      deps,
		ctx:       ctx,
		cancel:    cancel,
		log:       zap.L().With(zap.String("component", "session"), zap.String("session", id)),
		attr:      model.DefaultAttribute(),
		dataAttr:  model.DefaultAttribute(),
		densities: map[string]float64{},
		zoom:      mapview.NewZoom(),
		nowFunc:   time.Now,
	}
	s.lastSeen = s.CreatedAt
	s.insight = insight.Derive(profile, s.attr, nil, deps.Catalog.ParentIDs())

	anim := mapview.MountAnimation(mapview.Identity)
	s.mount = &anim
	s.mountAt = s.nowFunc()
	return s
}

// SelectAttribute makes attr active and starts fetching its densities. The
// previous density set stays on display until the fetch lands. Returns the
// request sequence number.
func (s *Session) SelectAttribute(attr model.Attribute) (uint64, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrClosed
	}
	s.issued++
	seq := s.issued
	s.attr = attr
	s.state = Loading
	s.err = nil
	s.inflight.Add(1)
	s.mu.Unlock()

	s.log.Debug("session: fetching densities", zap.String("attribute", attr.Key), zap.Uint64("seq", seq))
	go s.fetch(seq, attr)
	return seq, nil
}

func (s *Session) fetch(seq uint64, attr model.Attribute) {
	defer s.inflight.Done()

	res := s.deps.Source.FetchDensities(s.ctx, s.Profile, attr)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.issued {
		s.log.Debug("session: discarding superseded densities",
			zap.String("attribute", attr.Key),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.issued),
		)
		s.deps.Metrics.StaleDiscarded()
		return
	}
	if err := s.ctx.Err(); err != nil {
		s.state = Failed
		s.err = eris.Wrap(err, "session: fetch densities")
		return
	}

	s.applied = seq
	s.result = res
	s.dataAttr = attr
	s.densities = s.deps.Distributor.Distribute(res.Scores, s.deps.Catalog)
	s.insight = insight.Derive(s.Profile, attr, res.Scores, s.deps.Catalog.ParentIDs())
	if s.geo != nil {
		s.geo.SetData(attr, res.Scores)
	}
	s.state = Ready
}

// Wait blocks until no fetch is in flight or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "session: wait")
	}
}

// Close cancels outstanding fetches. Later calls to SelectAttribute fail.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.After(s.lastSeen) {
		s.lastSeen = t
	}
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// State returns the density lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attribute returns the active attribute.
func (s *Session) Attribute() model.Attribute {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attr
}

// Densities returns a copy of the sub-region densities on display.
func (s *Session) Densities() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.densities))
	for k, v := range s.densities {
		out[k] = v
	}
	return out
}

// Insight returns the headline for the density set on display.
func (s *Session) Insight() insight.Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insight
}

// Result returns the district density set on display.
func (s *Session) Result() density.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// RenderSVG writes the stylized choropleth for the current data and view.
func (s *Session) RenderSVG(w io.Writer) error {
	s.mu.Lock()
	densities := make(map[string]float64, len(s.densities))
	for k, v := range s.densities {
		densities[k] = v
	}
	view := s.viewLocked()
	s.mu.Unlock()

	return mapview.RenderSVG(w, s.deps.Catalog, densities, s.deps.Mapper, view)
}

// Features returns the styled boundary features. While the dataset is
// loading it returns ErrBoundaryLoad; after a failed load it returns an
// error wrapping boundary.ErrLoadFailed.
func (s *Session) Features() (*geojson.FeatureCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	geo, err := s.geoLocked()
	if err != nil {
		return nil, err
	}
	return geo.StyledFeatures(), nil
}

// geoLocked returns the geo map, creating it once the boundary is ready.
func (s *Session) geoLocked() (*mapview.GeoMap, error) {
	if s.geo != nil {
		return s.geo, nil
	}
	if s.deps.Boundary == nil {
		return nil, ErrNoBoundary
	}

	s.deps.Boundary.Start(s.ctx)
	switch s.deps.Boundary.State() {
	case boundary.Ready:
	case boundary.Failed:
		return nil, s.deps.Boundary.Err()
	default:
		return nil, ErrBoundaryLoad
	}

	s.geo = mapview.NewGeoMap(s.deps.Boundary.Dataset(), s.deps.Distributor, s.deps.Mapper)
	s.geo.SetData(s.dataAttr, s.result.Scores)
	return s.geo, nil
}
