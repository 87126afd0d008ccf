// Package basemap proxies and caches raster basemap tiles for the
// geo-accurate map.
package basemap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MaxZoom is the deepest tile level proxied.
const MaxZoom = 20

// ErrInvalidTile is returned for coordinates outside the tile pyramid.
var ErrInvalidTile = eris.New("basemap: invalid tile coordinates")

// subdomains are substituted for "{s}" in the upstream URL, round robin.
var subdomains = []string{"a", "b", "c", "d"}

// Proxy fetches tiles from an upstream tile server through a cache.
// Concurrent requests for the same uncached tile share one upstream fetch.
type Proxy struct {
	baseURL string
	format  string
	client  *http.Client
	cache   *Cache
	group   singleflight.Group
	next    atomic.Uint32
}

// NewProxy creates a proxy for baseURL ("https://{s}.example.com/light_all"
// or a fixed host). cache may be nil.
func NewProxy(baseURL, format string, cache *Cache) *Proxy {
	if format == "" {
		format = "png"
	}
	return &Proxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		format:  format,
		client:  &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
	}
}

// ValidTile reports whether (z, x, y) addresses a tile that exists.
func ValidTile(z, x, y int) bool {
	if z < 0 || z > MaxZoom {
		return false
	}
	n := 1 << z
	return x >= 0 && x < n && y >= 0 && y < n
}

// Fetch returns a tile and its content type.
func (p *Proxy) Fetch(ctx context.Context, z, x, y int) ([]byte, string, error) {
	if !ValidTile(z, x, y) {
		return nil, "", eris.Wrapf(ErrInvalidTile, "%d/%d/%d", z, x, y)
	}
	key := TileKey{Z: z, X: x, Y: y}

	if p.cache != nil {
		if data := p.cache.Get(key); data != nil {
			return data, p.contentType(), nil
		}
	}

	v, err, _ := p.group.Do(fmt.Sprintf("%d/%d/%d", z, x, y), func() (any, error) {
		return p.fetchUpstream(ctx, key)
	})
	if err != nil {
		return nil, "", err
	}
	return v.([]byte), p.contentType(), nil
}

func (p *Proxy) fetchUpstream(ctx context.Context, k TileKey) ([]byte, error) {
	url := fmt.Sprintf("%s/%d/%d/%d.%s", p.upstreamBase(), k.Z, k.X, k.Y, p.format)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "basemap: create request")
	}
	req.Header.Set("User-Agent", "census-map/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "basemap: fetch tile")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("basemap: upstream returned %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "basemap: read tile body")
	}

	if p.cache != nil {
		p.cache.Put(k, data)
	}
	zap.L().Debug("basemap: fetched tile", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, nil
}

func (p *Proxy) upstreamBase() string {
	if !strings.Contains(p.baseURL, "{s}") {
		return p.baseURL
	}
	s := subdomains[int(p.next.Add(1)-1)%len(subdomains)]
	return strings.ReplaceAll(p.baseURL, "{s}", s)
}

func (p *Proxy) contentType() string {
	switch p.format {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// ServeHTTP serves /{z}/{x}/{y}.{ext} routed by chi.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	z, errZ := strconv.Atoi(chi.URLParam(r, "z"))
	x, errX := strconv.Atoi(chi.URLParam(r, "x"))
	yPart := chi.URLParam(r, "y")
	if i := strings.IndexByte(yPart, '.'); i >= 0 {
		yPart = yPart[:i]
	}
	y, errY := strconv.Atoi(yPart)
	if errZ != nil || errX != nil || errY != nil || !ValidTile(z, x, y) {
		http.Error(w, "invalid tile path", http.StatusBadRequest)
		return
	}

	data, ct, err := p.Fetch(r.Context(), z, x, y)
	if err != nil {
		zap.L().Error("basemap: tile fetch failed", zap.Error(err))
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}
