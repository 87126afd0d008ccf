package basemap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_LRUEviction(t *testing.T) {
	c := NewCache(2, time.Hour)
	a, b, d := TileKey{1, 0, 0}, TileKey{1, 1, 0}, TileKey{1, 1, 1}

	c.Put(a, []byte("a"))
	c.Put(b, []byte("b"))
	assert.Equal(t, []byte("a"), c.Get(a)) // a is now most recent
	c.Put(d, []byte("d"))                  // evicts b

	assert.Nil(t, c.Get(b))
	assert.Equal(t, []byte("a"), c.Get(a))
	assert.Equal(t, []byte("d"), c.Get(d))

	s := c.Stats()
	assert.Equal(t, 2, s.Entries)
	assert.Equal(t, int64(3), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.InDelta(t, 0.75, s.HitRate, 1e-9)
}

func TestCache_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(10, time.Minute)
	c.nowFunc = func() time.Time { return now }

	k := TileKey{3, 1, 1}
	c.Put(k, []byte("x"))
	now = now.Add(59 * time.Second)
	assert.NotNil(t, c.Get(k))
	now = now.Add(2 * time.Second)
	assert.Nil(t, c.Get(k))
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCache_PutRefreshes(t *testing.T) {
	c := NewCache(2, time.Hour)
	k := TileKey{0, 0, 0}
	c.Put(k, []byte("old"))
	c.Put(k, []byte("new"))
	assert.Equal(t, []byte("new"), c.Get(k))
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestValidTile(t *testing.T) {
	assert.True(t, ValidTile(0, 0, 0))
	assert.True(t, ValidTile(11, 1674, 892))
	assert.False(t, ValidTile(1, 2, 0))
	assert.False(t, ValidTile(-1, 0, 0))
	assert.False(t, ValidTile(MaxZoom+1, 0, 0))
	assert.False(t, ValidTile(3, 0, -1))
}

func TestProxy_FetchAndCache(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/light_all/11/1674/892.png", r.URL.Path)
		_, _ = w.Write([]byte("tile"))
	}))
	defer upstream.Close()

	p := NewProxy(upstream.URL+"/light_all/", "png", NewCache(10, time.Hour))
	for range 3 {
		data, ct, err := p.Fetch(context.Background(), 11, 1674, 892)
		require.NoError(t, err)
		assert.Equal(t, []byte("tile"), data)
		assert.Equal(t, "image/png", ct)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestProxy_ConcurrentFetchesShareUpstream(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte("tile"))
	}))
	defer upstream.Close()

	p := NewProxy(upstream.URL, "png", nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := p.Fetch(context.Background(), 5, 3, 3)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestProxy_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	_, _, err := NewProxy(upstream.URL, "png", nil).Fetch(context.Background(), 1, 0, 0)
	assert.Error(t, err)
}

func TestProxy_InvalidTile(t *testing.T) {
	_, _, err := NewProxy("http://unused", "png", nil).Fetch(context.Background(), 2, 9, 0)
	assert.ErrorIs(t, err, ErrInvalidTile)
}

func TestProxy_SubdomainRotation(t *testing.T) {
	p := NewProxy("https://{s}.basemaps.cartocdn.com/light_all", "png", nil)
	got := []string{p.upstreamBase(), p.upstreamBase(), p.upstreamBase(), p.upstreamBase(), p.upstreamBase()}
	assert.Equal(t, []string{
		"https://a.basemaps.cartocdn.com/light_all",
		"https://b.basemaps.cartocdn.com/light_all",
		"https://c.basemaps.cartocdn.com/light_all",
		"https://d.basemaps.cartocdn.com/light_all",
		"https://a.basemaps.cartocdn.com/light_all",
	}, got)

	fixed := NewProxy("https://a.basemaps.cartocdn.com/light_all", "png", nil)
	assert.Equal(t, "https://a.basemaps.cartocdn.com/light_all", fixed.upstreamBase())
}

func TestProxy_ContentType(t *testing.T) {
	tests := []struct{ format, want string }{
		{"png", "image/png"},
		{"jpg", "image/jpeg"},
		{"webp", "image/webp"},
		{"pbf", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewProxy("", tt.format, nil).contentType())
	}
}

func TestProxy_ServeHTTP(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	r := chi.NewRouter()
	r.Get("/basemap/{z}/{x}/{y}", NewProxy(upstream.URL, "png", nil).ServeHTTP)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/basemap/11/1674/892.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/basemap/1/5/0.png", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/basemap/a/b/c.png", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
