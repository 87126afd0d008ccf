package boundary

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"TPU_ID": "111"},
     "geometry": {"type": "Polygon", "coordinates": [[[114.10,22.28],[114.12,22.28],[114.12,22.30],[114.10,22.28]]]}},
    {"type": "Feature", "properties": {"TPU_KEY": 212},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[114.20,22.30],[114.22,22.30],[114.22,22.32],[114.20,22.30]]]]}},
    {"type": "Feature", "properties": {"TPU_ID": "", "NAME": "no code"},
     "geometry": {"type": "Polygon", "coordinates": [[[114.0,22.0],[114.1,22.0],[114.1,22.1],[114.0,22.0]]]}},
    {"type": "Feature", "properties": {"TPU_ID": "999"}, "geometry": null}
  ]
}`

func TestParse(t *testing.T) {
	ds, err := Parse([]byte(sampleCollection))
	require.NoError(t, err)
	require.Len(t, ds.Features, 3)

	assert.Equal(t, "111", ds.Features[0].Code)
	assert.IsType(t, &geom.Polygon{}, ds.Features[0].Geometry)
	assert.Equal(t, "212", ds.Features[1].Code)
	assert.IsType(t, &geom.MultiPolygon{}, ds.Features[1].Geometry)
	assert.Empty(t, ds.Features[2].Code)
	assert.Equal(t, []string{"111", "212"}, ds.Codes())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"type":"Feature"}`))
	assert.Error(t, err)
}

func TestRegionCode(t *testing.T) {
	assert.Equal(t, "A1", RegionCode(map[string]any{"TPU_ID": " A1 ", "TPU_KEY": "B"}))
	assert.Equal(t, "B", RegionCode(map[string]any{"TPU_ID": "", "TPU_KEY": "B"}))
	assert.Equal(t, "B", RegionCode(map[string]any{"TPU_ID": 0.0, "TPU_KEY": "B"}))
	assert.Equal(t, "12.5", RegionCode(map[string]any{"TPU_KEY": 12.5}))
	assert.Empty(t, RegionCode(nil))
}

func waitDone(t *testing.T, l *Loader) {
	t.Helper()
	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("loader did not finish")
	}
}

func TestLoader_PrimaryOK(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/2021hktpu.geojson", r.URL.Path)
		_, _ = w.Write([]byte(sampleCollection))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/2021hktpu.geojson", srv.URL+"/2021hktpu.geojson.geojson")
	assert.Equal(t, Idle, l.State())

	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Ready, l.State())
	assert.Len(t, ds.Features, 3)
	assert.Equal(t, srv.URL+"/2021hktpu.geojson", ds.Source)

	_, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoader_FallsBackToAlternate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/2021hktpu.geojson" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleCollection))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/2021hktpu.geojson", srv.URL+"/2021hktpu.geojson.geojson")
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/2021hktpu.geojson.geojson", ds.Source)
	assert.Equal(t, Ready, l.State())
}

func TestLoader_TerminalFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/a", srv.URL+"/b")
	l.Start(context.Background())
	waitDone(t, l)

	assert.Equal(t, Failed, l.State())
	assert.True(t, errors.Is(l.Err(), ErrLoadFailed))
	assert.Nil(t, l.Dataset())
	assert.Equal(t, int32(2), hits.Load())

	// No retry once failed.
	l.Start(context.Background())
	_, err := l.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestLoader_RejectsOversizedDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := bytes.Repeat([]byte(" "), 4096)
		for range 64 {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/a", srv.URL+"/b", WithMaxBytes(1024))
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, Failed, l.State())

	_, err = l.fetch(context.Background(), srv.URL+"/a")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLoader_SizeLimitAppliesToFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hktpu.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleCollection), 0o644))

	_, err := NewLoader(path, path, WithMaxBytes(16)).Load(context.Background())
	require.Error(t, err)

	ds, err := NewLoader(path, path, WithMaxBytes(int64(len(sampleCollection)))).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
}

func TestLoader_ParseFailureTriesAlternate(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "primary.geojson")
	good := filepath.Join(dir, "alternate.geojson")
	require.NoError(t, os.WriteFile(bad, []byte("<html>not found</html>"), 0o644))
	require.NoError(t, os.WriteFile(good, []byte(sampleCollection), 0o644))

	ds, err := NewLoader(bad, good).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, good, ds.Source)
}

func TestLoader_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(filepath.Join(dir, "a.geojson"), filepath.Join(dir, "b.geojson"))
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, Failed, l.State())
}

func TestLoader_LoadHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(sampleCollection))
	}))
	defer srv.Close()
	defer close(release)

	l := NewLoader(srv.URL+"/a", "")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := l.Load(ctx)
	require.Error(t, err)
	assert.Equal(t, Loading, l.State())
}

func writeTestShapefile(t *testing.T, path string) {
	t.Helper()
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("TPU_CODE", 10),
		shp.StringField("NAME", 20),
	}))

	square := func(x, y float64) *shp.Polygon {
		p := shp.Polygon(*shp.NewPolyLine([][]shp.Point{{
			{X: x, Y: y}, {X: x, Y: y + 1}, {X: x + 1, Y: y + 1}, {X: x + 1, Y: y}, {X: x, Y: y},
		}}))
		return &p
	}

	w.Write(square(0, 0))
	require.NoError(t, w.WriteAttribute(0, 0, "111"))
	require.NoError(t, w.WriteAttribute(0, 1, "Kennedy Town"))
	w.Write(square(2, 2))
	require.NoError(t, w.WriteAttribute(1, 0, "122"))
	require.NoError(t, w.WriteAttribute(1, 1, "Sheung Wan"))
	w.Close()
}

func TestConvertShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tpu.shp")
	writeTestShapefile(t, path)

	var buf bytes.Buffer
	n, err := ConvertShapefile(path, "tpu_code", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ds, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "122"}, ds.Codes())
	assert.Equal(t, "Kennedy Town", ds.Features[0].Properties["NAME"])
	assert.IsType(t, &geom.Polygon{}, ds.Features[0].Geometry)
}

func TestConvertShapefile_MissingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tpu.shp")
	writeTestShapefile(t, path)

	_, err := ConvertShapefile(path, "TPU_ID", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TPU_ID")
}

func TestPolygonGeometry_MultiPart(t *testing.T) {
	p := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 0}},
		{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 5, Y: 5}},
	}))
	g := polygonGeometry(&p)
	require.IsType(t, &geom.MultiPolygon{}, g)
	assert.Equal(t, 2, g.(*geom.MultiPolygon).NumPolygons())

	assert.Nil(t, polygonGeometry(nil))
}
