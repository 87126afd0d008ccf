package mapview

import (
	"bytes"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/census-map/internal/colormap"
	"github.com/sells-group/census-map/internal/region"
)

func assertConstrained(t *testing.T, tr Transform) {
	t.Helper()
	assert.GreaterOrEqual(t, tr.K, MinScale)
	assert.LessOrEqual(t, tr.K, MaxScale)
	x0, y0 := tr.Invert(0, 0)
	x1, y1 := tr.Invert(ViewportSize, ViewportSize)
	assert.GreaterOrEqual(t, x0, TranslateExtent[0][0]-1e-9)
	assert.GreaterOrEqual(t, y0, TranslateExtent[0][1]-1e-9)
	assert.LessOrEqual(t, x1, TranslateExtent[1][0]+1e-9)
	assert.LessOrEqual(t, y1, TranslateExtent[1][1]+1e-9)
}

func TestZoom_PanClampsToExtent(t *testing.T) {
	z := NewZoom()

	assert.Equal(t, Transform{K: 1, X: 50, Y: -20}, z.Pan(50, -20))
	assert.Equal(t, Transform{K: 1, X: 100, Y: -20}, z.Pan(150, 0))
	assert.Equal(t, Transform{K: 1, X: -100, Y: -100}, z.Pan(-500, -500))
}

func TestZoom_ZoomAtKeepsPointerFixed(t *testing.T) {
	z := NewZoom()

	got := z.ZoomAt(2, 150, 150)
	assert.Equal(t, Transform{K: 2, X: -150, Y: -150}, got)

	mx, my := got.Invert(150, 150)
	assert.InDelta(t, 150, mx, 1e-9)
	assert.InDelta(t, 150, my, 1e-9)
}

func TestZoom_ScaleExtent(t *testing.T) {
	z := NewZoom()
	assert.Equal(t, MaxScale, z.ZoomAt(100, 0, 0).K)
	assert.Equal(t, MinScale, z.ZoomAt(0.001, 0, 0).K)
	assert.Equal(t, MinScale, z.Set(Transform{K: 0.2}).K)

	before := z.Transform()
	assert.Equal(t, before, z.ZoomAt(0, 10, 10))
	assert.Equal(t, before, z.ZoomAt(-2, 10, 10))
}

func TestZoom_RandomGesturesStayConstrained(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	z := NewZoom()
	for range 2000 {
		var tr Transform
		switch rng.IntN(3) {
		case 0:
			tr = z.Pan(rng.Float64()*800-400, rng.Float64()*800-400)
		case 1:
			tr = z.ZoomAt(rng.Float64()*4, rng.Float64()*ViewportSize, rng.Float64()*ViewportSize)
		default:
			tr = z.Set(Transform{K: rng.Float64() * 12, X: rng.Float64()*4000 - 2000, Y: rng.Float64()*4000 - 2000})
		}
		assertConstrained(t, tr)
	}
}

func TestZoom_RejectsNonFiniteInput(t *testing.T) {
	z := NewZoom()
	before := z.ZoomAt(2, 150, 150)

	assert.Equal(t, before, z.ZoomAt(8, 1e308, 0))
	assert.Equal(t, before, z.ZoomAt(math.Inf(1), 10, 10))
	assert.Equal(t, before, z.ZoomAt(2, math.NaN(), 10))
	assert.Equal(t, before, z.Pan(math.Inf(-1), 0))
	assert.Equal(t, before, z.Pan(0, 2e6))
	assert.Equal(t, before, z.Set(Transform{K: 2, X: math.NaN()}))
	assert.Equal(t, before, z.Set(Transform{K: 2, X: 1e300}))

	// The view keeps working after rejected input.
	assertConstrained(t, z.Pan(1, 1))
	assert.Equal(t, before.X+1, z.Transform().X)
}

func TestCheckGesture(t *testing.T) {
	require.NoError(t, CheckGesture(0, -MaxGestureCoord, MaxGestureCoord))
	assert.ErrorIs(t, CheckGesture(1, math.NaN()), ErrInvalidGesture)
	assert.ErrorIs(t, CheckGesture(math.Inf(1)), ErrInvalidGesture)
	assert.ErrorIs(t, CheckGesture(1e308), ErrInvalidGesture)
}

func TestZoom_Reset(t *testing.T) {
	z := NewZoom()
	z.ZoomAt(4, 10, 10)
	assert.Equal(t, Identity, z.Reset())
}

func TestTransform_LabelsAndStroke(t *testing.T) {
	assert.False(t, Transform{K: 3}.ShowLabels())
	assert.True(t, Transform{K: 3.01}.ShowLabels())
	assert.InDelta(t, 0.625, Transform{K: 4}.LabelFontSize(), 1e-12)
	assert.InDelta(t, 0.2, Transform{K: 4}.StrokeWidth(), 1e-12)
	assert.Equal(t, "translate(-150,12.5) scale(2)", Transform{K: 2, X: -150, Y: 12.5}.SVG())
}

func TestMountAnimation(t *testing.T) {
	a := MountAnimation(Transform{K: 3, X: -100, Y: -100})
	assert.Equal(t, MountDuration, a.Duration)
	assert.Equal(t, Identity, a.At(0))
	assert.Equal(t, a.To, a.At(MountDuration))
	assert.Equal(t, a.To, a.At(time.Second))
	assert.True(t, a.Done(MountDuration))

	mid := a.At(MountDuration / 2)
	assert.InDelta(t, 2.0, mid.K, 1e-9)
	assert.InDelta(t, -50.0, mid.X, 1e-9)

	// Cubic in-out is slow at the ends.
	early := a.At(MountDuration / 10)
	assert.Less(t, early.K-1, 0.1*(a.To.K-1))
}

func TestMountAnimation_TargetConstrained(t *testing.T) {
	a := MountAnimation(Transform{K: 20, X: 5000, Y: 5000})
	assertConstrained(t, a.To)
	assert.Equal(t, MaxScale, a.To.K)
}

func TestHitTest(t *testing.T) {
	cat := region.HongKong()

	r, ok := HitTest(cat, Identity, 135, 230)
	require.True(t, ok)
	assert.Equal(t, "CW_1", r.ID)

	zoomed := Transform{K: 2, X: -150, Y: -150}
	sx, sy := zoomed.Apply(135, 230)
	r, ok = HitTest(cat, zoomed, sx, sy)
	require.True(t, ok)
	assert.Equal(t, "CW_1", r.ID)

	_, ok = HitTest(cat, Identity, 1, 1)
	assert.False(t, ok)
}

func TestRenderSVG(t *testing.T) {
	cat := region.HongKong()
	mapper := colormap.NewContinuous()
	densities := map[string]float64{"CW_1": 100}

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, cat, densities, mapper, Identity))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Contains(t, out, `viewBox="0 0 300 300"`)
	assert.Contains(t, out, `transform="translate(0,0) scale(1)"`)
	assert.Contains(t, out, `data-id="CW_1"`)
	assert.Contains(t, out, `fill="#4a0072"`)
	assert.Contains(t, out, `fill="#ffe5cc"`)
	assert.Contains(t, out, `stroke-width="0.8"`)
	assert.Equal(t, len(cat.SubRegions()), strings.Count(out, "<path "))
	assert.NotContains(t, out, "<text ")
}

func TestRenderSVG_LabelsWhenZoomed(t *testing.T) {
	cat := region.HongKong()
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, cat, nil, colormap.Discrete{}, Transform{K: 4, X: -300, Y: -600}))
	out := buf.String()

	assert.Equal(t, len(cat.SubRegions()), strings.Count(out, "<text "))
	assert.Contains(t, out, `font-size="0.625"`)
	assert.Contains(t, out, `stroke-width="0.2"`)
	assert.Contains(t, out, ">Kennedy Town</text>")
}
