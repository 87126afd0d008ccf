// Package mapview holds the interactive map state: the zoom/pan transform
// and SVG rendering of the stylized map, and feature styling with popups
// for the geo-accurate map.
package mapview

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// Viewport and zoom limits of the stylized map.
const (
	ViewportSize = 300.0
	MinScale     = 1.0
	MaxScale     = 8.0

	// LabelScale is the scale above which sub-region labels are drawn.
	LabelScale = 3.0
)

// MaxGestureCoord bounds the magnitude of gesture coordinates and deltas.
const MaxGestureCoord = 1e6

// ErrInvalidGesture reports a non-finite or out-of-range gesture value.
var ErrInvalidGesture = eris.New("mapview: invalid gesture")

// CheckGesture returns ErrInvalidGesture if any value is non-finite or
// larger in magnitude than MaxGestureCoord.
func CheckGesture(vals ...float64) error {
	for _, v := range vals {
		if !finite(v) || math.Abs(v) > MaxGestureCoord {
			return eris.Wrapf(ErrInvalidGesture, "value %v", v)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// TranslateExtent bounds the map coordinates that may be brought into view:
// {{x0, y0}, {x1, y1}}.
var TranslateExtent = [2][2]float64{{-100, -100}, {400, 400}}

// Transform maps a map point p to the screen point K*p + (X, Y).
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the unzoomed transform.
var Identity = Transform{K: 1}

// Apply maps a map point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point back to map coordinates.
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	return (sx - t.X) / t.K, (sy - t.Y) / t.K
}

// ShowLabels reports whether labels are drawn at this scale.
func (t Transform) ShowLabels() bool { return t.K > LabelScale }

// LabelFontSize keeps label text a constant on-screen size.
func (t Transform) LabelFontSize() float64 { return 2.5 / t.K }

// StrokeWidth keeps region outlines a constant on-screen width.
func (t Transform) StrokeWidth() float64 { return 0.8 / t.K }

// SVG renders the transform as an SVG transform attribute value.
func (t Transform) SVG() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.X), num(t.Y), num(t.K))
}

// Zoom applies pan and zoom gestures to a transform, keeping the scale
// within [MinScale, MaxScale] and the visible area within TranslateExtent.
// It is not safe for concurrent use.
type Zoom struct {
	t Transform
}

// NewZoom starts at the identity transform.
func NewZoom() *Zoom { return &Zoom{t: Identity} }

// Transform returns the current transform.
func (z *Zoom) Transform() Transform { return z.t }

// Set replaces the transform, constrained. An out-of-range translation or
// a result that is not finite leaves the transform unchanged.
func (z *Zoom) Set(t Transform) Transform {
	if CheckGesture(t.X, t.Y) != nil {
		return z.t
	}
	t.K = clampScale(t.K)
	c := Constrain(t)
	if !finite(c.K) || !finite(c.X) || !finite(c.Y) {
		return z.t
	}
	z.t = c
	return z.t
}

// Reset returns to the identity transform.
func (z *Zoom) Reset() Transform {
	z.t = Identity
	return z.t
}

// Pan moves the map by a screen-space delta.
func (z *Zoom) Pan(dx, dy float64) Transform {
	if CheckGesture(dx, dy) != nil {
		return z.t
	}
	return z.Set(Transform{K: z.t.K, X: z.t.X + dx, Y: z.t.Y + dy})
}

// ZoomAt multiplies the scale by factor, keeping the map point under the
// screen point (px, py) fixed where the constraint allows. Invalid input
// is ignored.
func (z *Zoom) ZoomAt(factor, px, py float64) Transform {
	if factor <= 0 || CheckGesture(factor, px, py) != nil {
		return z.t
	}
	k := clampScale(z.t.K * factor)
	mx, my := z.t.Invert(px, py)
	return z.Set(Transform{K: k, X: px - mx*k, Y: py - my*k})
}

func clampScale(k float64) float64 {
	if math.IsNaN(k) || k < MinScale {
		return MinScale
	}
	if k > MaxScale {
		return MaxScale
	}
	return k
}

// Constrain translates t so the viewport, inverted through t, stays within
// TranslateExtent. When the extent is narrower than the view on an axis the
// view is centered on it.
func Constrain(t Transform) Transform {
	x0, y0 := t.Invert(0, 0)
	x1, y1 := t.Invert(ViewportSize, ViewportSize)

	dx0 := x0 - TranslateExtent[0][0]
	dx1 := x1 - TranslateExtent[1][0]
	dy0 := y0 - TranslateExtent[0][1]
	dy1 := y1 - TranslateExtent[1][1]

	return Transform{
		K: t.K,
		X: t.X + t.K*constrainAxis(dx0, dx1),
		Y: t.Y + t.K*constrainAxis(dy0, dy1),
	}
}

func constrainAxis(d0, d1 float64) float64 {
	if d1 > d0 {
		return (d0 + d1) / 2
	}
	if m := math.Min(0, d0); m != 0 {
		return m
	}
	return math.Max(0, d1)
}
