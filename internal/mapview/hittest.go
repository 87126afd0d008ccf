package mapview

import "github.com/sells-group/census-map/internal/region"

// HitTest returns the sub-region under the screen point (sx, sy).
func HitTest(cat *region.Catalog, t Transform, sx, sy float64) (region.Region, bool) {
	x, y := t.Invert(sx, sy)
	return cat.At(x, y)
}
