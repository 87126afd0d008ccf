package region

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// ParsePath converts a single-ring SVG path using absolute M, L and Z
// commands ("M130,225 L140,225 L142,235 Z") into a closed polygon.
func ParsePath(d string) (*geom.Polygon, error) {
	var flat []float64
	closed := false

	for _, tok := range strings.Fields(d) {
		cmd := tok[0]
		switch cmd {
		case 'Z', 'z':
			closed = true
			continue
		case 'M', 'L':
			if cmd == 'M' && len(flat) > 0 {
				return nil, eris.Errorf("region: path has more than one subpath: %q", d)
			}
			tok = tok[1:]
		default:
			if len(flat) == 0 {
				return nil, eris.Errorf("region: path must start with M: %q", d)
			}
		}

		x, y, err := parsePair(tok)
		if err != nil {
			return nil, eris.Wrapf(err, "region: parse path %q", d)
		}
		flat = append(flat, x, y)
	}

	if len(flat) < 6 {
		return nil, eris.Errorf("region: path needs at least three points: %q", d)
	}
	if !closed {
		return nil, eris.Errorf("region: path is not closed: %q", d)
	}
	if flat[0] != flat[len(flat)-2] || flat[1] != flat[len(flat)-1] {
		flat = append(flat, flat[0], flat[1])
	}

	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}), nil
}

func parsePair(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, eris.Errorf("expected x,y pair, got %q", s)
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "x coordinate %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "y coordinate %q", ys)
	}
	return x, y, nil
}
