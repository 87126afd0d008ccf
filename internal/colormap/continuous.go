package colormap

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/sells-group/census-map/internal/model"
)

type stop struct {
	at    float64
	color colorful.Color
}

// Continuous interpolates in RGB between three stops: 0 light peach, 50
// orange, 100 deep purple. Inputs outside [0, 100] are clamped.
type Continuous struct {
	stops []stop
}

var continuousStops = []struct {
	at  float64
	hex string
}{
	{0, "#FFE5CC"},
	{50, "#FF8800"},
	{100, "#4A0072"},
}

// NewContinuous builds the continuous ramp.
func NewContinuous() *Continuous {
	c := &Continuous{}
	for _, s := range continuousStops {
		col, err := colorful.Hex(s.hex)
		if err != nil {
			zap.L().Panic("colormap: invalid built-in stop", zap.String("hex", s.hex), zap.Error(err))
		}
		c.stops = append(c.stops, stop{at: s.at, color: col})
	}
	return c
}

// Color implements Mapper.
func (c *Continuous) Color(density float64) string {
	return c.blend(model.ClampDensity(density)).Hex()
}

func (c *Continuous) blend(d float64) colorful.Color {
	for i := 1; i < len(c.stops); i++ {
		lo, hi := c.stops[i-1], c.stops[i]
		if d <= hi.at {
			t := (d - lo.at) / (hi.at - lo.at)
			return lo.color.BlendRgb(hi.color, t)
		}
	}
	return c.stops[len(c.stops)-1].color
}

// Lightness returns the CIE L* (0-100) of the color for density.
func (c *Continuous) Lightness(density float64) float64 {
	l, _, _ := c.blend(model.ClampDensity(density)).Lab()
	return l * 100
}

// Legend implements Mapper with five equal bins sampled at their midpoint.
func (c *Continuous) Legend() []LegendEntry {
	const bins = 5
	step := model.MaxDensity / bins
	out := make([]LegendEntry, bins)
	for i := range bins {
		from, to := float64(i)*step, float64(i+1)*step
		out[i] = LegendEntry{From: from, To: to, Color: c.Color((from + to) / 2), Label: rangeLabel(from, to)}
	}
	return out
}
