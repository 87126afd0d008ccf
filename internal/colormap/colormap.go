// Package colormap turns densities into fill colors.
package colormap

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Scheme names accepted by New.
const (
	SchemeContinuous = "continuous"
	SchemeDiscrete   = "discrete"
)

// Mapper maps a density in [0, 100] to a "#rrggbb" color.
type Mapper interface {
	Color(density float64) string
	Legend() []LegendEntry
}

// LegendEntry is one swatch of a map legend, covering (From, To].
type LegendEntry struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// New returns the mapper for scheme.
func New(scheme string) (Mapper, error) {
	switch scheme {
	case SchemeContinuous:
		return NewContinuous(), nil
	case SchemeDiscrete:
		return Discrete{}, nil
	default:
		return nil, eris.Errorf("colormap: unknown scheme %q", scheme)
	}
}

func rangeLabel(from, to float64) string {
	return fmt.Sprintf("%g-%g", from, to)
}
