package model

import "math"

// DensityScore is a 0-100 relative similarity between the user's profile and
// a region's population for one attribute. Scores across regions do not sum
// to anything in particular.
type DensityScore struct {
	RegionID string  `json:"id"`
	Density  float64 `json:"density"`
	Analysis string  `json:"analysis,omitempty"`
}

// Density bounds.
const (
	MinDensity = 0.0
	MaxDensity = 100.0
)

// ClampDensity limits d to [MinDensity, MaxDensity]. NaN is treated as no
// density.
func ClampDensity(d float64) float64 {
	if math.IsNaN(d) || d < MinDensity {
		return MinDensity
	}
	if d > MaxDensity {
		return MaxDensity
	}
	return d
}

// DensityIndex maps region id to density. The first score for an id wins.
func DensityIndex(scores []DensityScore) map[string]float64 {
	idx := make(map[string]float64, len(scores))
	for _, s := range scores {
		if _, ok := idx[s.RegionID]; ok {
			continue
		}
		idx[s.RegionID] = s.Density
	}
	return idx
}
