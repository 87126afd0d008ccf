// Package distribute spreads district-level densities down to sub-regions
// when no sub-region data exists.
package distribute

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/region"
)

// Policy names accepted by New.
const (
	PolicyNoisy = "noisy"
	PolicyHash  = "hash"
)

// Distributor maps district densities onto sub-regions.
type Distributor interface {
	// Distribute returns a density for every sub-region of cat.
	Distribute(parents []model.DensityScore, cat *region.Catalog) map[string]float64

	// DensityFor returns the density of a single sub-region. parentID may be
	// empty for ids that do not come from the catalog.
	DensityFor(id string, parents []model.DensityScore, parentID string) float64
}

// New returns the distributor for policy. Options apply to the noisy policy.
func New(policy string, opts ...NoisyOption) (Distributor, error) {
	switch policy {
	case PolicyNoisy:
		return NewNoisyInheritance(opts...), nil
	case PolicyHash:
		return HashFallback{}, nil
	default:
		return nil, eris.Errorf("distribute: unknown policy %q", policy)
	}
}

// parentDensity resolves the district of id and returns its density. The
// explicit parentID is used first; ids without one are matched by district
// code prefix, first match in density order.
func parentDensity(id string, parents []model.DensityScore, parentID string) (float64, bool) {
	if parentID != "" {
		for _, p := range parents {
			if p.RegionID == parentID {
				return p.Density, true
			}
		}
	}
	for _, p := range parents {
		if p.RegionID != "" && strings.HasPrefix(id, p.RegionID) {
			return p.Density, true
		}
	}
	return 0, false
}

func distributeAll(d Distributor, parents []model.DensityScore, cat *region.Catalog) map[string]float64 {
	subs := cat.SubRegions()
	out := make(map[string]float64, len(subs))
	for _, s := range subs {
		out[s.ID] = d.DensityFor(s.ID, parents, s.ParentID)
	}
	return out
}
