package density

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/region"
)

// FallbackAnalysis is attached to every synthetic score.
const FallbackAnalysis = "Projected distribution"

// FallbackSource synthesizes a uniform random density in [0, 99] for every
// district. It never fails.
type FallbackSource struct {
	codes []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFallbackSource creates a FallbackSource over the districts of cat. A nil
// rng seeds one from the clock.
func NewFallbackSource(cat *region.Catalog, rng *rand.Rand) *FallbackSource {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &FallbackSource{codes: cat.ParentIDs(), rng: rng}
}

// FetchDensities implements Source.
func (s *FallbackSource) FetchDensities(_ context.Context, _ model.Profile, _ model.Attribute) ([]model.DensityScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.DensityScore, len(s.codes))
	for i, id := range s.codes {
		out[i] = model.DensityScore{
			RegionID: id,
			Density:  math.Floor(s.rng.Float64() * 100),
			Analysis: FallbackAnalysis,
		}
	}
	return out, nil
}
