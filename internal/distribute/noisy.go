package distribute

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/region"
)

// DefaultNoiseBand is the half-width of the uniform noise added to the
// inherited density.
const DefaultNoiseBand = 10.0

// NoisyInheritance gives each sub-region its district's density plus
// uniform noise in [-Band, +Band), clamped to [0, 100]. Missing districts
// count as 0. Noise is redrawn on every call.
type NoisyInheritance struct {
	band float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NoisyOption configures NoisyInheritance.
type NoisyOption func(*NoisyInheritance)

// WithBand sets the noise half-width. Negative values are treated as 0.
func WithBand(band float64) NoisyOption {
	return func(n *NoisyInheritance) { n.band = max(band, 0) }
}

// WithRand sets the random source.
func WithRand(rng *rand.Rand) NoisyOption {
	return func(n *NoisyInheritance) { n.rng = rng }
}

// NewNoisyInheritance creates a NoisyInheritance distributor.
func NewNoisyInheritance(opts ...NoisyOption) *NoisyInheritance {
	n := &NoisyInheritance{band: DefaultNoiseBand}
	for _, o := range opts {
		o(n)
	}
	if n.rng == nil {
		seed := uint64(time.Now().UnixNano())
		n.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return n
}

// Band returns the configured noise half-width.
func (n *NoisyInheritance) Band() float64 { return n.band }

// Distribute implements Distributor.
func (n *NoisyInheritance) Distribute(parents []model.DensityScore, cat *region.Catalog) map[string]float64 {
	return distributeAll(n, parents, cat)
}

// DensityFor implements Distributor.
func (n *NoisyInheritance) DensityFor(id string, parents []model.DensityScore, parentID string) float64 {
	base, _ := parentDensity(id, parents, parentID)
	return model.ClampDensity(base + n.noise())
}

func (n *NoisyInheritance) noise() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return (n.rng.Float64()*2 - 1) * n.band
}
