package distribute

import (
	"math"
	"unicode/utf16"

	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/region"
)

// HashFallback gives each sub-region its district's density unchanged. Ids
// that match no district get a stable pseudo-random density in [0, 99]
// derived from the id, so unmatched geometry still renders consistently.
type HashFallback struct{}

// Distribute implements Distributor.
func (h HashFallback) Distribute(parents []model.DensityScore, cat *region.Catalog) map[string]float64 {
	return distributeAll(h, parents, cat)
}

// DensityFor implements Distributor.
func (HashFallback) DensityFor(id string, parents []model.DensityScore, parentID string) float64 {
	if d, ok := parentDensity(id, parents, parentID); ok {
		return d
	}
	return HashDensity(id)
}

// HashDensity maps id to |StableHash(id) mod 100|.
func HashDensity(id string) float64 {
	return math.Abs(math.Mod(StableHash(id), 100))
}

// StableHash is the 31-multiplier string hash over UTF-16 code units,
// h = c + ((h<<5) - h). The accumulator is a float64 and only the shift
// operand is truncated to a wrapped int32, so the subtraction runs on the
// full value and the result can leave the int32 range.
func StableHash(s string) float64 {
	var h float64
	for _, c := range utf16.Encode([]rune(s)) {
		shifted := toInt32(h) << 5
		h = float64(c) + (float64(shifted) - h)
	}
	return h
}

// toInt32 truncates f and wraps it modulo 2^32 into the signed 32-bit range.
// Non-finite values map to zero.
func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	if m >= 1<<31 {
		m -= 1 << 32
	}
	return int32(m)
}
