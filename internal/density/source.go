// Package density produces per-district similarity scores for the active
// profile attribute, from the inference service when it is reachable and
// from a synthetic source otherwise.
package density

import (
	"context"

	"github.com/sells-group/census-map/internal/model"
)

// Source produces one density score per district for a profile attribute.
type Source interface {
	FetchDensities(ctx context.Context, profile model.Profile, attr model.Attribute) ([]model.DensityScore, error)
}
