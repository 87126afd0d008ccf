// Package insight summarizes a density set as a one-line statement about
// where the user's profile is most common.
package insight

import (
	"fmt"

	"github.com/sells-group/census-map/internal/model"
)

// DefaultLabel names the region used when neither densities nor a
// residency district are available.
const DefaultLabel = "Central"

// Insight is the headline shown under the map.
type Insight struct {
	UserValue string `json:"userValue"`
	// RegionID is the top-scoring district code, empty when the label came
	// from a fallback.
	RegionID string `json:"regionId,omitempty"`
	Label    string `json:"label"`
	Sentence string `json:"sentence"`
}

// Derive picks the district with the highest density. Ties go to the
// district that comes first in order; ids missing from order rank after all
// ordered ids, in score order. With no scores the user's residency district
// is named instead, then DefaultLabel.
func Derive(profile model.Profile, attr model.Attribute, scores []model.DensityScore, order []string) Insight {
	value, _ := profile.Value(attr.Key)
	in := Insight{UserValue: value}

	if top, ok := topRegion(scores, order); ok {
		in.RegionID = top
		in.Label = top
	} else if profile.District != "" {
		in.Label = profile.District
	} else {
		in.Label = DefaultLabel
	}

	in.Sentence = fmt.Sprintf("Your profile (%s) shows high correlation with residents in %s.", in.UserValue, in.Label)
	return in
}

func topRegion(scores []model.DensityScore, order []string) (string, bool) {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	rankOf := func(i int) int {
		if r, ok := rank[scores[i].RegionID]; ok {
			return r
		}
		return len(order) + i
	}

	best := -1
	for i, s := range scores {
		if s.RegionID == "" {
			continue
		}
		if best < 0 || s.Density > scores[best].Density ||
			(s.Density == scores[best].Density && rankOf(i) < rankOf(best)) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return scores[best].RegionID, true
}
