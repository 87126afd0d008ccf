package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/region"
)

func marital() model.Attribute {
	a, _ := model.LookupAttribute("maritalStatus")
	return a
}

func TestDerive_TieBreakByCanonicalOrder(t *testing.T) {
	scores := []model.DensityScore{
		{RegionID: "CW", Density: 40},
		{RegionID: "E", Density: 95},
		{RegionID: "WC", Density: 95},
	}

	in := Derive(model.SampleProfile(), marital(), scores, region.HongKong().ParentIDs())

	assert.Equal(t, "WC", in.RegionID)
	assert.Equal(t, "Married", in.UserValue)
	assert.Equal(t, "Your profile (Married) shows high correlation with residents in WC.", in.Sentence)
}

func TestDerive_HighestWins(t *testing.T) {
	scores := []model.DensityScore{
		{RegionID: "I", Density: 99},
		{RegionID: "CW", Density: 98.9},
	}
	in := Derive(model.SampleProfile(), model.DefaultAttribute(), scores, region.HongKong().ParentIDs())
	assert.Equal(t, "I", in.RegionID)
	assert.Equal(t, "65", in.UserValue)
}

func TestDerive_UnorderedIDsRankLast(t *testing.T) {
	scores := []model.DensityScore{
		{RegionID: "ZZ", Density: 50},
		{RegionID: "YY", Density: 50},
		{RegionID: "N", Density: 50},
	}
	in := Derive(model.SampleProfile(), marital(), scores, region.HongKong().ParentIDs())
	assert.Equal(t, "N", in.RegionID)

	in = Derive(model.SampleProfile(), marital(), scores[:2], region.HongKong().ParentIDs())
	assert.Equal(t, "ZZ", in.RegionID)
}

func TestDerive_EmptyFallsBackToResidency(t *testing.T) {
	in := Derive(model.SampleProfile(), marital(), nil, region.HongKong().ParentIDs())
	assert.Empty(t, in.RegionID)
	assert.Equal(t, "Central and Western", in.Label)
	assert.Equal(t, "Your profile (Married) shows high correlation with residents in Central and Western.", in.Sentence)
}

func TestDerive_EmptyWithoutResidency(t *testing.T) {
	p := model.SampleProfile()
	p.District = ""
	in := Derive(p, marital(), []model.DensityScore{}, nil)
	assert.Equal(t, DefaultLabel, in.Label)
	assert.Contains(t, in.Sentence, "residents in Central.")
}
