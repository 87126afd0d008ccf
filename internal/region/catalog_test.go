package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHongKong_Shape(t *testing.T) {
	c := HongKong()

	assert.Len(t, c.Parents(), 18)
	assert.Len(t, c.SubRegions(), 60)
	assert.Equal(t, []string{
		"CW", "WC", "E", "S", "YTM", "SSP", "KC", "WTS", "KT",
		"TW", "TM", "YL", "N", "TP", "ST", "SK", "K", "I",
	}, c.ParentIDs())
}

func TestHongKong_EverySubRegionHasOneParent(t *testing.T) {
	c := HongKong()
	for _, s := range c.SubRegions() {
		p, ok := c.Get(s.ParentID)
		require.True(t, ok, "sub-region %s parent %s", s.ID, s.ParentID)
		assert.True(t, p.IsParent())
		assert.NotNil(t, s.Boundary, s.ID)
	}
	for _, p := range c.Parents() {
		assert.NotEmpty(t, c.Children(p.ID), "district %s has no TPUs", p.ID)
	}
}

func TestNewCatalog_RejectsUnknownParent(t *testing.T) {
	_, err := NewCatalog(
		[]Region{{ID: "CW", Name: "Central and Western"}},
		[]Region{{ID: "XX_1", ParentID: "XX", Name: "Nowhere"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parent")
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	_, err := NewCatalog(
		[]Region{{ID: "CW"}, {ID: "CW"}},
		nil,
	)
	require.Error(t, err)
}

func TestCatalog_Names(t *testing.T) {
	c := HongKong()
	assert.True(t, c.IsParentID("CW"))
	assert.False(t, c.IsParentID("CW_1"))
	assert.Equal(t, "Kwai Tsing", c.ParentName("K"))
	assert.Equal(t, "ZZ", c.ParentName("ZZ"))

	p, ok := c.ParentByName("Central and Western")
	require.True(t, ok)
	assert.Equal(t, "CW", p.ID)
}

func TestCatalog_ChildrenReturnsCopy(t *testing.T) {
	c := HongKong()
	kids := c.Children("CW")
	require.NotEmpty(t, kids)
	want := kids[0]

	kids[0] = Region{ID: "XX", ParentID: "CW"}

	got := c.Children("CW")
	assert.Equal(t, want, got[0])
	r, ok := c.Get(want.ID)
	require.True(t, ok)
	assert.Equal(t, want, r)
	_, ok = c.Get("XX")
	assert.False(t, ok)
}

func TestRegion_CentroidInsideBoundary(t *testing.T) {
	c := HongKong()
	for _, s := range c.SubRegions() {
		ctr := s.Centroid()
		assert.True(t, s.Contains(ctr.X(), ctr.Y()), "centroid of %s outside its boundary", s.ID)
	}
}

func TestCatalog_At(t *testing.T) {
	c := HongKong()

	// Interior of Kennedy Town (M130,225 L140,225 L142,235 L130,235).
	r, ok := c.At(135, 230)
	require.True(t, ok)
	assert.Equal(t, "CW_1", r.ID)

	_, ok = c.At(5, 5)
	assert.False(t, ok)
}
