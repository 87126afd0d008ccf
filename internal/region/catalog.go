// Package region holds the static geometry catalog of districts and their
// Tertiary Planning Unit (TPU) sub-regions.
package region

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Region is one catalog entry. Top-level districts have an empty ParentID
// and no boundary; sub-regions carry a polygon in viewport coordinates.
type Region struct {
	ID       string        `json:"id"`
	ParentID string        `json:"parent_id,omitempty"`
	Name     string        `json:"name"`
	Path     string        `json:"path,omitempty"`
	Boundary *geom.Polygon `json:"-"`
}

// IsParent reports whether r is a top-level district.
func (r Region) IsParent() bool { return r.ParentID == "" }

// Centroid returns the area centroid of the boundary, used as the label
// anchor. Returns the zero coord for regions without a boundary.
func (r Region) Centroid() geom.Coord {
	if r.Boundary == nil {
		return geom.Coord{0, 0}
	}
	c, err := xy.Centroid(r.Boundary)
	if err != nil {
		return geom.Coord{0, 0}
	}
	return c
}

// Contains reports whether the viewport point (x, y) lies inside the
// sub-region boundary.
func (r Region) Contains(x, y float64) bool {
	if r.Boundary == nil || r.Boundary.NumLinearRings() == 0 {
		return false
	}
	ring := r.Boundary.LinearRing(0)
	return xy.IsPointInRing(geom.XY, geom.Coord{x, y}, ring.FlatCoords())
}

// Catalog is the immutable set of districts and sub-regions.
type Catalog struct {
	parents  []Region
	subs     []Region
	byID     map[string]Region
	order    map[string]int
	children map[string][]Region
}

// NewCatalog validates and indexes the given regions. Every sub-region's
// ParentID must name exactly one parent, and ids must be unique.
func NewCatalog(parents, subs []Region) (*Catalog, error) {
	c := &Catalog{
		byID:     make(map[string]Region, len(parents)+len(subs)),
		order:    make(map[string]int, len(parents)),
		children: make(map[string][]Region, len(parents)),
	}

	for i, p := range parents {
		if p.ID == "" {
			return nil, eris.New("region: parent with empty id")
		}
		if !p.IsParent() {
			return nil, eris.Errorf("region: parent %s has a parent reference", p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, eris.Errorf("region: duplicate id %s", p.ID)
		}
		c.byID[p.ID] = p
		c.order[p.ID] = i
		c.parents = append(c.parents, p)
	}

	for _, s := range subs {
		if _, dup := c.byID[s.ID]; dup {
			return nil, eris.Errorf("region: duplicate id %s", s.ID)
		}
		if _, ok := c.order[s.ParentID]; !ok {
			return nil, eris.Errorf("region: sub-region %s references unknown parent %q", s.ID, s.ParentID)
		}
		c.byID[s.ID] = s
		c.children[s.ParentID] = append(c.children[s.ParentID], s)
		c.subs = append(c.subs, s)
	}

	return c, nil
}

// Parents returns districts in canonical order.
func (c *Catalog) Parents() []Region {
	out := make([]Region, len(c.parents))
	copy(out, c.parents)
	return out
}

// ParentIDs returns district codes in canonical order.
func (c *Catalog) ParentIDs() []string {
	ids := make([]string, len(c.parents))
	for i, p := range c.parents {
		ids[i] = p.ID
	}
	return ids
}

// SubRegions returns every sub-region in catalog order.
func (c *Catalog) SubRegions() []Region {
	out := make([]Region, len(c.subs))
	copy(out, c.subs)
	return out
}

// Get looks up any region by id.
func (c *Catalog) Get(id string) (Region, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Children returns the sub-regions of a district.
func (c *Catalog) Children(parentID string) []Region {
	kids := c.children[parentID]
	out := make([]Region, len(kids))
	copy(out, kids)
	return out
}

// IsParentID reports whether id is one of the district codes.
func (c *Catalog) IsParentID(id string) bool {
	_, ok := c.order[id]
	return ok
}

// ParentName returns the display name of a district, falling back to the
// code itself.
func (c *Catalog) ParentName(id string) string {
	if r, ok := c.byID[id]; ok && r.IsParent() {
		return r.Name
	}
	return id
}

// ParentByName resolves a district display name (as collected by the intake
// form) to its code.
func (c *Catalog) ParentByName(name string) (Region, bool) {
	for _, p := range c.parents {
		if p.Name == name {
			return p, true
		}
	}
	return Region{}, false
}

// At returns the first sub-region whose boundary contains the viewport
// point (x, y).
func (c *Catalog) At(x, y float64) (Region, bool) {
	for _, s := range c.subs {
		if s.Contains(x, y) {
			return s, true
		}
	}
	return Region{}, false
}
