package mapview

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/census-map/internal/boundary"
	"github.com/sells-group/census-map/internal/colormap"
	"github.com/sells-group/census-map/internal/distribute"
	"github.com/sells-group/census-map/internal/model"
)

// Initial view of the geo-accurate map.
const (
	GeoCenterLat = 22.3193
	GeoCenterLng = 114.1694
	GeoZoom      = 11
)

// Popup accents.
const (
	AccentHigh = "#d32f2f"
	AccentLow  = "#2e7d32"
)

// ErrUnknownFeature is returned for pointer events on a code that is not in
// the boundary dataset.
var ErrUnknownFeature = eris.New("mapview: unknown feature")

// Style is the path style of one feature.
type Style struct {
	FillColor   string  `json:"fillColor"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	Color       string  `json:"color"`
	FillOpacity float64 `json:"fillOpacity"`
}

// Popup describes the open feature popup.
type Popup struct {
	RegionID string  `json:"regionId"`
	Metric   string  `json:"metric"`
	Density  float64 `json:"density"`
	Score    string  `json:"score"`
	Accent   string  `json:"accent"`
}

// GeoMap is the state of the geo-accurate map for one session: computed
// feature densities, the hovered feature and the open popup. At most one
// popup is open. It is not safe for concurrent use.
type GeoMap struct {
	ds     *boundary.Dataset
	dist   distribute.Distributor
	mapper colormap.Mapper

	attr      model.Attribute
	densities map[string]float64
	hovered   string
	popup     *Popup
}

// NewGeoMap creates a map over ds with no density data.
func NewGeoMap(ds *boundary.Dataset, dist distribute.Distributor, mapper colormap.Mapper) *GeoMap {
	g := &GeoMap{ds: ds, dist: dist, mapper: mapper}
	g.SetData(model.DefaultAttribute(), nil)
	return g
}

// SetData recomputes every feature density for a new density set. An open
// popup is refreshed in place.
func (g *GeoMap) SetData(attr model.Attribute, parents []model.DensityScore) {
	g.attr = attr
	g.densities = make(map[string]float64, len(g.ds.Features))
	for _, f := range g.ds.Features {
		if f.Code == "" {
			continue
		}
		if _, ok := g.densities[f.Code]; ok {
			continue
		}
		g.densities[f.Code] = g.dist.DensityFor(f.Code, parents, "")
	}
	if g.popup != nil {
		g.popup = g.buildPopup(g.popup.RegionID)
	}
}

// Density returns the computed density of a feature. Features without a
// code have density 0.
func (g *GeoMap) Density(code string) float64 {
	return g.densities[code]
}

// Style returns the current style of a feature, highlighted when hovered.
func (g *GeoMap) Style(code string) Style {
	s := Style{
		FillColor:   g.mapper.Color(g.Density(code)),
		Weight:      1,
		Opacity:     1,
		Color:       "white",
		FillOpacity: 0.7,
	}
	if code != "" && code == g.hovered {
		s.Weight = 3
		s.Color = "#FFE082"
		s.FillOpacity = 0.9
	}
	return s
}

// Hover highlights a feature and opens its popup.
func (g *GeoMap) Hover(code string) (*Popup, error) {
	if !g.has(code) {
		return nil, eris.Wrapf(ErrUnknownFeature, "hover %q", code)
	}
	g.hovered = code
	g.popup = g.buildPopup(code)
	return g.popup, nil
}

// Leave reverts a feature to its computed style and closes its popup.
func (g *GeoMap) Leave(code string) error {
	if !g.has(code) {
		return eris.Wrapf(ErrUnknownFeature, "leave %q", code)
	}
	if g.hovered == code {
		g.hovered = ""
	}
	if g.popup != nil && g.popup.RegionID == code {
		g.popup = nil
	}
	return nil
}

// Click opens a feature's popup. Clicking a feature whose popup is already
// open leaves it open.
func (g *GeoMap) Click(code string) (*Popup, error) {
	if !g.has(code) {
		return nil, eris.Wrapf(ErrUnknownFeature, "click %q", code)
	}
	g.popup = g.buildPopup(code)
	return g.popup, nil
}

// Popup returns the open popup, or nil.
func (g *GeoMap) Popup() *Popup { return g.popup }

// Hovered returns the hovered feature code, or "".
func (g *GeoMap) Hovered() string { return g.hovered }

// StyledFeatures returns the dataset as a FeatureCollection whose
// properties carry the computed density and style.
func (g *GeoMap) StyledFeatures() *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(g.ds.Features))}
	for _, f := range g.ds.Features {
		props := make(map[string]any, len(f.Properties)+3)
		for k, v := range f.Properties {
			props[k] = v
		}
		props["code"] = f.Code
		props["density"] = g.Density(f.Code)
		props["style"] = g.Style(f.Code)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.Code,
			Geometry:   f.Geometry,
			Properties: props,
		})
	}
	return fc
}

func (g *GeoMap) has(code string) bool {
	if code == "" {
		return false
	}
	_, ok := g.densities[code]
	return ok
}

func (g *GeoMap) buildPopup(code string) *Popup {
	d := g.Density(code)
	accent := AccentLow
	if d > 50 {
		accent = AccentHigh
	}
	return &Popup{
		RegionID: code,
		Metric:   g.attr.Label,
		Density:  d,
		Score:    fmt.Sprintf("%d/100", int(math.Round(d))),
		Accent:   accent,
	}
}
