package session

import (
	"github.com/sells-group/census-map/internal/colormap"
	"github.com/sells-group/census-map/internal/density"
	"github.com/sells-group/census-map/internal/insight"
	"github.com/sells-group/census-map/internal/mapview"
	"github.com/sells-group/census-map/internal/model"
)

// Snapshot is a point-in-time view of a session for rendering.
type Snapshot struct {
	ID      string        `json:"id"`
	Profile model.Profile `json:"profile"`
	// Attribute is the selected attribute. DataAttribute is the attribute
	// of the density set on display; they differ while a fetch is loading.
	Attribute     model.Attribute        `json:"attribute"`
	DataAttribute model.Attribute        `json:"dataAttribute"`
	State         string                 `json:"state"`
	Loading       bool                   `json:"loading"`
	Error         string                 `json:"error,omitempty"`
	Result        density.Result         `json:"result"`
	Densities     map[string]float64     `json:"densities"`
	Colors        map[string]string      `json:"colors"`
	Insight       insight.Insight        `json:"insight"`
	View          mapview.Transform      `json:"view"`
	Legend        []colormap.LegendEntry `json:"legend"`
	Boundary      string                 `json:"boundary,omitempty"`
	// Residence is the district code of Profile.District, when it names
	// a catalog district.
	Residence string `json:"residence,omitempty"`
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	densities := make(map[string]float64, len(s.densities))
	colors := make(map[string]string, len(s.densities))
	for id, d := range s.densities {
		densities[id] = d
		colors[id] = s.deps.Mapper.Color(d)
	}

	snap := Snapshot{
		ID:            s.ID,
		Profile:       s.Profile,
		Attribute:     s.attr,
		DataAttribute: s.dataAttr,
		State:         s.state.String(),
		Loading:       s.state == Loading,
		Result:        s.result,
		Densities:     densities,
		Colors:        colors,
		Insight:       s.insight,
		View:          s.viewLocked(),
		Legend:        s.deps.Mapper.Legend(),
	}
	if p, ok := s.deps.Catalog.ParentByName(s.Profile.District); ok {
		snap.Residence = p.ID
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	if s.deps.Boundary != nil {
		snap.Boundary = s.deps.Boundary.State().String()
	}
	return snap
}
