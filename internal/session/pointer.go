package session

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/census-map/internal/mapview"
)

// Pointer event types.
const (
	PointerHover = "hover"
	PointerLeave = "leave"
	PointerClick = "click"
)

// PointerEvent targets a boundary feature by ID on the geo-accurate map, or
// a screen point (X, Y) on the stylized map when ID is empty.
type PointerEvent struct {
	Type string  `json:"type"`
	ID   string  `json:"id,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// PointerResult is the map state after a pointer event.
type PointerResult struct {
	RegionID string         `json:"regionId,omitempty"`
	Name     string         `json:"name,omitempty"`
	Density  float64        `json:"density"`
	Color    string         `json:"color,omitempty"`
	Hovered  string         `json:"hovered,omitempty"`
	Style    *mapview.Style `json:"style,omitempty"`
	Popup    *mapview.Popup `json:"popup"`
}

// Pointer applies a pointer event.
func (s *Session) Pointer(ev PointerEvent) (PointerResult, error) {
	switch ev.Type {
	case PointerHover, PointerLeave, PointerClick:
	default:
		return PointerResult{}, eris.Errorf("session: unknown pointer event %q", ev.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.ID == "" {
		return s.stylizedPointerLocked(ev)
	}

	geo, err := s.geoLocked()
	if err != nil {
		return PointerResult{}, err
	}

	switch ev.Type {
	case PointerHover:
		_, err = geo.Hover(ev.ID)
	case PointerLeave:
		err = geo.Leave(ev.ID)
	case PointerClick:
		_, err = geo.Click(ev.ID)
	}
	if err != nil {
		return PointerResult{}, err
	}

	style := geo.Style(ev.ID)
	return PointerResult{
		RegionID: ev.ID,
		Density:  geo.Density(ev.ID),
		Color:    style.FillColor,
		Hovered:  geo.Hovered(),
		Style:    &style,
		Popup:    geo.Popup(),
	}, nil
}

func (s *Session) stylizedPointerLocked(ev PointerEvent) (PointerResult, error) {
	r, ok := mapview.HitTest(s.deps.Catalog, s.viewLocked(), ev.X, ev.Y)
	if !ok {
		return PointerResult{}, eris.Wrapf(ErrUnknownRegion, "(%g, %g)", ev.X, ev.Y)
	}
	d := s.densities[r.ID]
	res := PointerResult{
		RegionID: r.ID,
		Name:     r.Name,
		Density:  d,
		Color:    s.deps.Mapper.Color(d),
	}
	if ev.Type != PointerLeave {
		res.Hovered = r.ID
	}
	return res, nil
}
