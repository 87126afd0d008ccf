package session

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/census-map/internal/mapview"
)

// View event types.
const (
	ViewPan   = "pan"
	ViewZoom  = "zoom"
	ViewReset = "reset"
	ViewSet   = "set"
)

// ViewEvent is a pan or zoom gesture on the stylized map. DX/DY apply to
// pan; Factor, X and Y (the pointer) to zoom; Transform to set.
type ViewEvent struct {
	Type      string            `json:"type"`
	DX        float64           `json:"dx,omitempty"`
	DY        float64           `json:"dy,omitempty"`
	Factor    float64           `json:"factor,omitempty"`
	X         float64           `json:"x,omitempty"`
	Y         float64           `json:"y,omitempty"`
	Transform mapview.Transform `json:"transform,omitzero"`
}

// ApplyView applies a gesture and returns the resulting transform. A
// gesture interrupts the mount transition. Gestures with non-finite or
// out-of-range values fail with mapview.ErrInvalidGesture and leave the
// view unchanged.
func (s *Session) ApplyView(ev ViewEvent) (mapview.Transform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ev.check(); err != nil {
		return s.viewLocked(), err
	}

	if s.mount != nil {
		s.zoom.Set(s.viewLocked())
		s.mount = nil
	}

	switch ev.Type {
	case ViewPan:
		return s.zoom.Pan(ev.DX, ev.DY), nil
	case ViewZoom:
		return s.zoom.ZoomAt(ev.Factor, ev.X, ev.Y), nil
	case ViewReset:
		return s.zoom.Reset(), nil
	case ViewSet:
		return s.zoom.Set(ev.Transform), nil
	default:
		return s.zoom.Transform(), eris.Errorf("session: unknown view event %q", ev.Type)
	}
}

func (ev ViewEvent) check() error {
	var err error
	switch ev.Type {
	case ViewPan:
		err = mapview.CheckGesture(ev.DX, ev.DY)
	case ViewZoom:
		err = mapview.CheckGesture(ev.Factor, ev.X, ev.Y)
	case ViewSet:
		err = mapview.CheckGesture(ev.Transform.K, ev.Transform.X, ev.Transform.Y)
	}
	if err != nil {
		return eris.Wrapf(err, "session: %s gesture", ev.Type)
	}
	return nil
}

// View returns the current transform, including the mount transition.
func (s *Session) View() mapview.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() mapview.Transform {
	if s.mount == nil {
		return s.zoom.Transform()
	}
	elapsed := s.nowFunc().Sub(s.mountAt)
	if s.mount.Done(elapsed) {
		s.zoom.Set(s.mount.To)
		s.mount = nil
		return s.zoom.Transform()
	}
	return s.mount.At(elapsed)
}
