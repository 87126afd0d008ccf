// Package boundary loads the TPU boundary dataset used by the geo-accurate
// map and converts shapefiles into it.
package boundary

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Region code properties, in lookup order.
const (
	PropTPUID  = "TPU_ID"
	PropTPUKey = "TPU_KEY"
)

// Feature is one boundary polygon and its region code. Code is empty when
// the feature carries neither code property.
type Feature struct {
	Code       string
	Geometry   geom.T
	Properties map[string]any
}

// Dataset is a parsed boundary collection.
type Dataset struct {
	Source   string
	Features []Feature
}

// Codes returns the non-empty region codes in feature order.
func (d *Dataset) Codes() []string {
	out := make([]string, 0, len(d.Features))
	for _, f := range d.Features {
		if f.Code != "" {
			out = append(out, f.Code)
		}
	}
	return out
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// Parse decodes a GeoJSON FeatureCollection. Features without a geometry
// are skipped.
func Parse(data []byte) (*Dataset, error) {
	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "boundary: decode feature collection")
	}
	if raw.Type != "FeatureCollection" {
		return nil, eris.Errorf("boundary: expected FeatureCollection, got %q", raw.Type)
	}

	ds := &Dataset{Features: make([]Feature, 0, len(raw.Features))}
	var skipped int
	for _, rf := range raw.Features {
		if len(rf.Geometry) == 0 || string(rf.Geometry) == "null" {
			skipped++
			continue
		}
		var g geom.T
		if err := geojson.Unmarshal(rf.Geometry, &g); err != nil {
			skipped++
			continue
		}
		ds.Features = append(ds.Features, Feature{
			Code:       RegionCode(rf.Properties),
			Geometry:   g,
			Properties: rf.Properties,
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped features without usable geometry", zap.Int("skipped", skipped))
	}
	return ds, nil
}

// RegionCode returns TPU_ID, falling back to TPU_KEY. Empty strings and
// zero numbers count as missing.
func RegionCode(props map[string]any) string {
	for _, key := range []string{PropTPUID, PropTPUKey} {
		if s := propString(props[key]); s != "" {
			return s
		}
	}
	return ""
}

func propString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
