package boundary

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// ConvertShapefile reads a TPU polygon shapefile and writes a GeoJSON
// FeatureCollection with every DBF attribute as a property. The value of
// codeField is also written as TPU_ID so Parse can join it. Returns the
// number of features written.
func ConvertShapefile(shpPath, codeField string, w io.Writer) (int, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return 0, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	codeIdx := -1
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(names[i], codeField) {
			codeIdx = i
		}
	}
	if codeIdx < 0 {
		return 0, eris.Errorf("boundary: shapefile %s has no field %q", shpPath, codeField)
	}

	fc := &geojson.FeatureCollection{}
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		g := polygonGeometry(poly)
		if g == nil {
			skipped++
			continue
		}

		props := make(map[string]any, len(names)+1)
		for i, name := range names {
			props[name] = strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
		}
		props[PropTPUID] = props[names[codeIdx]]

		fc.Features = append(fc.Features, &geojson.Feature{Geometry: g, Properties: props})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	if err := json.NewEncoder(w).Encode(fc); err != nil {
		return 0, eris.Wrap(err, "boundary: encode geojson")
	}
	return len(fc.Features), nil
}

// polygonGeometry converts a shapefile polygon to a Polygon, or to a
// MultiPolygon with one polygon per part when it has several parts. Holes
// are not distinguished from outer rings.
func polygonGeometry(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end-start < 4 {
			continue
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	switch mp.NumPolygons() {
	case 0:
		return nil
	case 1:
		return mp.Polygon(0)
	default:
		return mp
	}
}
