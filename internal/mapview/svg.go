package mapview

import (
	"html/template"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/census-map/internal/colormap"
	"github.com/sells-group/census-map/internal/region"
)

var svgTmpl = template.Must(template.New("map").Funcs(template.FuncMap{"num": num}).Parse(
	`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{num .Size}} {{num .Size}}" preserveAspectRatio="xMidYMid slice">
<rect x="0" y="0" width="{{num .Size}}" height="{{num .Size}}" fill="#E5E5EA"/>
<g transform="{{.Transform}}">
{{- range .Regions}}
<g data-id="{{.ID}}"><title>{{.Name}}</title><path d="{{.Path}}" fill="{{.Fill}}" stroke="white" stroke-width="{{num $.Stroke}}" stroke-opacity="0.5"/>
{{- if $.Labels}}<text x="{{num .LabelX}}" y="{{num .LabelY}}" font-size="{{num $.FontSize}}" text-anchor="middle" fill="black" opacity="0.7" pointer-events="none">{{.Name}}</text>{{end}}</g>
{{- end}}
</g>
</svg>
`))

type svgRegion struct {
	ID, Name, Path, Fill string
	LabelX, LabelY       float64
}

type svgView struct {
	Size      float64
	Transform string
	Stroke    float64
	FontSize  float64
	Labels    bool
	Regions   []svgRegion
}

// RenderSVG writes the stylized choropleth of every sub-region in cat.
// Sub-regions missing from densities render at density 0.
func RenderSVG(w io.Writer, cat *region.Catalog, densities map[string]float64, mapper colormap.Mapper, t Transform) error {
	view := svgView{
		Size:      ViewportSize,
		Transform: t.SVG(),
		Stroke:    t.StrokeWidth(),
		FontSize:  t.LabelFontSize(),
		Labels:    t.ShowLabels(),
	}
	for _, s := range cat.SubRegions() {
		c := s.Centroid()
		view.Regions = append(view.Regions, svgRegion{
			ID:     s.ID,
			Name:   s.Name,
			Path:   s.Path,
			Fill:   mapper.Color(densities[s.ID]),
			LabelX: c.X(),
			LabelY: c.Y(),
		})
	}

	if err := svgTmpl.Execute(w, view); err != nil {
		return eris.Wrap(err, "mapview: render svg")
	}
	return nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
