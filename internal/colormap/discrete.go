package colormap

// Discrete buckets densities with strict lower thresholds, checked top-down.
// Zero and below render as the no-data color.
type Discrete struct{}

type band struct {
	above float64
	color string
}

// bands are ordered from highest threshold to lowest. Band indexes count
// from this order, with len(bands) meaning no data.
var bands = []band{
	{80, "#b30000"},
	{60, "#e34a33"},
	{40, "#fc8d59"},
	{20, "#fdbb84"},
	{0, "#fee8c8"},
}

// NoDataColor is used for densities that are not above zero.
const NoDataColor = "#f7f7f7"

// Band returns the band index for density: 0 for >80 through 4 for >0, and
// 5 for no data.
func (Discrete) Band(density float64) int {
	for i, b := range bands {
		if density > b.above {
			return i
		}
	}
	return len(bands)
}

// Color implements Mapper.
func (d Discrete) Color(density float64) string {
	i := d.Band(density)
	if i == len(bands) {
		return NoDataColor
	}
	return bands[i].color
}

// Legend implements Mapper, lowest band first.
func (Discrete) Legend() []LegendEntry {
	out := []LegendEntry{{From: 0, To: 0, Color: NoDataColor, Label: "No data"}}
	for i := len(bands) - 1; i >= 0; i-- {
		to := 100.0
		if i > 0 {
			to = bands[i-1].above
		}
		out = append(out, LegendEntry{
			From:  bands[i].above,
			To:    to,
			Color: bands[i].color,
			Label: rangeLabel(bands[i].above, to),
		})
	}
	return out
}
