package report

import "aimaturity/internal/maturity"

// ChartKind selects the chart family.
type ChartKind string

const (
	BarChart     ChartKind = "bar"
	RadarChart   ChartKind = "radar"
	ScatterChart ChartKind = "scatter"
)

// Ref addresses one cell (1-based).
type Ref struct {
	Sheet string `yaml:"sheet"`
	Row   int    `yaml:"row"`
	Col   int    `yaml:"col"`
}

// Range addresses a rectangle of cells (1-based, inclusive).
type Range struct {
	Sheet   string `yaml:"sheet"`
	FromRow int    `yaml:"from_row"`
	FromCol int    `yaml:"from_col"`
	ToRow   int    `yaml:"to_row"`
	ToCol   int    `yaml:"to_col"`
}

// Chart is a chart specification whose data lives in sheet cells.
type Chart struct {
	Kind   ChartKind `yaml:"kind"`
	Title  string    `yaml:"title"`
	Anchor Ref       `yaml:"anchor"`
	Width  uint      `yaml:"width"`
	Height uint      `yaml:"height"`
	Legend string    `yaml:"legend,omitempty"`
	Series []Series  `yaml:"series"`
	XAxis  Axis      `yaml:"x_axis"`
	YAxis  Axis      `yaml:"y_axis"`
}

// Series is one data series. Name points at the cell holding its label.
type Series struct {
	Name       Ref    `yaml:"name"`
	Categories Range  `yaml:"categories"`
	Values     Range  `yaml:"values"`
	Color      string `yaml:"color"`
}

// Axis describes one chart axis. Min and Max apply only when Fixed is set.
type Axis struct {
	Title     string  `yaml:"title,omitempty"`
	Fixed     bool    `yaml:"fixed,omitempty"`
	Min       float64 `yaml:"min,omitempty"`
	Max       float64 `yaml:"max,omitempty"`
	MajorUnit float64 `yaml:"major_unit,omitempty"`
	Gridlines bool    `yaml:"gridlines,omitempty"`
}

// ratingAxis is the fixed 0..5 scale every chart uses for ratings.
func ratingAxis(title string) Axis {
	return Axis{Title: title, Fixed: true, Min: 0, Max: maturity.MaxRating, MajorUnit: 1}
}

// column returns the range of t's data rows in the table column at offset.
func column(sheet string, t Table, offset int) Range {
	c := t.Col + offset
	return Range{Sheet: sheet, FromRow: t.FirstDataRow(), FromCol: c, ToRow: t.LastRow(), ToCol: c}
}

// phaseSeries returns one series per phase for a table laid out as
// label column followed by one column per phase.
func phaseSeries(sheet string, t Table) []Series {
	out := make([]Series, 0, len(maturity.Phases))
	for i := range maturity.Phases {
		out = append(out, Series{
			Name:       Ref{Sheet: sheet, Row: t.Row, Col: t.Col + 1 + i},
			Categories: column(sheet, t, 0),
			Values:     column(sheet, t, 1+i),
			Color:      seriesColors[i],
		})
	}
	return out
}

// barChart is the grouped column chart placed below a heatmap table.
func barChart(sheet string, t Table, row int, title, xTitle string) Chart {
	return Chart{
		Kind:   BarChart,
		Title:  title,
		Anchor: Ref{Sheet: sheet, Row: row, Col: t.Col},
		Width:  720,
		Height: 400,
		Legend: "bottom",
		Series: phaseSeries(sheet, t),
		XAxis:  Axis{Title: xTitle},
		YAxis:  ratingAxis("Rating"),
	}
}

// radarChart plots every phase around the domain names.
func radarChart(sheet string, t Table, at Ref) Chart {
	return Chart{
		Kind:   RadarChart,
		Title:  "Capability Rating by Domain",
		Anchor: at,
		Width:  500,
		Height: 300,
		Legend: "bottom",
		Series: phaseSeries(sheet, t),
		YAxis:  ratingAxis(""),
	}
}

// scatterChart plots each domain's Plan & Design rating against its
// Implement rating.
func scatterChart(sheet string, t Table, at Ref) Chart {
	x := ratingAxis(string(maturity.PlanDesign))
	x.Gridlines = true
	y := ratingAxis(string(maturity.Implement))
	y.Gridlines = true
	return Chart{
		Kind:   ScatterChart,
		Title:  "Plan & Design vs Implement",
		Anchor: at,
		Width:  500,
		Height: 300,
		Series: []Series{{
			Name:       Ref{Sheet: sheet, Row: t.Row, Col: t.Col},
			Categories: column(sheet, t, 1),
			Values:     column(sheet, t, 2),
			Color:      blue,
		}},
		XAxis: x,
		YAxis: y,
	}
}
