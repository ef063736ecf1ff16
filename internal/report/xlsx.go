package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// XLSX renders the report as an Excel workbook, one worksheet per sheet.
type XLSX struct{}

func (XLSX) Name() string      { return "xlsx" }
func (XLSX) Extension() string { return "xlsx" }

func (XLSX) Render(rep *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{f: f, styles: make(map[Style]int)}
	for i, sh := range rep.Sheets {
		if i == 0 {
			// NewFile always starts with one default sheet; reuse it.
			if err := f.SetSheetName(f.GetSheetName(0), sh.Name); err != nil {
				return nil, fmt.Errorf("rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", sh.Name, err)
		}
		if err := w.writeSheet(sh); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sh.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "AI Maturity Assessment - " + rep.Partner,
		Subject:    "AI Maturity Assessment and Gap Analysis",
		Creator:    rep.AssessedBy,
		Identifier: rep.ID,
		Created:    rep.GeneratedAt.UTC().Format(time.RFC3339),
		Modified:   rep.GeneratedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("set document properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// workbook caches one excelize style per distinct Style.
type workbook struct {
	f      *excelize.File
	styles map[Style]int
}

func (w *workbook) writeSheet(sh Sheet) error {
	for _, c := range sh.Columns {
		from, err := excelize.ColumnNumberToName(c.From)
		if err != nil {
			return err
		}
		to, err := excelize.ColumnNumberToName(c.To)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(sh.Name, from, to, c.Width); err != nil {
			return fmt.Errorf("column width %s:%s: %w", from, to, err)
		}
	}
	for _, t := range sh.Tables {
		if err := w.writeTable(sh.Name, t); err != nil {
			return err
		}
	}
	for _, c := range sh.Charts {
		if err := w.addChart(sh.Name, c); err != nil {
			return fmt.Errorf("chart %q: %w", c.Title, err)
		}
	}
	return nil
}

func (w *workbook) writeTable(sheet string, t Table) error {
	for j, c := range t.Header {
		if err := w.writeCell(sheet, t.Row, t.Col+j, c); err != nil {
			return err
		}
	}
	first := t.FirstDataRow()
	for i, row := range t.Rows {
		for j, c := range row {
			if err := w.writeCell(sheet, first+i, t.Col+j, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *workbook) writeCell(sheet string, row, col int, c Cell) error {
	if c.Value == nil && c.Style == (Style{}) {
		return nil
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if c.Value != nil {
		if err := w.f.SetCellValue(sheet, axis, c.Value); err != nil {
			return fmt.Errorf("set %s: %w", axis, err)
		}
	}
	id, err := w.style(c.Style)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, axis, axis, id); err != nil {
		return fmt.Errorf("style %s: %w", axis, err)
	}
	return nil
}

func (w *workbook) style(s Style) (int, error) {
	if id, ok := w.styles[s]; ok {
		return id, nil
	}
	size := s.FontSize
	if size == 0 {
		size = 11
	}
	st := &excelize.Style{
		Font: &excelize.Font{Bold: s.Bold, Size: size, Color: s.FontColor},
		Alignment: &excelize.Alignment{
			Horizontal: s.Align,
			Vertical:   "center",
			WrapText:   s.Wrap,
		},
	}
	if s.Fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
	}
	if s.Border {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			st.Border = append(st.Border, excelize.Border{Type: side, Color: black, Style: 1})
		}
	}
	id, err := w.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("new style: %w", err)
	}
	w.styles[s] = id
	return id, nil
}

func (w *workbook) addChart(sheet string, c Chart) error {
	anchor, err := excelize.CoordinatesToCellName(c.Anchor.Col, c.Anchor.Row)
	if err != nil {
		return err
	}
	chart := &excelize.Chart{
		Title:     []excelize.RichTextRun{{Text: c.Title, Font: &excelize.Font{Bold: true, Size: 12}}},
		Dimension: excelize.ChartDimension{Width: c.Width, Height: c.Height},
		XAxis:     chartAxis(c.XAxis),
		YAxis:     chartAxis(c.YAxis),
	}
	if c.Legend != "" {
		chart.Legend = excelize.ChartLegend{Position: c.Legend}
	} else {
		chart.Legend = excelize.ChartLegend{Position: "none"}
	}

	switch c.Kind {
	case BarChart:
		chart.Type = excelize.Col
	case RadarChart:
		chart.Type = excelize.Radar
	case ScatterChart:
		chart.Type = excelize.Scatter
	default:
		return fmt.Errorf("unsupported chart kind %q", c.Kind)
	}

	for _, s := range c.Series {
		name, err := cellRef(s.Name)
		if err != nil {
			return err
		}
		cats, err := rangeRef(s.Categories)
		if err != nil {
			return err
		}
		vals, err := rangeRef(s.Values)
		if err != nil {
			return err
		}
		series := excelize.ChartSeries{
			Name:       name,
			Categories: cats,
			Values:     vals,
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Color}},
		}
		switch c.Kind {
		case RadarChart:
			series.Line = excelize.ChartLine{Width: 2.25}
			series.Marker = excelize.ChartMarker{Symbol: "auto"}
		case ScatterChart:
			series.Line = excelize.ChartLine{Type: excelize.ChartLineNone}
			series.Marker = excelize.ChartMarker{Symbol: "circle", Size: 10}
		}
		chart.Series = append(chart.Series, series)
	}
	return w.f.AddChart(sheet, anchor, chart)
}

func chartAxis(a Axis) excelize.ChartAxis {
	ax := excelize.ChartAxis{MajorGridLines: a.Gridlines, MajorUnit: a.MajorUnit}
	if a.Title != "" {
		ax.Title = []excelize.RichTextRun{{Text: a.Title}}
	}
	if a.Fixed {
		lo, hi := a.Min, a.Max
		ax.Minimum = &lo
		ax.Maximum = &hi
	}
	return ax
}

// quoteSheet returns sheet quoted for use in a formula reference.
func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

func absCell(col, row int) (string, error) {
	return excelize.CoordinatesToCellName(col, row, true)
}

// cellRef renders r as 'Sheet'!$A$1.
func cellRef(r Ref) (string, error) {
	c, err := absCell(r.Col, r.Row)
	if err != nil {
		return "", err
	}
	return quoteSheet(r.Sheet) + "!" + c, nil
}

// rangeRef renders r as 'Sheet'!$A$2:$A$9.
func rangeRef(r Range) (string, error) {
	from, err := absCell(r.FromCol, r.FromRow)
	if err != nil {
		return "", err
	}
	to, err := absCell(r.ToCol, r.ToRow)
	if err != nil {
		return "", err
	}
	return quoteSheet(r.Sheet) + "!" + from + ":" + to, nil
}
