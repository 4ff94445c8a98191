package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Heatmap colour scale, in source currency units.
const (
	heatmapMin = 0
	heatmapMax = 1500
)

var (
	salmon      = color.RGBA{R: 0xfa, G: 0x80, B: 0x72, A: 0xff}
	springGreen = color.RGBA{R: 0x00, G: 0xff, B: 0x7f, A: 0xff}
	aquamarine  = color.RGBA{R: 0x7f, G: 0xff, B: 0xd4, A: 0xff}
	darkRed     = color.RGBA{R: 0x8b, A: 0xff}
	darkGreen   = color.RGBA{G: 0x64, A: 0xff}
	darkSlate   = color.RGBA{R: 0x2f, G: 0x4f, B: 0x4f, A: 0xff}
)

type seriesStyle struct {
	fill, edge color.Color
}

// styleFor colours a series the same way on every chart.
func styleFor(name string) seriesStyle {
	switch name {
	case ExpensesSeries:
		return seriesStyle{fill: salmon, edge: darkRed}
	case IncomeSeries:
		return seriesStyle{fill: springGreen, edge: darkGreen}
	default:
		return seriesStyle{fill: aquamarine, edge: darkSlate}
	}
}

// barOptions control the look of a grouped bar chart.
type barOptions struct {
	title      string
	yLabel     string
	tickStep   float64
	titleSize  vg.Length
	labelSize  vg.Length
	valueSize  vg.Length
	meanSize   vg.Length
	groupFill  float64 // share of each group's slot covered by bars
	rotateX    bool
	showValues bool
}

// newBarPlot draws grouped bars with value labels, dashed mean lines for expenses and
// income, and fixed y ticks. width is the horizontal space the plot will occupy, used to
// size the bars.
func newBarPlot(data BarData, opts barOptions, width vg.Length) (*plot.Plot, error) {
	if len(data.Labels) == 0 || len(data.Series) == 0 {
		return nil, fmt.Errorf("bar chart %q has no data", opts.title)
	}

	p := plot.New()
	p.Title.Text = opts.title
	p.Title.TextStyle.Font.Size = opts.titleSize
	p.Y.Label.Text = opts.yLabel
	p.Y.Label.TextStyle.Font.Size = opts.labelSize
	p.Y.Tick.Label.Font.Size = opts.labelSize
	p.X.Tick.Label.Font.Size = opts.labelSize * 0.85
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = opts.labelSize

	p.Add(plotter.NewGrid())

	groups := len(data.Labels)
	nSeries := len(data.Series)
	groupWidth := width * 0.85 / vg.Length(groups)
	barWidth := groupWidth * vg.Length(opts.groupFill) / vg.Length(nSeries)

	for k, series := range data.Series {
		bars, err := plotter.NewBarChart(plotter.Values(series.Values), barWidth)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s bars: %w", series.Name, err)
		}
		style := styleFor(series.Name)
		bars.Color = style.fill
		bars.LineStyle.Color = style.edge
		bars.LineStyle.Width = vg.Points(1)
		bars.Offset = barWidth * vg.Length(float64(k)-float64(nSeries-1)/2)
		p.Add(bars)
		p.Legend.Add(series.Name, bars)

		if opts.showValues {
			labels, err := valueLabels(series, bars.Offset, opts.valueSize)
			if err != nil {
				return nil, err
			}
			p.Add(labels)
		}
	}

	for _, name := range []string{ExpensesSeries, IncomeSeries} {
		series, ok := data.Lookup(name)
		if !ok {
			continue
		}
		line, label, err := meanLine(series, -groupWidth/2, opts.meanSize)
		if err != nil {
			return nil, err
		}
		p.Add(line, label)
	}

	p.NominalX(data.Labels...)
	if opts.rotateX {
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
	}

	ticks := YTicks(data.Max(), opts.tickStep)
	marks := make([]plot.Tick, len(ticks))
	for i, v := range ticks {
		marks[i] = plot.Tick{Value: v, Label: FormatAmount(v)}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(marks)
	p.Y.Min = math.Min(0, p.Y.Min)
	p.Y.Max = math.Max(ticks[len(ticks)-1], p.Y.Max) + opts.tickStep*0.05

	return p, nil
}

// valueLabels annotates each bar of series; labels without data stay blank.
func valueLabels(series Series, offset, size vg.Length) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(series.Values))
	shown := ValueLabels(series.Values)
	for i, v := range series.Values {
		xys[i] = plotter.XY{X: float64(i), Y: math.Max(v, 0)}
		if !series.Has(i) {
			shown[i] = ""
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: shown})
	if err != nil {
		return nil, fmt.Errorf("failed to build value labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = size
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
	}
	labels.Offset = vg.Point{X: offset, Y: vg.Points(2)}
	return labels, nil
}

// meanLine returns a dashed horizontal line at the series mean and its annotation, placed at
// the left edge of the first group.
func meanLine(series Series, left, size vg.Length) (*plotter.Function, *plotter.Labels, error) {
	mean := series.Mean()
	style := styleFor(series.Name)

	line := plotter.NewFunction(func(float64) float64 { return mean })
	line.Color = style.edge
	line.Width = vg.Points(2)
	line.Dashes = []vg.Length{vg.Points(8), vg.Points(4)}

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0, Y: mean}},
		Labels: []string{MeanLabel(series.Name, mean)},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build mean label: %w", err)
	}
	label.TextStyle[0].Font.Size = size
	label.TextStyle[0].XAlign = text.XLeft
	label.TextStyle[0].YAlign = text.YBottom
	label.Offset = vg.Point{X: left, Y: vg.Points(2)}

	return line, label, nil
}

// heatGrid adapts a Heatmap (plus its average column) to plotter.GridXYZ. Row 0 of the grid is
// drawn at the bottom, so rows are reversed to keep the first category on top.
type heatGrid struct {
	h Heatmap
}

func (g heatGrid) Dims() (c, r int) {
	return len(g.h.Months) + 1, len(g.h.Categories)
}

func (g heatGrid) Z(c, r int) float64 {
	row := len(g.h.Categories) - 1 - r
	if c == len(g.h.Months) {
		return g.h.Averages[row]
	}
	return g.h.Values[row][c]
}

func (g heatGrid) X(c int) float64 { return float64(c) }

func (g heatGrid) Y(r int) float64 { return float64(r) }

func heatColorMap() palette.ColorMap {
	cm := palette.Reverse(moreland.BlackBody())
	cm.SetMin(heatmapMin)
	cm.SetMax(heatmapMax)
	return cm
}

// newHeatmapPlot draws the annotated category by month grid and a matching colour bar.
func newHeatmapPlot(h Heatmap, labelSize, cellSize vg.Length) (*plot.Plot, *plot.Plot, error) {
	if len(h.Categories) == 0 {
		return nil, nil, fmt.Errorf("heatmap has no categories")
	}

	grid := heatGrid{h: h}
	pal := heatColorMap().Palette(256)
	colors := pal.Colors()

	heat := plotter.NewHeatMap(grid, pal)
	heat.Min = heatmapMin
	heat.Max = heatmapMax
	heat.Underflow = colors[0]
	heat.Overflow = colors[len(colors)-1]

	p := plot.New()
	p.Add(heat)

	cols, rows := grid.Dims()
	xys := make(plotter.XYs, 0, cols*rows)
	texts := make([]string, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			texts = append(texts, FormatAmount(grid.Z(c, r)))
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build heatmap annotations: %w", err)
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].Font.Size = cellSize
		annotations.TextStyle[i].XAlign = text.XCenter
		annotations.TextStyle[i].YAlign = text.YCenter
		if grid.Z(i%cols, i/cols) > heatmapMax/2 {
			annotations.TextStyle[i].Color = color.White
		}
	}
	p.Add(annotations)

	xTicks := make([]plot.Tick, 0, cols)
	for c, label := range h.ColumnLabels() {
		xTicks = append(xTicks, plot.Tick{Value: grid.X(c), Label: label})
	}
	yTicks := make([]plot.Tick, 0, rows)
	for r := 0; r < rows; r++ {
		yTicks = append(yTicks, plot.Tick{Value: grid.Y(r), Label: h.Categories[rows-1-r]})
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Tick.Label.Font.Size = labelSize
	p.Y.Tick.Label.Font.Size = labelSize
	p.X.Tick.Length = 0
	p.Y.Tick.Length = 0

	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: heatColorMap(), Vertical: true})
	bar.HideX()
	bar.Y.Tick.Label.Font.Size = labelSize * 0.9
	bar.Y.Padding = 0

	return p, bar, nil
}

// newPiePlot draws a percentage-labelled pie of the slices. A period without positive
// spending gets an empty pie.
func newPiePlot(slices []PieSlice, title string, titleSize, labelSize vg.Length) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = titleSize
	p.HideAxes()
	p.Add(newPieChart(slices, labelSize))
	return p
}
