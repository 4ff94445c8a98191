package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pastel is the wedge palette, cycled when there are more slices than colours.
var pastel = []color.Color{
	color.RGBA{R: 0xa1, G: 0xc9, B: 0xf4, A: 0xff},
	color.RGBA{R: 0xff, G: 0xb4, B: 0x82, A: 0xff},
	color.RGBA{R: 0x8d, G: 0xe5, B: 0xa1, A: 0xff},
	color.RGBA{R: 0xff, G: 0x9f, B: 0x9b, A: 0xff},
	color.RGBA{R: 0xd0, G: 0xbb, B: 0xff, A: 0xff},
	color.RGBA{R: 0xde, G: 0xbb, B: 0x9b, A: 0xff},
	color.RGBA{R: 0xfa, G: 0xb0, B: 0xe4, A: 0xff},
	color.RGBA{R: 0xcf, G: 0xcf, B: 0xcf, A: 0xff},
	color.RGBA{R: 0xff, G: 0xfe, B: 0xa3, A: 0xff},
	color.RGBA{R: 0xb9, G: 0xf2, B: 0xf0, A: 0xff},
}

// pieChart implements plot.Plotter. It ignores the data coordinate system and draws a circle
// that fits the canvas, so the pie stays round whatever the plot's aspect ratio.
type pieChart struct {
	slices    []PieSlice
	labelSize vg.Length
}

func newPieChart(slices []PieSlice, labelSize vg.Length) *pieChart {
	return &pieChart{slices: slices, labelSize: labelSize}
}

// PercentLabel formats a wedge's share of the total, e.g. "42%".
func PercentLabel(share float64) string {
	return fmt.Sprintf("%.0f%%", share*100)
}

// Plot implements plot.Plotter. Wedges split the circle by positive spending; percentages
// are shares of the net total, and net credits are captioned below the pie.
func (pc *pieChart) Plot(c draw.Canvas, p *plot.Plot) {
	var gross, net, credits float64
	for _, s := range pc.slices {
		net += s.Value
		if s.Value > 0 {
			gross += s.Value
		} else {
			credits += s.Value
		}
	}
	if gross <= 0 {
		return
	}
	if net <= 0 {
		net = gross
	}

	center := c.Center()
	size := c.Size()
	radius := vg.Length(math.Min(float64(size.X), float64(size.Y))) / 2 * 0.75

	style := p.X.Tick.Label
	style.Font.Size = pc.labelSize
	style.Color = color.Black
	style.Rotation = 0
	style.XAlign = text.XCenter
	style.YAlign = text.YCenter

	start := 0.0
	wedge := 0
	for _, s := range pc.slices {
		if s.Value <= 0 {
			continue
		}
		sweep := 2 * math.Pi * s.Value / gross

		var path vg.Path
		path.Move(center)
		path.Line(polar(center, radius, start))
		path.Arc(center, radius, start, sweep)
		path.Close()

		c.SetColor(pastel[wedge%len(pastel)])
		c.Fill(path)
		c.SetColor(color.White)
		c.SetLineWidth(vg.Points(1))
		c.Stroke(path)

		mid := start + sweep/2
		c.FillText(style, polar(center, radius*0.6, mid), PercentLabel(s.Value/net))

		outer := style
		if math.Cos(mid) < 0 {
			outer.XAlign = text.XRight
		} else {
			outer.XAlign = text.XLeft
		}
		c.FillText(outer, polar(center, radius*1.08, mid), s.Label)

		start += sweep
		wedge++
	}

	if credits < 0 {
		caption := style
		caption.YAlign = text.YTop
		c.FillText(caption, vg.Point{X: center.X, Y: center.Y - radius*1.1}, CreditsLabel(credits))
	}
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(angle)),
		Y: center.Y + r*vg.Length(math.Sin(angle)),
	}
}
