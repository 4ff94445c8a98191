package report

import (
	"fmt"
	"strconv"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Figure sizes.
const (
	YearPageSize       = 20 * vg.Inch
	HistoricalPageSize = 15 * vg.Inch
)

// region returns the part of c between the given fractions of its width and height, measured
// from the bottom-left corner.
func region(c draw.Canvas, x0, y0, x1, y1 float64) draw.Canvas {
	w := c.Max.X - c.Min.X
	h := c.Max.Y - c.Min.Y
	return draw.Canvas{
		Canvas: c.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: c.Min.X + w*vg.Length(x0), Y: c.Min.Y + h*vg.Length(y0)},
			Max: vg.Point{X: c.Min.X + w*vg.Length(x1), Y: c.Min.Y + h*vg.Length(y1)},
		},
	}
}

func width(c draw.Canvas) vg.Length {
	return c.Max.X - c.Min.X
}

// yearPage lays out a year: the monthly bar chart across the top half, the heatmap and its
// colour bar bottom left, the pie bottom right.
func yearPage(view YearView) page {
	return page{
		name:   strconv.Itoa(view.Year) + " breakdown",
		width:  YearPageSize,
		height: YearPageSize,
		draw: func(c draw.Canvas) error {
			c = draw.Crop(c, vg.Points(18), -vg.Points(18), vg.Points(18), -vg.Points(18))

			top := region(c, 0, 0.5, 1, 1)
			bars, err := newBarPlot(view.Monthly, barOptions{
				title:      fmt.Sprintf("%d Income vs. Expenses", view.Year),
				yLabel:     "Amount ($)",
				tickStep:   1000,
				titleSize:  vg.Points(26),
				labelSize:  vg.Points(16),
				valueSize:  vg.Points(12),
				meanSize:   vg.Points(14),
				groupFill:  0.75,
				showValues: true,
			}, width(top))
			if err != nil {
				return err
			}
			bars.Draw(top)

			heat, colorBar, err := newHeatmapPlot(view.Heatmap, vg.Points(13), vg.Points(10))
			if err != nil {
				return err
			}
			heat.Title.Text = fmt.Sprintf("%d Spending by Category", view.Year)
			heat.Title.TextStyle.Font.Size = vg.Points(20)
			heat.Draw(region(c, 0, 0, 0.47, 0.48))
			colorBar.Draw(region(c, 0.47, 0.04, 0.52, 0.44))

			pie := newPiePlot(view.Pie, view.PieTitle+" Spending", vg.Points(20), vg.Points(16))
			pie.Draw(region(c, 0.54, 0, 1, 0.48))
			return nil
		},
	}
}

// historicalPage stacks the yearly totals above the monthly totals across every year.
func historicalPage(view HistoricalView) page {
	return page{
		name:   "historical summary",
		width:  HistoricalPageSize,
		height: HistoricalPageSize,
		draw: func(c draw.Canvas) error {
			c = draw.Crop(c, vg.Points(18), -vg.Points(18), vg.Points(18), -vg.Points(18))

			top := region(c, 0, 0.5, 1, 1)
			yearly, err := newBarPlot(view.Yearly, barOptions{
				title:      "Yearly Income vs. Expenses",
				yLabel:     "Amount ($)",
				tickStep:   10000,
				titleSize:  vg.Points(22),
				labelSize:  vg.Points(14),
				valueSize:  vg.Points(13),
				meanSize:   vg.Points(13),
				groupFill:  0.8,
				showValues: true,
			}, width(top))
			if err != nil {
				return err
			}
			yearly.Draw(top)

			bottom := region(c, 0, 0, 1, 0.5)
			monthly, err := newBarPlot(view.Monthly, barOptions{
				title:      "Monthly Income vs. Expenses",
				yLabel:     "Amount ($)",
				tickStep:   1000,
				titleSize:  vg.Points(22),
				labelSize:  vg.Points(14),
				valueSize:  vg.Points(8),
				meanSize:   vg.Points(13),
				groupFill:  0.8,
				rotateX:    true,
				showValues: true,
			}, width(bottom))
			if err != nil {
				return err
			}
			monthly.Draw(bottom)
			return nil
		},
	}
}
