package common

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"cromulator/cromulator"
)

// PlotGains 把每步得分与累计得分画成折线图，按扩展名保存（png/svg/pdf）
func PlotGains(steps []cromulator.Step, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "placed blocks"
	p.Y.Label.Text = "score (bytes)"
	p.Add(plotter.NewGrid())

	per := make(plotter.XYs, len(steps))
	cum := make(plotter.XYs, len(steps))
	total := 0
	for i, s := range steps {
		total += s.Score
		per[i].X = float64(s.Done)
		per[i].Y = float64(s.Score)
		cum[i].X = float64(s.Done)
		cum[i].Y = float64(total)
	}

	perLine, err := plotter.NewLine(per)
	if err != nil {
		return fmt.Errorf("plot step scores error: %w", err)
	}
	cumLine, err := plotter.NewLine(cum)
	if err != nil {
		return fmt.Errorf("plot cumulative scores error: %w", err)
	}
	cumLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(perLine, cumLine)
	p.Legend.Add("step", perLine)
	p.Legend.Add("cumulative", cumLine)
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot error '%s': %w", path, err)
	}
	return nil
}
