package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/seqlearn/pkg/errors"
)

// PlotFolds writes a bar chart of the per-fold scores to path, with a line
// at their mean. The image format follows the file extension (png, svg, pdf).
func PlotFolds(title string, scores []float64, path string) error {
	if len(scores) == 0 {
		return errors.NewValidationError("scores", "must not be empty", nil)
	}
	switch filepath.Ext(path) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg", ".eps", ".tif", ".tiff":
	default:
		return errors.NewValidationError("path", "unsupported image format", path)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "fold"
	p.Y.Label.Text = "score"

	bars, err := plotter.NewBarChart(plotter.Values(scores), vg.Points(18))
	if err != nil {
		return errors.Wrap(err, "build bar chart")
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	mean := stat.Mean(scores, nil)
	line, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: mean},
		{X: float64(len(scores)) - 0.5, Y: mean},
	})
	if err != nil {
		return errors.Wrap(err, "build mean line")
	}
	line.Color = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("mean %.4f", mean), line)
	p.Legend.Top = true

	names := make([]string, len(scores))
	for i := range names {
		names[i] = fmt.Sprint(i)
	}
	p.NominalX(names...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %q", path)
	}
	return nil
}
