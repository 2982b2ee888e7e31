// Package diagnostics renders a solver's convergence history, adapting
// mna/debug/charts.go's two chart backends -- gonum.org/v1/plot for a
// static PNG and github.com/go-echarts/go-echarts/v2 for an
// interactive HTML page -- from circuit node graphs to Krylov residual
// curves. This is ambient tooling, not part of the solve path itself:
// it only ever reads a krylov.IterationRecord slice after a solve
// finishes.
package diagnostics

import (
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"krysolve/krylov"
)

// ResidualPlot renders iteration vs. log10(relative residual) as a PNG
// via gonum.org/v1/plot, the way the teacher's Charts.Render builds a
// gonum/plot-style line chart for node voltages.
func ResidualPlot(history []krylov.IterationRecord, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "log10(relative residual)"

	pts := make(plotter.XYs, 0, len(history))
	for _, rec := range history {
		rel := rec.Residual
		if rel <= 0 {
			rel = 1e-300
		}
		pts = append(pts, plotter.XY{X: float64(rec.Iter), Y: math.Log10(rel)})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Add(plotter.NewGrid())

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// ResidualChart renders the same data as an interactive HTML line
// chart via go-echarts, adapting the teacher's mna/debug/charts.go
// graph-construction style (global options, legend, line style) from a
// circuit node network to a convergence curve.
func ResidualChart(history []krylov.IterationRecord, title string, w io.Writer) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "relative residual per iteration",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "iteration"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "relative residual", Type: "log"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	iters := make([]string, len(history))
	data := make([]opts.LineData, len(history))
	for i, rec := range history {
		iters[i] = strconv.Itoa(rec.Iter)
		data[i] = opts.LineData{Value: rec.Residual}
	}
	line.SetXAxis(iters).
		AddSeries("relative residual", data).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))

	return line.Render(w)
}
