// Package visualization renders sweep results as PNG charts: a comparison
// chart of success and completion rates per error class, and a distribution
// chart of per-trial outcomes across the sweep grid.
package visualization

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nvandessel/faultbench/internal/results"
)

var classColors = map[string]color.RGBA{
	"pointer":     {R: 214, G: 39, B: 40, A: 255},
	"non-pointer": {R: 31, G: 119, B: 180, A: 255},
}

func classColor(class string) color.RGBA {
	if c, ok := classColors[class]; ok {
		return c
	}
	return color.RGBA{R: 127, G: 127, B: 127, A: 255}
}

// RenderComparison writes a line chart of success and completion rates as a
// function of injected error count, one pair of lines per error class.
// Success lines are solid, completion lines dashed.
func RenderComparison(agg []results.GroupRate, path string) error {
	if len(agg) == 0 {
		return fmt.Errorf("no aggregated rates to plot")
	}

	p := plot.New()
	p.Title.Text = "Fault Injection Impact on Ranking Correctness"
	p.X.Label.Text = "Errors Injected"
	p.Y.Label.Text = "Rate (%)"
	p.Y.Min = 0
	p.Y.Max = 105
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	byClass := map[string][]results.GroupRate{}
	for _, g := range agg {
		byClass[g.ErrorClass] = append(byClass[g.ErrorClass], g)
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	for _, class := range classes {
		groups := byClass[class]
		sort.Slice(groups, func(i, j int) bool {
			return groups[i].ErrorCount < groups[j].ErrorCount
		})

		success := make(plotter.XYs, len(groups))
		completion := make(plotter.XYs, len(groups))
		for i, g := range groups {
			success[i] = plotter.XY{X: float64(g.ErrorCount), Y: g.SuccessRate * 100}
			completion[i] = plotter.XY{X: float64(g.ErrorCount), Y: g.CompletionRate * 100}
		}

		col := classColor(class)

		sLine, sPoints, err := plotter.NewLinePoints(success)
		if err != nil {
			return fmt.Errorf("building success series for %s: %w", class, err)
		}
		sLine.Color = col
		sLine.Width = vg.Points(1.5)
		sPoints.Color = col
		sPoints.Shape = draw.CircleGlyph{}
		p.Add(sLine, sPoints)
		p.Legend.Add(class+" success", sLine, sPoints)

		cLine, cPoints, err := plotter.NewLinePoints(completion)
		if err != nil {
			return fmt.Errorf("building completion series for %s: %w", class, err)
		}
		cLine.Color = col
		cLine.Width = vg.Points(1)
		cLine.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		cPoints.Color = col
		cPoints.Shape = draw.TriangleGlyph{}
		p.Add(cLine, cPoints)
		p.Legend.Add(class+" completion", cLine, cPoints)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving comparison chart: %w", err)
	}
	return nil
}

// RenderDistribution writes a box plot of per-trial success values grouped by
// error count and class. With binary outcomes the boxes collapse toward 0 or
// 1, which shows at a glance where a group's trials stopped agreeing with the
// baseline.
func RenderDistribution(rs *results.ResultSet, path string) error {
	if rs == nil || len(rs.Records) == 0 {
		return fmt.Errorf("no trial records to plot")
	}

	type groupKey struct {
		class string
		count int
	}
	grouped := map[groupKey]plotter.Values{}
	for _, rec := range rs.Records {
		key := groupKey{class: rec.ErrorClass, count: rec.ErrorCount}
		v := 0.0
		if rec.Success {
			v = 1.0
		}
		grouped[key] = append(grouped[key], v)
	}

	keys := make([]groupKey, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].count != keys[j].count {
			return keys[i].count < keys[j].count
		}
		return keys[i].class < keys[j].class
	})

	p := plot.New()
	p.Title.Text = "Success Distribution by Error Count"
	p.X.Label.Text = "Errors Injected / Error Class"
	p.Y.Label.Text = "Success (0 or 1)"
	p.Y.Min = -0.1
	p.Y.Max = 1.1

	labels := make([]string, 0, len(keys))
	for i, key := range keys {
		box, err := plotter.NewBoxPlot(vg.Points(18), float64(i), grouped[key])
		if err != nil {
			return fmt.Errorf("building box for %d %s errors: %w", key.count, key.class, err)
		}
		box.FillColor = classColor(key.class)
		p.Add(box)
		labels = append(labels, fmt.Sprintf("%d %s", key.count, key.class))
	}
	p.NominalX(labels...)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving distribution chart: %w", err)
	}
	return nil
}
