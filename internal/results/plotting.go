// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package results

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func classLabels(n int) []string {
	labels := make([]string, n)
	for k := range labels {
		labels[k] = fmt.Sprint(k)
	}
	return labels
}

// PlotSizes plots the number of cases assigned to each class to path.
func (r *Results) PlotSizes(path string) error {
	p := plot.New()
	p.Title.Text = "Class sizes"
	p.X.Label.Text = "Class"
	p.Y.Label.Text = "Cases"

	sizes := r.Sizes()
	values := make(plotter.Values, len(sizes))
	for k, n := range sizes {
		values[k] = float64(n)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{B: 200, A: 255}
	p.Add(bars)
	p.NominalX(classLabels(len(sizes))...)
	return p.Save(18*vg.Centimeter, 12*vg.Centimeter, path)
}

// PlotProbabilities plots the distribution of most probable class
// membership probabilities for each class to path.
func (r *Results) PlotProbabilities(path string) error {
	p := plot.New()
	p.Title.Text = "Class membership probabilities"
	p.X.Label.Text = "Class"
	p.Y.Label.Text = "Probability"
	p.Y.Min = 0
	p.Y.Max = 1

	probs := make([]plotter.Values, r.Classes)
	for _, c := range r.Cases {
		probs[c.Class()] = append(probs[c.Class()], c.Prob())
	}
	for k, v := range probs {
		if len(v) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(12), float64(k), v)
		if err != nil {
			return err
		}
		p.Add(box)
	}
	p.NominalX(classLabels(r.Classes)...)
	return p.Save(18*vg.Centimeter, 12*vg.Centimeter, path)
}

// PlotDendrogram plots the dendrogram rooted at n to path.
func PlotDendrogram(path string, n *Node) error {
	p := plot.New()
	p.Title.Text = "Class dendrogram"
	p.Y.Label.Text = "Distance"

	leaves := n.Leaves()
	x := make(map[*Node]float64)
	var place func(*Node)
	pos := 0
	place = func(n *Node) {
		if n.IsLeaf() {
			x[n] = float64(pos)
			pos++
			return
		}
		place(n.Left)
		place(n.Right)
		x[n] = (x[n.Left] + x[n.Right]) / 2
	}
	place(n)

	var err error
	var walk func(*Node)
	walk = func(n *Node) {
		if n.IsLeaf() || err != nil {
			return
		}
		var l *plotter.Line
		l, err = plotter.NewLine(plotter.XYs{
			{X: x[n.Left], Y: n.Left.Height},
			{X: x[n.Left], Y: n.Height},
			{X: x[n.Right], Y: n.Height},
			{X: x[n.Right], Y: n.Right.Height},
		})
		if err != nil {
			return
		}
		p.Add(l)
		walk(n.Left)
		walk(n.Right)
	}
	walk(n)
	if err != nil {
		return err
	}

	labels := make([]string, len(leaves))
	for i, k := range leaves {
		labels[i] = fmt.Sprintf("class-%d", k)
	}
	p.NominalX(labels...)
	return p.Save(18*vg.Centimeter, 12*vg.Centimeter, path)
}
