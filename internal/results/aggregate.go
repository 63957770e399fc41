// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package results

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/kortschak/autoclass/internal/dataset"
)

// Classification is an AutoClass classification joined with the data
// that was classified.
type Classification struct {
	Data    *dataset.Table
	Results *Results
}

// Aggregate joins the classification in r to the data in t. Case n
// corresponds to row n-1 of t.
func Aggregate(t *dataset.Table, r *Results) (*Classification, error) {
	if len(r.Cases) != len(t.Rows) {
		return nil, fmt.Errorf("number of cases does not match number of rows: %d != %d", len(r.Cases), len(t.Rows))
	}
	for i, c := range r.Cases {
		if c.Number != i+1 {
			return nil, fmt.Errorf("missing case %d", i+1)
		}
	}
	log.Printf("found %d cases classified into %d classes", len(r.Cases), r.Classes)
	return &Classification{Data: t, Results: r}, nil
}

// ReadData returns the table written alongside the AutoClass input files
// for aggregation with results. Column kinds are inferred from the data.
func ReadData(path string) (*dataset.Table, error) {
	t, err := dataset.Read(path, dataset.Discrete, 0)
	if err != nil {
		return nil, err
	}
	t.InferKinds()
	return t, nil
}

// realColumns returns the real valued columns of the classified data.
func (c *Classification) realColumns() []*dataset.Column {
	var cols []*dataset.Column
	for _, col := range c.Data.Columns {
		if col.Kind.IsReal() {
			cols = append(cols, col)
		}
	}
	return cols
}

// ClassStats holds the mean and standard deviation of each real valued
// column of the data for the cases in a class.
type ClassStats struct {
	Class int
	Size  int

	Columns      []string
	Mean, StdDev []float64
}

// Stats returns the per class summaries of the real valued columns of
// the classified data. Cases are assigned to their most probable class
// and missing values are ignored.
func (c *Classification) Stats() ([]ClassStats, error) {
	cols := c.realColumns()
	names := make([]string, len(cols))
	values := make([][]float64, len(cols))
	present := make([][]bool, len(cols))
	for i, col := range cols {
		names[i] = col.Name
		var err error
		values[i], present[i], err = col.Floats()
		if err != nil {
			return nil, err
		}
	}

	sizes := c.Results.Sizes()
	stats := make([]ClassStats, c.Results.Classes)
	for k := range stats {
		stats[k] = ClassStats{
			Class:   k,
			Size:    sizes[k],
			Columns: names,
			Mean:    make([]float64, len(cols)),
			StdDev:  make([]float64, len(cols)),
		}
	}
	x := make([]float64, 0, len(c.Results.Cases))
	for k := range stats {
		for j := range cols {
			x = x[:0]
			for i, cs := range c.Results.Cases {
				if cs.Class() == k && present[j][i] {
					x = append(x, values[j][i])
				}
			}
			switch len(x) {
			case 0:
				stats[k].Mean[j] = math.NaN()
				stats[k].StdDev[j] = math.NaN()
			case 1:
				stats[k].Mean[j] = x[0]
				stats[k].StdDev[j] = math.NaN()
			default:
				stats[k].Mean[j], stats[k].StdDev[j] = stat.MeanStdDev(x, nil)
			}
		}
	}
	return stats, nil
}

// Means returns a matrix of class means with a row for each class and a
// column for each real valued column of the data, and the names of the
// columns. It returns a nil matrix if there are no real valued columns.
func (c *Classification) Means() (*mat.Dense, []string, error) {
	stats, err := c.Stats()
	if err != nil {
		return nil, nil, err
	}
	if len(stats) == 0 || len(stats[0].Columns) == 0 {
		return nil, nil, nil
	}
	m := mat.NewDense(len(stats), len(stats[0].Columns), nil)
	for k, s := range stats {
		m.SetRow(k, s.Mean)
	}
	return m, stats[0].Columns, nil
}
