// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"log"
	"math"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// invalidName matches runs of characters AutoClass does not accept in
// attribute names.
var invalidName = regexp.MustCompile(`[^A-Za-z0-9 .+-]+`)

// CleanName returns name with every run of characters that are not
// letters, digits, space, '.', '+' or '-' replaced by an underscore.
func CleanName(name string) string {
	return invalidName.ReplaceAllString(name, "_")
}

// CleanNames replaces invalid characters in the index and column names
// of t, logging each renamed column.
func (t *Table) CleanNames() {
	if n := CleanName(t.Index); n != t.Index {
		log.Printf("column %q renamed to %q", t.Index, n)
		t.Index = n
	}
	for _, c := range t.Columns {
		if n := CleanName(c.Name); n != c.Name {
			log.Printf("column %q renamed to %q", c.Name, n)
			c.Name = n
		}
	}
}

// Summary is a description of a real valued column.
type Summary struct {
	Count        int
	Mean, StdDev float64
	Min, Max     float64
}

// Describe returns a summary of the present values of a real valued column.
func (c *Column) Describe() (Summary, error) {
	v, ok, err := c.Floats()
	if err != nil {
		return Summary{}, err
	}
	x := present(v, ok)
	s := Summary{Count: len(x), Mean: math.NaN(), StdDev: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	if len(x) == 0 {
		return s, nil
	}
	s.Mean = stat.Mean(x, nil)
	if len(x) > 1 {
		s.StdDev = stat.StdDev(x, nil)
	}
	s.Min = floats.Min(x)
	s.Max = floats.Max(x)
	return s, nil
}

func present(v []float64, ok []bool) []float64 {
	x := make([]float64, 0, len(v))
	for i, f := range v {
		if ok[i] {
			x = append(x, f)
		}
	}
	return x
}

// CheckTypes checks that every real valued column of t holds valid floats
// and logs a description of each column. The first invalid column is
// returned as a *CastError.
func (t *Table) CheckTypes() error {
	log.Println("[checking data format]")
	for _, c := range t.Columns {
		if _, err := ParseKind(string(c.Kind)); err != nil {
			return err
		}
		if !c.Kind.IsReal() {
			log.Printf("column %q: %d different values", c.Name, c.Distinct())
			continue
		}
		s, err := c.Describe()
		if err != nil {
			return err
		}
		log.Printf("column %q: count=%d mean=%g std=%g min=%g max=%g",
			c.Name, s.Count, s.Mean, s.StdDev, s.Min, s.Max)
	}
	return nil
}

// FindMissing marks the columns of t that hold missing values and logs
// their names. It returns the names of the marked columns.
func (t *Table) FindMissing() []string {
	log.Println("[searching for missing values]")
	var names []string
	for _, c := range t.Columns {
		c.Missing = false
		for _, v := range c.Values {
			if v == "" {
				c.Missing = true
				names = append(names, c.Name)
				break
			}
		}
	}
	if len(names) == 0 {
		log.Println("no missing values found")
	} else {
		log.Printf("missing values found in columns: %s", strings.Join(names, " "))
	}
	return names
}

// InferKinds sets the kind of each column of t to RealLocation when all
// of its present values are valid floats and to Discrete otherwise.
func (t *Table) InferKinds() {
	for _, c := range t.Columns {
		c.Kind = RealLocation
		if _, _, err := c.Floats(); err != nil {
			c.Kind = Discrete
		}
	}
}
