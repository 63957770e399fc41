// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package results

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
)

// WriteFile writes the file at path using fn.
func WriteFile(path string, fn func(io.Writer) error) (err error) {
	log.Printf("writing %s", path)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	err = fn(w)
	if err != nil {
		return err
	}
	return w.Flush()
}

// WriteTable writes the classified data to w as a tab-delimited table.
// The input columns are followed by the most probable class and its
// probability, and the probability of membership of each class.
func (c *Classification) WriteTable(w io.Writer) error {
	header := []string{c.Data.Index}
	for _, col := range c.Data.Columns {
		header = append(header, col.Name)
	}
	header = append(header, "main-class", "main-class-proba")
	for k := 0; k < c.Results.Classes; k++ {
		header = append(header, fmt.Sprintf("class-%d-proba", k))
	}
	_, err := fmt.Fprintln(w, strings.Join(header, "\t"))
	if err != nil {
		return err
	}

	probs := c.Results.Probabilities()
	for i, name := range c.Data.Rows {
		row := []string{name}
		for _, col := range c.Data.Columns {
			row = append(row, col.Values[i])
		}
		cs := c.Results.Cases[i]
		row = append(row, strconv.Itoa(cs.Class()), formatFloat(cs.Prob()))
		for k := 0; k < c.Results.Classes; k++ {
			row = append(row, formatFloat(probs.At(i, k)))
		}
		_, err = fmt.Fprintln(w, strings.Join(row, "\t"))
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteStats writes the per class mean and standard deviation of the
// real valued columns of the classified data to w.
func (c *Classification) WriteStats(w io.Writer) error {
	stats, err := c.Stats()
	if err != nil {
		return err
	}
	header := []string{"class", "size"}
	for _, col := range c.realColumns() {
		header = append(header, col.Name+"_mean", col.Name+"_std")
	}
	_, err = fmt.Fprintln(w, strings.Join(header, "\t"))
	if err != nil {
		return err
	}
	for _, s := range stats {
		row := []string{strconv.Itoa(s.Class), strconv.Itoa(s.Size)}
		for j := range s.Columns {
			row = append(row, formatFloat(s.Mean[j]), formatFloat(s.StdDev[j]))
		}
		_, err = fmt.Fprintln(w, strings.Join(row, "\t"))
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteCDT writes the real valued columns of the classified data to w
// in the clustered data table format read by Java TreeView. Rows are
// ordered by most probable class and then by decreasing probability.
// If withProbs is true the class membership probabilities are written
// as additional columns.
func (c *Classification) WriteCDT(w io.Writer, withProbs bool) error {
	cols := c.realColumns()
	header := []string{"GID", "UNIQID", "NAME", "GWEIGHT"}
	for _, col := range cols {
		header = append(header, col.Name)
	}
	if withProbs {
		for k := 0; k < c.Results.Classes; k++ {
			header = append(header, fmt.Sprintf("class-%d", k))
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(header, "\t"))
	if err != nil {
		return err
	}
	eweight := []string{"EWEIGHT", "", "", ""}
	for range header[4:] {
		eweight = append(eweight, "1")
	}
	_, err = fmt.Fprintln(w, strings.Join(eweight, "\t"))
	if err != nil {
		return err
	}

	probs := c.Results.Probabilities()
	for _, i := range c.classOrder() {
		name := c.Data.Rows[i]
		cs := c.Results.Cases[i]
		row := []string{
			fmt.Sprintf("GENE%dX", i),
			name,
			fmt.Sprintf("%s [class-%d]", name, cs.Class()),
			"1",
		}
		for _, col := range cols {
			row = append(row, col.Values[i])
		}
		if withProbs {
			for k := 0; k < c.Results.Classes; k++ {
				row = append(row, formatFloat(probs.At(i, k)))
			}
		}
		_, err = fmt.Fprintln(w, strings.Join(row, "\t"))
		if err != nil {
			return err
		}
	}
	return nil
}

// classOrder returns the row indices of the classified data ordered by
// most probable class and then by decreasing probability.
func (c *Classification) classOrder() []int {
	idx := make([]int, len(c.Results.Cases))
	for i := range idx {
		idx[i] = i
	}
	cases := c.Results.Cases
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := cases[idx[i]], cases[idx[j]]
		if a.Class() != b.Class() {
			return a.Class() < b.Class()
		}
		return a.Prob() > b.Prob()
	})
	return idx
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
