// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package results

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Membership is the probability of a case belonging to a class.
type Membership struct {
	Class int
	Prob  float64
}

// Case is the classification of a single case.
type Case struct {
	// Number is the one-based
	// case number.
	Number int

	// Memberships holds the class
	// memberships of the case in
	// decreasing probability.
	Memberships []Membership
}

// Class returns the most probable class of the case.
func (c Case) Class() int {
	return c.Memberships[0].Class
}

// Prob returns the probability of the most probable class of the case.
func (c Case) Prob() float64 {
	return c.Memberships[0].Prob
}

// Results is an AutoClass classification.
type Results struct {
	// Cases holds the classified cases
	// ordered by case number.
	Cases []Case

	// Classes is the number of classes.
	Classes int
}

// ReadCaseData returns the classification held in the AutoClass case
// data report at path.
func ReadCaseData(path string) (*Results, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := ParseCaseData(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return r, nil
}

// ParseCaseData returns the classification in the data mode case report
// read from r. The memberships of each case are sorted by decreasing
// probability, keeping the reported order for equal probabilities, and
// cases are sorted by case number.
func ParseCaseData(r io.Reader) (*Results, error) {
	var res Results
	seen := make(map[int]bool)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "DATA") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 || len(fields)%2 == 0 {
			return nil, fmt.Errorf("line %d: unexpected number of fields: %d", line, len(fields))
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid case number: %w", line, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("line %d: invalid case number: %d", line, n)
		}
		if seen[n] {
			return nil, fmt.Errorf("line %d: duplicate case number: %d", line, n)
		}
		seen[n] = true
		c := Case{Number: n}
		for i := 1; i < len(fields); i += 2 {
			class, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid class: %w", line, err)
			}
			if class < 0 {
				return nil, fmt.Errorf("line %d: invalid class: %d", line, class)
			}
			p, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid probability: %w", line, err)
			}
			if p < 0 || p > 1 {
				return nil, fmt.Errorf("line %d: probability out of range: %v", line, p)
			}
			c.Memberships = append(c.Memberships, Membership{Class: class, Prob: p})
			if class >= res.Classes {
				res.Classes = class + 1
			}
		}
		sort.SliceStable(c.Memberships, func(i, j int) bool {
			return c.Memberships[i].Prob > c.Memberships[j].Prob
		})
		res.Cases = append(res.Cases, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(res.Cases) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	sort.Slice(res.Cases, func(i, j int) bool {
		return res.Cases[i].Number < res.Cases[j].Number
	})
	return &res, nil
}

// Sizes returns the number of cases whose most probable class is each
// class.
func (r *Results) Sizes() []int {
	sizes := make([]int, r.Classes)
	for _, c := range r.Cases {
		sizes[c.Class()]++
	}
	return sizes
}

// Probabilities returns a matrix of class membership probabilities with a
// row for each case and a column for each class. Classes not reported for
// a case have zero probability.
func (r *Results) Probabilities() *mat.Dense {
	m := mat.NewDense(len(r.Cases), r.Classes, nil)
	for i, c := range r.Cases {
		for _, mem := range c.Memberships {
			m.Set(i, mem.Class, mem.Prob)
		}
	}
	return m
}
