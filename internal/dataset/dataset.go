// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
)

// Kind is an AutoClass attribute kind.
type Kind string

const (
	RealScalar   Kind = "real scalar"
	RealLocation Kind = "real location"
	Discrete     Kind = "discrete"
)

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case RealScalar, RealLocation, Discrete:
		return k, nil
	default:
		return "", fmt.Errorf("invalid data type %q: should be %q, %q or %q", s, RealScalar, RealLocation, Discrete)
	}
}

// IsReal returns whether k is one of the real valued kinds.
func (k Kind) IsReal() bool {
	return k == RealScalar || k == RealLocation
}

// Column is a single typed feature column.
type Column struct {
	Name string
	Kind Kind

	// Error is the measurement error for
	// real valued columns. It is ignored
	// for discrete columns.
	Error float64

	// Missing is set by FindMissing when
	// any value in the column is missing.
	Missing bool

	// Values holds the cell text for each
	// row of the table. Missing values are
	// held as the empty string.
	Values []string
}

// Floats returns the values of a real valued column and a mask indicating
// which values are present. It returns an error if any present value is
// not a finite decimal float.
func (c *Column) Floats() ([]float64, []bool, error) {
	v := make([]float64, len(c.Values))
	ok := make([]bool, len(c.Values))
	for i, s := range c.Values {
		if s == "" {
			continue
		}
		f, err := ParseFloat(s)
		if err != nil {
			return nil, nil, &CastError{Column: c.Name, Value: s}
		}
		v[i] = f
		ok[i] = true
	}
	return v, ok, nil
}

// ParseFloat parses s as a finite decimal float. Infinities, NaN and
// hexadecimal floats are rejected.
func ParseFloat(s string) (float64, error) {
	if strings.ContainsAny(s, "xXpP") {
		return 0, strconv.ErrSyntax
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

// Distinct returns the number of distinct non-missing values in the column.
func (c *Column) Distinct() int {
	seen := make(map[string]bool)
	for _, v := range c.Values {
		if v != "" {
			seen[v] = true
		}
	}
	return len(seen)
}

// Table is a feature table with named rows.
type Table struct {
	// Path is the source of the table
	// if it was read from a file.
	Path string

	// Index is the name of the row
	// name column.
	Index string

	Rows    []string
	Columns []*Column
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Read returns the table held in the tab-delimited file at path. All
// columns are given the provided kind and error.
func Read(path string, kind Kind, measErr float64) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, enc, err := decodedReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", path, err)
	}
	log.Printf("detected encoding: %s", enc)

	t, err := Decode(r, kind, measErr)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	t.Path = path
	log.Printf("found %d rows and %d columns", len(t.Rows), len(t.Columns)+1)
	return t, nil
}

// Decode returns the table read from the UTF-8 tab-delimited stream in r.
// Row names must be unique.
func Decode(r io.Reader, kind Kind, measErr float64) (*Table, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	c := csv.NewReader(r)
	c.Comma = '\t'
	c.Comment = '#'
	c.LazyQuotes = true

	labels, err := c.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if len(labels) < 2 {
		return nil, fmt.Errorf("too few columns in header: %d", len(labels))
	}
	labels[0] = strings.TrimPrefix(labels[0], "\ufeff")
	err = checkDuplicates(labels)
	if err != nil {
		return nil, err
	}

	t := &Table{Index: labels[0]}
	for _, name := range labels[1:] {
		t.Columns = append(t.Columns, &Column{Name: name, Kind: kind, Error: measErr})
	}

	for {
		rec, err := c.Read()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			break
		}
		t.Rows = append(t.Rows, rec[0])
		for i, v := range rec[1:] {
			if isMissing(v) {
				v = ""
			}
			t.Columns[i].Values = append(t.Columns[i].Values, strings.TrimSpace(v))
		}
	}
	err = checkRows(t)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// missingTokens is the set of cell values that are treated as missing.
var missingTokens = map[string]bool{
	"":     true,
	"?":    true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"-nan": true,
	"NULL": true,
	"null": true,
	"#N/A": true,
	"<NA>": true,
	"#NA":  true,
}

func isMissing(s string) bool {
	return missingTokens[strings.TrimSpace(s)]
}

func checkDuplicates(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return &DuplicateColumnError{Names: names}
		}
		seen[n] = true
	}
	return nil
}
