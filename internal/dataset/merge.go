// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"errors"
	"log"
)

// Merge returns the outer join of the provided tables on their row names.
// Rows are ordered by first appearance and cells that a table does not
// provide are missing. The index name is taken from the first table.
// Merge returns a *DuplicateColumnError if any column name is used by
// more than one table and a *DuplicateRowError if any table repeats a
// row name.
func Merge(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errors.New("no tables to merge")
	}
	for _, t := range tables {
		if err := checkRows(t); err != nil {
			return nil, err
		}
	}
	if len(tables) == 1 {
		t := tables[0]
		if err := checkDuplicates(columnNames(t)); err != nil {
			return nil, err
		}
		return t, nil
	}

	log.Println("[merging input data]")
	dst := &Table{Index: tables[0].Index}
	rowIdx := make(map[string]int)
	for _, t := range tables {
		for _, r := range t.Rows {
			if _, ok := rowIdx[r]; ok {
				continue
			}
			rowIdx[r] = len(dst.Rows)
			dst.Rows = append(dst.Rows, r)
		}
	}
	var names []string
	for _, t := range tables {
		for _, c := range t.Columns {
			m := &Column{
				Name:   c.Name,
				Kind:   c.Kind,
				Error:  c.Error,
				Values: make([]string, len(dst.Rows)),
			}
			for i, r := range t.Rows {
				m.Values[rowIdx[r]] = c.Values[i]
			}
			dst.Columns = append(dst.Columns, m)
			names = append(names, c.Name)
		}
	}
	err := checkDuplicates(names)
	if err != nil {
		return nil, err
	}
	log.Printf("final table has %d rows and %d columns", len(dst.Rows), len(dst.Columns)+1)
	return dst, nil
}

func columnNames(t *Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func checkRows(t *Table) error {
	seen := make(map[string]bool, len(t.Rows))
	for _, r := range t.Rows {
		if seen[r] {
			return &DuplicateRowError{Row: r}
		}
		seen[r] = true
	}
	return nil
}
