// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"fmt"
	"strings"
)

// CastError is returned when a value in a real valued column cannot be
// parsed as a finite float.
type CastError struct {
	Column string
	Value  string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast column %q to float: invalid value %q", e.Column, e.Value)
}

// DuplicateColumnError is returned when column names are not unique.
type DuplicateColumnError struct {
	Names []string
}

func (e *DuplicateColumnError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf("found duplicate column names: %s", strings.Join(quoted, " "))
}

// DuplicateRowError is returned when a row name is used more than once
// in a table.
type DuplicateRowError struct {
	Row string
}

func (e *DuplicateRowError) Error() string {
	return fmt.Sprintf("found duplicate row name: %q", e.Row)
}
