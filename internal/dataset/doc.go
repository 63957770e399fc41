// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset implements reading and validating tab-delimited feature
// tables for classification by AutoClass C. A table has a header row and
// row names in its first column; every other column is annotated with
// one of the AutoClass attribute kinds.
package dataset
