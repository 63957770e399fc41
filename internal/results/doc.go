// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package results implements parsing of AutoClass C data mode reports and
// the analysis of the resulting classifications.
//
// The case report written by AutoClass when report_mode is "data" lists
// for each case its number and the classes it belongs to, most probable
// first:
//
//  # CROSS REFERENCE   CASE NUMBER => MOST PROBABLE CLASS
//  DATA_CASE_TO_CLASS
//  #  Case #  Class   Prob   Class   Prob
//        1       2   0.983      0   0.017
//        2       0   1.000
//
// Case numbers are one-based and follow the order of rows in the input
// data. Class numbers are zero-based.
package results
