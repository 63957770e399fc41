// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package autoclass prepares input and parameter files for the AutoClass C
// Bayesian classification program and runs it as a subprocess.
//
// A classification job is described by a Job, either constructed directly
// or loaded from an HCL job file:
//
//  stem             = "clust"
//  missing_encoding = "?"
//
//  input "proteins.tsv" {
//  	type  = "real scalar"
//  	error = 0.01
//  }
//
//  input "localisation.tsv" {
//  	type = "discrete"
//  }
//
//  search {
//  	max_duration = 3600
//  	max_n_tries  = 200
//  	start_j_list = [2, 3, 5, 7, 10]
//  }
//
// The AutoClass C program is not part of this package; it must be
// installed separately and found in the PATH or named by the job.
package autoclass
