// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// acwrap prepares the input and parameter files for an AutoClass C
// classification from one or more tab-delimited data files and optionally
// runs the AutoClass search and report phases.
//
// Each input file is a tab-delimited table with the first column holding
// case identifiers and the first row holding column names. Lines starting
// with # are ignored. All columns of an input file share a data type,
// one of real scalar, real location or discrete. Real typed inputs need a
// measurement error.
//
// Inputs may be given on the command line or in an HCL job file of the
// following form.
//
//  stem             = "clust"
//  missing_encoding = "?"
//
//  input "expression.tsv" {
//  	type  = "real location"
//  	error = 0.01
//  }
//
//  input "localisation.tsv" {
//  	type = "discrete"
//  }
//
//  search {
//  	max_duration = 3600
//  	start_j_list = [2, 3, 5, 7, 10]
//  }
//
// Flags given on the command line override the values in the job file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kortschak/autoclass/internal/autoclass"
	"github.com/kortschak/autoclass/internal/dataset"
)

func main() {
	var inputs inputList
	flag.Var(&inputs, "in", "specify an input as path:type[:error] (repeatable)")
	var (
		config   = flag.String("config", "", "specify an HCL job file")
		dir      = flag.String("dir", ".", "specify the output directory")
		stem     = flag.String("stem", "clust", "specify the output file stem")
		binary   = flag.String("binary", "autoclass", "specify the AutoClass executable")
		missing  = flag.String("missing", "?", "specify the missing value encoding")
		sep      = flag.String("sep", "\t", "specify the .db2 column separator")
		tolerate = flag.Bool("tolerate", false, "continue preparation after errors")
		run      = flag.Bool("run", false, "run AutoClass after preparation")
		timeout  = flag.Duration("timeout", 0, "limit the AutoClass run time (0 is no limit)")
		show     = flag.Bool("print", false, "print the parameter files")
		help     = flag.Bool("help", false, "print help text")
	)
	flag.Parse()

	if *help {
		flag.Usage()
		fmt.Fprintf(os.Stderr, `
%s prepares the input and parameter files for an AutoClass C
classification from one or more tab-delimited data files and optionally
runs the AutoClass search and report phases.

Each input file is a tab-delimited table with the first column holding
case identifiers and the first row holding column names. Lines starting
with # are ignored. All columns of an input file share a data type, one
of "real scalar", "real location" or "discrete". Real typed inputs need
a measurement error. Inputs are given on the command line as

  -in expression.tsv:"real location":0.01 -in localisation.tsv:discrete

or in an HCL job file of the following form.

  stem             = "clust"
  missing_encoding = "?"

  input "expression.tsv" {
  	type  = "real location"
  	error = 0.01
  }

  input "localisation.tsv" {
  	type = "discrete"
  }

  search {
  	max_duration = 3600
  	start_j_list = [2, 3, 5, 7, 10]
  }

Flags given on the command line override the values in the job file.

The merged data is written to <stem>.db2 and <stem>.tsv with the
AutoClass header, model and parameter files and a run_autoclass.sh
script in the output directory. Results can then be analysed with
acreport.

Copyright ©2021 Dan Kortschak. All rights reserved.

`, filepath.Base(os.Args[0]))
		os.Exit(0)
	}

	if *config == "" && len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log.Println(os.Args)
	job := autoclass.NewJob()
	if *config != "" {
		var err error
		job, err = autoclass.LoadJob(*config)
		if err != nil {
			log.Fatalf("failed to load job: %v", err)
		}
	}
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "stem":
			job.Stem = *stem
		case "binary":
			job.Binary = *binary
		case "missing":
			job.MissingEncoding = *missing
		case "tolerate":
			job.TolerateError = *tolerate
		case "sep":
			r, n := utf8.DecodeRuneInString(*sep)
			if n == 0 || n != len(*sep) {
				err = fmt.Errorf("separator must be a single character: %q", *sep)
				return
			}
			job.Separator = r
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	for _, in := range inputs {
		err = job.AddInput(in.Path, in.Kind, in.Error)
		if err != nil {
			log.Fatalf("failed to add input: %v", err)
		}
	}

	err = job.Prepare(*dir)
	if err != nil {
		log.Fatalf("failed to prepare AutoClass files: %v", err)
	}
	if *show {
		desc, err := job.Describe(*dir)
		if err != nil {
			log.Fatalf("failed to describe AutoClass files: %v", err)
		}
		fmt.Println(desc)
	}
	if !*run {
		return
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	start := time.Now()
	err = job.Run(ctx, *dir, os.Stderr)
	state, serr := job.Status(*dir)
	if serr != nil {
		log.Printf("failed to get AutoClass status: %v", serr)
	}
	log.Printf("AutoClass %s after %v", state, time.Since(start).Round(time.Second))
	if err != nil {
		log.Fatalf("failed to run AutoClass: %v", err)
	}
}

// inputList is a repeatable flag holding job inputs.
type inputList []autoclass.Input

func (l *inputList) String() string {
	s := make([]string, len(*l))
	for i, in := range *l {
		s[i] = in.Path + ":" + string(in.Kind)
		if in.Kind.IsReal() {
			s[i] += ":" + strconv.FormatFloat(in.Error, 'g', -1, 64)
		}
	}
	return strings.Join(s, ",")
}

func (l *inputList) Set(v string) error {
	in, err := parseInput(v)
	if err != nil {
		return err
	}
	*l = append(*l, in)
	return nil
}

// parseInput parses an input specification of the form path:type[:error].
func parseInput(v string) (autoclass.Input, error) {
	var in autoclass.Input
	hasErr := false
	i := strings.LastIndex(v, ":")
	if i < 0 {
		return in, fmt.Errorf("missing data type: %q", v)
	}
	if e, err := strconv.ParseFloat(v[i+1:], 64); err == nil {
		in.Error = e
		hasErr = true
		v = v[:i]
		i = strings.LastIndex(v, ":")
		if i < 0 {
			return in, fmt.Errorf("missing data type: %q", v)
		}
	}
	kind, err := dataset.ParseKind(v[i+1:])
	if err != nil {
		return in, err
	}
	in.Path = v[:i]
	in.Kind = kind
	if in.Path == "" {
		return in, fmt.Errorf("missing path: %q", v)
	}
	if kind.IsReal() && !hasErr {
		return in, fmt.Errorf("missing measurement error for %s data: %q", kind, v)
	}
	return in, nil
}
