// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package autoclass

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kortschak/autoclass/internal/dataset"
)

// Input is a data file to be classified.
type Input struct {
	Path string
	Kind dataset.Kind

	// Error is the measurement error
	// for real valued inputs.
	Error float64
}

// SearchParams holds the AutoClass search parameters written to the
// .s-params file.
type SearchParams struct {
	// MaxDuration is the maximum number of
	// seconds to search. Zero allows the
	// search to run until otherwise halted.
	MaxDuration int

	// MaxTries is the maximum number of trials.
	MaxTries int

	// MaxCycles is the maximum number of
	// cycles per trial.
	MaxCycles int

	// StartJList is the list of initial
	// class counts to try.
	StartJList []int
}

// ReportParams holds the AutoClass report parameters written to the
// .r-params file.
type ReportParams struct {
	XrefAttributes []int
	Mode           string
	CommentHeaders bool
}

// Job is an AutoClass classification job.
type Job struct {
	// Stem is the common base name of
	// all files written for the job.
	Stem string

	// Separator is the field separator
	// used in the .db2 file.
	Separator rune

	// MissingEncoding is the token written
	// for missing values in the .db2 file.
	MissingEncoding string

	// Binary is the AutoClass C executable.
	Binary string

	// TolerateError allows preparation to
	// continue after an error. All errors
	// are returned when preparation is done.
	TolerateError bool

	Inputs  []Input
	Search  SearchParams
	Reports ReportParams

	// Data is the merged input table. It is
	// populated by Load.
	Data *dataset.Table
}

// NewJob returns a Job with the default AutoClass parameters.
func NewJob() *Job {
	return &Job{
		Stem:            "clust",
		Separator:       '\t',
		MissingEncoding: "?",
		Binary:          "autoclass",
		Search: SearchParams{
			MaxDuration: 3600,
			MaxTries:    200,
			MaxCycles:   1000,
			StartJList:  []int{2, 3, 5, 7, 10, 15, 25, 35, 45, 55, 65, 75, 85, 95, 105},
		},
		Reports: ReportParams{
			XrefAttributes: []int{0, 1, 2},
			Mode:           "data",
			CommentHeaders: true,
		},
	}
}

// AddInput adds the data file at path to the job.
func (j *Job) AddInput(path string, kind dataset.Kind, measErr float64) error {
	if _, err := dataset.ParseKind(string(kind)); err != nil {
		return fmt.Errorf("data type in %s: %w", path, err)
	}
	j.Inputs = append(j.Inputs, Input{Path: path, Kind: kind, Error: measErr})
	return nil
}

// Load reads, validates and merges the job's inputs into j.Data.
func (j *Job) Load() error {
	if len(j.Inputs) == 0 {
		return errors.New("no input data")
	}
	var tables []*dataset.Table
	for _, in := range j.Inputs {
		if in.Kind.IsReal() {
			log.Printf("reading data file %q as %q with error %g", in.Path, in.Kind, in.Error)
		} else {
			log.Printf("reading data file %q as %q", in.Path, in.Kind)
		}
		t, err := dataset.Read(in.Path, in.Kind, in.Error)
		if err != nil {
			return err
		}
		t.CleanNames()
		err = t.CheckTypes()
		if err != nil {
			return fmt.Errorf("check your input file %s: %w", in.Path, err)
		}
		tables = append(tables, t)
	}
	t, err := dataset.Merge(tables...)
	if err != nil {
		return err
	}
	t.FindMissing()
	j.Data = t
	return nil
}

// Prepare loads the job's inputs and writes the data and parameter files
// into dir. Preparation stops at the first error unless j.TolerateError
// is set, in which case every error is logged and all are returned.
func (j *Job) Prepare(dir string) error {
	log.Println("[preparing data and parameter files]")
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}

	var errs []error
	for _, step := range []struct {
		name     string
		needData bool
		fn       func() error
	}{
		{name: "load input data", fn: j.Load},
		{name: "write .db2 file", needData: true, fn: func() error { return writeFile(j.Path(dir, ".db2"), j.WriteDB2) }},
		{name: "write .tsv file", needData: true, fn: func() error { return writeFile(j.Path(dir, ".tsv"), j.WriteTSV) }},
		{name: "write .hd2 file", needData: true, fn: func() error { return writeFile(j.Path(dir, ".hd2"), j.WriteHD2) }},
		{name: "write .model file", needData: true, fn: func() error { return writeFile(j.Path(dir, ".model"), j.WriteModel) }},
		{name: "write .s-params file", fn: func() error { return writeFile(j.Path(dir, ".s-params"), j.WriteSearchParams) }},
		{name: "write .r-params file", fn: func() error { return writeFile(j.Path(dir, ".r-params"), j.WriteReportParams) }},
		{name: "write run file", fn: func() error { return j.writeRunScript(dir) }},
	} {
		if step.needData && j.Data == nil {
			continue
		}
		err := step.fn()
		if err == nil {
			continue
		}
		err = fmt.Errorf("failed to %s: %w", step.name, err)
		if !j.TolerateError {
			return err
		}
		log.Println(err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Path returns the path in dir of the job file with the given extension.
func (j *Job) Path(dir, ext string) string {
	return filepath.Join(dir, j.Stem+ext)
}
