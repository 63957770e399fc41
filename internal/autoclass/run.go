// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package autoclass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// Run runs the AutoClass search and report phases for the job in dir,
// which must hold the files written by Prepare. Output from the
// AutoClass program is written to out if it is not nil.
func (j *Job) Run(ctx context.Context, dir string, out io.Writer) error {
	bin, err := exec.LookPath(j.Binary)
	if err != nil {
		return fmt.Errorf("autoclass executable must be in the PATH: %w", err)
	}
	bin, err = filepath.Abs(bin)
	if err != nil {
		return err
	}
	if out == nil {
		out = io.Discard
	}
	for i, args := range j.commands() {
		phase := [...]string{"search", "reports"}[i]
		log.Printf("[running %s %s]", j.Binary, args[0])
		cmd := exec.CommandContext(ctx, bin, args...)
		cmd.Dir = dir
		cmd.Stdout = out
		cmd.Stderr = out
		err = cmd.Run()
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			return fmt.Errorf("autoclass %s failed: %w", phase, err)
		}
	}
	return nil
}

// State is the progress of an AutoClass run.
type State int

const (
	NotStarted State = iota
	Searching
	Reporting
	Done
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Searching:
		return "searching"
	case Reporting:
		return "reporting"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status returns the progress of the job's AutoClass run in dir, judged
// from the log and report files AutoClass writes.
func (j *Job) Status(dir string) (State, error) {
	for _, s := range []struct {
		ext   string
		state State
	}{
		{ext: ".case-data-1", state: Done},
		{ext: ".rlog", state: Reporting},
		{ext: ".log", state: Searching},
	} {
		_, err := os.Stat(j.Path(dir, s.ext))
		if err == nil {
			return s.state, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return NotStarted, err
		}
	}
	return NotStarted, nil
}
