// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package autoclass

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/diff"
	"github.com/pkg/diff/write"

	"github.com/kortschak/autoclass/internal/dataset"
)

var goldenFiles = []struct {
	name string
	want string
}{
	{
		name: "yeast.db2",
		want: "YAL001C\t0.5\t1.25\tnucleus\t120\n" +
			"YAL002W\t-0.3\tNA\tNA\t80\n" +
			"YAL003W\t2\t0.75\tcytoplasm\t95.5\n" +
			"YAL004W\tNA\tNA\tnucleus\t200\n",
	},
	{
		name: "yeast.tsv",
		want: "gene\tt0\tt_1_\tcompartment\tlength\n" +
			"YAL001C\t0.5\t1.25\tnucleus\t120\n" +
			"YAL002W\t-0.3\t\t\t80\n" +
			"YAL003W\t2\t0.75\tcytoplasm\t95.50\n" +
			"YAL004W\t\t\tnucleus\t200\n",
	},
	{
		name: "yeast.hd2",
		want: `num_db2_format_defs 2

number_of_attributes 5
separator_char '	'

0 dummy nil "gene"
1 real location "t0" error 0.1
2 real location "t_1_" error 0.1
3 discrete nominal "compartment" range 2
4 real scalar "length" zero_point 0.0 rel_error 0.01
`,
	},
	{
		name: "yeast.model",
		want: `model_index 0 4
ignore 0
single_normal_cn 4
single_normal_cm 1 2
single_multinomial 3
`,
	},
	{
		name: "yeast.s-params",
		want: `screen_output_p = false
break_on_warnings_p = false
force_new_search_p = true
max_duration = 0
max_n_tries = 200
max_cycles = 1000
start_j_list = 2, 4, 8
`,
	},
	{
		name: "yeast.r-params",
		want: `xref_class_report_att_list = 0, 1, 2
report_mode = "text"
comment_data_headers_p = true
`,
	},
	{
		name: RunScript,
		want: `autoclass -search yeast.db2 yeast.hd2 yeast.model yeast.s-params
autoclass -reports yeast.results-bin yeast.search yeast.r-params
`,
	},
}

func TestPrepare(t *testing.T) {
	j, err := LoadJob(filepath.Join("testdata", "job.hcl"))
	if err != nil {
		t.Fatalf("failed to load job: %v", err)
	}
	dir := t.TempDir()
	err = j.Prepare(dir)
	if err != nil {
		t.Fatalf("failed to prepare job: %v", err)
	}

	for _, f := range goldenFiles {
		got, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			t.Errorf("failed to read %s: %v", f.name, err)
			continue
		}
		if string(got) != f.want {
			var buf bytes.Buffer
			err := diff.Text("got", "want", string(got), f.want, &buf, write.TerminalColor())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			t.Errorf("unexpected %s:\n%s", f.name, &buf)
		}
	}

	desc, err := j.Describe(dir)
	if err != nil {
		t.Fatalf("unexpected error describing job: %v", err)
	}
	for _, name := range []string{"yeast.hd2", "yeast.model", "yeast.s-params", "yeast.r-params", RunScript} {
		if !strings.Contains(desc, "\n"+name+"\n") {
			t.Errorf("description missing %s", name)
		}
	}
}

func TestPrepareStopsOnError(t *testing.T) {
	j := NewJob()
	err := j.AddInput(filepath.Join("testdata", "negative.tsv"), dataset.RealScalar, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	err = j.Prepare(dir)
	if err == nil {
		t.Fatal("expected error for negative real scalar")
	}
	if !strings.Contains(err.Error(), "should be >= 0.0") {
		t.Errorf("unexpected error: %v", err)
	}
	_, err = os.Stat(filepath.Join(dir, "clust.model"))
	if !os.IsNotExist(err) {
		t.Errorf("expected no model file after failure: %v", err)
	}

	j.TolerateError = true
	err = j.Prepare(dir)
	if err == nil {
		t.Fatal("expected error for negative real scalar")
	}
	for _, name := range []string{"clust.model", "clust.s-params", "clust.r-params", RunScript} {
		_, err = os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("expected %s to be written when tolerating errors: %v", name, err)
		}
	}
}

func TestPrepareSeparator(t *testing.T) {
	j := NewJob()
	j.Stem = "comma"
	j.Separator = ','
	err := j.AddInput(filepath.Join("testdata", "expr.tsv"), dataset.RealLocation, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	err = j.Prepare(dir)
	if err != nil {
		t.Fatalf("failed to prepare job: %v", err)
	}
	for _, f := range []struct {
		name string
		want string
	}{
		{
			name: "comma.db2",
			want: "YAL001C,0.5,1.25\n" +
				"YAL002W,-0.3,?\n" +
				"YAL003W,2,0.75\n",
		},
		{
			name: "comma.hd2",
			want: `num_db2_format_defs 2

number_of_attributes 3
separator_char ','

0 dummy nil "gene"
1 real location "t0" error 0.1
2 real location "t_1_" error 0.1
`,
		},
	} {
		got, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			t.Errorf("failed to read %s: %v", f.name, err)
			continue
		}
		if string(got) != f.want {
			var buf bytes.Buffer
			err := diff.Text("got", "want", string(got), f.want, &buf, write.TerminalColor())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			t.Errorf("unexpected %s:\n%s", f.name, &buf)
		}
	}
}

func TestWriteDB2Separator(t *testing.T) {
	for _, test := range []struct {
		name string
		data *dataset.Table
		want string
	}{
		{
			name: "row name",
			data: &dataset.Table{
				Index:   "gene",
				Rows:    []string{"g1", "g,2"},
				Columns: []*dataset.Column{{Name: "c", Kind: dataset.Discrete, Values: []string{"a", "b"}}},
			},
			want: `row name "g,2" contains separator`,
		},
		{
			name: "value",
			data: &dataset.Table{
				Index:   "gene",
				Rows:    []string{"g1", "g2"},
				Columns: []*dataset.Column{{Name: "c", Kind: dataset.Discrete, Values: []string{"a", "b,c"}}},
			},
			want: `value "b,c" in column "c" contains separator`,
		},
	} {
		j := NewJob()
		j.Separator = ','
		j.Data = test.data
		var buf bytes.Buffer
		err := j.WriteDB2(&buf)
		if err == nil {
			t.Errorf("expected error for separator in %s", test.name)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("unexpected error for %s: got:%v want:%s", test.name, err, test.want)
		}
	}
}

func TestWriteDB2NonFinite(t *testing.T) {
	j := NewJob()
	j.Data = &dataset.Table{
		Index:   "gene",
		Rows:    []string{"g1", "g2"},
		Columns: []*dataset.Column{{Name: "x", Kind: dataset.RealLocation, Values: []string{"1", "Inf"}}},
	}
	var buf bytes.Buffer
	err := j.WriteDB2(&buf)
	var cast *dataset.CastError
	if !errors.As(err, &cast) {
		t.Fatalf("expected cast error, got: %v", err)
	}
	if cast.Value != "Inf" {
		t.Errorf("unexpected cast error value: got:%q want:%q", cast.Value, "Inf")
	}
}

func TestParseJob(t *testing.T) {
	for _, test := range []struct {
		name    string
		src     string
		want    *Job
		wantErr bool
	}{
		{
			name: "defaults",
			src:  `input "a.tsv" { type = "discrete" }`,
			want: func() *Job {
				j := NewJob()
				j.Inputs = []Input{{Path: "a.tsv", Kind: dataset.Discrete}}
				return j
			}(),
		},
		{
			name: "overrides",
			src: `
stem           = "run1"
separator      = ","
binary         = "/opt/autoclass/autoclass"
tolerate_error = true

input "a.tsv" {
  type  = "real scalar"
  error = 0.05
}

search {
  max_n_tries = 10
  max_cycles  = 50
}

reports {
  xref_class_report_att_list = [0, 3]
  comment_data_headers_p     = false
}
`,
			want: func() *Job {
				j := NewJob()
				j.Stem = "run1"
				j.Separator = ','
				j.Binary = "/opt/autoclass/autoclass"
				j.TolerateError = true
				j.Inputs = []Input{{Path: "a.tsv", Kind: dataset.RealScalar, Error: 0.05}}
				j.Search.MaxTries = 10
				j.Search.MaxCycles = 50
				j.Reports.XrefAttributes = []int{0, 3}
				j.Reports.CommentHeaders = false
				return j
			}(),
		},
		{name: "missing error", src: `input "a.tsv" { type = "real location" }`, wantErr: true},
		{name: "bad type", src: `input "a.tsv" { type = "integer" }`, wantErr: true},
		{name: "bad separator", src: `separator = "::"`, wantErr: true},
		{name: "unknown attribute", src: `colour = "red"`, wantErr: true},
		{name: "syntax", src: `input "a.tsv" {`, wantErr: true},
	} {
		got, err := ParseJob([]byte(test.src), test.name+".hcl")
		if (err != nil) != test.wantErr {
			t.Errorf("unexpected error for %s: %v", test.name, err)
			continue
		}
		if test.wantErr {
			continue
		}
		if !cmp.Equal(got, test.want) {
			t.Errorf("unexpected job for %s:\n%s", test.name, cmp.Diff(got, test.want))
		}
	}
}

const fakeAutoclass = `#!/bin/sh
case "$1" in
-search)
	echo "search $2 $3 $4 $5"
	touch yeast.log yeast.results-bin yeast.search
	;;
-reports)
	echo "reports $2 $3 $4"
	touch yeast.rlog yeast.case-data-1
	;;
*)
	exit 2
	;;
esac
`

func TestRun(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "autoclass")
	err := os.WriteFile(bin, []byte(fakeAutoclass), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	j := NewJob()
	j.Stem = "yeast"
	j.Binary = bin
	dir := t.TempDir()

	state, err := j.Status(dir)
	if err != nil {
		t.Fatal(err)
	}
	if state != NotStarted {
		t.Errorf("unexpected state before run: got:%v want:%v", state, NotStarted)
	}

	var out bytes.Buffer
	err = j.Run(context.Background(), dir, &out)
	if err != nil {
		t.Fatalf("unexpected error running fake autoclass: %v", err)
	}
	wantOut := "search yeast.db2 yeast.hd2 yeast.model yeast.s-params\n" +
		"reports yeast.results-bin yeast.search yeast.r-params\n"
	if out.String() != wantOut {
		t.Errorf("unexpected output:\ngot: %q\nwant:%q", out.String(), wantOut)
	}

	state, err = j.Status(dir)
	if err != nil {
		t.Fatal(err)
	}
	if state != Done {
		t.Errorf("unexpected state after run: got:%v want:%v", state, Done)
	}

	err = os.Remove(filepath.Join(dir, "yeast.case-data-1"))
	if err != nil {
		t.Fatal(err)
	}
	state, _ = j.Status(dir)
	if state != Reporting {
		t.Errorf("unexpected state without case data: got:%v want:%v", state, Reporting)
	}

	err = os.Remove(filepath.Join(dir, "yeast.rlog"))
	if err != nil {
		t.Fatal(err)
	}
	state, _ = j.Status(dir)
	if state != Searching {
		t.Errorf("unexpected state without report log: got:%v want:%v", state, Searching)
	}
}

func TestRunTimeout(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "autoclass")
	err := os.WriteFile(bin, []byte("#!/bin/sh\nexec sleep 10\n"), 0o755)
	if err != nil {
		t.Fatal(err)
	}
	j := NewJob()
	j.Binary = bin

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = j.Run(ctx, t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected error from timed out autoclass")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "autoclass search failed") {
		t.Errorf("unexpected error: %v", err)
	}
	if d := time.Since(start); d > 5*time.Second {
		t.Errorf("run not stopped at deadline: took %v", d)
	}
}

func TestRunFailure(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "autoclass")
	err := os.WriteFile(bin, []byte("#!/bin/sh\necho 'error: no .db2 file' >&2\nexit 1\n"), 0o755)
	if err != nil {
		t.Fatal(err)
	}
	j := NewJob()
	j.Binary = bin
	var out bytes.Buffer
	err = j.Run(context.Background(), t.TempDir(), &out)
	if err == nil {
		t.Fatal("expected error from failing autoclass")
	}
	if !strings.Contains(err.Error(), "autoclass search failed") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "no .db2 file") {
		t.Errorf("expected stderr to be captured, got: %q", out.String())
	}

	j.Binary = filepath.Join(t.TempDir(), "missing")
	err = j.Run(context.Background(), t.TempDir(), nil)
	if err == nil {
		t.Error("expected error for missing executable")
	}
}
