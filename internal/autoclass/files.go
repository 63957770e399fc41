// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package autoclass

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kortschak/autoclass/internal/dataset"
)

var errNoData = errors.New("no data loaded")

// writeFile writes the file at path using fn.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	log.Printf("writing %s", path)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	err = fn(w)
	if err != nil {
		return err
	}
	return w.Flush()
}

// WriteDB2 writes the job's data in AutoClass .db2 format to w. Each
// row begins with its row name and missing values are written as
// j.MissingEncoding.
func (j *Job) WriteDB2(w io.Writer) error {
	if j.Data == nil {
		return errNoData
	}
	log.Printf("missing values will be encoded as %q", j.MissingEncoding)
	sep := string(j.Separator)
	for i, name := range j.Data.Rows {
		if strings.Contains(name, sep) {
			return fmt.Errorf("row name %q contains separator %q", name, sep)
		}
		_, err := io.WriteString(w, name)
		if err != nil {
			return err
		}
		for _, c := range j.Data.Columns {
			v, err := db2Value(c, i, j.MissingEncoding)
			if err != nil {
				return err
			}
			if strings.Contains(v, sep) {
				return fmt.Errorf("value %q in column %q contains separator %q", v, c.Name, sep)
			}
			_, err = fmt.Fprintf(w, "%s%s", sep, v)
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "\n")
		if err != nil {
			return err
		}
	}
	return nil
}

func db2Value(c *dataset.Column, row int, missing string) (string, error) {
	v := c.Values[row]
	if v == "" {
		return missing, nil
	}
	if !c.Kind.IsReal() {
		return v, nil
	}
	f, err := dataset.ParseFloat(v)
	if err != nil {
		return "", &dataset.CastError{Column: c.Name, Value: v}
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// WriteTSV writes the job's data as a tab-delimited table with a header
// to w. Missing values are written as empty cells. The table is used to
// aggregate AutoClass results with the input data.
func (j *Job) WriteTSV(w io.Writer) error {
	if j.Data == nil {
		return errNoData
	}
	names := make([]string, len(j.Data.Columns))
	for i, c := range j.Data.Columns {
		names[i] = c.Name
	}
	_, err := fmt.Fprintf(w, "%s\t%s\n", j.Data.Index, strings.Join(names, "\t"))
	if err != nil {
		return err
	}
	for i, name := range j.Data.Rows {
		_, err = io.WriteString(w, name)
		if err != nil {
			return err
		}
		for _, c := range j.Data.Columns {
			_, err = fmt.Fprintf(w, "\t%s", c.Values[i])
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "\n")
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteHD2 writes the AutoClass .hd2 header file describing the job's
// attributes to w. Attribute zero is the row name column.
func (j *Job) WriteHD2(w io.Writer) error {
	if j.Data == nil {
		return errNoData
	}
	_, err := fmt.Fprintf(w, "num_db2_format_defs 2\n\nnumber_of_attributes %d\nseparator_char '%c'\n\n",
		len(j.Data.Columns)+1, j.Separator)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "0 dummy nil %q\n", j.Data.Index)
	if err != nil {
		return err
	}
	for i, c := range j.Data.Columns {
		idx := i + 1
		switch c.Kind {
		case dataset.RealScalar:
			s, err := c.Describe()
			if err != nil {
				return err
			}
			if s.Count != 0 && s.Min < 0 {
				return fmt.Errorf("min value for %s should be >= 0.0", c.Name)
			}
			_, err = fmt.Fprintf(w, "%d real scalar %q zero_point 0.0 rel_error %s\n", idx, c.Name, formatFloat(c.Error))
			if err != nil {
				return err
			}
		case dataset.RealLocation:
			_, err = fmt.Fprintf(w, "%d real location %q error %s\n", idx, c.Name, formatFloat(c.Error))
			if err != nil {
				return err
			}
		case dataset.Discrete:
			_, err = fmt.Fprintf(w, "%d discrete nominal %q range %d\n", idx, c.Name, c.Distinct())
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid data type %q for column %s", c.Kind, c.Name)
		}
	}
	return nil
}

// WriteModel writes the AutoClass .model file to w. Real valued
// attributes without missing values are modelled by single_normal_cn,
// those with missing values by single_normal_cm and discrete attributes
// by single_multinomial.
func (j *Job) WriteModel(w io.Writer) error {
	if j.Data == nil {
		return errNoData
	}
	var normals, normalsMissing, multinomials []string
	for i, c := range j.Data.Columns {
		idx := strconv.Itoa(i + 1)
		switch {
		case c.Kind.IsReal() && !c.Missing:
			normals = append(normals, idx)
		case c.Kind.IsReal():
			normalsMissing = append(normalsMissing, idx)
		case c.Kind == dataset.Discrete:
			multinomials = append(multinomials, idx)
		}
	}

	models := []struct {
		name    string
		indices []string
	}{
		{name: "single_normal_cn", indices: normals},
		{name: "single_normal_cm", indices: normalsMissing},
		{name: "single_multinomial", indices: multinomials},
	}

	// The ignore model for the row names is always present.
	n := 1
	for _, m := range models {
		if len(m.indices) != 0 {
			n++
		}
	}
	_, err := fmt.Fprintf(w, "model_index 0 %d\nignore 0\n", n)
	if err != nil {
		return err
	}
	for _, m := range models {
		if len(m.indices) == 0 {
			continue
		}
		_, err = fmt.Fprintf(w, "%s %s\n", m.name, strings.Join(m.indices, " "))
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteSearchParams writes the AutoClass .s-params file to w.
func (j *Job) WriteSearchParams(w io.Writer) error {
	p := j.Search
	if len(p.StartJList) == 0 {
		return errors.New("empty start_j_list")
	}
	_, err := fmt.Fprintf(w, `screen_output_p = false
break_on_warnings_p = false
force_new_search_p = true
max_duration = %d
max_n_tries = %d
max_cycles = %d
start_j_list = %s
`, p.MaxDuration, p.MaxTries, p.MaxCycles, joinInts(p.StartJList))
	return err
}

// WriteReportParams writes the AutoClass .r-params file to w.
func (j *Job) WriteReportParams(w io.Writer) error {
	p := j.Reports
	_, err := fmt.Fprintf(w, "xref_class_report_att_list = %s\nreport_mode = %q\ncomment_data_headers_p = %t\n",
		joinInts(p.XrefAttributes), p.Mode, p.CommentHeaders)
	return err
}

// RunScript is the name of the shell script recording the AutoClass
// invocations for a job.
const RunScript = "run_autoclass.sh"

func (j *Job) writeRunScript(dir string) error {
	return writeFile(filepath.Join(dir, RunScript), func(w io.Writer) error {
		for _, args := range j.commands() {
			_, err := fmt.Fprintf(w, "%s %s\n", j.Binary, strings.Join(args, " "))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// commands returns the arguments for the AutoClass search and report
// invocations.
func (j *Job) commands() [][]string {
	return [][]string{
		{"-search", j.Stem + ".db2", j.Stem + ".hd2", j.Stem + ".model", j.Stem + ".s-params"},
		{"-reports", j.Stem + ".results-bin", j.Stem + ".search", j.Stem + ".r-params"},
	}
}

// Describe returns the contents of the job's parameter files in dir,
// each preceded by a banner holding the file name. Files that do not
// exist are skipped.
func (j *Job) Describe(dir string) (string, error) {
	banner := strings.Repeat("-", 74)
	var buf strings.Builder
	for _, name := range []string{
		j.Stem + ".hd2",
		j.Stem + ".model",
		j.Stem + ".s-params",
		j.Stem + ".r-params",
		RunScript,
	} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", err
		}
		fmt.Fprintf(&buf, "\n%s\n%s\n%s\n%s", banner, name, banner, b)
	}
	return buf.String(), nil
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ", ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
