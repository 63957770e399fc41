// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

const proteins = `# proteome table
Protein	mass	pI
P1	12.5	5.1
P2	NA	7.2
P3	40	
`

func TestDecode(t *testing.T) {
	got, err := Decode(strings.NewReader(proteins), RealScalar, 0.01)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Table{
		Index: "Protein",
		Rows:  []string{"P1", "P2", "P3"},
		Columns: []*Column{
			{Name: "mass", Kind: RealScalar, Error: 0.01, Values: []string{"12.5", "", "40"}},
			{Name: "pI", Kind: RealScalar, Error: 0.01, Values: []string{"5.1", "7.2", ""}},
		},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected table:\n%s", cmp.Diff(got, want))
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		in   string
		kind Kind
		want error
	}{
		{name: "duplicate", in: "id\ta\ta\nx\t1\t2\n", kind: Discrete, want: &DuplicateColumnError{}},
		{name: "kind", in: "id\ta\nx\t1\n", kind: "real vector"},
		{name: "empty", in: "", kind: Discrete},
		{name: "ragged", in: "id\ta\tb\nx\t1\n", kind: Discrete},
		{name: "duplicate row", in: "gene\tx\ng1\t1\ng1\t2\ng2\t3\n", kind: RealLocation, want: &DuplicateRowError{}},
	} {
		_, err := Decode(strings.NewReader(test.in), test.kind, 0)
		if err == nil {
			t.Errorf("expected error for %s", test.name)
			continue
		}
		switch test.want.(type) {
		case *DuplicateColumnError:
			var dup *DuplicateColumnError
			if !errors.As(err, &dup) {
				t.Errorf("unexpected error type for %s: %T", test.name, err)
			}
		case *DuplicateRowError:
			var dup *DuplicateRowError
			if !errors.As(err, &dup) {
				t.Errorf("unexpected error type for %s: %T", test.name, err)
			} else if dup.Row != "g1" {
				t.Errorf("unexpected duplicate row for %s: got:%q want:%q", test.name, dup.Row, "g1")
			}
		}
	}
}

func TestFloatsNonFinite(t *testing.T) {
	for _, v := range []string{"Inf", "inf", "-Infinity", "NAN", "0x1p-2", "1e400", "abc"} {
		c := &Column{Name: "x", Kind: RealLocation, Values: []string{"1", v}}
		_, _, err := c.Floats()
		var cast *CastError
		if !errors.As(err, &cast) {
			t.Errorf("expected cast error for %q, got: %v", v, err)
		}
	}
	c := &Column{Name: "x", Kind: RealLocation, Values: []string{"1", "-2.5e-3", "", "+4"}}
	got, ok, err := c.Floats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cmp.Equal(got, []float64{1, -2.5e-3, 0, 4}) || !cmp.Equal(ok, []bool{true, true, false, true}) {
		t.Errorf("unexpected floats: got:%v present:%v", got, ok)
	}
}

func TestReadLatin1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin1.tsv")
	// "Gène\tcaractéristique" in ISO-8859-1 followed by rows.
	data := []byte("G\xe8ne\tcaract\xe9ristique\tp\xe9riode\n" +
		"a\tr\xe9sum\xe9\tpr\xe9c\xe9dent\n" +
		"b\tcaf\xe9\tr\xe9p\xe9t\xe9\n")
	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := Read(path, Discrete, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utf8.ValidString(tab.Index) {
		t.Errorf("index name not decoded to UTF-8: %q", tab.Index)
	}
	for _, c := range tab.Columns {
		if !utf8.ValidString(c.Name) {
			t.Errorf("column name not decoded to UTF-8: %q", c.Name)
		}
	}
	if len(tab.Rows) != 2 || len(tab.Columns) != 2 {
		t.Errorf("unexpected dimensions: got:%dx%d want:2x2", len(tab.Rows), len(tab.Columns))
	}
}

func TestCleanName(t *testing.T) {
	for _, test := range []struct {
		in, want string
	}{
		{in: "mass", want: "mass"},
		{in: "log2(ratio)", want: "log2_ratio_"},
		{in: "a b.c+d-e", want: "a b.c+d-e"},
		{in: "x%%%y", want: "x_y"},
		{in: "température", want: "temp_rature"},
	} {
		got := CleanName(test.in)
		if got != test.want {
			t.Errorf("unexpected clean name for %q: got:%q want:%q", test.in, got, test.want)
		}
	}
}

func TestCheckTypes(t *testing.T) {
	tab, err := Decode(strings.NewReader("id\tx\ty\na\t1\tz\nb\t2\t3\n"), RealLocation, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	err = tab.CheckTypes()
	var cast *CastError
	if !errors.As(err, &cast) {
		t.Fatalf("expected cast error, got: %v", err)
	}
	if cast.Column != "y" || cast.Value != "z" {
		t.Errorf("unexpected cast error: %+v", cast)
	}

	tab.Columns[1].Kind = Discrete
	err = tab.CheckTypes()
	if err != nil {
		t.Errorf("unexpected error after retyping: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	c := &Column{Name: "x", Kind: RealScalar, Values: []string{"1", "", "3", "2"}}
	got, err := c.Describe()
	if err != nil {
		t.Fatal(err)
	}
	want := Summary{Count: 3, Mean: 2, StdDev: 1, Min: 1, Max: 3}
	if got != want {
		t.Errorf("unexpected summary: got:%+v want:%+v", got, want)
	}
}

func TestMerge(t *testing.T) {
	a, err := Decode(strings.NewReader("gene\tx\ng1\t1\ng2\t2\n"), RealScalar, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Decode(strings.NewReader("id\tc\ng2\tred\ng3\tblue\n"), Discrete, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Merge(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Table{
		Index: "gene",
		Rows:  []string{"g1", "g2", "g3"},
		Columns: []*Column{
			{Name: "x", Kind: RealScalar, Error: 0.01, Values: []string{"1", "2", ""}},
			{Name: "c", Kind: Discrete, Values: []string{"", "red", "blue"}},
		},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected merge:\n%s", cmp.Diff(got, want))
	}

	missing := got.FindMissing()
	if !cmp.Equal(missing, []string{"x", "c"}) {
		t.Errorf("unexpected missing columns: %v", missing)
	}
	for _, c := range got.Columns {
		if !c.Missing {
			t.Errorf("column %q not marked as missing", c.Name)
		}
	}

	_, err = Merge(a, a)
	var dup *DuplicateColumnError
	if !errors.As(err, &dup) {
		t.Errorf("expected duplicate column error, got: %v", err)
	}
}

func TestMergeDuplicateRows(t *testing.T) {
	a := &Table{
		Index:   "gene",
		Rows:    []string{"g1", "g1", "g2"},
		Columns: []*Column{{Name: "x", Kind: RealLocation, Values: []string{"1", "2", "3"}}},
	}
	b := &Table{
		Index:   "gene",
		Rows:    []string{"g1", "g2"},
		Columns: []*Column{{Name: "c", Kind: Discrete, Values: []string{"red", "blue"}}},
	}
	for _, tables := range [][]*Table{{a}, {a, b}, {b, a}} {
		_, err := Merge(tables...)
		var dup *DuplicateRowError
		if !errors.As(err, &dup) {
			t.Errorf("expected duplicate row error merging %d tables, got: %v", len(tables), err)
			continue
		}
		if dup.Row != "g1" {
			t.Errorf("unexpected duplicate row: got:%q want:%q", dup.Row, "g1")
		}
	}
}

func TestInferKinds(t *testing.T) {
	tab, err := Decode(strings.NewReader("id\tx\ty\tz\na\t1\tred\t\nb\t2e-3\t4\t\n"), Discrete, 0)
	if err != nil {
		t.Fatal(err)
	}
	tab.InferKinds()
	want := []Kind{RealLocation, Discrete, RealLocation}
	for i, c := range tab.Columns {
		if c.Kind != want[i] {
			t.Errorf("unexpected kind for %q: got:%q want:%q", c.Name, c.Kind, want[i])
		}
	}
}
