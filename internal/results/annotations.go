// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package results

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/kortschak/gogo"
)

// ReadAnnotations returns a graph holding the GO term annotations in the
// gzip compressed RDF N-Triples or N-Quads file at path. The statements
// are expected to be in the following form:
//
//  <obo:GO_0000000> <local:annotates> <ensembl:ENSG00000000000> .
//
// Only annotations of identifiers in rows are added to the graph.
func ReadAnnotations(path string, rows []string) (*gogo.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	return DecodeAnnotations(r, rows)
}

// DecodeAnnotations returns a graph holding the GO term annotations read
// from r for the identifiers in rows.
func DecodeAnnotations(r io.Reader, rows []string) (*gogo.Graph, error) {
	keep := make(map[string]bool, len(rows))
	for _, id := range rows {
		keep[id] = true
	}

	g := gogo.NewGraph()
	dec := rdf.NewDecoder(r)
	for {
		s, err := dec.Unmarshal()
		if err != nil {
			if err == io.EOF {
				return g, nil
			}
			return nil, err
		}
		if s.Predicate.Value != "<local:annotates>" || !strings.HasPrefix(s.Subject.Value, "<obo:GO_") {
			continue
		}

		// Only keep annotations needed for the classified rows.
		if !keep[localName(s.Object.Value)] {
			continue
		}

		s.Subject.UID = 0
		s.Predicate.UID = 0
		s.Object.UID = 0
		g.AddStatement(s)
	}
}

// localName returns the local part of a prefixed IRI term,
// <prefix:name> or <http://host/path/name>.
func localName(iri string) string {
	iri = strings.TrimSuffix(strings.TrimPrefix(iri, "<"), ">")
	if i := strings.LastIndexAny(iri, "/#"); i >= 0 {
		return iri[i+1:]
	}
	if i := strings.Index(iri, ":"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

// TermCount is the number of members of a class annotated with a GO term.
type TermCount struct {
	Class int
	Term  string
	Count int

	// Fraction is the fraction of
	// class members annotated with
	// the term.
	Fraction float64
}

// TermsByClass returns the GO terms annotating the members of each class
// in g ordered by class, decreasing count and term.
func (c *Classification) TermsByClass(g *gogo.Graph) []TermCount {
	prefixes := annotatedPrefixes(g)

	counts := make([]map[string]int, c.Results.Classes)
	for k := range counts {
		counts[k] = make(map[string]int)
	}
	for i, id := range c.Data.Rows {
		k := c.Results.Cases[i].Class()

		// An identifier may be annotated under more than one prefix
		// but counts once per term.
		annotated := make(map[string]bool)
		for _, p := range prefixes {
			from, ok := g.TermFor(p + id + ">")
			if !ok {
				continue
			}
			terms := g.Query(from).In(func(s *rdf.Statement) bool {
				return s.Predicate.Value == "<local:annotates>"
			}).Unique().Result()
			for _, t := range terms {
				annotated[goID(t.Value)] = true
			}
		}
		for t := range annotated {
			counts[k][t]++
		}
	}

	sizes := c.Results.Sizes()
	var tc []TermCount
	for k, terms := range counts {
		for t, n := range terms {
			tc = append(tc, TermCount{Class: k, Term: t, Count: n, Fraction: float64(n) / float64(sizes[k])})
		}
	}
	sort.Slice(tc, func(i, j int) bool {
		switch {
		case tc[i].Class != tc[j].Class:
			return tc[i].Class < tc[j].Class
		case tc[i].Count != tc[j].Count:
			return tc[i].Count > tc[j].Count
		default:
			return tc[i].Term < tc[j].Term
		}
	})
	return tc
}

// annotatedPrefixes returns the IRI prefixes, up to and including the
// separator before the local name, of the annotated identifiers in g.
func annotatedPrefixes(g *gogo.Graph) []string {
	seen := make(map[string]bool)
	nodes := g.Nodes()
	for nodes.Next() {
		t := nodes.Node().(rdf.Term)
		if strings.HasPrefix(t.Value, "<obo:GO_") || !strings.HasPrefix(t.Value, "<") {
			continue
		}
		local := localName(t.Value)
		p := strings.TrimSuffix(t.Value, local+">")
		if p != t.Value {
			seen[p] = true
		}
	}
	prefixes := make([]string, 0, len(seen))
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// goID returns the GO:0000000 form of an <obo:GO_0000000> term.
func goID(term string) string {
	return "GO:" + strings.TrimSuffix(strings.TrimPrefix(term, "<obo:GO_"), ">")
}

// WriteTerms writes the GO term counts in tc to w as a tab-delimited table.
func WriteTerms(w io.Writer, tc []TermCount) error {
	_, err := fmt.Fprintln(w, "class\tterm\tcount\tfraction")
	if err != nil {
		return err
	}
	for _, t := range tc {
		_, err = fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", t.Class, t.Term, t.Count, formatFloat(t.Fraction))
		if err != nil {
			return err
		}
	}
	return nil
}
