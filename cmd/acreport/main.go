// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// acreport reads the results of an AutoClass C classification prepared
// by acwrap and writes tables, plots and a dendrogram summarising the
// classes.
//
// The case to class cross reference is read from <stem>.case-data-1 which
// AutoClass writes when the reports are run in data mode. It is joined
// to the classified data held in <stem>.tsv.
//
// The following files are written to the results directory.
//
//  <stem>_out.tsv            the data with class assignments and probabilities
//  <stem>_stats.tsv          per class mean and standard deviation of real columns
//  <stem>.cdt                real columns ordered by class for Java TreeView
//  <stem>_withprobs.cdt      as above with class membership probabilities
//  <stem>_dendrogram.nwk     average linkage dendrogram of class means
//  <stem>_dendrogram.png     plot of the dendrogram
//  <stem>_sizes.png          class size bar chart
//  <stem>_probabilities.png  box plot of class membership probabilities
//  <stem>_go.tsv             GO terms annotating each class if -map is given
//
// The GO mapping is expected to be gzip compressed RDF N-Triples or
// N-Quads in the form:
//
//  <obo:GO_0000000> <local:annotates> <ensembl:ENSG00000000000> .
//
// for each GO term to gene annotation.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kortschak/autoclass/internal/autoclass"
	"github.com/kortschak/autoclass/internal/results"
)

func main() {
	var (
		dir     = flag.String("dir", ".", "specify the results directory")
		stem    = flag.String("stem", "clust", "specify the AutoClass file stem")
		mappath = flag.String("map", "", "specify the gene to GO mapping (.nt.gz/.nq.gz)")
		probs   = flag.Bool("probs", true, "write a .cdt file with class probabilities")
		archive = flag.Bool("zip", false, "archive the input and result files")
		help    = flag.Bool("help", false, "print help text")
	)
	flag.Parse()

	if *help {
		flag.Usage()
		fmt.Fprintf(os.Stderr, `
%s reads the results of an AutoClass C classification prepared by
acwrap and writes tables, plots and a dendrogram summarising the classes.

The case to class cross reference is read from <stem>.case-data-1 which
AutoClass writes when the reports are run in data mode. It is joined to
the classified data held in <stem>.tsv.

The following files are written to the results directory.

  <stem>_out.tsv            the data with class assignments and probabilities
  <stem>_stats.tsv          per class mean and standard deviation of real columns
  <stem>.cdt                real columns ordered by class for Java TreeView
  <stem>_withprobs.cdt      as above with class membership probabilities
  <stem>_dendrogram.nwk     average linkage dendrogram of class means
  <stem>_dendrogram.png     plot of the dendrogram
  <stem>_sizes.png          class size bar chart
  <stem>_probabilities.png  box plot of class membership probabilities
  <stem>_go.tsv             GO terms annotating each class if -map is given

The GO mapping is expected to be gzip compressed RDF N-Triples or
N-Quads in the form:

 <obo:GO_0000000> <local:annotates> <ensembl:ENSG00000000000> .

for each GO term to gene annotation.

If -zip is given, the AutoClass input and result files are archived in
autoclass-<date>-<time>.zip in the results directory.

Copyright ©2021 Dan Kortschak. All rights reserved.

`, filepath.Base(os.Args[0]))
		os.Exit(0)
	}

	log.Println(os.Args)
	path := func(suffix string) string {
		return filepath.Join(*dir, *stem+suffix)
	}

	log.Println("[reading classification]")
	res, err := results.ReadCaseData(path(".case-data-1"))
	if err != nil {
		log.Fatalf("failed to read AutoClass results: %v", err)
	}
	data, err := results.ReadData(path(".tsv"))
	if err != nil {
		log.Fatalf("failed to read classified data: %v", err)
	}
	c, err := results.Aggregate(data, res)
	if err != nil {
		log.Fatalf("failed to aggregate results: %v", err)
	}

	log.Println("[writing tables]")
	for _, out := range []struct {
		suffix string
		fn     func(io.Writer) error
	}{
		{suffix: "_out.tsv", fn: c.WriteTable},
		{suffix: "_stats.tsv", fn: c.WriteStats},
		{suffix: ".cdt", fn: func(w io.Writer) error { return c.WriteCDT(w, false) }},
	} {
		err = results.WriteFile(path(out.suffix), out.fn)
		if err != nil {
			log.Fatalf("failed to write %s: %v", path(out.suffix), err)
		}
	}
	if *probs {
		err = results.WriteFile(path("_withprobs.cdt"), func(w io.Writer) error { return c.WriteCDT(w, true) })
		if err != nil {
			log.Fatalf("failed to write %s: %v", path("_withprobs.cdt"), err)
		}
	}

	log.Println("[clustering class means]")
	means, _, err := c.Means()
	if err != nil {
		log.Fatalf("failed to calculate class means: %v", err)
	}
	root := results.Dendrogram(means)
	if root == nil {
		log.Println("no real valued class means: skipping dendrogram")
	} else {
		err = results.WriteFile(path("_dendrogram.nwk"), func(w io.Writer) error {
			return results.WriteNewick(w, root)
		})
		if err != nil {
			log.Fatalf("failed to write dendrogram: %v", err)
		}
		err = results.PlotDendrogram(path("_dendrogram.png"), root)
		if err != nil {
			log.Printf("failed to plot dendrogram: %v", err)
		}
	}

	log.Println("[plotting class summaries]")
	err = res.PlotSizes(path("_sizes.png"))
	if err != nil {
		log.Printf("failed to plot class sizes: %v", err)
	}
	err = res.PlotProbabilities(path("_probabilities.png"))
	if err != nil {
		log.Printf("failed to plot class probabilities: %v", err)
	}

	if *mappath != "" {
		log.Println("[loading gene to ontology mappings]")
		g, err := results.ReadAnnotations(*mappath, data.Rows)
		if err != nil {
			log.Fatalf("failed to load GO mappings: %v", err)
		}
		terms := c.TermsByClass(g)
		log.Printf("found %d class GO term annotations", len(terms))
		err = results.WriteFile(path("_go.tsv"), func(w io.Writer) error {
			return results.WriteTerms(w, terms)
		})
		if err != nil {
			log.Fatalf("failed to write GO terms: %v", err)
		}
	}

	if *archive {
		log.Println("[archiving results]")
		dst := filepath.Join(*dir, results.ArchiveName(time.Now()))
		err = results.Archive(dst, *dir, *stem, filepath.Join(*dir, autoclass.RunScript))
		if err != nil {
			log.Fatalf("failed to archive results: %v", err)
		}
	}
}
