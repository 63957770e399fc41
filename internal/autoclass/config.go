// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package autoclass

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/kortschak/autoclass/internal/dataset"
)

// jobFile is the decoding target for an HCL job file. Optional
// attributes that are absent leave the defaults from NewJob in place.
type jobFile struct {
	Stem            *string `hcl:"stem,optional"`
	Separator       *string `hcl:"separator,optional"`
	MissingEncoding *string `hcl:"missing_encoding,optional"`
	Binary          *string `hcl:"binary,optional"`
	TolerateError   *bool   `hcl:"tolerate_error,optional"`

	Inputs  []inputBlock  `hcl:"input,block"`
	Search  *searchBlock  `hcl:"search,block"`
	Reports *reportsBlock `hcl:"reports,block"`
}

type inputBlock struct {
	Path  string   `hcl:"path,label"`
	Type  string   `hcl:"type"`
	Error *float64 `hcl:"error,optional"`
}

type searchBlock struct {
	MaxDuration *int  `hcl:"max_duration,optional"`
	MaxTries    *int  `hcl:"max_n_tries,optional"`
	MaxCycles   *int  `hcl:"max_cycles,optional"`
	StartJList  []int `hcl:"start_j_list,optional"`
}

type reportsBlock struct {
	XrefAttributes []int   `hcl:"xref_class_report_att_list,optional"`
	Mode           *string `hcl:"report_mode,optional"`
	CommentHeaders *bool   `hcl:"comment_data_headers_p,optional"`
}

// LoadJob returns the job described by the HCL file at path. Relative
// input paths are resolved against the directory holding the job file.
func LoadJob(path string) (*Job, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, diags)
	}
	return decodeJob(path, filepath.Dir(path), f.Body)
}

// ParseJob returns the job described by the HCL source in src. The
// filename is used in diagnostics and input paths are used as given.
func ParseJob(src []byte, filename string) (*Job, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse job file %s: %w", filename, diags)
	}
	return decodeJob(filename, "", f.Body)
}

func decodeJob(filename, base string, body hcl.Body) (*Job, error) {
	var cfg jobFile
	diags := gohcl.DecodeBody(body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode job file %s: %w", filename, diags)
	}

	j := NewJob()
	if cfg.Stem != nil {
		j.Stem = *cfg.Stem
	}
	if cfg.Separator != nil {
		sep := *cfg.Separator
		if utf8.RuneCountInString(sep) != 1 {
			return nil, fmt.Errorf("invalid separator %q in %s: must be a single character", sep, filename)
		}
		j.Separator, _ = utf8.DecodeRuneInString(sep)
	}
	if cfg.MissingEncoding != nil {
		j.MissingEncoding = *cfg.MissingEncoding
	}
	if cfg.Binary != nil {
		j.Binary = *cfg.Binary
	}
	if cfg.TolerateError != nil {
		j.TolerateError = *cfg.TolerateError
	}

	for _, in := range cfg.Inputs {
		kind, err := dataset.ParseKind(in.Type)
		if err != nil {
			return nil, fmt.Errorf("input %s in %s: %w", in.Path, filename, err)
		}
		var measErr float64
		switch {
		case in.Error != nil:
			measErr = *in.Error
		case kind.IsReal():
			return nil, fmt.Errorf("input %s in %s: error is required for %q data", in.Path, filename, kind)
		}
		path := in.Path
		if base != "" && !filepath.IsAbs(path) {
			path = filepath.Join(base, path)
		}
		err = j.AddInput(path, kind, measErr)
		if err != nil {
			return nil, err
		}
	}

	if s := cfg.Search; s != nil {
		if s.MaxDuration != nil {
			j.Search.MaxDuration = *s.MaxDuration
		}
		if s.MaxTries != nil {
			j.Search.MaxTries = *s.MaxTries
		}
		if s.MaxCycles != nil {
			j.Search.MaxCycles = *s.MaxCycles
		}
		if s.StartJList != nil {
			j.Search.StartJList = s.StartJList
		}
	}
	if r := cfg.Reports; r != nil {
		if r.XrefAttributes != nil {
			j.Reports.XrefAttributes = r.XrefAttributes
		}
		if r.Mode != nil {
			j.Reports.Mode = *r.Mode
		}
		if r.CommentHeaders != nil {
			j.Reports.CommentHeaders = *r.CommentHeaders
		}
	}
	return j, nil
}
