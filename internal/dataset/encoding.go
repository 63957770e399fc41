// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"bytes"
	"io"
	"io/ioutil"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// decodedReader returns a reader holding the UTF-8 decoding of the data
// in r and the name of the detected source encoding.
func decodedReader(r io.Reader) (io.Reader, string, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	name := detectEncoding(b)
	switch strings.ToLower(name) {
	case "utf-8", "ascii", "us-ascii":
		return bytes.NewReader(b), name, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		log.Printf("no decoder for %s: reading as UTF-8", name)
		return bytes.NewReader(b), name, nil
	}
	return transform.NewReader(bytes.NewReader(b), enc.NewDecoder()), name, nil
}

// detectEncoding returns the most likely character encoding of b.
// Valid UTF-8 and inputs the detector cannot classify are reported
// as UTF-8.
func detectEncoding(b []byte) string {
	if utf8.Valid(b) {
		return "UTF-8"
	}
	res, err := chardet.NewTextDetector().DetectBest(b)
	if err != nil || res.Charset == "" {
		return "UTF-8"
	}
	return res.Charset
}
