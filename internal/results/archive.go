// Copyright ©2021 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package results

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// ArchiveName returns the name of the results archive for a run
// finished at t.
func ArchiveName(t time.Time) string {
	return "autoclass-" + t.Format("2006-01-02-15-04-05") + ".zip"
}

// Archive writes a zip archive at dst holding every regular file in dir
// whose name begins with stem and the files named in extra. Archived
// files are stored under their base names. Missing extra files are
// skipped.
func Archive(dst, dir, stem string, extra ...string) (err error) {
	matches, err := filepath.Glob(filepath.Join(dir, stem+"*"))
	if err != nil {
		return err
	}
	files := append(matches, extra...)
	sort.Strings(files)

	log.Printf("writing %s", dst)
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()

	z := zip.NewWriter(f)
	seen := make(map[string]bool)
	for _, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if seen[abs] || sameFile(abs, dst) || strings.HasSuffix(path, ".zip") {
			continue
		}
		seen[abs] = true
		err = addFile(z, path)
		if err != nil {
			return err
		}
	}
	return z.Close()
}

func sameFile(a, b string) bool {
	b, err := filepath.Abs(b)
	return err == nil && a == b
}

func addFile(z *zip.Writer, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("skipping missing file %s", path)
			return nil
		}
		return err
	}
	if !fi.Mode().IsRegular() {
		return nil
	}
	hdr, err := zip.FileInfoHeader(fi)
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(path)
	hdr.Method = zip.Deflate
	w, err := z.CreateHeader(hdr)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
