package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// Open loads a flight table from a file. Plain .csv files are read
// directly, .zst files are zstd-decompressed, and .zip archives are read
// from their first .csv member.
func Open(path string, columns Columns, opts *LoadOptions) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return openZip(path, columns, opts)
	case ".zst", ".zstd":
		return openZstd(path, columns, opts)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	return Load(f, columns, opts)
}

func openZip(path string, columns Columns, opts *LoadOptions) (*Table, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open zip: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("dataset: open %s in %s: %w", f.Name, path, err)
		}
		defer rc.Close()
		return Load(rc, columns, opts)
	}
	return nil, fmt.Errorf("dataset: %s contains no csv file", path)
}

func openZstd(path string, columns Columns, opts *LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: zstd reader: %w", err)
	}
	defer dec.Close()
	return Load(io.Reader(dec), columns, opts)
}
