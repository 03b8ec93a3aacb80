package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dgallion1/qagen/internal/parser"
)

// discoverInputs resolves the input selectors into a sorted, deduplicated
// list of supported document paths. input may name a file, a directory, or
// a glob pattern; inputDir always names a directory. At least one document
// must be found.
func discoverInputs(input, inputDir string) ([]string, error) {
	var paths []string

	if input != "" {
		info, err := os.Stat(input)
		switch {
		case err == nil && info.IsDir():
			found, err := listSupported(input)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
		case err == nil:
			if !parser.IsSupportedExtension(input) {
				return nil, fmt.Errorf("unsupported input file: %s", input)
			}
			paths = append(paths, input)
		default:
			matches, globErr := filepath.Glob(input)
			if globErr != nil {
				return nil, fmt.Errorf("bad input pattern %q: %w", input, globErr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("input %s: no such file and no glob matches", input)
			}
			for _, m := range matches {
				if parser.IsSupportedExtension(m) {
					paths = append(paths, m)
				}
			}
		}
	}

	if inputDir != "" {
		found, err := listSupported(inputDir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}

	sort.Strings(paths)
	paths = dedupe(paths)

	if len(paths) == 0 {
		return nil, errors.New("no input documents found: pass --input or --input-dir")
	}
	return paths, nil
}

func listSupported(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if parser.IsSupportedExtension(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, p := range sorted {
		if i == 0 || sorted[i-1] != p {
			out = append(out, p)
		}
	}
	return out
}
